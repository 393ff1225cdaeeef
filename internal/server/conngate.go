package server

import (
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/emberhollow/delvegen/internal/config"
)

// connGate caps concurrent websocket sessions, per client IP and overall.
// A zero limit disables that cap.
type connGate struct {
	perIP int
	total int

	mu     sync.Mutex
	byIP   map[string]int
	active int
}

func newConnGate(cfg config.ConnectionsConfig) *connGate {
	return &connGate{
		perIP: cfg.MaxPerIP,
		total: cfg.MaxTotal,
		byIP:  make(map[string]int),
	}
}

// admit reserves a session slot for ip. The caller must release the slot
// when the connection ends, including when the upgrade itself fails.
func (g *connGate) admit(ip string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.total > 0 && g.active >= g.total {
		return false
	}
	if g.perIP > 0 && g.byIP[ip] >= g.perIP {
		return false
	}
	g.byIP[ip]++
	g.active++
	return true
}

// release returns a slot reserved by admit.
func (g *connGate) release(ip string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.byIP[ip] > 0 {
		g.byIP[ip]--
		if g.byIP[ip] == 0 {
			delete(g.byIP, ip)
		}
	}
	if g.active > 0 {
		g.active--
	}
}

// clientIP resolves the address the gate keys on. Proxy headers win over the
// socket address so the limits apply to the real client behind a reverse
// proxy rather than to the proxy itself.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// First hop is the originating client.
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
