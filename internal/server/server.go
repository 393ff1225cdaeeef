// Package server exposes room generation over a WebSocket protocol: a client
// binds a session to a story seed, then moves through the dungeon receiving
// fully assembled room payloads while adjacent rooms prefetch in the
// background.
package server

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/emberhollow/delvegen/internal/biome"
	"github.com/emberhollow/delvegen/internal/cache"
	"github.com/emberhollow/delvegen/internal/config"
	"github.com/emberhollow/delvegen/internal/dungeon"
	"github.com/emberhollow/delvegen/internal/logger"
	"github.com/emberhollow/delvegen/internal/narrative"
	"github.com/emberhollow/delvegen/internal/room"
)

// Server accepts WebSocket connections and runs one Session per connection.
type Server struct {
	cfg       *config.ServerConfig
	biomes    *biome.Registry
	narrative narrative.Service
	store     cache.Store
	enhancer  room.Enhancer
	conns     *connGate

	mu       sync.Mutex
	sessions map[string]*Session

	httpServer   *http.Server
	shutdownOnce sync.Once
}

// NewServer wires the server. narrative and enhancer may be nil; sessions
// then run on the deterministic fallbacks.
func NewServer(cfg *config.ServerConfig, biomes *biome.Registry, svc narrative.Service, store cache.Store) *Server {
	return &Server{
		cfg:       cfg,
		biomes:    biomes,
		narrative: svc,
		store:     store,
		conns:     newConnGate(cfg.Connections),
		sessions:  make(map[string]*Session),
	}
}

// SetEnhancer installs the cosmetic enhancer applied to generated rooms.
func (s *Server) SetEnhancer(e room.Enhancer) {
	s.enhancer = e
}

// Start listens for WebSocket connections on address until Shutdown.
func (s *Server) Start(address string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocketUpgrade)

	s.httpServer = &http.Server{
		Addr:    address,
		Handler: mux,
	}

	logger.Info("WebSocket server listening", "address", address)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops accepting connections and closes the backing store.
func (s *Server) Shutdown() {
	s.shutdownOnce.Do(func() {
		if s.httpServer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.httpServer.Shutdown(ctx); err != nil {
				logger.Error("HTTP shutdown failed", "error", err)
			}
		}
		if err := s.store.Close(); err != nil {
			logger.Error("store close failed", "error", err)
		}
		logger.Info("server shutdown complete")
	})
}

// handleWebSocketUpgrade upgrades an HTTP connection to WebSocket. The gate
// slot is reserved before the upgrade and follows the connection's lifetime.
func (s *Server) handleWebSocketUpgrade(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)
	if !s.conns.admit(ip) {
		logger.Warning("connection rejected, limit exceeded", "remote_addr", r.RemoteAddr, "client_ip", ip)
		http.Error(w, "Too many connections. Please try again later.", http.StatusTooManyRequests)
		return
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			allowed := s.cfg.WebSocket.IsOriginAllowed(origin, r.Host)
			if !allowed {
				logger.Warning("connection rejected, origin not allowed",
					"origin", origin,
					"host", r.Host,
					"remote_addr", r.RemoteAddr)
			}
			return allowed
		},
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", "error", err)
		s.conns.release(ip)
		return
	}

	go s.handleConnection(wsConn, ip)
}

// handleConnection runs the message loop for one client session.
func (s *Server) handleConnection(conn *websocket.Conn, ip string) {
	defer func() {
		s.conns.release(ip)
		conn.Close()
	}()

	if s.cfg.WebSocket.MaxMessageSize > 0 {
		conn.SetReadLimit(s.cfg.WebSocket.MaxMessageSize)
	}

	retention := s.cfg.Cache.Retention
	ttl := time.Duration(s.cfg.Cache.TTLHours) * time.Hour
	persistent := cache.NewPersistent(s.store, retention, ttl, logger.Logger())
	sess := newSession(persistent)

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.sessions, sess.ID)
		s.mu.Unlock()
	}()

	logger.Info("session opened", "session", sess.ID, "client_ip", ip)
	ctx := context.Background()

	for {
		var msg clientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warning("connection dropped", "session", sess.ID, "error", err)
			}
			return
		}

		reply := s.dispatch(ctx, sess, msg)
		if err := conn.WriteJSON(reply); err != nil {
			logger.Warning("write failed", "session", sess.ID, "error", err)
			return
		}
	}
}

// dispatch handles one client message and builds the reply.
func (s *Server) dispatch(ctx context.Context, sess *Session, msg clientMessage) serverMessage {
	switch strings.ToLower(msg.Type) {
	case "start":
		mode, _ := narrative.ParseMode(msg.Mode)
		if msg.Mode == "" {
			mode, _ = narrative.ParseMode(s.cfg.Generation.DefaultMode)
		}
		mapNumber := msg.MapNumber
		if mapNumber <= 0 {
			mapNumber = s.cfg.Generation.DefaultMapNumber
		}
		r, err := sess.Start(ctx, s, msg.Seed, msg.Story, mode, mapNumber)
		if err != nil {
			return errorMessage(err)
		}
		sess.Prefetch(ctx)
		return serverMessage{
			Type: "room",
			Room: toRoomPayload(r, r.TileMap.SpawnPoint, sess.OpenExits()),
		}

	case "move":
		dir, ok := dungeon.ParseDirection(msg.Direction)
		if !ok {
			return serverMessage{Type: "error", Message: "unknown direction " + msg.Direction}
		}
		r, spawn, err := sess.Move(ctx, dir)
		if err != nil {
			return errorMessage(err)
		}
		sess.Prefetch(ctx)
		return serverMessage{
			Type: "room",
			Room: toRoomPayload(r, spawn, sess.OpenExits()),
		}

	case "interact":
		r, err := sess.Interact(msg.ObjectID)
		if err != nil {
			return errorMessage(err)
		}
		o := r.FindObject(msg.ObjectID)
		payload := toObject(o)
		return serverMessage{Type: "interaction", Object: &payload}

	default:
		return serverMessage{Type: "error", Message: "unknown message type " + msg.Type}
	}
}

func errorMessage(err error) serverMessage {
	return serverMessage{Type: "error", Message: err.Error()}
}
