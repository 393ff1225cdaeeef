package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/emberhollow/delvegen/internal/cache"
	"github.com/emberhollow/delvegen/internal/config"
)

func TestDispatchStartReturnsRoom(t *testing.T) {
	srv := newTestServer(t)
	sess := newSession(cache.NewPersistent(srv.store, 0, 0, nil))

	reply := srv.dispatch(context.Background(), sess, clientMessage{Type: "start", Seed: 42, Story: "a ruined abbey"})
	if reply.Type != "room" {
		t.Fatalf("reply type = %q (%s), want room", reply.Type, reply.Message)
	}
	if reply.Room == nil {
		t.Fatal("reply carries no room payload")
	}
	if reply.Room.ID != "room_0_4" {
		t.Errorf("room id = %s, want room_0_4", reply.Room.ID)
	}
	if reply.Room.Width != 25 || reply.Room.Height != 20 || reply.Room.TileSize != 40 {
		t.Errorf("room dimensions = %dx%d@%d, want 25x20@40", reply.Room.Width, reply.Room.Height, reply.Room.TileSize)
	}
	if len(reply.Room.Tiles) != 20 || len(reply.Room.Tiles[0]) != 25 {
		t.Errorf("tile grid = %dx%d rows, want 20 rows of 25", len(reply.Room.Tiles), len(reply.Room.Tiles[0]))
	}
	if len(reply.Room.Exits) == 0 {
		t.Error("start room payload has no exits")
	}
}

func TestDispatchMoveAndInteract(t *testing.T) {
	srv := newTestServer(t)
	sess := newSession(cache.NewPersistent(srv.store, 0, 0, nil))

	start := srv.dispatch(context.Background(), sess, clientMessage{Type: "start", Seed: 42})
	if start.Type != "room" {
		t.Fatalf("start reply = %q (%s)", start.Type, start.Message)
	}

	moved := srv.dispatch(context.Background(), sess, clientMessage{Type: "move", Direction: start.Room.Exits[0]})
	if moved.Type != "room" {
		t.Fatalf("move reply = %q (%s)", moved.Type, moved.Message)
	}
	if moved.Room.ID == start.Room.ID {
		t.Error("move did not change rooms")
	}

	if len(moved.Room.Objects) > 0 {
		id := moved.Room.Objects[0].ID
		hit := srv.dispatch(context.Background(), sess, clientMessage{Type: "interact", ObjectID: id})
		if hit.Type != "interaction" {
			t.Fatalf("interact reply = %q (%s)", hit.Type, hit.Message)
		}
		if !hit.Object.HasInteracted {
			t.Error("interaction payload not marked interacted")
		}
	}
}

func TestDispatchErrors(t *testing.T) {
	srv := newTestServer(t)
	sess := newSession(cache.NewPersistent(srv.store, 0, 0, nil))

	tests := []struct {
		name string
		msg  clientMessage
	}{
		{"unknown type", clientMessage{Type: "dance"}},
		{"move before start", clientMessage{Type: "move", Direction: "east"}},
		{"bad direction", clientMessage{Type: "move", Direction: "sideways"}},
		{"interact before start", clientMessage{Type: "interact", ObjectID: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if reply := srv.dispatch(context.Background(), sess, tt.msg); reply.Type != "error" {
				t.Errorf("reply type = %q, want error", reply.Type)
			}
		})
	}
}

func TestWebSocketRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	srv.cfg.WebSocket.AllowedOrigins = []string{"*"}

	ts := httptest.NewServer(http.HandlerFunc(srv.handleWebSocketUpgrade))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(clientMessage{Type: "start", Seed: 1000, Story: "a sunken library"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var reply serverMessage
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if reply.Type != "room" || reply.Room == nil {
		t.Fatalf("reply = %+v, want a room payload", reply)
	}
	if reply.Room.Spawn.X != 80 {
		t.Errorf("spawn x = %d, want 80 (tile column 2 at 40px)", reply.Room.Spawn.X)
	}

	if err := conn.WriteJSON(clientMessage{Type: "move", Direction: reply.Room.Exits[0]}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if reply.Type != "room" {
		t.Fatalf("move reply = %q (%s), want room", reply.Type, reply.Message)
	}
}

func TestConnectionLimitRejects(t *testing.T) {
	srv := newTestServer(t)
	srv.cfg.WebSocket.AllowedOrigins = []string{"*"}
	srv.conns = newConnGate(config.ConnectionsConfig{MaxPerIP: 1, MaxTotal: 1})

	ts := httptest.NewServer(http.HandlerFunc(srv.handleWebSocketUpgrade))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	first, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("first dial failed: %v", err)
	}
	defer first.Close()

	if _, resp, err := websocket.DefaultDialer.Dial(url, nil); err == nil {
		t.Error("second dial should be rejected by the connection limit")
	} else if resp != nil && resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("rejection status = %d, want %d", resp.StatusCode, http.StatusTooManyRequests)
	}
}
