package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wricardo/multiplayer-pong/game/engine"
)

type intentCall struct {
	gameID string
	player engine.PlayerID
	y      float64
}

// mockHandler records the events a hub forwards
type mockHandler struct {
	mu      sync.Mutex
	joins   []string
	leaves  []string
	intents []intentCall
	joinErr error
}

func (m *mockHandler) Join(ctx context.Context, gameID string, player engine.PlayerID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.joinErr != nil {
		return m.joinErr
	}
	m.joins = append(m.joins, gameID+"/"+string(player))
	return nil
}

func (m *mockHandler) Leave(ctx context.Context, gameID string, player engine.PlayerID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaves = append(m.leaves, gameID+"/"+string(player))
	return nil
}

func (m *mockHandler) ApplyIntent(ctx context.Context, gameID string, player engine.PlayerID, intent engine.PaddleIntent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.intents = append(m.intents, intentCall{gameID, player, intent.PaddleY})
	return nil
}

func (m *mockHandler) snapshot() (joins, leaves []string, intents []intentCall) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.joins...), append([]string(nil), m.leaves...), append([]intentCall(nil), m.intents...)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Timed out waiting for %s", what)
}

func newTestServer(t *testing.T, hub *Hub, handler Handler) string {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/ws/"), "/")
		hub.ServeWS(w, r, parts[0], engine.PlayerID(parts[1]), handler)
	}))
	t.Cleanup(server.Close)
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub == nil {
		t.Fatal("NewHub() returned nil")
	}
	if hub.rooms == nil {
		t.Error("Hub rooms map is nil")
	}
	if hub.broadcast == nil || hub.register == nil || hub.unregister == nil {
		t.Error("Hub channels not initialized")
	}
}

func TestHubRegisterClient(t *testing.T) {
	hub := NewHub()
	client := &Client{hub: hub, gameID: "abc", playerID: engine.Player1, send: make(chan []byte, 1)}

	hub.registerClient(client)

	if !hub.rooms["abc"][client] {
		t.Error("Client was not registered in room")
	}
	if hub.ClientCount("abc") != 1 {
		t.Errorf("Expected 1 client in room, got %d", hub.ClientCount("abc"))
	}
}

func TestHubUnregisterClient(t *testing.T) {
	hub := NewHub()
	client := &Client{hub: hub, gameID: "abc", send: make(chan []byte, 1)}

	hub.registerClient(client)
	hub.unregisterClient(client)

	if _, exists := hub.rooms["abc"]; exists {
		t.Error("Room should have been cleaned up after last client unregistered")
	}
	if _, ok := <-client.send; ok {
		t.Error("Send channel should be closed")
	}

	// A second unregister is a no-op
	hub.unregisterClient(client)
}

func TestHubRoomsAreIsolated(t *testing.T) {
	hub := NewHub()
	a1 := &Client{hub: hub, gameID: "a", playerID: engine.Player1, send: make(chan []byte, 4)}
	a2 := &Client{hub: hub, gameID: "a", playerID: engine.Player2, send: make(chan []byte, 4)}
	b1 := &Client{hub: hub, gameID: "b", playerID: engine.Player1, send: make(chan []byte, 4)}

	for _, c := range []*Client{a1, a2, b1} {
		hub.registerClient(c)
	}

	hub.broadcastMessage(&outbound{gameID: "a", data: []byte(`{"score1":1}`)})

	if len(a1.send) != 1 || len(a2.send) != 1 {
		t.Error("Both clients of game a should receive the state")
	}
	if len(b1.send) != 0 {
		t.Error("Client of game b should not receive game a's state")
	}
}

func TestHubBroadcastState_Encoding(t *testing.T) {
	hub := NewHub()

	hub.BroadcastState("abc", &engine.GameState{BallX: 400, Paddle1Y: 70, Score2: 3})

	message := <-hub.broadcast
	if message.gameID != "abc" {
		t.Errorf("Expected game abc, got %s", message.gameID)
	}

	var state engine.GameState
	if err := json.Unmarshal(message.data, &state); err != nil {
		t.Fatalf("Broadcast frame is not a bare GameState: %v", err)
	}
	if state.BallX != 400 || state.Paddle1Y != 70 || state.Score2 != 3 {
		t.Errorf("Unexpected state: %+v", state)
	}
}

func TestHubBroadcastState_NeverBlocks(t *testing.T) {
	hub := NewHub()

	done := make(chan struct{})
	go func() {
		for i := 0; i < broadcastBuffer+10; i++ {
			hub.BroadcastState("abc", &engine.GameState{})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("BroadcastState blocked on a full queue")
	}
	if len(hub.broadcast) != broadcastBuffer {
		t.Errorf("Expected a full queue of %d, got %d", broadcastBuffer, len(hub.broadcast))
	}
}

func TestHubSlowClientDisconnected(t *testing.T) {
	hub := NewHub()
	slow := &Client{hub: hub, gameID: "abc", send: make(chan []byte)}
	hub.registerClient(slow)

	hub.broadcastMessage(&outbound{gameID: "abc", data: []byte(`{}`)})

	if hub.ClientCount("abc") != 0 {
		t.Error("Slow client should have been removed")
	}
}

func TestDecodeIntent(t *testing.T) {
	tests := []struct {
		payload string
		want    float64
		ok      bool
	}{
		{`{"paddleY":70}`, 70, true},
		{`{"paddleY":0}`, 0, true},
		{`{"paddleY":-5.5,"extra":true}`, -5.5, true},
		{`{"paddleY":"70"}`, 0, false},
		{`{}`, 0, false},
		{`not json`, 0, false},
		{`[1,2]`, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.payload, func(t *testing.T) {
			got, ok := decodeIntent([]byte(tt.payload))
			if ok != tt.ok || got.PaddleY != tt.want {
				t.Errorf("decodeIntent(%s) = %v, %v; want %v, %v", tt.payload, got.PaddleY, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestWebSocketLifecycle(t *testing.T) {
	hub := startHub(t)
	handler := &mockHandler{}
	wsURL := newTestServer(t, hub, handler)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"/ws/abc/2", nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	waitFor(t, "registration", func() bool { return hub.ClientCount("abc") == 1 })
	joins, _, _ := handler.snapshot()
	if len(joins) != 1 || joins[0] != "abc/2" {
		t.Errorf("Expected join abc/2, got %v", joins)
	}

	conn.Close()

	waitFor(t, "leave", func() bool {
		_, leaves, _ := handler.snapshot()
		return len(leaves) == 1
	})
	if hub.ClientCount("abc") != 0 {
		t.Error("Room should have been cleaned up after WebSocket close")
	}
}

func TestWebSocketIntents(t *testing.T) {
	hub := startHub(t)
	handler := &mockHandler{}
	wsURL := newTestServer(t, hub, handler)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"/ws/abc/1", nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	conn.WriteMessage(websocket.TextMessage, []byte(`garbage`))
	conn.WriteMessage(websocket.TextMessage, []byte(`{"paddleY":70}`))

	waitFor(t, "intent", func() bool {
		_, _, intents := handler.snapshot()
		return len(intents) == 1
	})

	_, _, intents := handler.snapshot()
	if intents[0] != (intentCall{"abc", engine.Player1, 70}) {
		t.Errorf("Unexpected intent: %+v", intents[0])
	}
	if hub.ClientCount("abc") != 1 {
		t.Error("Malformed frame should not drop the connection")
	}
}

func TestWebSocketStateReceive(t *testing.T) {
	hub := startHub(t)
	wsURL := newTestServer(t, hub, &mockHandler{})

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"/ws/msg-test/1", nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	waitFor(t, "registration", func() bool { return hub.ClientCount("msg-test") == 1 })

	hub.BroadcastState("msg-test", &engine.GameState{BallX: 10, BallY: 15, Score1: 2})
	hub.BroadcastState("msg-test", &engine.GameState{BallX: 20, BallY: 25, Score1: 2})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	for _, want := range []float64{10, 20} {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("Failed to read WebSocket message: %v", err)
		}

		var state engine.GameState
		if err := json.Unmarshal(data, &state); err != nil {
			t.Fatalf("Each frame should hold exactly one state: %v", err)
		}
		if state.BallX != want || state.Score1 != 2 {
			t.Errorf("Unexpected state: %+v", state)
		}
	}
}

func TestWebSocketJoinFailure(t *testing.T) {
	hub := startHub(t)
	wsURL := newTestServer(t, hub, &mockHandler{joinErr: errors.New("boom")})

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"/ws/abc/1", nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, _, err = conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseInternalServerErr) {
		t.Errorf("Expected internal error close, got %v", err)
	}
	if hub.ClientCount("abc") != 0 {
		t.Error("Client should not be registered after a failed join")
	}
}
