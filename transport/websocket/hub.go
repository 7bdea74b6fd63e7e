package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/wricardo/multiplayer-pong/game/engine"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Outbound frames queued per client, and across the hub.
	sendBuffer      = 256
	broadcastBuffer = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Any page may host the client.
		return true
	},
}

// Handler receives the lifecycle and input events of game connections.
type Handler interface {
	Join(ctx context.Context, gameID string, player engine.PlayerID) error
	Leave(ctx context.Context, gameID string, player engine.PlayerID) error
	ApplyIntent(ctx context.Context, gameID string, player engine.PlayerID, intent engine.PaddleIntent) error
}

// Client is one player connection in a game room
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	gameID   string
	playerID engine.PlayerID
}

type outbound struct {
	gameID string
	data   []byte
}

// Hub maintains the set of active clients per game and fans states out to them
type Hub struct {
	// Registered clients by game ID
	rooms map[string]map[*Client]bool
	mu    sync.RWMutex

	// Encoded states waiting to be fanned out
	broadcast chan *outbound

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	done chan struct{}
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		broadcast:  make(chan *outbound, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop and returns when ctx is done
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

// ServeWS upgrades the request and attaches the connection to a game room.
// The handler is told about the join, every paddle intent, and the leave.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, gameID string, playerID engine.PlayerID, handler Handler) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Str("game_id", gameID).Msg("websocket upgrade failed")
		return
	}

	// The connection outlives the upgrade request.
	ctx := context.WithoutCancel(r.Context())

	if err := handler.Join(ctx, gameID, playerID); err != nil {
		log.Error().Err(err).Str("game_id", gameID).Str("player_id", string(playerID)).Msg("join failed")
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "join failed"),
			time.Now().Add(writeWait))
		conn.Close()
		return
	}

	client := &Client{
		hub:      h,
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		gameID:   gameID,
		playerID: playerID,
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		handler.Leave(ctx, gameID, playerID)
		return
	}

	go client.writePump()
	go client.readPump(ctx, handler)
}

// BroadcastState sends a game state to all clients in a game. It never
// blocks the caller; states are dropped when the hub falls behind.
func (h *Hub) BroadcastState(gameID string, state *engine.GameState) {
	data, err := json.Marshal(state)
	if err != nil {
		log.Error().Err(err).Str("game_id", gameID).Msg("failed to marshal game state")
		return
	}

	select {
	case h.broadcast <- &outbound{gameID: gameID, data: data}:
	default:
		log.Warn().Str("game_id", gameID).Msg("broadcast queue full, dropping state")
	}
}

// ClientCount returns the number of clients connected to a game
func (h *Hub) ClientCount(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[gameID])
}

// registerClient adds a client to a game room
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[client.gameID] == nil {
		h.rooms[client.gameID] = make(map[*Client]bool)
	}
	h.rooms[client.gameID][client] = true

	log.Debug().
		Str("game_id", client.gameID).
		Str("player_id", string(client.playerID)).
		Int("clients", len(h.rooms[client.gameID])).
		Msg("client registered")
}

// unregisterClient removes a client from a game room
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.rooms[client.gameID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}

	delete(clients, client)
	close(client.send)

	// Clean up empty rooms
	if len(clients) == 0 {
		delete(h.rooms, client.gameID)
	}

	log.Debug().
		Str("game_id", client.gameID).
		Str("player_id", string(client.playerID)).
		Int("remaining", len(clients)).
		Msg("client unregistered")
}

// broadcastMessage sends one encoded state to every client in its room
func (h *Hub) broadcastMessage(message *outbound) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.rooms[message.gameID] {
		select {
		case client.send <- message.data:
		default:
			log.Warn().Str("game_id", message.gameID).Str("player_id", string(client.playerID)).Msg("client too slow, disconnecting")
			h.removeLocked(client)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.rooms {
		for client := range clients {
			h.removeLocked(client)
		}
	}
}

// readPump turns inbound frames into paddle intents until the connection drops
func (c *Client) readPump(ctx context.Context, handler Handler) {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
		if err := handler.Leave(ctx, c.gameID, c.playerID); err != nil {
			log.Error().Err(err).Str("game_id", c.gameID).Msg("leave failed")
		}
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				log.Error().Err(err).Str("game_id", c.gameID).Msg("websocket read error")
			}
			return
		}

		intent, ok := decodeIntent(message)
		if !ok {
			log.Warn().Str("game_id", c.gameID).Str("player_id", string(c.playerID)).Bytes("payload", message).Msg("ignoring malformed intent")
			continue
		}

		if err := handler.ApplyIntent(ctx, c.gameID, c.playerID, intent); err != nil {
			log.Warn().Err(err).Str("game_id", c.gameID).Msg("intent rejected")
		}
	}
}

// decodeIntent accepts only objects carrying a numeric paddleY.
func decodeIntent(message []byte) (engine.PaddleIntent, bool) {
	var raw struct {
		PaddleY *float64 `json:"paddleY"`
	}
	if err := json.Unmarshal(message, &raw); err != nil || raw.PaddleY == nil {
		return engine.PaddleIntent{}, false
	}
	return engine.PaddleIntent{PaddleY: *raw.PaddleY}, true
}

// writePump sends one state per text frame and keeps the connection alive with pings
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
