package client

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/wricardo/multiplayer-pong/game/engine"
	"github.com/wricardo/multiplayer-pong/game/session"
	"github.com/wricardo/multiplayer-pong/transport/wsclient"
)

// User-facing connection errors.
const (
	ErrTextConnection = "Connection error. Please make sure the game server is running."
	ErrTextLost       = "Connection lost. Click to reconnect."
)

// Channel is an open or opening connection to the game server.
type Channel interface {
	SendJSON(v any) error
	Close() error
}

// DialFunc starts connecting to endpoint and reports progress through h.
type DialFunc func(ctx context.Context, endpoint string, h wsclient.Handlers) (Channel, error)

// WebsocketDialer adapts a wsclient.Dialer to a DialFunc.
func WebsocketDialer(d *wsclient.Dialer) DialFunc {
	return func(ctx context.Context, endpoint string, h wsclient.Handlers) (Channel, error) {
		return d.Dial(ctx, endpoint, h)
	}
}

// Snapshot is what the view needs to draw one frame.
type Snapshot struct {
	State      *engine.GameState
	Version    uint64
	Error      string
	Connecting bool
	Open       bool
	Identity   session.Identity
}

// Controller owns the connection to one game and the last state received on it.
// All methods are safe for concurrent use.
type Controller struct {
	server string
	dial   DialFunc
	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	identity    session.Identity
	hasIdentity bool
	channel     Channel
	generation  uint64
	open        bool
	connecting  bool
	closed      bool
	errText     string
	state       *engine.GameState
	version     uint64
}

// NewController returns an idle controller for the given websocket server base URL.
func NewController(server string, dial DialFunc) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		server: server,
		dial:   dial,
		ctx:    ctx,
		cancel: cancel,
	}
}

// SetIdentity switches to a new game and player and reconnects.
func (c *Controller) SetIdentity(id session.Identity) {
	c.mu.Lock()
	c.identity = id
	c.hasIdentity = true
	old := c.releaseLocked()
	c.mu.Unlock()

	if old != nil {
		old.Close()
	}
	c.Connect()
}

// Connect starts a connection attempt. It does nothing without an identity or
// while another attempt is in flight.
func (c *Controller) Connect() {
	c.mu.Lock()
	if !c.hasIdentity || c.connecting || c.closed {
		c.mu.Unlock()
		return
	}

	old := c.releaseLocked()
	c.connecting = true
	c.errText = ""
	gen := c.generation
	endpoint := c.identity.Endpoint(c.server)
	c.mu.Unlock()

	if old != nil {
		old.Close()
	}

	log.Info().Str("endpoint", endpoint).Msg("connecting to game server")

	ch, err := c.dial(c.ctx, endpoint, c.handlers(gen))
	if err != nil {
		log.Error().Err(err).Str("endpoint", endpoint).Msg("failed to start connection")
		c.onError(gen, err)
		return
	}

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		ch.Close()
		return
	}
	c.channel = ch
	c.mu.Unlock()
}

// Retry is the click-to-reconnect affordance. Clicks while an attempt is in
// flight are ignored.
func (c *Controller) Retry() {
	c.mu.Lock()
	connecting := c.connecting
	c.mu.Unlock()

	if connecting {
		return
	}
	c.Connect()
}

// HandleKey turns an arrow key into a paddle intent for the local player.
// Keys are ignored until a state has arrived on an open channel.
func (c *Controller) HandleKey(key engine.Key) {
	c.mu.Lock()
	if c.state == nil || c.channel == nil || !c.open {
		c.mu.Unlock()
		return
	}
	y, ok := engine.ProposePaddleY(c.state, c.identity.PlayerID, key)
	ch := c.channel
	c.mu.Unlock()

	if !ok {
		return
	}

	if err := ch.SendJSON(engine.PaddleIntent{PaddleY: y}); err != nil {
		log.Warn().Err(err).Str("key", key.String()).Msg("failed to send paddle intent")
	}
}

// Close releases the channel. Events still in flight from it are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	old := c.releaseLocked()
	c.mu.Unlock()

	c.cancel()
	if old != nil {
		old.Close()
	}
}

// Snapshot returns a copy of everything the view draws.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		Version:    c.version,
		Error:      c.errText,
		Connecting: c.connecting,
		Open:       c.open,
		Identity:   c.identity,
	}
	if c.state != nil {
		state := *c.state
		snap.State = &state
	}
	return snap
}

// releaseLocked detaches the current channel so its late events are dropped.
// The caller closes the returned channel outside the lock.
func (c *Controller) releaseLocked() Channel {
	c.generation++
	old := c.channel
	c.channel = nil
	c.open = false
	c.connecting = false
	return old
}

func (c *Controller) handlers(gen uint64) wsclient.Handlers {
	return wsclient.Handlers{
		OnOpen:    func() { c.onOpen(gen) },
		OnMessage: func(data []byte) { c.onMessage(gen, data) },
		OnError:   func(err error) { c.onError(gen, err) },
		OnClose:   func() { c.onClose(gen) },
	}
}

func (c *Controller) onOpen(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return
	}

	c.open = true
	c.connecting = false
	c.errText = ""
	log.Info().Str("game_id", c.identity.GameID).Str("player_id", string(c.identity.PlayerID)).Msg("connected to game server")
}

func (c *Controller) onMessage(gen uint64, data []byte) {
	var state *engine.GameState
	if err := json.Unmarshal(data, &state); err != nil || state == nil {
		log.Warn().Err(err).Bytes("payload", data).Msg("ignoring malformed game state")
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return
	}

	c.state = state
	c.version++
}

func (c *Controller) onError(gen uint64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return
	}

	log.Error().Err(err).Str("game_id", c.identity.GameID).Msg("websocket error")
	c.errText = ErrTextConnection
	c.connecting = false
}

func (c *Controller) onClose(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return
	}

	log.Info().Str("game_id", c.identity.GameID).Msg("disconnected from game server")
	c.errText = ErrTextLost
	c.connecting = false
	c.open = false
}
