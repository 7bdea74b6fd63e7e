package wsclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed between inbound frames or pings before the channel is dropped.
	pongWait = 60 * time.Second

	// Time allowed for the opening handshake.
	handshakeTimeout = 10 * time.Second

	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

var ErrChannelClosed = errors.New("channel is not open")

// State is the lifecycle of a Channel.
type State int

const (
	StateConnecting State = iota
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	default:
		return "closed"
	}
}

// Handlers are called from the channel's own goroutines. OnClose is called
// exactly once per channel and is always the last call.
type Handlers struct {
	OnOpen    func()
	OnMessage func(data []byte)
	OnError   func(err error)
	OnClose   func()
}

// Dialer opens channels.
type Dialer struct {
	dialer *websocket.Dialer
}

// NewDialer returns a Dialer with the default handshake timeout.
func NewDialer() *Dialer {
	return &Dialer{
		dialer: &websocket.Dialer{
			HandshakeTimeout: handshakeTimeout,
			ReadBufferSize:   1024,
			WriteBufferSize:  1024,
		},
	}
}

// Dial starts connecting to endpoint and returns at once. The outcome is
// reported through the handlers: OnOpen on success, or OnError then OnClose
// on failure. Only a malformed endpoint is returned as an error.
func (d *Dialer) Dial(ctx context.Context, endpoint string, h Handlers) (*Channel, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("invalid endpoint scheme %q", u.Scheme)
	}

	dialCtx, cancel := context.WithCancel(ctx)
	c := &Channel{
		endpoint: endpoint,
		handlers: h,
		cancel:   cancel,
		state:    StateConnecting,
	}

	go c.connect(dialCtx, d.dialer)
	return c, nil
}

// Channel is one websocket connection to a game.
type Channel struct {
	endpoint string
	handlers Handlers
	cancel   context.CancelFunc

	mu      sync.Mutex
	conn    *websocket.Conn
	state   State
	closing bool

	writeMu   sync.Mutex
	closeOnce sync.Once
}

// State reports where the channel is in its lifecycle.
func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SendJSON writes v as one text frame.
func (c *Channel) SendJSON(v any) error {
	c.mu.Lock()
	conn, state := c.conn, c.state
	c.mu.Unlock()

	if state != StateOpen || conn == nil {
		return ErrChannelClosed
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return nil
}

// Close releases the channel. It is safe to call more than once.
func (c *Channel) Close() error {
	c.mu.Lock()
	if c.closing {
		c.mu.Unlock()
		return nil
	}
	c.closing = true
	conn := c.conn
	c.mu.Unlock()

	c.cancel()
	if conn == nil {
		return nil
	}

	err := conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	conn.Close()
	if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		return fmt.Errorf("failed to send close frame: %w", err)
	}
	return nil
}

func (c *Channel) connect(ctx context.Context, dialer *websocket.Dialer) {
	conn, _, err := dialer.DialContext(ctx, c.endpoint, nil)
	if err != nil {
		if !c.isClosing() {
			log.Debug().Err(err).Str("endpoint", c.endpoint).Msg("dial failed")
			c.fireError(err)
		}
		c.finish()
		return
	}

	c.mu.Lock()
	if c.closing {
		c.mu.Unlock()
		conn.Close()
		c.finish()
		return
	}
	c.conn = conn
	c.state = StateOpen
	c.mu.Unlock()

	if c.handlers.OnOpen != nil {
		c.handlers.OnOpen()
	}

	c.readLoop(conn)
}

func (c *Channel) readLoop(conn *websocket.Conn) {
	defer func() {
		conn.Close()
		c.finish()
	}()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPingHandler(func(data string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		err := conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(writeWait))
		if errors.Is(err, websocket.ErrCloseSent) {
			return nil
		}
		return err
	})

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if !c.isClosing() && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.fireError(err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))

		if msgType != websocket.TextMessage {
			continue
		}
		if c.handlers.OnMessage != nil {
			c.handlers.OnMessage(data)
		}
	}
}

func (c *Channel) isClosing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closing
}

func (c *Channel) fireError(err error) {
	if c.handlers.OnError != nil {
		c.handlers.OnError(err)
	}
}

// finish moves to Closed and fires OnClose once.
func (c *Channel) finish() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.state = StateClosed
		c.mu.Unlock()
		c.cancel()

		if c.handlers.OnClose != nil {
			c.handlers.OnClose()
		}
	})
}
