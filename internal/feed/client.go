package feed

import (
	"context"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client is a single WebSocket session to the upstream feed.
type Client interface {
	// Connect dials the feed. On success an open event is queued before
	// any message events; on failure an error event is queued and the
	// dial error returned.
	Connect(ctx context.Context) error

	// Close gracefully closes the connection. Safe to call twice.
	Close() error

	// Send writes raw bytes to the connection.
	Send(data []byte) error

	// Events returns the single-consumer queue of transport events
	// (open, message, close, error) in arrival order.
	Events() <-chan Event

	// IsConnected returns current connection state.
	IsConnected() bool
}

// client implements the Client interface.
type client struct {
	cfg    ClientConfig
	logger *slog.Logger

	conn *websocket.Conn

	events chan Event
	done   chan struct{}

	// Write serialization
	writeMu sync.Mutex

	// State
	mu         sync.RWMutex
	connected  bool
	closed     bool
	lastPongAt time.Time
}

// NewClient creates a new feed client.
func NewClient(cfg ClientConfig, logger *slog.Logger) Client {
	if logger == nil {
		logger = slog.Default()
	}

	return &client{
		cfg:    cfg,
		logger: logger,
		events: make(chan Event, cfg.BufferSize),
		done:   make(chan struct{}),
	}
}

// Connect dials the feed with credentials as query parameters.
func (c *client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrAlreadyClosed
	}
	c.mu.Unlock()

	feedURL, err := buildURL(c.cfg)
	if err != nil {
		c.queueEvent(Event{Kind: EventError, Err: err, ReceivedAt: time.Now()})
		return err
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: c.cfg.HandshakeTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, feedURL, nil)
	if err != nil {
		c.queueEvent(Event{Kind: EventError, Err: err, ReceivedAt: time.Now()})
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.lastPongAt = time.Now()
	c.mu.Unlock()

	conn.SetPingHandler(func(data string) error {
		c.mu.Lock()
		c.lastPongAt = time.Now()
		c.mu.Unlock()

		return conn.WriteControl(
			websocket.PongMessage,
			[]byte(data),
			time.Now().Add(time.Second),
		)
	})

	conn.SetPongHandler(func(string) error {
		c.mu.Lock()
		c.lastPongAt = time.Now()
		c.mu.Unlock()
		return nil
	})

	c.queueEvent(Event{Kind: EventOpen, ReceivedAt: time.Now()})

	go c.readLoop()
	go c.keepaliveLoop()

	c.logger.Debug("feed connected", "url", c.cfg.URL, "user", c.cfg.User)

	return nil
}

// buildURL appends user/password query parameters to the feed URL.
func buildURL(cfg ClientConfig) (string, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("user", cfg.User)
	q.Set("password", cfg.Pass)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Close gracefully closes the connection.
func (c *client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.connected = false
	c.mu.Unlock()

	close(c.done)

	if c.conn != nil {
		c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		return c.conn.Close()
	}

	return nil
}

// Send writes raw bytes to the connection. Sends on a connection that is
// not open fail immediately; nothing is queued for later.
func (c *client) Send(data []byte) error {
	c.mu.RLock()
	if !c.connected {
		c.mu.RUnlock()
		return ErrNotConnected
	}
	c.mu.RUnlock()

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Events returns the event channel.
func (c *client) Events() <-chan Event {
	return c.events
}

// IsConnected returns the current connection state.
func (c *client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// queueEvent delivers a lifecycle event, giving up only on shutdown.
func (c *client) queueEvent(ev Event) {
	select {
	case c.events <- ev:
	case <-c.done:
	}
}

// readLoop reads frames from the WebSocket and queues message events.
func (c *client) readLoop() {
	defer func() {
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
	}()

	for {
		select {
		case <-c.done:
			return
		default:
		}

		_, data, err := c.conn.ReadMessage()
		receivedAt := time.Now()

		if err != nil {
			// Local Close() already tore the state down; stay silent.
			select {
			case <-c.done:
				return
			default:
			}

			kind := EventError
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
			) {
				kind = EventClose
			}
			c.queueEvent(Event{Kind: kind, Err: err, ReceivedAt: receivedAt})
			return
		}

		ev := Event{Kind: EventMessage, Data: data, ReceivedAt: receivedAt}
		select {
		case c.events <- ev:
		case <-c.done:
			return
		default:
			c.logger.Warn("event buffer full, dropping message")
		}
	}
}

// keepaliveLoop pings the feed and reports a stale connection when
// nothing has been heard back within the ping timeout.
func (c *client) keepaliveLoop() {
	if c.cfg.PingInterval <= 0 {
		return
	}

	ticker := time.NewTicker(c.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.mu.RLock()
			conn := c.conn
			lastPong := c.lastPongAt
			c.mu.RUnlock()

			if conn != nil {
				deadline := time.Now().Add(c.cfg.WriteTimeout)
				if err := conn.WriteControl(websocket.PingMessage, []byte("keepalive"), deadline); err != nil {
					c.logger.Debug("failed to send ping", "error", err)
				}
			}

			if c.cfg.PingTimeout > 0 && time.Since(lastPong) > c.cfg.PingTimeout {
				c.logger.Warn("no ping response, feed stale",
					"last_pong", lastPong,
					"timeout", c.cfg.PingTimeout,
				)
				c.queueEvent(Event{Kind: EventError, Err: ErrStaleFeed, ReceivedAt: time.Now()})
				return
			}
		}
	}
}
