// Package websocket provides a reconnecting WebSocket connector used for
// exchange market-data streams. It manages the connection lifecycle,
// heartbeats, and a topic-to-handler registry; exchange packages layer their
// own subscribe protocols on top.
package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go"
	"github.com/gorilla/websocket"
	"github.com/veiloq/trading-sdk/pkg/logging"
)

// MessageHandler is a callback invoked with each raw message for a topic.
type MessageHandler func(message []byte)

// WSConnector defines the interface for managing WebSocket connections.
type WSConnector interface {
	// Connect establishes the WebSocket connection
	Connect(ctx context.Context) error

	// Close cleanly closes the WebSocket connection
	Close() error

	// Subscribe registers a message handler for a topic
	Subscribe(topic string, handler MessageHandler) error

	// Unsubscribe removes the message handler for a topic
	Unsubscribe(topic string) error

	// Send sends a message through the WebSocket connection
	Send(message interface{}) error

	// IsConnected returns the current connection status
	IsConnected() bool
}

// Config holds WebSocket connection configuration.
type Config struct {
	URL               string
	HeartbeatInterval time.Duration
	ReconnectInterval time.Duration
	MaxRetries        int

	// PingPayload, when set, is sent as a text message on each heartbeat tick
	// instead of a WebSocket ping control frame. Exchanges like Bybit expect
	// an application-level ping ({"op":"ping"}) on public streams.
	PingPayload []byte

	// OnReconnect is invoked after a successful automatic reconnection,
	// before handlers start receiving messages again. Exchange layers use it
	// to replay their subscribe messages.
	OnReconnect func()

	Logger logging.Logger
}

// connector implements the WSConnector interface.
type connector struct {
	config Config
	conn   *websocket.Conn

	handlers   map[string]MessageHandler
	handlersMu sync.RWMutex
	writeMu    sync.Mutex

	connected bool
	done      chan struct{}
	doneMu    sync.Mutex
	closed    bool

	reconnectMu  sync.Mutex
	reconnecting bool

	logger logging.Logger
}

// NewConnector creates a new WebSocket connector with the given configuration.
func NewConnector(config Config) WSConnector {
	logger := config.Logger
	if logger == nil {
		logger = logging.NewLogger()
	}
	return &connector{
		config:   config,
		handlers: make(map[string]MessageHandler),
		logger:   logger,
	}
}

// Connect establishes the WebSocket connection and starts the read and
// heartbeat routines. Retries up to MaxRetries with ReconnectInterval between
// attempts.
func (c *connector) Connect(ctx context.Context) error {
	c.reconnectMu.Lock()
	defer c.reconnectMu.Unlock()

	if c.connected {
		return nil
	}

	if ctx.Err() != nil {
		return fmt.Errorf("context already cancelled: %w", ctx.Err())
	}

	c.logger.Debug("attempting websocket connection",
		logging.String("url", c.config.URL),
		logging.Duration("heartbeat", c.config.HeartbeatInterval),
	)

	var lastErr error
	for attempt := 1; attempt <= c.config.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		dialer := websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		}
		conn, _, err := dialer.DialContext(ctx, c.config.URL, nil)
		if err != nil {
			lastErr = err
			c.logger.Warn("connection attempt failed",
				logging.Int("attempt", attempt),
				logging.Error(err),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.config.ReconnectInterval):
				continue
			}
		}

		c.conn = conn
		c.connected = true

		c.doneMu.Lock()
		c.done = make(chan struct{})
		c.closed = false
		c.doneMu.Unlock()

		go c.readPump(ctx)
		go c.heartbeat()

		go func() {
			select {
			case <-ctx.Done():
				c.logger.Info("context cancelled, closing connection")
				c.Close()
			case <-c.done:
			}
		}()

		c.logger.Info("websocket connected", logging.String("url", c.config.URL))
		return nil
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// readPump continuously reads messages from the WebSocket.
func (c *connector) readPump(ctx context.Context) {
	defer func() {
		c.connected = false
		if c.conn != nil {
			_ = c.conn.Close()
		}

		c.doneMu.Lock()
		explicitClose := c.closed
		if !c.closed {
			close(c.done)
			c.closed = true
		}
		c.doneMu.Unlock()

		if !explicitClose && !c.reconnecting && ctx.Err() == nil {
			go c.reconnect()
		}
	}()

	readDeadline := c.config.HeartbeatInterval * 3
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(readDeadline))
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
			c.conn.SetReadDeadline(time.Now().Add(readDeadline))
			_, message, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
					c.logger.Warn("read error", logging.Error(err))
				}
				return
			}

			c.dispatch(message)
		}
	}
}

// dispatch routes an incoming message to the handler registered for its topic.
func (c *connector) dispatch(message []byte) {
	var msg struct {
		Topic string `json:"topic"`
	}
	if err := json.Unmarshal(message, &msg); err != nil {
		c.logger.Debug("skipping non-json message", logging.Error(err))
		return
	}
	if msg.Topic == "" {
		// Control frames (subscribe acks, pong responses) carry no topic.
		return
	}

	c.handlersMu.RLock()
	handler, exists := c.handlers[msg.Topic]
	c.handlersMu.RUnlock()

	if !exists {
		return
	}

	go func(topic string, data []byte, h MessageHandler) {
		defer func() {
			if r := recover(); r != nil {
				c.logger.Error("handler panic recovered",
					logging.String("topic", topic),
					logging.String("panic", fmt.Sprintf("%v", r)),
				)
			}
		}()
		h(data)
	}(msg.Topic, message, handler)
}

// heartbeat sends periodic pings to keep the connection alive.
func (c *connector) heartbeat() {
	ticker := time.NewTicker(c.config.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.writeMu.Lock()
			if !c.connected {
				c.writeMu.Unlock()
				return
			}
			var err error
			if c.config.PingPayload != nil {
				err = c.conn.WriteMessage(websocket.TextMessage, c.config.PingPayload)
			} else {
				err = c.conn.WriteMessage(websocket.PingMessage, nil)
			}
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// reconnect attempts to reestablish a dropped connection with backoff.
func (c *connector) reconnect() {
	c.reconnectMu.Lock()
	if c.reconnecting {
		c.reconnectMu.Unlock()
		return
	}
	c.reconnecting = true
	c.reconnectMu.Unlock()

	defer func() {
		c.reconnectMu.Lock()
		c.reconnecting = false
		c.reconnectMu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	err := retry.Do(
		func() error {
			if ctx.Err() != nil {
				return retry.Unrecoverable(ctx.Err())
			}
			return c.Connect(ctx)
		},
		retry.Attempts(uint(c.config.MaxRetries)),
		retry.Delay(c.config.ReconnectInterval),
		retry.DelayType(retry.BackOffDelay),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("reconnection attempt failed",
				logging.Int("attempt", int(n+1)),
				logging.Error(err))
		}),
	)

	if err != nil {
		c.logger.Error("reconnection failed", logging.Error(err))
		return
	}

	c.logger.Info("reconnection successful")
	if c.config.OnReconnect != nil {
		c.config.OnReconnect()
	}
}

// Subscribe implements WSConnector interface
func (c *connector) Subscribe(topic string, handler MessageHandler) error {
	if !c.IsConnected() {
		return fmt.Errorf("websocket not connected")
	}

	c.handlersMu.Lock()
	c.handlers[topic] = handler
	c.handlersMu.Unlock()
	return nil
}

// Unsubscribe implements WSConnector interface
func (c *connector) Unsubscribe(topic string) error {
	c.handlersMu.Lock()
	delete(c.handlers, topic)
	c.handlersMu.Unlock()
	return nil
}

// Send implements WSConnector interface
func (c *connector) Send(message interface{}) error {
	if !c.connected {
		return fmt.Errorf("websocket not connected")
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if data, ok := message.([]byte); ok {
		return c.conn.WriteMessage(websocket.TextMessage, data)
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// IsConnected implements WSConnector interface
func (c *connector) IsConnected() bool {
	return c.connected
}

// Close implements WSConnector interface
func (c *connector) Close() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.doneMu.Lock()
	wasClosed := c.closed
	if !c.closed {
		// done is nil until the first successful Connect
		if c.done != nil {
			close(c.done)
		}
		c.closed = true
	}
	c.doneMu.Unlock()

	if wasClosed {
		return nil
	}

	c.connected = false

	if c.conn != nil {
		_ = c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "client closed connection"))

		// Give the close message a moment to flush
		time.Sleep(100 * time.Millisecond)

		err := c.conn.Close()
		if err != nil && !strings.Contains(err.Error(), "use of closed network connection") {
			return err
		}
	}

	return nil
}
