package bus

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"ovos-htmx-gui-gateway/internal/util"
)

// Dispatcher receives decoded bus messages. cmd/gui-gateway registers
// dispatchers by message type through Client.Handle, routing them to the
// gui coordinator and the status machine.
type Dispatcher func(msg Message)

// Client manages the websocket connection to the core messagebus,
// reconnecting with capped exponential backoff, grounded on the teacher's
// RelayConn dial/readLoop/reconnect shape.
type Client struct {
	url       string
	guiID     string
	framework string
	logger    *slog.Logger

	mu          sync.RWMutex
	conn        *websocket.Conn
	dispatchers map[MessageType][]Dispatcher
	onConnect   func()
}

// NewClient returns a client that will connect to url, announcing itself
// as guiID using framework.
func NewClient(url, guiID, framework string, logger *slog.Logger) *Client {
	if guiID == "" {
		guiID = util.DefaultGUIID
	}
	if framework == "" {
		framework = util.DefaultFramework
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		url:         url,
		guiID:       guiID,
		framework:   framework,
		logger:      logger,
		dispatchers: make(map[MessageType][]Dispatcher),
	}
}

// OnConnect registers a callback invoked after each successful (re)connect
// and announce, e.g. to re-request the active namespace's state.
func (c *Client) OnConnect(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onConnect = fn
}

// Handle registers fn to receive every message of the given type.
func (c *Client) Handle(t MessageType, fn Dispatcher) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dispatchers[t] = append(c.dispatchers[t], fn)
}

// Run connects and processes messages until ctx is cancelled, reconnecting
// on any read/dial error with capped exponential backoff.
func (c *Client) Run(ctx context.Context) {
	backoff := util.DefaultReconnectBackoff
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := c.connectAndServe(ctx); err != nil {
			c.logger.Warn("bus connection lost", "error", err, "retry_in", backoff)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > util.DefaultReconnectMax {
			backoff = util.DefaultReconnectMax
		}
	}
}

func (c *Client) connectAndServe(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	c.mu.Lock()
	c.conn = conn
	onConnect := c.onConnect
	c.mu.Unlock()

	if err := c.announce(); err != nil {
		return err
	}
	c.logger.Info("bus connected", "url", c.url, "gui_id", c.guiID)
	if onConnect != nil {
		onConnect()
	}

	return c.readLoop(ctx, conn)
}

func (c *Client) announce() error {
	return c.send(Message{
		Type:      TypeGUIConnected,
		GUIID:     c.guiID,
		Framework: c.framework,
	})
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.logger.Warn("bus: dropping malformed message", "error", err)
			continue
		}
		c.dispatch(msg)
	}
}

func (c *Client) dispatch(msg Message) {
	c.mu.RLock()
	handlers := append([]Dispatcher(nil), c.dispatchers[msg.Type]...)
	c.mu.RUnlock()
	for _, h := range handlers {
		h(msg)
	}
}

// Send writes msg to the bus. Thread-safe for a single concurrent writer;
// gorilla/websocket connections do not support concurrent writers, so
// callers needing concurrent send should serialize through one goroutine.
func (c *Client) Send(msg Message) error {
	return c.send(msg)
}

func (c *Client) send(msg Message) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()
	if conn == nil {
		return errNotConnected
	}
	return conn.WriteJSON(msg)
}

// SendEvent emits a mycroft.events.triggered message carrying eventName and
// parameters, used to report local/global callback triggers back to skills.
func (c *Client) SendEvent(eventName string, parameters map[string]any) error {
	return c.send(Message{
		Type:       TypeEventTriggered,
		EventName:  eventName,
		Parameters: parameters,
	})
}

var errNotConnected = &notConnectedError{}

type notConnectedError struct{}

func (*notConnectedError) Error() string { return "bus: not connected" }
