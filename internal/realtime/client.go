package realtime

import (
	"encoding/json"
	"reflect"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	maxReconnectAttempts = 5
	defaultBackoffBase   = time.Second
)

// Handler receives the data field of every frame published on a topic.
// Handlers are invoked synchronously on the read loop, in registration
// order; they must not block.
type Handler func(data json.RawMessage)

type subscription struct {
	key uintptr
	fn  Handler
}

// Client maintains one logical publish/subscribe connection to a
// notification endpoint, reconnecting with linear backoff on transient
// disconnects and fanning inbound typed frames out to local subscribers.
//
// Messages sent while disconnected are dropped with a logged diagnostic;
// there is no outbound queue. Topic interest is purely local state: nothing
// is replayed to the remote endpoint after a reconnect.
type Client struct {
	log         zerolog.Logger
	dialer      *websocket.Dialer
	backoffBase time.Duration

	mu       sync.Mutex
	conn     *websocket.Conn
	handlers map[string][]subscription
	attempts int
	// gen invalidates read loops and pending reconnect timers from a
	// superseded connection.
	gen int
}

// NewClient builds a disconnected Client. backoffBase scales the linear
// reconnect delay (attempt × backoffBase); zero selects the 1s default.
func NewClient(log zerolog.Logger, backoffBase time.Duration) *Client {
	if backoffBase <= 0 {
		backoffBase = defaultBackoffBase
	}
	return &Client{
		log:         log,
		dialer:      websocket.DefaultDialer,
		backoffBase: backoffBase,
		handlers:    make(map[string][]subscription),
	}
}

// Connect establishes the transport, replacing any live connection. It
// resets the reconnect attempt counter, so a manual call always restarts
// the full retry budget.
func (c *Client) Connect(url string) error {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.attempts = 0
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.mu.Unlock()

	return c.connect(url, gen)
}

func (c *Client) connect(url string, gen int) error {
	conn, resp, err := c.dialer.Dial(url, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		if err == nil {
			_ = conn.Close()
		}
		return nil
	}
	if err != nil {
		c.mu.Unlock()
		c.log.Warn().Err(err).Str("url", url).Msg("websocket dial failed")
		c.scheduleReconnect(url, gen)
		return err
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.conn = conn
	c.attempts = 0
	c.mu.Unlock()

	c.log.Info().Str("url", url).Msg("websocket connected")
	c.dispatch(TopicConnectionStatus, json.RawMessage("true"))

	go c.readLoop(conn, url, gen)
	return nil
}

// Close tears the connection down without triggering reconnection.
func (c *Client) Close() {
	c.mu.Lock()
	c.gen++
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.mu.Unlock()
}

// Send writes env to the transport. When disconnected the frame is dropped
// and a diagnostic logged; callers get no error and nothing is queued.
func (c *Client) Send(env Envelope) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		c.log.Warn().Str("type", env.Type).Msg("websocket not connected, dropping frame")
		return
	}
	if err := conn.WriteJSON(env); err != nil {
		c.log.Error().Err(err).Str("type", env.Type).Msg("websocket write failed")
	}
}

// Subscribe registers handler under topic and returns a function that
// removes exactly that handler from exactly that topic. Subscribing the
// same handler twice to one topic is a no-op for the second call: handlers
// are deduplicated by function identity.
func (c *Client) Subscribe(topic string, handler Handler) func() {
	key := reflect.ValueOf(handler).Pointer()

	c.mu.Lock()
	registered := false
	for _, sub := range c.handlers[topic] {
		if sub.key == key {
			registered = true
			break
		}
	}
	if !registered {
		c.handlers[topic] = append(c.handlers[topic], subscription{key: key, fn: handler})
	}
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		subs := c.handlers[topic]
		for i, sub := range subs {
			if sub.key == key {
				c.handlers[topic] = append(subs[:i], subs[i+1:]...)
				return
			}
		}
	}
}

func (c *Client) readLoop(conn *websocket.Conn, url string, gen int) {
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			break
		}

		var env Envelope
		if err := json.Unmarshal(payload, &env); err != nil {
			c.log.Error().Err(err).Msg("dropping malformed frame")
			continue
		}
		c.dispatch(env.Type, env.Data)
	}

	c.mu.Lock()
	if gen != c.gen || c.conn != conn {
		// Superseded by a newer Connect or an explicit Close.
		c.mu.Unlock()
		return
	}
	c.conn = nil
	c.mu.Unlock()

	c.log.Info().Str("url", url).Msg("websocket disconnected")
	c.dispatch(TopicConnectionStatus, json.RawMessage("false"))
	c.scheduleReconnect(url, gen)
}

func (c *Client) scheduleReconnect(url string, gen int) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	if c.attempts >= maxReconnectAttempts {
		c.mu.Unlock()
		c.log.Error().Str("url", url).Msg("max reconnection attempts reached")
		return
	}
	c.attempts++
	attempt := c.attempts
	c.mu.Unlock()

	delay := time.Duration(attempt) * c.backoffBase
	c.log.Info().
		Int("attempt", attempt).
		Int("max", maxReconnectAttempts).
		Dur("delay", delay).
		Msg("attempting to reconnect")

	time.AfterFunc(delay, func() {
		_ = c.connect(url, gen)
	})
}

// dispatch invokes every handler registered under topic, in registration
// order, on the calling goroutine.
func (c *Client) dispatch(topic string, data json.RawMessage) {
	c.mu.Lock()
	subs := make([]subscription, len(c.handlers[topic]))
	copy(subs, c.handlers[topic])
	c.mu.Unlock()

	for _, sub := range subs {
		sub.fn(data)
	}
}
