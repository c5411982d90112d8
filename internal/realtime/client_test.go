package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// wsServer accepts websocket connections and hands them to the test so it
// can push frames or kill the transport.
type wsServer struct {
	srv      *httptest.Server
	accepted chan *websocket.Conn
}

func newWSServer(t *testing.T) *wsServer {
	t.Helper()

	ws := &wsServer{accepted: make(chan *websocket.Conn, 8)}
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	ws.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		ws.accepted <- conn
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(ws.srv.Close)
	return ws
}

func (ws *wsServer) url() string {
	return "ws" + strings.TrimPrefix(ws.srv.URL, "http")
}

func (ws *wsServer) nextConn(t *testing.T) *websocket.Conn {
	t.Helper()
	select {
	case conn := <-ws.accepted:
		return conn
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for server-side connection")
		return nil
	}
}

func waitRaw(t *testing.T, ch <-chan json.RawMessage) json.RawMessage {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for frame")
		return nil
	}
}

func TestClient_ConnectAndDispatch(t *testing.T) {
	ws := newWSServer(t)
	c := NewClient(zerolog.Nop(), time.Millisecond)
	defer c.Close()

	status := make(chan json.RawMessage, 4)
	c.Subscribe(TopicConnectionStatus, func(data json.RawMessage) { status <- data })
	frames := make(chan json.RawMessage, 4)
	c.Subscribe(TopicCourseUpdate, func(data json.RawMessage) { frames <- data })

	if err := c.Connect(ws.url()); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	if got := string(waitRaw(t, status)); got != "true" {
		t.Fatalf("expected connection_status true, got %s", got)
	}

	conn := ws.nextConn(t)
	env := Envelope{Type: TopicCourseUpdate, Data: json.RawMessage(`{"id":"a"}`)}
	if err := conn.WriteJSON(env); err != nil {
		t.Fatalf("server write failed: %v", err)
	}
	if got := string(waitRaw(t, frames)); got != `{"id":"a"}` {
		t.Fatalf("unexpected frame data: %s", got)
	}
}

func TestClient_DispatchOrder(t *testing.T) {
	ws := newWSServer(t)
	c := NewClient(zerolog.Nop(), time.Millisecond)
	defer c.Close()

	var mu sync.Mutex
	var order []string
	done := make(chan struct{}, 1)
	c.Subscribe("t", func(json.RawMessage) {
		mu.Lock()
		order = append(order, "first")
		mu.Unlock()
	})
	c.Subscribe("t", func(json.RawMessage) {
		mu.Lock()
		order = append(order, "second")
		mu.Unlock()
		done <- struct{}{}
	})

	if err := c.Connect(ws.url()); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	conn := ws.nextConn(t)
	if err := conn.WriteJSON(Envelope{Type: "t", Data: json.RawMessage("1")}); err != nil {
		t.Fatalf("server write failed: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out")
	}
	mu.Lock()
	defer mu.Unlock()
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("handlers must run in registration order, got %v", order)
	}
}

func TestClient_SubscribeDedup(t *testing.T) {
	ws := newWSServer(t)
	c := NewClient(zerolog.Nop(), time.Millisecond)
	defer c.Close()

	var calls int32
	seen := make(chan struct{}, 4)
	handler := func(json.RawMessage) {
		atomic.AddInt32(&calls, 1)
		seen <- struct{}{}
	}
	c.Subscribe("t", handler)
	c.Subscribe("t", handler) // second registration is a no-op

	if err := c.Connect(ws.url()); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	conn := ws.nextConn(t)
	if err := conn.WriteJSON(Envelope{Type: "t", Data: json.RawMessage("1")}); err != nil {
		t.Fatalf("server write failed: %v", err)
	}

	select {
	case <-seen:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out")
	}
	time.Sleep(50 * time.Millisecond)
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("expected exactly one invocation, got %d", n)
	}
}

func TestClient_Unsubscribe(t *testing.T) {
	ws := newWSServer(t)
	c := NewClient(zerolog.Nop(), time.Millisecond)
	defer c.Close()

	var removedCalls int32
	unsubscribe := c.Subscribe("t", func(json.RawMessage) {
		atomic.AddInt32(&removedCalls, 1)
	})
	kept := make(chan json.RawMessage, 4)
	c.Subscribe("t", func(data json.RawMessage) { kept <- data })

	unsubscribe()

	if err := c.Connect(ws.url()); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	conn := ws.nextConn(t)
	if err := conn.WriteJSON(Envelope{Type: "t", Data: json.RawMessage("1")}); err != nil {
		t.Fatalf("server write failed: %v", err)
	}

	waitRaw(t, kept)
	if n := atomic.LoadInt32(&removedCalls); n != 0 {
		t.Fatalf("unsubscribed handler must not run, got %d calls", n)
	}
}

func TestClient_MalformedFrameIsDropped(t *testing.T) {
	ws := newWSServer(t)
	c := NewClient(zerolog.Nop(), time.Millisecond)
	defer c.Close()

	frames := make(chan json.RawMessage, 4)
	c.Subscribe("t", func(data json.RawMessage) { frames <- data })

	if err := c.Connect(ws.url()); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	conn := ws.nextConn(t)

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("server write failed: %v", err)
	}
	if err := conn.WriteJSON(Envelope{Type: "t", Data: json.RawMessage(`"ok"`)}); err != nil {
		t.Fatalf("server write failed: %v", err)
	}

	// The bad frame is skipped; the connection and later frames survive.
	if got := string(waitRaw(t, frames)); got != `"ok"` {
		t.Fatalf("unexpected frame data: %s", got)
	}
}

func TestClient_SendWhileDisconnected(t *testing.T) {
	c := NewClient(zerolog.Nop(), time.Millisecond)

	// Dropping is silent toward the caller: no queue, no panic, no error.
	c.Send(Envelope{Type: "t", Data: json.RawMessage("1")})
	c.Close()
	c.Send(Envelope{Type: "t", Data: json.RawMessage("1")})
}

func TestClient_ReconnectsAfterDrop(t *testing.T) {
	ws := newWSServer(t)
	c := NewClient(zerolog.Nop(), time.Millisecond)
	defer c.Close()

	status := make(chan json.RawMessage, 8)
	c.Subscribe(TopicConnectionStatus, func(data json.RawMessage) { status <- data })

	if err := c.Connect(ws.url()); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	if got := string(waitRaw(t, status)); got != "true" {
		t.Fatalf("expected true, got %s", got)
	}

	// Server kills the transport; the client reports the drop and dials back.
	conn := ws.nextConn(t)
	_ = conn.Close()

	if got := string(waitRaw(t, status)); got != "false" {
		t.Fatalf("expected false after drop, got %s", got)
	}
	if got := string(waitRaw(t, status)); got != "true" {
		t.Fatalf("expected true after reconnect, got %s", got)
	}
	ws.nextConn(t)
}

func TestClient_GivesUpAfterMaxAttempts(t *testing.T) {
	c := NewClient(zerolog.Nop(), time.Millisecond)
	defer c.Close()

	// Nothing listens on this port; every dial fails fast.
	if err := c.Connect("ws://127.0.0.1:1/ws"); err == nil {
		t.Fatalf("expected dial error")
	}

	attempts := func() int {
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.attempts
	}

	deadline := time.Now().Add(2 * time.Second)
	for attempts() < maxReconnectAttempts && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)
	if got := attempts(); got != maxReconnectAttempts {
		t.Fatalf("expected %d attempts, got %d", maxReconnectAttempts, got)
	}

	// A manual Connect restarts the full retry budget.
	ws := newWSServer(t)
	if err := c.Connect(ws.url()); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	if got := attempts(); got != 0 {
		t.Fatalf("expected attempt counter reset, got %d", got)
	}
}

func TestClient_CloseStopsReconnection(t *testing.T) {
	ws := newWSServer(t)
	c := NewClient(zerolog.Nop(), time.Millisecond)

	status := make(chan json.RawMessage, 8)
	c.Subscribe(TopicConnectionStatus, func(data json.RawMessage) { status <- data })

	if err := c.Connect(ws.url()); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	waitRaw(t, status)
	ws.nextConn(t)

	c.Close()

	// No disconnect notification and no redial: Close supersedes the
	// read loop's generation.
	select {
	case v := <-status:
		t.Fatalf("unexpected status frame after Close: %s", v)
	case <-time.After(100 * time.Millisecond):
	}
	select {
	case <-ws.accepted:
		t.Fatalf("client must not reconnect after Close")
	case <-time.After(100 * time.Millisecond):
	}
}
