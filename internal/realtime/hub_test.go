package realtime

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/mentorlink/sphere-api/internal/core/domain"
)

func startHub(t *testing.T) (*Hub, string, context.CancelFunc) {
	t.Helper()

	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	e := echo.New()
	e.GET("/ws", hub.Serve)
	srv := httptest.NewServer(e)
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})

	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws", cancel
}

func dialHub(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) Envelope {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		t.Fatalf("invalid frame %q: %v", payload, err)
	}
	return env
}

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	hub, url, _ := startHub(t)

	first := dialHub(t, url)
	second := dialHub(t, url)
	time.Sleep(100 * time.Millisecond) // let both registrations land

	env, err := NewEnvelope("announcement", map[string]string{"text": "hello"})
	if err != nil {
		t.Fatalf("envelope failed: %v", err)
	}
	hub.Broadcast(env)

	for _, conn := range []*websocket.Conn{first, second} {
		got := readEnvelope(t, conn)
		if got.Type != "announcement" {
			t.Fatalf("unexpected frame type %q", got.Type)
		}
	}
}

func TestHub_HandleUpdate(t *testing.T) {
	hub, url, _ := startHub(t)

	conn := dialHub(t, url)
	time.Sleep(100 * time.Millisecond)

	hub.HandleUpdate(&domain.CourseUpdate{
		ID:       "u1",
		Type:     domain.UpdateQuiz,
		Title:    "Midterm quiz",
		CourseID: "course-1",
	})

	env := readEnvelope(t, conn)
	if env.Type != TopicCourseUpdate {
		t.Fatalf("expected %s frame, got %s", TopicCourseUpdate, env.Type)
	}
	var update domain.CourseUpdate
	if err := json.Unmarshal(env.Data, &update); err != nil {
		t.Fatalf("invalid update payload: %v", err)
	}
	if update.ID != "u1" || update.CourseID != "course-1" {
		t.Fatalf("unexpected update: %+v", update)
	}
}

func TestHub_ShutdownClosesSessions(t *testing.T) {
	_, url, cancel := startHub(t)

	conn := dialHub(t, url)
	time.Sleep(100 * time.Millisecond)

	cancel()

	// The hub closes every session's send channel; the write pump then
	// closes the transport and the client read fails.
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatalf("expected connection to be closed")
	}
}

func TestHub_BroadcastAfterShutdownDoesNotBlock(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	cancel()
	<-hub.done

	finished := make(chan struct{})
	go func() {
		// Overfill the broadcast buffer; every call must return.
		for i := 0; i < cap(hub.broadcast)+8; i++ {
			hub.Broadcast(Envelope{Type: "t"})
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatalf("Broadcast blocked after shutdown")
	}
}

func TestHub_ServeAfterShutdownRefusesSession(t *testing.T) {
	hub, url, cancel := startHub(t)
	cancel()
	<-hub.done

	// The upgrade may still succeed, but the hub closes the transport
	// instead of registering the session.
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatalf("expected connection to be closed")
	}
}

func TestHub_ClientCanRoundTripThroughClient(t *testing.T) {
	hub, url, _ := startHub(t)

	c := NewClient(zerolog.Nop(), time.Millisecond)
	defer c.Close()

	frames := make(chan json.RawMessage, 4)
	c.Subscribe(TopicCourseUpdate, func(data json.RawMessage) { frames <- data })

	if err := c.Connect(url); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	hub.HandleUpdate(&domain.CourseUpdate{ID: "u2", CourseID: "course-2"})

	select {
	case raw := <-frames:
		var update domain.CourseUpdate
		if err := json.Unmarshal(raw, &update); err != nil {
			t.Fatalf("invalid payload: %v", err)
		}
		if update.ID != "u2" {
			t.Fatalf("unexpected update: %+v", update)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for update")
	}
}
