package realtime

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/mentorlink/sphere-api/internal/api/metrics"
	"github.com/mentorlink/sphere-api/internal/core/domain"
)

const sessionSendBuffer = 32

// Hub is the server side of the notification channel: it tracks connected
// websocket clients and pushes every broadcast frame to all of them. The
// protocol is push-only: inbound frames are read for connection liveness
// and discarded; there is no remote subscription filtering.
type Hub struct {
	log      zerolog.Logger
	upgrader websocket.Upgrader

	register   chan *session
	unregister chan *session
	broadcast  chan Envelope
	sessions   map[*session]struct{}
	done       chan struct{}
}

type session struct {
	conn *websocket.Conn
	send chan []byte
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		register:   make(chan *session),
		unregister: make(chan *session),
		broadcast:  make(chan Envelope, 64),
		sessions:   make(map[*session]struct{}),
		done:       make(chan struct{}),
	}
}

// Run owns all session state; register, unregister, and broadcast are
// serialized through it. Blocks until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for s := range h.sessions {
				close(s.send)
				delete(h.sessions, s)
			}
			metrics.RealtimeClients.Set(0)
			return

		case s := <-h.register:
			h.sessions[s] = struct{}{}
			metrics.RealtimeClients.Set(float64(len(h.sessions)))

		case s := <-h.unregister:
			if _, ok := h.sessions[s]; ok {
				delete(h.sessions, s)
				close(s.send)
				metrics.RealtimeClients.Set(float64(len(h.sessions)))
			}

		case env := <-h.broadcast:
			payload, err := json.Marshal(env)
			if err != nil {
				h.log.Error().Err(err).Str("type", env.Type).Msg("failed to marshal broadcast frame")
				continue
			}
			for s := range h.sessions {
				select {
				case s.send <- payload:
				default:
					// Slow consumer: drop the session rather than block
					// every other client.
					delete(h.sessions, s)
					close(s.send)
					metrics.RealtimeClients.Set(float64(len(h.sessions)))
				}
			}
		}
	}
}

// Broadcast queues env for delivery to every connected client. After the
// hub has shut down the frame is discarded instead of blocking the caller.
func (h *Hub) Broadcast(env Envelope) {
	select {
	case h.broadcast <- env:
	case <-h.done:
	}
}

// HandleUpdate forwards a course update arriving from the Redis relay to all
// connected clients as a {type:"course_update"} frame.
func (h *Hub) HandleUpdate(update *domain.CourseUpdate) {
	env, err := NewEnvelope(TopicCourseUpdate, update)
	if err != nil {
		h.log.Error().Err(err).Str("update_id", update.ID).Msg("failed to build update frame")
		return
	}
	h.Broadcast(env)
}

// Serve handles GET /ws: upgrades the connection and attaches it to the hub.
func (h *Hub) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	s := &session{conn: conn, send: make(chan []byte, sessionSendBuffer)}
	select {
	case h.register <- s:
	case <-h.done:
		// Hub already stopped; refuse the session.
		_ = conn.Close()
		return nil
	}

	go s.writePump()
	go s.readPump(h)

	return nil
}

func (s *session) writePump() {
	for payload := range s.send {
		if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			break
		}
	}
	_ = s.conn.Close()
}

// readPump drains inbound frames until the peer goes away. Frame content is
// ignored: the wire protocol is push-only.
func (s *session) readPump(h *Hub) {
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			break
		}
	}
	select {
	case h.unregister <- s:
	case <-h.done:
	}
}
