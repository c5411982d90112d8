package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type sessionResponse struct {
	Room string `json:"room"`
}

// SessionHandler mints video-session room identifiers. Rooms are not
// persisted; the identifier is all a client needs to join.
type SessionHandler struct{}

func NewSessionHandler() *SessionHandler {
	return &SessionHandler{}
}

// Create handles POST /sessions.
//
// @Summary      Create a video session room
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  errorResponse
// @Router       /sessions [post]
func (h *SessionHandler) Create(c echo.Context) error {
	return c.JSON(http.StatusOK, sessionResponse{Room: uuid.NewString()})
}
