package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mentorlink/sphere-api/internal/api/metrics"
	"github.com/mentorlink/sphere-api/internal/core/service"
)

type chatRequest struct {
	Message string `json:"message" validate:"required"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// ChatHandler fronts the rule-based assistant.
type ChatHandler struct {
	bot *service.ChatBot
}

func NewChatHandler(bot *service.ChatBot) *ChatHandler {
	return &ChatHandler{bot: bot}
}

// Query handles POST /chat.
//
// @Summary      Ask the assistant
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        body  body      chatRequest  true  "User message"
// @Success      200   {object}  chatResponse
// @Failure      400   {object}  errorResponse
// @Router       /chat [post]
func (h *ChatHandler) Query(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	reply, topic := h.bot.Reply(req.Message)
	metrics.ChatQueriesTotal.WithLabelValues(topic).Inc()

	return c.JSON(http.StatusOK, chatResponse{Reply: reply})
}
