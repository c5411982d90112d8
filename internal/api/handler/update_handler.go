package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mentorlink/sphere-api/internal/core/domain"
	"github.com/mentorlink/sphere-api/internal/core/ports"
)

// UpdateDispatcher is the interface the handler uses to enqueue updates.
type UpdateDispatcher interface {
	Enqueue(input ports.CourseUpdateInput)
}

type updateRequest struct {
	Type        string `json:"type"        validate:"required,oneof=material quiz video assignment"`
	Title       string `json:"title"       validate:"required"`
	Description string `json:"description"`
	CourseID    string `json:"course_id"   validate:"required"`
	CourseName  string `json:"course_name"`
	URL         string `json:"url"`
}

type acceptedResponse struct {
	Message string `json:"message"`
}

// UpdateHandler ingests course updates and serves recent history.
type UpdateHandler struct {
	dispatcher    UpdateDispatcher
	updateService ports.UpdateService
}

func NewUpdateHandler(dispatcher UpdateDispatcher, updateService ports.UpdateService) *UpdateHandler {
	return &UpdateHandler{dispatcher: dispatcher, updateService: updateService}
}

// Publish handles POST /updates. It enqueues a course update and returns 202.
// Delivery to subscribers is asynchronous; per-course ordering is preserved
// by the dispatcher.
//
// @Summary      Publish a course update
// @Tags         updates
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateRequest  true  "Course update"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /updates [post]
func (h *UpdateHandler) Publish(c echo.Context) error {
	var req updateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	h.dispatcher.Enqueue(ports.CourseUpdateInput{
		Type:        req.Type,
		Title:       req.Title,
		Description: req.Description,
		CourseID:    req.CourseID,
		CourseName:  req.CourseName,
		URL:         req.URL,
	})

	return c.JSON(http.StatusAccepted, acceptedResponse{Message: "update accepted"})
}

// Recent handles GET /updates/:courseID.
//
// @Summary      Recent updates for a course
// @Tags         updates
// @Produce      json
// @Param        courseID  path  string  true  "Course id"
// @Success      200  {array}   domain.CourseUpdate
// @Failure      400  {object}  errorResponse
// @Router       /updates/{courseID} [get]
func (h *UpdateHandler) Recent(c echo.Context) error {
	updates, err := h.updateService.Recent(c.Request().Context(), c.Param("courseID"))
	if err != nil {
		return err
	}
	if updates == nil {
		updates = []*domain.CourseUpdate{}
	}
	return c.JSON(http.StatusOK, updates)
}
