package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mentorlink/sphere-api/internal/core/domain"
	"github.com/mentorlink/sphere-api/internal/core/ports"
)

type MentorHandler struct {
	mentorService ports.MentorService
}

func NewMentorHandler(mentorService ports.MentorService) *MentorHandler {
	return &MentorHandler{mentorService: mentorService}
}

// List handles GET /mentors.
//
// @Summary      List mentors
// @Tags         mentors
// @Produce      json
// @Success      200  {array}  domain.Mentor
// @Router       /mentors [get]
func (h *MentorHandler) List(c echo.Context) error {
	mentors, err := h.mentorService.ListMentors(c.Request().Context())
	if err != nil {
		return err
	}
	if mentors == nil {
		mentors = []*domain.Mentor{}
	}
	return c.JSON(http.StatusOK, mentors)
}

// Create handles POST /mentors.
//
// @Summary      Create a mentor profile
// @Tags         mentors
// @Accept       json
// @Produce      json
// @Param        body  body      mentorRequest  true  "Mentor profile"
// @Success      201   {object}  domain.Mentor
// @Failure      400   {object}  errorResponse
// @Router       /mentors [post]
func (h *MentorHandler) Create(c echo.Context) error {
	var req mentorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	mentor, err := h.mentorService.CreateMentor(c.Request().Context(), ports.MentorInput{
		Name:      req.Name,
		Expertise: req.Expertise,
		Bio:       req.Bio,
		Email:     req.Email,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, mentor)
}

// Get handles GET /mentors/:id.
//
// @Summary      Get a mentor by id
// @Tags         mentors
// @Produce      json
// @Param        id   path      string  true  "Mentor id"
// @Success      200  {object}  domain.Mentor
// @Failure      404  {object}  errorResponse
// @Router       /mentors/{id} [get]
func (h *MentorHandler) Get(c echo.Context) error {
	mentor, err := h.mentorService.GetMentor(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mentor)
}

// Update handles PUT /mentors/:id.
//
// @Summary      Update a mentor
// @Tags         mentors
// @Accept       json
// @Produce      json
// @Param        id    path      string         true  "Mentor id"
// @Param        body  body      mentorRequest  true  "Mentor profile"
// @Success      200   {object}  domain.Mentor
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /mentors/{id} [put]
func (h *MentorHandler) Update(c echo.Context) error {
	var req mentorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	mentor, err := h.mentorService.UpdateMentor(c.Request().Context(), c.Param("id"), ports.MentorInput{
		Name:      req.Name,
		Expertise: req.Expertise,
		Bio:       req.Bio,
		Email:     req.Email,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, mentor)
}

// Delete handles DELETE /mentors/:id.
//
// @Summary      Delete a mentor
// @Tags         mentors
// @Produce      json
// @Param        id   path      string  true  "Mentor id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /mentors/{id} [delete]
func (h *MentorHandler) Delete(c echo.Context) error {
	if err := h.mentorService.DeleteMentor(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "mentor deleted"})
}
