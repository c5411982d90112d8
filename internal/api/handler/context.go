package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/mentorlink/sphere-api/internal/api/middleware"
	"github.com/mentorlink/sphere-api/internal/core/domain"
)

// ctxUserID extracts the user id injected by the Auth middleware. A missing
// id means the middleware did not run on this route; reject rather than
// proceed with an empty identity.
func ctxUserID(c echo.Context) (string, error) {
	id, _ := c.Get(middleware.CtxUserID).(string)
	if id == "" {
		return "", domain.ErrMissingToken
	}
	return id, nil
}
