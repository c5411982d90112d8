package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mentorlink/sphere-api/internal/core/domain"
	"github.com/mentorlink/sphere-api/internal/core/service"
)

// Context keys under which auth claims are stored.
const (
	CtxUserID     = "user_id"
	CtxUsername   = "username"
	CtxIsMentor   = "is_mentor"
	CtxIsStudent  = "is_student"
	CtxIsVerified = "is_verified"
)

// Auth validates the bearer token and injects its claims into the request
// context. An absent token and an unverifiable token are distinct outcomes:
// the error handler renders the former as 401 and the latter as 403.
func Auth(tokens *service.TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return domain.ErrMissingToken
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return domain.ErrMissingToken
			}

			claims, err := tokens.Verify(parts[1], service.PurposeLogin)
			if err != nil {
				return domain.ErrInvalidToken
			}

			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxUsername, claims.Username)
			c.Set(CtxIsMentor, claims.IsMentor)
			c.Set(CtxIsStudent, claims.IsStudent)
			c.Set(CtxIsVerified, claims.IsVerified)

			return next(c)
		}
	}
}
