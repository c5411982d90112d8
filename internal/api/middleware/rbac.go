package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireMentor rejects requests whose token does not carry the mentor flag.
// Role flags are trusted as of token issuance; they are not re-checked
// against the credential store per request.
func RequireMentor() echo.MiddlewareFunc {
	return requireFlag(CtxIsMentor)
}

// RequireStudent rejects requests whose token does not carry the student flag.
func RequireStudent() echo.MiddlewareFunc {
	return requireFlag(CtxIsStudent)
}

func requireFlag(key string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			flag, _ := c.Get(key).(bool)
			if !flag {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
