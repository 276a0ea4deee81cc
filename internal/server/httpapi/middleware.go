package httpapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tenkil247/taskmanager/internal/server/models"
)

const sessionContextKey = "session"

// Session is the immutable authenticated-request value handlers read. It
// carries the raw token alongside the user because logout revokes that
// exact token, not just the identity.
type Session struct {
	User  *models.User
	Token string
}

// authGate rejects requests without a valid bearer token. Every failure
// mode produces the same 401 body.
func authGate(users UserService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return unauthenticated(c)
			}

			user, err := users.VerifyToken(c.Request().Context(), token)
			if err != nil {
				return unauthenticated(c)
			}

			c.Set(sessionContextKey, Session{User: user, Token: token})
			return next(c)
		}
	}
}

func unauthenticated(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Please authenticate!"})
}

func sessionFrom(c echo.Context) Session {
	return c.Get(sessionContextKey).(Session)
}
