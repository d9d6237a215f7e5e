package middlewares

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/medvault/internal/mverror"
	"github.com/mdouchement/medvault/internal/server/session"
)

const (
	// CurrentUserContextKey is the key to retrieve the current_user from echo.Context.
	CurrentUserContextKey = "current_user"
	// CurrentSessionContextKey is the key to retrieve the current_session from echo.Context.
	CurrentSessionContextKey = "current_session"
)

// Session returns a bearer token auth middleware.
// It stores current_session and current_user into echo.Context.
func Session(m session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := token(c.Request().Header.Get(echo.HeaderAuthorization))
			if token == "" {
				return mverror.NewWithCode(http.StatusUnauthorized, "Invalid login credentials.")
			}

			// Find, validate and store current_session for handlers.
			session, err := m.Validate(token)
			if err != nil {
				return err
			}
			c.Set(CurrentSessionContextKey, session)

			// Find and store current_user for handlers.
			user, err := m.UserFromSession(session)
			if err != nil {
				return err
			}
			c.Set(CurrentUserContextKey, user)

			return next(c)
		}
	}
}

func token(authorization string) string {
	parts := strings.Fields(authorization)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}
