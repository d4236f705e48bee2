package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/newsnotify/notification-system/internal/core/ports"
)

// UserContextKey is where Auth stores the authenticated *domain.User.
const UserContextKey = "user"

// Auth validates the bearer token and resolves it to a live user account.
// Every failure mode (missing header, bad format, expired or malformed
// token, deleted account) maps to the same 401 so the response gives a
// token guesser nothing to work with. The guard never mutates state.
func Auth(tokens ports.TokenIssuer, users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			subjectID, err := tokens.Verify(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			user, err := users.FindByID(c.Request().Context(), subjectID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			// Secret fields stay inside the auth flows.
			user.PasswordHash = ""
			user.PasswordResetToken = ""

			c.Set(UserContextKey, user)
			return next(c)
		}
	}
}
