package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/newsnotify/notification-system/internal/api/middleware"
	"github.com/newsnotify/notification-system/internal/core/domain"
)

// ctxUser extracts the authenticated user injected by the Auth middleware
// and fast-fails before any service call when it is absent (which means a
// protected route was registered without the guard).
func ctxUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get(middleware.UserContextKey).(*domain.User)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return user, nil
}
