package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireUser rejects anonymous requests. It must run after Session.
func RequireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentUser(c) == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "login required")
			}
			return next(c)
		}
	}
}
