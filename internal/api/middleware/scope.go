package middleware

import (
	"slices"

	"github.com/labstack/echo/v4"

	"github.com/TANADADaisuke/kinder-closet-app/internal/core/domain"
)

// RequireScope lets the request through when the token grants at least one
// of scopes. It must run after Auth.
func RequireScope(scopes ...domain.Scope) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			granted, _ := c.Get(PermissionsKey).([]string)
			for _, s := range scopes {
				if slices.Contains(granted, string(s)) {
					return next(c)
				}
			}
			return domain.ErrUnauthorized.WithDescription("Permission not found.")
		}
	}
}
