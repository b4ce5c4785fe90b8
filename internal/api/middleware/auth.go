package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/TANADADaisuke/kinder-closet-app/internal/auth"
)

// Context keys set by Auth.
const (
	SubjectKey     = "subject"
	PermissionsKey = "permissions"
)

// Auth verifies the bearer token and injects its subject and permissions
// into the context. Failures are returned as typed errors for the central
// error handler.
func Auth(v *auth.Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := auth.BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return err
			}
			claims, err := v.Verify(raw)
			if err != nil {
				return err
			}

			c.Set(SubjectKey, claims.Subject)
			c.Set(PermissionsKey, claims.Permissions)
			return next(c)
		}
	}
}
