package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/TANADADaisuke/kinder-closet-app/internal/api/middleware"
	"github.com/TANADADaisuke/kinder-closet-app/internal/core/ports"
)

// ctxCaller extracts the token subject injected by the Auth middleware. An
// empty subject means the middleware did not run for this route.
func ctxCaller(c echo.Context) (ports.Caller, error) {
	subject, _ := c.Get(middleware.SubjectKey).(string)
	if subject == "" {
		return ports.Caller{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return ports.Caller{Subject: subject}, nil
}

// pathID parses a positive integer path parameter. Anything else does not
// name a resource, so it is reported as not found.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound, "resource not found")
	}
	return id, nil
}
