package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"
)

// Pinger is a dependency the readiness check pings.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler serves GET / and the liveness and readiness checks.
type HealthHandler struct {
	excited bool
	deps    map[string]Pinger
}

// NewHealthHandler checks deps by name on readiness.
func NewHealthHandler(excited bool, deps map[string]Pinger) *HealthHandler {
	return &HealthHandler{excited: excited, deps: deps}
}

// Greeting handles GET /.
//
// @Summary      Greeting
// @Tags         health
// @Produce      plain
// @Success      200  {string}  string  "Hello"
// @Router       / [get]
func (h *HealthHandler) Greeting(c echo.Context) error {
	greeting := "Hello"
	if h.excited {
		greeting += "!!!!!"
	}
	return c.String(http.StatusOK, greeting)
}

// Liveness handles GET /health. Returns 200 immediately; confirms the process is alive.
//
// @Summary      Liveness check
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Readiness handles GET /health/ready, pinging every dependency concurrently.
//
// @Summary      Readiness check
// @Tags         health
// @Produce      json
// @Success      200  {object}  readinessResponse
// @Failure      503  {object}  readinessResponse
// @Router       /health/ready [get]
func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	var (
		mu      sync.Mutex
		healthy = true
		deps    = make(map[string]dependencyStatus, len(h.deps))
	)
	var g errgroup.Group
	for name, dep := range h.deps {
		g.Go(func() error {
			st := dependencyStatus{Status: "ok"}
			if err := dep.Ping(ctx); err != nil {
				st = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			}
			mu.Lock()
			defer mu.Unlock()
			deps[name] = st
			if st.Status != "ok" {
				healthy = false
			}
			return nil
		})
	}
	_ = g.Wait()

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
