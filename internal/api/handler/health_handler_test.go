package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestHealthHandler_Greeting(t *testing.T) {
	for excited, want := range map[bool]string{false: "Hello", true: "Hello!!!!!"} {
		e := echo.New()
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

		if err := NewHealthHandler(excited, nil).Greeting(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Body.String() != want {
			t.Errorf("excited=%v: expected %q, got %q", excited, want, rec.Body.String())
		}
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	ok := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name       string
		deps       map[string]Pinger
		wantStatus int
		wantBody   string
	}{
		{"all up", map[string]Pinger{"sqlite": ok, "redis": ok}, http.StatusOK, "ok"},
		{"one down", map[string]Pinger{"sqlite": ok, "redis": down}, http.StatusServiceUnavailable, "degraded"},
		{"nothing to check", nil, http.StatusOK, "ok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)

			if err := NewHealthHandler(false, tt.deps).Readiness(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			var resp readinessResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Status != tt.wantBody || len(resp.Dependencies) != len(tt.deps) {
				t.Fatalf("unexpected body %+v", resp)
			}
			if tt.wantStatus != http.StatusOK && resp.Dependencies["redis"].Error != "connection refused" {
				t.Errorf("redis failure not reported: %+v", resp.Dependencies["redis"])
			}
		})
	}
}
