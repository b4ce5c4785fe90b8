package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/TANADADaisuke/kinder-closet-app/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errorResponse
	}{
		{
			name: "domain not found",
			err:  domain.ErrClothesNotFound.WithDescription("clothes 9 not found"),
			want: errorResponse{Error: 404, Message: "clothes_not_found", Description: "clothes 9 not found"},
		},
		{
			name: "wrapped unprocessable",
			err:  fmt.Errorf("reserve: %w", domain.ErrAlreadyReserved),
			want: errorResponse{Error: 422, Message: "already_reserved", Description: "clothes already reserved"},
		},
		{
			name: "ownership",
			err:  domain.ErrInvalidClaims,
			want: errorResponse{Error: 401, Message: "Invalid_claims", Description: "caller may not act on this resource"},
		},
		{
			name: "busy",
			err:  domain.ErrItemsBusy,
			want: errorResponse{Error: 409, Message: "items_busy", Description: "items are locked by another batch"},
		},
		{
			name: "echo error",
			err:  echo.NewHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed"),
			want: errorResponse{Error: 405, Message: "method_not_allowed", Description: "Method Not Allowed"},
		},
		{
			name: "unknown",
			err:  errors.New("disk on fire"),
			want: errorResponse{Error: 500, Message: "internal_server_error"},
		},
	}

	e := echo.New()
	h := NewHTTPErrorHandler(zerolog.Nop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			h(tt.err, c)

			if rec.Code != tt.want.Error {
				t.Fatalf("expected %d, got %d", tt.want.Error, rec.Code)
			}
			var got errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("envelope mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
