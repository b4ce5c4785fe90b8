package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/TANADADaisuke/kinder-closet-app/internal/api/metrics"
	"github.com/TANADADaisuke/kinder-closet-app/internal/core/domain"
	"github.com/TANADADaisuke/kinder-closet-app/internal/core/ports"
)

type stubReservationService struct {
	ports.ReservationService
	cancelFn func(ctx context.Context, caller ports.Caller, clothesID int64) (*domain.ReservationDetail, error)
}

func (s *stubReservationService) Cancel(ctx context.Context, caller ports.Caller, clothesID int64) (*domain.ReservationDetail, error) {
	return s.cancelFn(ctx, caller, clothesID)
}

func TestReservationHandler_Cancel_CountsRejection(t *testing.T) {
	stub := &stubReservationService{
		cancelFn: func(ctx context.Context, caller ports.Caller, clothesID int64) (*domain.ReservationDetail, error) {
			return nil, domain.ErrMultipleReservations.WithDescription("clothes %d has 2 reservations", clothesID)
		},
	}
	rejected := metrics.ReservationRejectionsTotal.WithLabelValues("multiple_reservations")
	before := testutil.ToFloat64(rejected)

	c, _ := newJSONContext(http.MethodDelete, "/clothes/4/reservations", "", "auth0|alice")
	c.SetParamNames("id")
	c.SetParamValues("4")

	err := NewReservationHandler(stub).Cancel(c)
	if !errors.Is(err, domain.ErrMultipleReservations) {
		t.Fatalf("expected ErrMultipleReservations, got %v", err)
	}
	if got := testutil.ToFloat64(rejected) - before; got != 1 {
		t.Errorf("multiple_reservations delta = %v, want 1", got)
	}
}

func TestReservationHandler_Cancel_Success(t *testing.T) {
	stub := &stubReservationService{
		cancelFn: func(ctx context.Context, caller ports.Caller, clothesID int64) (*domain.ReservationDetail, error) {
			if caller.Subject != "auth0|alice" || clothesID != 4 {
				t.Fatalf("unexpected args: %+v %d", caller, clothesID)
			}
			return &domain.ReservationDetail{Clothes: domain.Clothes{ID: 4}, User: domain.User{ID: 1}}, nil
		},
	}
	cancelled := metrics.ReservationsCancelledTotal.WithLabelValues(metrics.ModeSingle)
	before := testutil.ToFloat64(cancelled)

	c, rec := newJSONContext(http.MethodDelete, "/clothes/4/reservations", "", "auth0|alice")
	c.SetParamNames("id")
	c.SetParamValues("4")

	if err := NewReservationHandler(stub).Cancel(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := testutil.ToFloat64(cancelled) - before; got != 1 {
		t.Errorf("cancelled delta = %v, want 1", got)
	}
}
