// Package metrics defines the domain Prometheus metrics of the closet API. It
// is the single source of truth for metric names, labels, and help strings.
//
// Metrics are registered with the default registry through promauto; the
// router exposes them next to the per-router HTTP metrics.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/TANADADaisuke/kinder-closet-app/internal/core/domain"
)

const namespace = "closet"

// Batch labels for reservation counters.
const (
	ModeSingle = "single"
	ModeBulk   = "bulk"
)

// ReservationsCreatedTotal counts items moved to reserved.
// Label:
//   - mode: "single" or "bulk"
var ReservationsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reservations_created_total",
		Help:      "Total number of clothes reserved.",
	},
	[]string{"mode"},
)

// ReservationsCancelledTotal counts items released back to available.
// Label:
//   - mode: "single" or "bulk"
var ReservationsCancelledTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reservations_cancelled_total",
		Help:      "Total number of reservations cancelled.",
	},
	[]string{"mode"},
)

// ReservationRejectionsTotal counts reservation requests refused on a state
// precondition.
// Label:
//   - reason: the error code, e.g. "already_reserved", "items_busy"
var ReservationRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reservation_rejections_total",
		Help:      "Total number of reservation requests rejected by the ledger.",
	},
	[]string{"reason"},
)

// ClothesMutationsTotal counts catalog writes.
// Label:
//   - op: "create", "update" or "delete"
var ClothesMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "clothes_mutations_total",
		Help:      "Total number of catalog writes, by operation.",
	},
	[]string{"op"},
)

// ObserveRejection records err when it is a ledger precondition failure.
// Authorization and lookup failures are not counted.
func ObserveRejection(err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		return
	}
	switch de.Kind {
	case domain.KindConflict, domain.KindUnprocessable:
		ReservationRejectionsTotal.WithLabelValues(de.Code).Inc()
	}
}
