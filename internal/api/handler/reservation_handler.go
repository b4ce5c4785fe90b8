package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/TANADADaisuke/kinder-closet-app/internal/api/metrics"
	"github.com/TANADADaisuke/kinder-closet-app/internal/core/domain"
	"github.com/TANADADaisuke/kinder-closet-app/internal/core/ports"
)

// ReservationHandler serves the reservation ledger, both per item and per user.
type ReservationHandler struct {
	service ports.ReservationService
}

func NewReservationHandler(service ports.ReservationService) *ReservationHandler {
	return &ReservationHandler{service: service}
}

// Get handles GET /clothes/:id/reservations.
//
// @Summary      Show who reserved an item
// @Tags         reservations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Clothes id"
// @Success      200  {object}  reservationResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /clothes/{id}/reservations [get]
func (h *ReservationHandler) Get(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	detail, err := h.service.Get(c.Request().Context(), caller, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reservationResponse{Success: true, Clothes: detail.Clothes, User: detail.User})
}

// Reserve handles POST /clothes/:id/reservations.
//
// @Summary      Reserve an item
// @Tags         reservations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int             true  "Clothes id"
// @Param        body  body      reserveRequest  true  "Identity of the caller"
// @Success      200   {object}  reservationResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /clothes/{id}/reservations [post]
func (h *ReservationHandler) Reserve(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req reserveRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidInput.WithDescription("invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	detail, err := h.service.Reserve(c.Request().Context(), caller, id, req.Auth0ID)
	if err != nil {
		metrics.ObserveRejection(err)
		return err
	}
	metrics.ReservationsCreatedTotal.WithLabelValues(metrics.ModeSingle).Inc()
	return c.JSON(http.StatusOK, reservationResponse{Success: true, Clothes: detail.Clothes, User: detail.User})
}

// Cancel handles DELETE /clothes/:id/reservations.
//
// @Summary      Cancel the reservation on an item
// @Tags         reservations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Clothes id"
// @Success      200  {object}  reservationResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /clothes/{id}/reservations [delete]
func (h *ReservationHandler) Cancel(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	detail, err := h.service.Cancel(c.Request().Context(), caller, id)
	if err != nil {
		metrics.ObserveRejection(err)
		return err
	}
	metrics.ReservationsCancelledTotal.WithLabelValues(metrics.ModeSingle).Inc()
	return c.JSON(http.StatusOK, reservationResponse{Success: true, Clothes: detail.Clothes, User: detail.User})
}

// ListForUser handles GET /users/:id/reservations.
//
// @Summary      List a user's reservations
// @Tags         reservations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  userReservationsResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id}/reservations [get]
func (h *ReservationHandler) ListForUser(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	res, err := h.service.ListForUser(c.Request().Context(), caller, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userReservationsResponse{
		Success: true,
		User:    res.User,
		Total:   len(res.Clothes),
		Clothes: res.Clothes,
	})
}

// BulkReserve handles POST /users/:id/reservations.
//
// @Summary      Reserve several items at once
// @Description  Either every listed item is reserved or none is.
// @Tags         reservations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                 true  "User id"
// @Param        body  body      bulkReserveRequest  true  "Identity and clothes ids"
// @Success      200   {object}  userReservationsResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /users/{id}/reservations [post]
func (h *ReservationHandler) BulkReserve(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req bulkReserveRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidInput.WithDescription("invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.service.BulkReserve(c.Request().Context(), caller, id, req.Auth0ID, req.Reservations)
	if err != nil {
		metrics.ObserveRejection(err)
		return err
	}
	metrics.ReservationsCreatedTotal.WithLabelValues(metrics.ModeBulk).Add(float64(len(res.Clothes)))
	return c.JSON(http.StatusOK, userReservationsResponse{
		Success: true,
		User:    res.User,
		Total:   len(res.Clothes),
		Clothes: res.Clothes,
	})
}

// BulkCancel handles DELETE /users/:id/reservations.
//
// @Summary      Cancel every reservation of a user
// @Tags         reservations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  bulkCancelResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /users/{id}/reservations [delete]
func (h *ReservationHandler) BulkCancel(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	res, err := h.service.BulkCancel(c.Request().Context(), caller, id)
	if err != nil {
		metrics.ObserveRejection(err)
		return err
	}
	metrics.ReservationsCancelledTotal.WithLabelValues(metrics.ModeBulk).Add(float64(len(res.Clothes)))
	return c.JSON(http.StatusOK, bulkCancelResponse{Success: true, User: res.User, Cancelled: res.Clothes})
}
