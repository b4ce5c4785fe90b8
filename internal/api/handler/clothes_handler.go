package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/TANADADaisuke/kinder-closet-app/internal/api/metrics"
	"github.com/TANADADaisuke/kinder-closet-app/internal/core/domain"
	"github.com/TANADADaisuke/kinder-closet-app/internal/core/ports"
)

// ClothesHandler serves the clothing catalog.
type ClothesHandler struct {
	service ports.ClothesService
}

func NewClothesHandler(service ports.ClothesService) *ClothesHandler {
	return &ClothesHandler{service: service}
}

// List handles GET /clothes.
//
// @Summary      List clothes
// @Tags         clothes
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  clothesListResponse
// @Failure      401  {object}  errorResponse
// @Router       /clothes [get]
func (h *ClothesHandler) List(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	items, err := h.service.List(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clothesListResponse{Success: true, Total: len(items), Clothes: items})
}

// Get handles GET /clothes/:id.
//
// @Summary      Get one clothing item
// @Tags         clothes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Clothes id"
// @Success      200  {object}  clothesResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /clothes/{id} [get]
func (h *ClothesHandler) Get(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	item, err := h.service.Get(c.Request().Context(), caller, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clothesResponse{Success: true, Clothes: *item})
}

// Create handles POST /clothes.
//
// @Summary      Register a clothing item
// @Tags         clothes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createClothesRequest  true  "Type and size"
// @Success      200   {object}  clothesResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /clothes [post]
func (h *ClothesHandler) Create(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	var req createClothesRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidInput.WithDescription("invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	item, err := h.service.Create(c.Request().Context(), caller, ports.CreateClothesInput{
		Type: strings.TrimSpace(req.Type),
		Size: *req.Size,
	})
	if err != nil {
		return err
	}
	metrics.ClothesMutationsTotal.WithLabelValues("create").Inc()
	return c.JSON(http.StatusOK, clothesResponse{Success: true, Clothes: *item})
}

// Update handles PATCH /clothes/:id.
//
// @Summary      Update a clothing item
// @Tags         clothes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                  true  "Clothes id"
// @Param        body  body      patchClothesRequest  true  "Fields to change"
// @Success      200   {object}  clothesResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /clothes/{id} [patch]
func (h *ClothesHandler) Update(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req patchClothesRequest
	if err := c.Bind(&req); err != nil {
		return domain.ErrInvalidInput.WithDescription("invalid payload")
	}

	item, err := h.service.Update(c.Request().Context(), caller, id, domain.ClothesPatch{
		Type:   req.Type,
		Size:   req.Size,
		Status: req.Status,
	})
	if err != nil {
		return err
	}
	metrics.ClothesMutationsTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, clothesResponse{Success: true, Clothes: *item})
}

// Delete handles DELETE /clothes/:id.
//
// @Summary      Delete a clothing item
// @Tags         clothes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Clothes id"
// @Success      200  {object}  deletedResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /clothes/{id} [delete]
func (h *ClothesHandler) Delete(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), caller, id); err != nil {
		return err
	}
	metrics.ClothesMutationsTotal.WithLabelValues("delete").Inc()
	return c.JSON(http.StatusOK, deletedResponse{Success: true, Deleted: id})
}
