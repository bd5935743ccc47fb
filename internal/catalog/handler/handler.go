package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quote_portal_backend/internal/catalog/service"
	"quote_portal_backend/internal/catalog/transport"
	"quote_portal_backend/platform/httpkit"
	"quote_portal_backend/platform/validator"
)

// Handler handles HTTP requests for the pricing catalog.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest = "invalid request"
	msgInvalidID      = "invalid service offering ID"
)

// New creates a new catalog handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// ListPublic returns the active price list grouped by category.
// GET /api/v1/catalog/services
func (h *Handler) ListPublic(c *gin.Context) {
	result, err := h.svc.Grouped(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	c.Header("Cache-Control", "public, max-age=60")
	httpkit.OK(c, result)
}

// List retrieves offerings for administration.
// GET /api/v1/admin/catalog/services
func (h *Handler) List(c *gin.Context) {
	var req transport.ListOfferingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.ValidationError(c, err)
		return
	}

	result, err := h.svc.List(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetByID retrieves a single offering.
// GET /api/v1/admin/catalog/services/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := h.offeringID(c)
	if !ok {
		return
	}

	result, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Create adds a new offering.
// POST /api/v1/admin/catalog/services
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateOfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.ValidationError(c, err)
		return
	}

	result, err := h.svc.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// Update applies a partial update.
// PUT /api/v1/admin/catalog/services/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := h.offeringID(c)
	if !ok {
		return
	}

	var req transport.UpdateOfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.ValidationError(c, err)
		return
	}

	result, err := h.svc.Update(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ToggleActive flips the active flag.
// PATCH /api/v1/admin/catalog/services/:id/toggle-active
func (h *Handler) ToggleActive(c *gin.Context) {
	id, ok := h.offeringID(c)
	if !ok {
		return
	}

	result, err := h.svc.ToggleActive(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) offeringID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if err := h.val.Var(id, "required,slug"); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return "", false
	}
	return id, true
}
