package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quote_portal_backend/internal/quotes/service"
	"quote_portal_backend/internal/quotes/transport"
	"quote_portal_backend/platform/httpkit"
	"quote_portal_backend/platform/validator"
)

const msgInvalidRequest = "invalid request"

// Handler handles public quote requests.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new quotes handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Calculate prices a selection.
// POST /api/v1/quotes/calculate
func (h *Handler) Calculate(c *gin.Context) {
	var req transport.CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.ValidationError(c, err)
		return
	}

	result, err := h.svc.Calculate(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Request prices a selection and captures the visitor as a lead.
// POST /api/v1/quotes/request
func (h *Handler) Request(c *gin.Context) {
	var req transport.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.ValidationError(c, err)
		return
	}

	result, err := h.svc.Request(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusAccepted, result)
}

// Promo previews a promo code.
// GET /api/v1/quotes/promos/:code
func (h *Handler) Promo(c *gin.Context) {
	code := c.Param("code")
	if err := h.val.Var(code, "required,max=32"); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid promo code", nil)
		return
	}
	httpkit.OK(c, h.svc.Promo(code))
}
