package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"quote_portal_backend/internal/attribution/repository"
	"quote_portal_backend/internal/attribution/service"
	"quote_portal_backend/internal/attribution/transport"
	"quote_portal_backend/platform/apperr"
	"quote_portal_backend/platform/httpkit"
	"quote_portal_backend/platform/validator"
)

// Handler exposes the session's attribution to the public site.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new attribution handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Capture records attribution from a landing query posted by the client.
// POST /api/v1/attribution/capture
func (h *Handler) Capture(c *gin.Context) {
	var req transport.CaptureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.ValidationError(c, err)
		return
	}

	query, err := url.ParseQuery(strings.TrimPrefix(req.Query, "?"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid query string", nil)
		return
	}

	ctx := c.Request.Context()
	params, err := h.svc.Observe(ctx, service.SessionID(ctx), query)
	if httpkit.HandleError(c, storeError(err)) {
		return
	}
	httpkit.OK(c, toResponse(params))
}

// Get returns the current attribution.
// GET /api/v1/attribution
func (h *Handler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	params, err := h.svc.Current(ctx, service.SessionID(ctx))
	if httpkit.HandleError(c, storeError(err)) {
		return
	}
	httpkit.OK(c, toResponse(params))
}

// Clear forgets the current attribution.
// DELETE /api/v1/attribution
func (h *Handler) Clear(c *gin.Context) {
	ctx := c.Request.Context()
	if httpkit.HandleError(c, storeError(h.svc.Clear(ctx, service.SessionID(ctx)))) {
		return
	}
	c.Status(http.StatusNoContent)
}

func storeError(err error) error {
	if err == nil {
		return nil
	}
	return apperr.Wrap(apperr.KindUnavailable, "attribution store unavailable", err)
}

func toResponse(p repository.Params) transport.AttributionResponse {
	return transport.AttributionResponse{
		UTMSource:   p.Source,
		UTMMedium:   p.Medium,
		UTMCampaign: p.Campaign,
		UTMTerm:     p.Term,
		UTMContent:  p.Content,
		SourceLabel: service.SourceLabel(p.Source),
		Captured:    !service.IsEmpty(p),
	}
}
