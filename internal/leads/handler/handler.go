package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"quote_portal_backend/internal/leads/domain"
	"quote_portal_backend/internal/leads/intake"
	"quote_portal_backend/internal/leads/management"
	"quote_portal_backend/internal/leads/transport"
	"quote_portal_backend/platform/httpkit"
	"quote_portal_backend/platform/validator"
)

// submitTimeout bounds a submission once it has been detached from the request.
const submitTimeout = 30 * time.Second

const (
	msgInvalidRequest = "invalid request"
	msgInvalidLeadID  = "invalid lead ID"
)

// AttributionReader resolves the first-touch attribution of the visitor behind ctx.
type AttributionReader interface {
	SessionAttribution(ctx context.Context) (domain.Attribution, error)
}

// Handler handles lead HTTP requests.
type Handler struct {
	intake      *intake.Service
	mgmt        *management.Service
	attribution AttributionReader
	val         *validator.Validator
}

// New creates a new leads handler. attribution may be nil.
func New(intakeSvc *intake.Service, mgmt *management.Service, attribution AttributionReader, val *validator.Validator) *Handler {
	return &Handler{intake: intakeSvc, mgmt: mgmt, attribution: attribution, val: val}
}

// Submit stores a lead synchronously.
// POST /api/v1/leads
func (h *Handler) Submit(c *gin.Context) {
	var req transport.SubmitLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.ValidationError(c, err)
		return
	}

	// A started submission finishes even if the visitor disconnects.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), submitTimeout)
	defer cancel()

	sub := ToSubmission(req)
	if h.attribution != nil {
		if session, err := h.attribution.SessionAttribution(ctx); err != nil {
			_ = c.Error(err)
		} else {
			sub.Attribution = FillAttribution(sub.Attribution, session)
		}
	}

	result, err := h.intake.Submit(ctx, sub)
	if err != nil {
		writeSubmitError(c, err)
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.SubmitLeadResponse{
		LeadID:          result.LeadID.String(),
		SubmissionCount: result.SubmissionCount,
		IsReturning:     result.IsReturning,
	})
}

// List returns a page of leads.
// GET /api/v1/leads
func (h *Handler) List(c *gin.Context) {
	var req transport.ListLeadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.ValidationError(c, err)
		return
	}

	result, err := h.mgmt.List(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetByID returns a lead with its interests.
// GET /api/v1/leads/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	result, err := h.mgmt.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// UpdateStatus moves a lead through its lifecycle.
// PATCH /api/v1/leads/:id/status
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	var req transport.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.ValidationError(c, err)
		return
	}

	identity := httpkit.MustGetIdentity(c)
	result, err := h.mgmt.SetStatus(c.Request.Context(), id, req, identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func leadID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLeadID, nil)
		return uuid.UUID{}, false
	}
	return id, true
}

func writeSubmitError(c *gin.Context, err error) {
	var subErr *intake.SubmitError
	if !errors.As(err, &subErr) {
		httpkit.HandleError(c, err)
		return
	}

	_ = c.Error(err)
	status := http.StatusInternalServerError
	if subErr.Code == intake.CodeStoreUnavailable {
		status = http.StatusServiceUnavailable
	}

	resp := transport.SubmitErrorResponse{
		Error:     "lead could not be saved",
		Code:      string(subErr.Code),
		Retryable: subErr.Retryable,
	}
	if subErr.LeadID != nil {
		id := subErr.LeadID.String()
		resp.LeadID = &id
		resp.Error = "lead saved but requested services were not recorded"
	}
	httpkit.JSON(c, status, resp)
}
