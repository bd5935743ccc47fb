// Package management serves the operator views of leads and applies lifecycle changes.
package management

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	attribution "quote_portal_backend/internal/attribution/service"
	"quote_portal_backend/internal/events"
	"quote_portal_backend/internal/leads/domain"
	"quote_portal_backend/internal/leads/repository"
	"quote_portal_backend/internal/leads/transport"
	"quote_portal_backend/platform/apperr"
	"quote_portal_backend/platform/logger"
)

const leadNotFoundMsg = "lead not found"

// Repository is what management needs from persistence.
type Repository interface {
	repository.LeadReader
	repository.StatusWriter
}

// Service provides operator lead operations.
type Service struct {
	repo Repository
	bus  events.Bus
	log  *logger.Logger
	now  func() time.Time
}

// New creates a new management service.
func New(repo Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log, now: time.Now}
}

// List returns a page of leads, most recent submission first.
func (s *Service) List(ctx context.Context, req transport.ListLeadsRequest) (transport.LeadListResponse, error) {
	page := req.Page
	pageSize := req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 50
	}
	if pageSize > 100 {
		pageSize = 100
	}

	params := repository.ListParams{
		Search: strings.TrimSpace(req.Search),
		Offset: (page - 1) * pageSize,
		Limit:  pageSize,
	}
	if req.Status != "" {
		status, err := domain.ParseStatus(req.Status)
		if err != nil {
			return transport.LeadListResponse{}, apperr.Validation(err.Error())
		}
		params.Status = &status
	}

	leads, total, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.LeadListResponse{}, err
	}

	resp := transport.LeadListResponse{
		Items:      make([]transport.LeadResponse, 0, len(leads)),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + pageSize - 1) / pageSize,
	}
	for _, lead := range leads {
		resp.Items = append(resp.Items, ToLeadResponse(lead, nil))
	}
	return resp, nil
}

// Get returns a lead with its current service interests.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return transport.LeadResponse{}, apperr.NotFound(leadNotFoundMsg)
	}
	if err != nil {
		return transport.LeadResponse{}, err
	}

	interests, err := s.repo.ListInterests(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return ToLeadResponse(lead, interests), nil
}

// SetStatus moves a lead to a new status. Contacting bumps the contact counter,
// converting stamps converted_at and locks the status, and notes are appended.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, req transport.UpdateStatusRequest, actorID uuid.UUID) (transport.LeadResponse, error) {
	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		return transport.LeadResponse{}, apperr.Validation(err.Error())
	}

	current, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return transport.LeadResponse{}, apperr.NotFound(leadNotFoundMsg)
	}
	if err != nil {
		return transport.LeadResponse{}, err
	}
	if err := domain.CheckTransition(current.Status, status); err != nil {
		return transport.LeadResponse{}, apperr.Conflict(err.Error())
	}

	now := s.now().UTC()
	note := ""
	if text := strings.TrimSpace(req.Notes); text != "" {
		note = domain.FormatNote(now, status, text)
	}

	updated, err := s.repo.UpdateStatus(ctx, repository.StatusUpdate{ID: id, Status: status, Note: note, At: now})
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return transport.LeadResponse{}, apperr.NotFound(leadNotFoundMsg)
	case errors.Is(err, repository.ErrStatusLocked):
		return transport.LeadResponse{}, apperr.Conflict(domain.ErrTerminalStatus.Error())
	case err != nil:
		return transport.LeadResponse{}, err
	}

	if current.Status != updated.Status {
		s.bus.Publish(ctx, events.LeadStatusChanged{
			BaseEvent: events.NewBaseEventAt(now),
			LeadID:    id,
			OldStatus: string(current.Status),
			NewStatus: string(updated.Status),
			ActorID:   actorID,
		})
	}
	s.log.WithContext(ctx).Info("lead status updated",
		"lead_id", id.String(), "old_status", string(current.Status), "new_status", string(updated.Status))

	return ToLeadResponse(updated, nil), nil
}

// ToLeadResponse maps a lead to its API representation.
func ToLeadResponse(lead domain.Lead, interests []domain.Interest) transport.LeadResponse {
	a := lead.Attribution
	source := ""
	if a.Source != nil {
		source = *a.Source
	}

	resp := transport.LeadResponse{
		ID:           lead.ID.String(),
		FullName:     lead.FullName,
		Email:        lead.Email,
		Phone:        lead.Phone,
		AddressLine1: lead.AddressLine1,
		AddressLine2: lead.AddressLine2,
		City:         lead.City,
		State:        lead.State,
		PostalCode:   lead.PostalCode,
		Country:      lead.Country,
		Latitude:     lead.Latitude,
		Longitude:    lead.Longitude,
		ServiceNotes: lead.ServiceNotes,
		Notes:        lead.Notes,
		Source:       lead.Source,
		Status:       string(lead.Status),
		Attribution: transport.AttributionResponse{
			UTMSource:   a.Source,
			UTMMedium:   a.Medium,
			UTMCampaign: a.Campaign,
			UTMTerm:     a.Term,
			UTMContent:  a.Content,
			SourceLabel: attribution.SourceLabel(source),
		},
		SubmissionCount:  lead.SubmissionCount,
		IsReturning:      lead.IsReturning,
		LastSubmissionAt: lead.LastSubmissionAt.Format(time.RFC3339),
		ContactCount:     lead.ContactCount,
		LastContactedAt:  formatTime(lead.LastContactedAt),
		ConvertedAt:      formatTime(lead.ConvertedAt),
		CreatedAt:        lead.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        lead.UpdatedAt.Format(time.RFC3339),
	}
	for _, i := range interests {
		resp.Interests = append(resp.Interests, transport.InterestResponse{
			ServiceID:      i.ServiceOfferingID,
			ServiceName:    i.ServiceName,
			UnitPriceCents: i.UnitPriceCents,
			Quantity:       i.Quantity,
		})
	}
	return resp
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
