// Package notification provides event handlers that email the operator in
// response to lead events. Domain modules publish events and never talk to the
// mail transport directly.
package notification

import (
	"context"
	"fmt"
	"strings"

	"quote_portal_backend/internal/email"
	"quote_portal_backend/internal/events"
	"quote_portal_backend/internal/leads/domain"
	"quote_portal_backend/platform/config"
	"quote_portal_backend/platform/logger"

	"github.com/google/uuid"
)

// LeadDetailsReader loads a lead for events that only carry its id.
type LeadDetailsReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error)
}

// Module handles all notification-related event subscriptions.
type Module struct {
	sender email.Sender
	cfg    config.NotificationConfig
	leads  LeadDetailsReader
	log    *logger.Logger
}

// New creates a notification module. leads may be nil, status emails then carry only the lead id.
func New(sender email.Sender, cfg config.NotificationConfig, leads LeadDetailsReader, log *logger.Logger) *Module {
	return &Module{sender: sender, cfg: cfg, leads: leads, log: log}
}

// RegisterHandlers subscribes to the lead events an operator cares about.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadCaptured{}.EventName(), m)
	bus.Subscribe(events.LeadInterestsUnconfirmed{}.EventName(), m)
	bus.Subscribe(events.LeadCaptureFailed{}.EventName(), m)
	bus.Subscribe(events.LeadStatusChanged{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	to := strings.TrimSpace(m.cfg.GetOperatorEmail())
	if to == "" {
		m.log.Debug("operator email not configured, skipping notification", "event", event.EventName())
		return nil
	}

	switch e := event.(type) {
	case events.LeadCaptured:
		return m.handleLeadCaptured(ctx, to, e)
	case events.LeadInterestsUnconfirmed:
		return m.handleLeadInterestsUnconfirmed(ctx, to, e)
	case events.LeadCaptureFailed:
		return m.handleLeadCaptureFailed(ctx, to, e)
	case events.LeadStatusChanged:
		return m.handleLeadStatusChanged(ctx, to, e)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) handleLeadCaptured(ctx context.Context, to string, e events.LeadCaptured) error {
	summary := email.LeadSummary{
		LeadID:          e.LeadID.String(),
		FullName:        e.FullName,
		Email:           e.Email,
		Phone:           e.Phone,
		City:            e.City,
		Source:          e.UTMSource,
		Services:        e.Services,
		QuotedTotal:     e.QuotedTotal,
		SubmissionCount: e.SubmissionCount,
		Merged:          e.Merged,
		URL:             m.leadURL(e.LeadID),
	}
	if err := m.sender.SendLeadCapturedEmail(ctx, to, summary); err != nil {
		return fmt.Errorf("send lead captured email: %w", err)
	}
	m.log.Info("lead captured notification sent", "leadId", e.LeadID, "merged", e.Merged)
	return nil
}

func (m *Module) handleLeadInterestsUnconfirmed(ctx context.Context, to string, e events.LeadInterestsUnconfirmed) error {
	summary := m.loadSummary(ctx, e.LeadID)
	summary.Services = e.Services
	if err := m.sender.SendLeadInterestsUnconfirmedEmail(ctx, to, summary, e.Reason); err != nil {
		return fmt.Errorf("send interests unconfirmed email: %w", err)
	}
	m.log.Warn("lead interests need manual confirmation", "leadId", e.LeadID)
	return nil
}

func (m *Module) handleLeadCaptureFailed(ctx context.Context, to string, e events.LeadCaptureFailed) error {
	if err := m.sender.SendLeadCaptureFailedEmail(ctx, to, e.FullName, e.Email, e.Code, e.Reason); err != nil {
		return fmt.Errorf("send capture failed email: %w", err)
	}
	m.log.Error("lead capture failed notification sent", "code", e.Code)
	return nil
}

func (m *Module) handleLeadStatusChanged(ctx context.Context, to string, e events.LeadStatusChanged) error {
	summary := m.loadSummary(ctx, e.LeadID)
	if err := m.sender.SendLeadStatusChangedEmail(ctx, to, summary, e.OldStatus, e.NewStatus); err != nil {
		return fmt.Errorf("send status changed email: %w", err)
	}
	return nil
}

// loadSummary falls back to the bare id when the lead cannot be read.
func (m *Module) loadSummary(ctx context.Context, leadID uuid.UUID) email.LeadSummary {
	summary := email.LeadSummary{LeadID: leadID.String(), URL: m.leadURL(leadID)}
	if m.leads == nil {
		return summary
	}

	lead, err := m.leads.GetByID(ctx, leadID)
	if err != nil {
		m.log.Warn("failed to load lead for notification", "leadId", leadID, "error", err)
		return summary
	}
	summary.FullName = deref(lead.FullName)
	summary.Email = deref(lead.Email)
	summary.Phone = deref(lead.Phone)
	summary.City = deref(lead.City)
	summary.Source = deref(lead.Attribution.Source)
	summary.SubmissionCount = lead.SubmissionCount
	return summary
}

func (m *Module) leadURL(leadID uuid.UUID) string {
	base := strings.TrimRight(m.cfg.GetAppBaseURL(), "/")
	if base == "" {
		return ""
	}
	return fmt.Sprintf("%s/leads/%s", base, leadID)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
