// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"quote_portal_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var (
	NewBaseEvent   = events.NewBaseEvent
	NewBaseEventAt = events.NewBaseEventAt
)

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCaptured is published after a submission was written, whether it created
// a new lead or merged into an existing one.
type LeadCaptured struct {
	BaseEvent
	LeadID          uuid.UUID      `json:"leadId"`
	Merged          bool           `json:"merged"`
	SubmissionCount int            `json:"submissionCount"`
	FullName        string         `json:"fullName"`
	Email           string         `json:"email"`
	Phone           string         `json:"phone"`
	City            string         `json:"city"`
	UTMSource       string         `json:"utmSource"`
	Services        map[string]int `json:"services"`
	QuotedTotal     *int64         `json:"quotedTotal,omitempty"`
}

func (e LeadCaptured) EventName() string { return "leads.lead.captured" }

// LeadInterestsUnconfirmed is published when the lead was saved but its
// service interests could not be replaced. Operators must follow up manually.
type LeadInterestsUnconfirmed struct {
	BaseEvent
	LeadID   uuid.UUID      `json:"leadId"`
	Services map[string]int `json:"services"`
	Reason   string         `json:"reason"`
}

func (e LeadInterestsUnconfirmed) EventName() string { return "leads.lead.interests_unconfirmed" }

// LeadCaptureFailed is published when a deferred submission could not be stored at all.
type LeadCaptureFailed struct {
	BaseEvent
	Code     string `json:"code"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Reason   string `json:"reason"`
}

func (e LeadCaptureFailed) EventName() string { return "leads.lead.capture_failed" }

// LeadStatusChanged is published when an operator moves a lead through its lifecycle.
type LeadStatusChanged struct {
	BaseEvent
	LeadID    uuid.UUID `json:"leadId"`
	OldStatus string    `json:"oldStatus"`
	NewStatus string    `json:"newStatus"`
	ActorID   uuid.UUID `json:"actorId"`
}

func (e LeadStatusChanged) EventName() string { return "leads.lead.status_changed" }

// =============================================================================
// Catalog Domain Events
// =============================================================================

// CatalogChanged is published after an offering was created or edited.
type CatalogChanged struct {
	BaseEvent
	OfferingID string `json:"offeringId"`
}

func (e CatalogChanged) EventName() string { return "catalog.offering.changed" }
