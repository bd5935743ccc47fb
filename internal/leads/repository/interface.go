package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"quote_portal_backend/internal/leads/domain"
)

var (
	ErrNotFound = errors.New("lead not found")
	// ErrStatusLocked is returned when a status update targets a converted lead.
	ErrStatusLocked = errors.New("lead status locked")
)

// SubmissionStore opens the unit of work a lead submission runs in.
type SubmissionStore interface {
	BeginSubmission(ctx context.Context) (SubmissionTx, error)
}

// SubmissionTx is one lead submission. Nothing is visible to readers until Commit.
type SubmissionTx interface {
	// FindByEmail locks and returns the lead owning email, compared case-insensitively.
	FindByEmail(ctx context.Context, email string) (domain.Lead, bool, error)
	// Insert stores a new lead. inserted is false when another lead already owns the email.
	Insert(ctx context.Context, lead domain.Lead) (stored domain.Lead, inserted bool, err error)
	Update(ctx context.Context, lead domain.Lead) (domain.Lead, error)
	// ReplaceInterests swaps the lead's interest set for services and returns how many rows
	// were stored. Ids not in the catalog are dropped. On error the lead write is unaffected.
	ReplaceInterests(ctx context.Context, leadID uuid.UUID, services map[string]int) (int, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// ListParams filters the operator lead list.
type ListParams struct {
	Status *domain.Status
	Search string
	Offset int
	Limit  int
}

// StatusUpdate is an operator status change.
type StatusUpdate struct {
	ID     uuid.UUID
	Status domain.Status
	Note   string
	At     time.Time
}

// LeadReader provides read-only access to leads.
type LeadReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error)
	ListInterests(ctx context.Context, leadID uuid.UUID) ([]domain.Interest, error)
	List(ctx context.Context, params ListParams) ([]domain.Lead, int, error)
}

// StatusWriter applies lifecycle changes.
type StatusWriter interface {
	UpdateStatus(ctx context.Context, params StatusUpdate) (domain.Lead, error)
}

// Repository is the full lead persistence surface.
type Repository interface {
	SubmissionStore
	LeadReader
	StatusWriter
}
