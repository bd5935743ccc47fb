package repository

import (
	"context"
	"time"
)

// Offering is a priced service a visitor can select.
type Offering struct {
	ID                     string
	Category               string
	Name                   string
	Description            *string
	BasePriceCents         int64
	Unit                   string
	DefaultDurationMinutes *int
	IsActive               bool
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// CreateParams contains parameters for creating an offering.
type CreateParams struct {
	ID                     string
	Category               string
	Name                   string
	Description            *string
	BasePriceCents         int64
	Unit                   string
	DefaultDurationMinutes *int
}

// UpdateParams contains parameters for a partial offering update.
type UpdateParams struct {
	ID                     string
	Category               *string
	Name                   *string
	Description            *string
	BasePriceCents         *int64
	Unit                   *string
	DefaultDurationMinutes *int
}

// ListParams filters the admin listing.
type ListParams struct {
	Search   string
	Category string
	IsActive *bool
	Offset   int
	Limit    int
}

// OfferingReader provides read operations for offerings.
type OfferingReader interface {
	GetByID(ctx context.Context, id string) (Offering, error)
	ListActive(ctx context.Context) ([]Offering, error)
	List(ctx context.Context, params ListParams) ([]Offering, int, error)
}

// OfferingWriter provides write operations for offerings.
type OfferingWriter interface {
	Create(ctx context.Context, params CreateParams) (Offering, error)
	Update(ctx context.Context, params UpdateParams) (Offering, error)
	SetActive(ctx context.Context, id string, isActive bool) (Offering, error)
}

// Repository combines all offering repository operations.
type Repository interface {
	OfferingReader
	OfferingWriter
}
