package transport

// CreateOfferingRequest contains data for creating a service offering.
type CreateOfferingRequest struct {
	ID                     string  `json:"id" validate:"required,min=2,max=80,slug"`
	Category               string  `json:"category" validate:"required,min=1,max=80"`
	Name                   string  `json:"name" validate:"required,min=1,max=150"`
	Description            *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	BasePriceCents         *int64  `json:"basePriceCents" validate:"required,min=0"`
	Unit                   string  `json:"unit,omitempty" validate:"omitempty,max=30"`
	DefaultDurationMinutes *int    `json:"defaultDurationMinutes,omitempty" validate:"omitempty,min=1,max=1440"`
}

// UpdateOfferingRequest contains a partial update for a service offering.
type UpdateOfferingRequest struct {
	Category               *string `json:"category,omitempty" validate:"omitempty,min=1,max=80"`
	Name                   *string `json:"name,omitempty" validate:"omitempty,min=1,max=150"`
	Description            *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	BasePriceCents         *int64  `json:"basePriceCents,omitempty" validate:"omitempty,min=0"`
	Unit                   *string `json:"unit,omitempty" validate:"omitempty,min=1,max=30"`
	DefaultDurationMinutes *int    `json:"defaultDurationMinutes,omitempty" validate:"omitempty,min=1,max=1440"`
}

// ListOfferingsRequest filters the admin listing.
type ListOfferingsRequest struct {
	Search   string `form:"search" validate:"max=100"`
	Category string `form:"category" validate:"max=80"`
	IsActive *bool  `form:"isActive"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// OfferingResponse represents an offering in API responses.
type OfferingResponse struct {
	ID                     string  `json:"id"`
	Category               string  `json:"category"`
	Name                   string  `json:"name"`
	Description            *string `json:"description,omitempty"`
	BasePriceCents         int64   `json:"basePriceCents"`
	Unit                   string  `json:"unit"`
	DefaultDurationMinutes *int    `json:"defaultDurationMinutes,omitempty"`
	IsActive               bool    `json:"isActive"`
	CreatedAt              string  `json:"createdAt,omitempty"`
	UpdatedAt              string  `json:"updatedAt,omitempty"`
}

// OfferingListResponse wraps a page of offerings.
type OfferingListResponse struct {
	Items      []OfferingResponse `json:"items"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"pageSize"`
	TotalPages int                `json:"totalPages"`
}

// CategoryGroup is one section of the public price list.
type CategoryGroup struct {
	Category string             `json:"category"`
	Services []OfferingResponse `json:"services"`
}

// CatalogResponse is the public price list grouped by category.
type CatalogResponse struct {
	Categories []CategoryGroup `json:"categories"`
}
