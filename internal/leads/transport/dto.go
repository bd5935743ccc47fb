package transport

// SubmitLeadRequest is the public lead form.
type SubmitLeadRequest struct {
	FullName     string         `json:"fullName" validate:"required,min=1,max=200"`
	Email        string         `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Phone        string         `json:"phone,omitempty" validate:"required_without=Email,omitempty,min=7,max=32"`
	AddressLine1 string         `json:"addressLine1,omitempty" validate:"max=200"`
	AddressLine2 string         `json:"addressLine2,omitempty" validate:"max=200"`
	City         string         `json:"city,omitempty" validate:"max=100"`
	State        string         `json:"state,omitempty" validate:"max=100"`
	PostalCode   string         `json:"postalCode,omitempty" validate:"max=20"`
	Country      string         `json:"country,omitempty" validate:"max=100"`
	Latitude     *float64       `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude    *float64       `json:"longitude,omitempty" validate:"omitempty,longitude"`
	ServiceNotes string         `json:"serviceNotes,omitempty" validate:"max=2000"`
	Services     map[string]int `json:"services" validate:"omitempty,max=50,dive,keys,slug,endkeys,min=1,max=10"`
	UTMSource    *string        `json:"utmSource,omitempty" validate:"omitempty,max=255"`
	UTMMedium    *string        `json:"utmMedium,omitempty" validate:"omitempty,max=255"`
	UTMCampaign  *string        `json:"utmCampaign,omitempty" validate:"omitempty,max=255"`
	UTMTerm      *string        `json:"utmTerm,omitempty" validate:"omitempty,max=255"`
	UTMContent   *string        `json:"utmContent,omitempty" validate:"omitempty,max=255"`
}

// SubmitLeadResponse is returned for a stored submission.
type SubmitLeadResponse struct {
	LeadID          string `json:"leadId"`
	SubmissionCount int    `json:"submissionCount"`
	IsReturning     bool   `json:"isReturning"`
}

// SubmitErrorResponse is returned when a submission failed.
type SubmitErrorResponse struct {
	Error     string  `json:"error"`
	Code      string  `json:"code"`
	LeadID    *string `json:"leadId,omitempty"`
	Retryable bool    `json:"retryable"`
}

// ListLeadsRequest filters the operator lead list.
type ListLeadsRequest struct {
	Status   string `form:"status" validate:"omitempty,oneof=new contacted qualified quoted converted lost"`
	Search   string `form:"search" validate:"max=100"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// UpdateStatusRequest changes a lead's status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new contacted qualified quoted converted lost"`
	Notes  string `json:"notes,omitempty" validate:"max=2000"`
}

// AttributionResponse groups the campaign parameters of a lead.
type AttributionResponse struct {
	UTMSource   *string `json:"utmSource,omitempty"`
	UTMMedium   *string `json:"utmMedium,omitempty"`
	UTMCampaign *string `json:"utmCampaign,omitempty"`
	UTMTerm     *string `json:"utmTerm,omitempty"`
	UTMContent  *string `json:"utmContent,omitempty"`
	SourceLabel string  `json:"sourceLabel"`
}

// InterestResponse is one requested service.
type InterestResponse struct {
	ServiceID      string `json:"serviceId"`
	ServiceName    string `json:"serviceName"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	Quantity       int    `json:"quantity"`
}

// LeadResponse represents a lead in operator responses.
type LeadResponse struct {
	ID               string              `json:"id"`
	FullName         *string             `json:"fullName,omitempty"`
	Email            *string             `json:"email,omitempty"`
	Phone            *string             `json:"phone,omitempty"`
	AddressLine1     *string             `json:"addressLine1,omitempty"`
	AddressLine2     *string             `json:"addressLine2,omitempty"`
	City             *string             `json:"city,omitempty"`
	State            *string             `json:"state,omitempty"`
	PostalCode       *string             `json:"postalCode,omitempty"`
	Country          string              `json:"country"`
	Latitude         *float64            `json:"latitude,omitempty"`
	Longitude        *float64            `json:"longitude,omitempty"`
	ServiceNotes     *string             `json:"serviceNotes,omitempty"`
	Notes            *string             `json:"notes,omitempty"`
	Source           string              `json:"source"`
	Status           string              `json:"status"`
	Attribution      AttributionResponse `json:"attribution"`
	SubmissionCount  int                 `json:"submissionCount"`
	IsReturning      bool                `json:"isReturning"`
	LastSubmissionAt string              `json:"lastSubmissionAt"`
	ContactCount     int                 `json:"contactCount"`
	LastContactedAt  *string             `json:"lastContactedAt,omitempty"`
	ConvertedAt      *string             `json:"convertedAt,omitempty"`
	CreatedAt        string              `json:"createdAt"`
	UpdatedAt        string              `json:"updatedAt"`
	Interests        []InterestResponse  `json:"interests,omitempty"`
}

// LeadListResponse wraps a page of leads.
type LeadListResponse struct {
	Items      []LeadResponse `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}
