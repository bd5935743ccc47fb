package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"quote_portal_backend/internal/leads/domain"
)

const TaskLeadCapture = "leads.capture"

// LeadCapturePayload is a quote form submission waiting to be stored.
type LeadCapturePayload struct {
	RequestID        string         `json:"requestId,omitempty"`
	SessionID        string         `json:"sessionId,omitempty"`
	FullName         string         `json:"fullName"`
	Email            string         `json:"email,omitempty"`
	Phone            string         `json:"phone,omitempty"`
	AddressLine1     string         `json:"addressLine1,omitempty"`
	AddressLine2     string         `json:"addressLine2,omitempty"`
	City             string         `json:"city,omitempty"`
	State            string         `json:"state,omitempty"`
	PostalCode       string         `json:"postalCode,omitempty"`
	Country          string         `json:"country,omitempty"`
	Latitude         *float64       `json:"latitude,omitempty"`
	Longitude        *float64       `json:"longitude,omitempty"`
	ServiceNotes     string         `json:"serviceNotes,omitempty"`
	UTMSource        *string        `json:"utmSource,omitempty"`
	UTMMedium        *string        `json:"utmMedium,omitempty"`
	UTMCampaign      *string        `json:"utmCampaign,omitempty"`
	UTMTerm          *string        `json:"utmTerm,omitempty"`
	UTMContent       *string        `json:"utmContent,omitempty"`
	Services         map[string]int `json:"services"`
	QuotedTotalCents *int64         `json:"quotedTotalCents,omitempty"`
}

// NewLeadCapturePayload copies a submission into a task payload.
func NewLeadCapturePayload(sub domain.Submission) LeadCapturePayload {
	c := sub.Contact
	a := sub.Attribution
	return LeadCapturePayload{
		FullName:         c.FullName,
		Email:            c.Email,
		Phone:            c.Phone,
		AddressLine1:     c.AddressLine1,
		AddressLine2:     c.AddressLine2,
		City:             c.City,
		State:            c.State,
		PostalCode:       c.PostalCode,
		Country:          c.Country,
		Latitude:         c.Latitude,
		Longitude:        c.Longitude,
		ServiceNotes:     c.ServiceNotes,
		UTMSource:        a.Source,
		UTMMedium:        a.Medium,
		UTMCampaign:      a.Campaign,
		UTMTerm:          a.Term,
		UTMContent:       a.Content,
		Services:         sub.Services,
		QuotedTotalCents: sub.QuotedTotalCents,
	}
}

// Submission rebuilds the submission carried by the payload.
func (p LeadCapturePayload) Submission() domain.Submission {
	return domain.Submission{
		Contact: domain.Contact{
			FullName:     p.FullName,
			Email:        p.Email,
			Phone:        p.Phone,
			AddressLine1: p.AddressLine1,
			AddressLine2: p.AddressLine2,
			City:         p.City,
			State:        p.State,
			PostalCode:   p.PostalCode,
			Country:      p.Country,
			Latitude:     p.Latitude,
			Longitude:    p.Longitude,
			ServiceNotes: p.ServiceNotes,
		},
		Attribution: domain.Attribution{
			Source:   p.UTMSource,
			Medium:   p.UTMMedium,
			Campaign: p.UTMCampaign,
			Term:     p.UTMTerm,
			Content:  p.UTMContent,
		},
		Services:         p.Services,
		QuotedTotalCents: p.QuotedTotalCents,
	}
}

func NewLeadCaptureTask(payload LeadCapturePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLeadCapture, data), nil
}

func ParseLeadCapturePayload(task *asynq.Task) (LeadCapturePayload, error) {
	var payload LeadCapturePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return LeadCapturePayload{}, err
	}
	return payload, nil
}
