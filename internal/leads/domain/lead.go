// Package domain holds the lead record and the rules for creating and merging it.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"quote_portal_backend/platform/phone"
	"quote_portal_backend/platform/sanitize"
)

const (
	DefaultCountry = "USA"
	DefaultSource  = "website"
)

// Attribution holds the five campaign parameters. A nil field was not seen.
type Attribution struct {
	Source   *string
	Medium   *string
	Campaign *string
	Term     *string
	Content  *string
}

// Contact is what a visitor types into the quote form.
type Contact struct {
	FullName     string
	Email        string
	Phone        string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	PostalCode   string
	Country      string
	Latitude     *float64
	Longitude    *float64
	ServiceNotes string
}

// Submission is one quote form submission.
type Submission struct {
	Contact          Contact
	Attribution      Attribution
	Services         map[string]int
	QuotedTotalCents *int64
	Source           string
}

// Lead is a prospective customer.
type Lead struct {
	ID                uuid.UUID
	FullName          *string
	Email             *string
	Phone             *string
	AddressLine1      *string
	AddressLine2      *string
	City              *string
	State             *string
	PostalCode        *string
	Country           string
	Latitude          *float64
	Longitude         *float64
	ServiceNotes      *string
	Notes             *string
	Source            string
	Status            Status
	Attribution       Attribution
	SubmissionCount   int
	IsReturning       bool
	LastSubmissionAt  time.Time
	ContactCount      int
	LastContactedAt   *time.Time
	ConvertedAt       *time.Time
	ConvertedClientID *uuid.UUID
	ConvertedJobID    *uuid.UUID
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Interest is a service and quantity a lead asked to be quoted for.
type Interest struct {
	ServiceOfferingID string
	ServiceName       string
	UnitPriceCents    int64
	Quantity          int
}

// Normalize cleans user input: HTML is stripped, whitespace collapsed, the email
// lower-cased and the phone formatted as E.164 when it parses.
func (s Submission) Normalize() Submission {
	c := s.Contact
	c.FullName = sanitize.Line(c.FullName)
	c.Email = sanitize.Email(c.Email)
	c.Phone = phone.NormalizeE164(c.Phone)
	c.AddressLine1 = sanitize.Line(c.AddressLine1)
	c.AddressLine2 = sanitize.Line(c.AddressLine2)
	c.City = sanitize.Line(c.City)
	c.State = sanitize.Line(c.State)
	c.PostalCode = sanitize.Line(c.PostalCode)
	c.Country = sanitize.Line(c.Country)
	c.ServiceNotes = sanitize.Text(c.ServiceNotes)
	s.Contact = c

	s.Attribution = Attribution{
		Source:   trimmedOrNil(s.Attribution.Source),
		Medium:   trimmedOrNil(s.Attribution.Medium),
		Campaign: trimmedOrNil(s.Attribution.Campaign),
		Term:     trimmedOrNil(s.Attribution.Term),
		Content:  trimmedOrNil(s.Attribution.Content),
	}

	services := make(map[string]int, len(s.Services))
	for id, qty := range s.Services {
		if qty > 0 {
			services[strings.TrimSpace(id)] = qty
		}
	}
	s.Services = services
	s.Source = strings.TrimSpace(s.Source)
	return s
}

// NewLead builds the first record for a submission.
func NewLead(s Submission, now time.Time) Lead {
	c := s.Contact
	lead := Lead{
		FullName:         stringOrNil(c.FullName),
		Email:            stringOrNil(c.Email),
		Phone:            stringOrNil(c.Phone),
		AddressLine1:     stringOrNil(c.AddressLine1),
		AddressLine2:     stringOrNil(c.AddressLine2),
		City:             stringOrNil(c.City),
		State:            stringOrNil(c.State),
		PostalCode:       stringOrNil(c.PostalCode),
		Country:          c.Country,
		Latitude:         c.Latitude,
		Longitude:        c.Longitude,
		ServiceNotes:     stringOrNil(c.ServiceNotes),
		Source:           s.Source,
		Status:           StatusNew,
		Attribution:      s.Attribution,
		SubmissionCount:  1,
		LastSubmissionAt: now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if lead.Country == "" {
		lead.Country = DefaultCountry
	}
	if lead.Source == "" {
		lead.Source = DefaultSource
	}
	return lead
}

// Merge folds a repeat submission into an existing lead. Contact fields change only
// when the new value is non-empty, attribution fields whenever the new value is present.
// The submission counter always advances by one and the lead becomes returning.
func Merge(existing Lead, s Submission, now time.Time) Lead {
	c := s.Contact
	merged := existing

	overwrite(&merged.FullName, c.FullName)
	overwrite(&merged.Email, c.Email)
	overwrite(&merged.Phone, c.Phone)
	overwrite(&merged.AddressLine1, c.AddressLine1)
	overwrite(&merged.AddressLine2, c.AddressLine2)
	overwrite(&merged.City, c.City)
	overwrite(&merged.State, c.State)
	overwrite(&merged.PostalCode, c.PostalCode)
	overwrite(&merged.ServiceNotes, c.ServiceNotes)
	if c.Country != "" {
		merged.Country = c.Country
	}
	if c.Latitude != nil {
		merged.Latitude = c.Latitude
	}
	if c.Longitude != nil {
		merged.Longitude = c.Longitude
	}

	a := s.Attribution
	if a.Source != nil {
		merged.Attribution.Source = a.Source
	}
	if a.Medium != nil {
		merged.Attribution.Medium = a.Medium
	}
	if a.Campaign != nil {
		merged.Attribution.Campaign = a.Campaign
	}
	if a.Term != nil {
		merged.Attribution.Term = a.Term
	}
	if a.Content != nil {
		merged.Attribution.Content = a.Content
	}

	merged.SubmissionCount = existing.SubmissionCount + 1
	merged.IsReturning = true
	merged.LastSubmissionAt = now
	merged.UpdatedAt = now
	return merged
}

func overwrite(dst **string, value string) {
	if value != "" {
		v := value
		*dst = &v
	}
}

func stringOrNil(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	return stringOrNil(strings.TrimSpace(*value))
}
