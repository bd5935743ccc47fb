package handler

import (
	"quote_portal_backend/internal/leads/domain"
	"quote_portal_backend/internal/leads/transport"
)

// ToSubmission maps the public form to a submission.
func ToSubmission(req transport.SubmitLeadRequest) domain.Submission {
	return domain.Submission{
		Contact: domain.Contact{
			FullName:     req.FullName,
			Email:        req.Email,
			Phone:        req.Phone,
			AddressLine1: req.AddressLine1,
			AddressLine2: req.AddressLine2,
			City:         req.City,
			State:        req.State,
			PostalCode:   req.PostalCode,
			Country:      req.Country,
			Latitude:     req.Latitude,
			Longitude:    req.Longitude,
			ServiceNotes: req.ServiceNotes,
		},
		Attribution: domain.Attribution{
			Source:   req.UTMSource,
			Medium:   req.UTMMedium,
			Campaign: req.UTMCampaign,
			Term:     req.UTMTerm,
			Content:  req.UTMContent,
		},
		Services: req.Services,
	}
}

// FillAttribution keeps every parameter present in body and takes the rest from session.
func FillAttribution(body, session domain.Attribution) domain.Attribution {
	if body.Source == nil {
		body.Source = session.Source
	}
	if body.Medium == nil {
		body.Medium = session.Medium
	}
	if body.Campaign == nil {
		body.Campaign = session.Campaign
	}
	if body.Term == nil {
		body.Term = session.Term
	}
	if body.Content == nil {
		body.Content = session.Content
	}
	return body
}
