package adapters

import (
	"context"

	"quote_portal_backend/internal/leads/domain"
	quotes "quote_portal_backend/internal/quotes/service"
	"quote_portal_backend/platform/logger"
)

// LeadDispatcher hands a submission to whatever stores it out of band.
type LeadDispatcher interface {
	DispatchLeadCapture(ctx context.Context, sub domain.Submission) error
}

// AttributionReader resolves the visitor session's attribution.
type AttributionReader interface {
	SessionAttribution(ctx context.Context) (domain.Attribution, error)
}

// QuoteLeadCapturer adapts lead dispatch for the quotes domain, satisfying
// quotes.LeadCapturer. Session attribution is resolved before dispatch because
// the session is only known while the request is in flight.
type QuoteLeadCapturer struct {
	dispatcher  LeadDispatcher
	attribution AttributionReader
	log         *logger.Logger
}

// NewQuoteLeadCapturer creates a new quote lead capture adapter. attribution may be nil.
func NewQuoteLeadCapturer(dispatcher LeadDispatcher, attribution AttributionReader, log *logger.Logger) *QuoteLeadCapturer {
	return &QuoteLeadCapturer{dispatcher: dispatcher, attribution: attribution, log: log}
}

func (a *QuoteLeadCapturer) CaptureLead(ctx context.Context, req quotes.LeadRequest) error {
	total := req.QuotedTotalCents
	sub := domain.Submission{
		Contact: domain.Contact{
			FullName:     req.FullName,
			Email:        req.Email,
			Phone:        req.Phone,
			AddressLine1: req.Street,
			City:         req.City,
			State:        req.State,
			PostalCode:   req.Zip,
			Country:      req.Country,
			Latitude:     req.Latitude,
			Longitude:    req.Longitude,
			ServiceNotes: req.Notes,
		},
		Services:         req.Services,
		QuotedTotalCents: &total,
	}

	if a.attribution != nil {
		attr, err := a.attribution.SessionAttribution(ctx)
		if err != nil {
			// Capture without attribution rather than lose the lead.
			a.log.WithContext(ctx).Warn("session attribution unavailable", "error", err)
		} else {
			sub.Attribution = attr
		}
	}

	return a.dispatcher.DispatchLeadCapture(ctx, sub)
}

// Compile-time check that QuoteLeadCapturer implements quotes.LeadCapturer.
var _ quotes.LeadCapturer = (*QuoteLeadCapturer)(nil)
