package service

import (
	"context"

	"quote_portal_backend/internal/quotes/transport"
	"quote_portal_backend/platform/apperr"
	"quote_portal_backend/platform/logger"
)

// CatalogReader provides the active price book.
type CatalogReader interface {
	Prices(ctx context.Context) (map[string]int64, error)
}

// LeadRequest is the lead hand-off produced by a quote request.
type LeadRequest struct {
	FullName         string
	Email            string
	Phone            string
	Street           string
	City             string
	State            string
	Zip              string
	Country          string
	Latitude         *float64
	Longitude        *float64
	Notes            string
	Services         map[string]int
	QuotedTotalCents int64
}

// LeadCapturer accepts a lead for capture without waiting for it to be stored.
type LeadCapturer interface {
	CaptureLead(ctx context.Context, req LeadRequest) error
}

// Service computes quotes and hands quote requests over to lead capture.
type Service struct {
	catalog CatalogReader
	calc    Calculator
	promos  *PromoRegistry
	leads   LeadCapturer
	log     *logger.Logger
}

// New creates a new quotes service.
func New(catalog CatalogReader, promos *PromoRegistry, log *logger.Logger) *Service {
	return &Service{
		catalog: catalog,
		calc:    NewCalculator(promos),
		promos:  promos,
		log:     log,
	}
}

// SetLeadCapturer wires the lead capture dispatcher. Without one, quote requests only price.
func (s *Service) SetLeadCapturer(c LeadCapturer) {
	s.leads = c
}

// Calculate prices a selection against the current catalog.
func (s *Service) Calculate(ctx context.Context, req transport.CalculateRequest) (transport.QuoteResponse, error) {
	quote, err := s.compute(ctx, req.Services, req.PromoCode)
	if err != nil {
		return transport.QuoteResponse{}, err
	}
	return toResponse(quote), nil
}

// Request prices the selection and dispatches the lead. A failed hand-off never withholds the quote.
func (s *Service) Request(ctx context.Context, req transport.QuoteRequest) (transport.QuoteRequestResponse, error) {
	quote, err := s.compute(ctx, req.Services, req.PromoCode)
	if err != nil {
		return transport.QuoteRequestResponse{}, err
	}

	resp := transport.QuoteRequestResponse{
		Quote:       toResponse(quote),
		LeadCapture: transport.LeadCaptureDisabled,
	}
	if s.leads == nil {
		return resp, nil
	}

	lead := LeadRequest{
		FullName:         req.FullName,
		Email:            req.Email,
		Phone:            req.Phone,
		Street:           req.Street,
		City:             req.City,
		State:            req.State,
		Zip:              req.Zip,
		Country:          req.Country,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		Notes:            req.Notes,
		Services:         req.Services,
		QuotedTotalCents: quote.TotalCents,
	}
	if err := s.leads.CaptureLead(ctx, lead); err != nil {
		s.log.WithContext(ctx).Error("lead capture dispatch failed", "error", err)
		resp.LeadCapture = transport.LeadCaptureFailed
		return resp, nil
	}

	resp.LeadCapture = transport.LeadCaptureQueued
	return resp, nil
}

// Promo reports whether a code is in the registry.
func (s *Service) Promo(code string) transport.PromoResponse {
	resp := transport.PromoResponse{Code: NormalizePromoCode(code), Version: s.promos.Version()}
	if p, ok := s.promos.Lookup(code); ok {
		resp.Valid = true
		resp.PercentOff = p.PercentOff
	}
	return resp
}

func (s *Service) compute(ctx context.Context, services map[string]int, promoCode string) (Quote, error) {
	prices, err := s.catalog.Prices(ctx)
	if err != nil {
		s.log.WithContext(ctx).Error("price list unavailable", "error", err)
		return Quote{}, apperr.Wrap(apperr.KindUnavailable, "price list unavailable", err)
	}
	return s.calc.Compute(prices, services, promoCode), nil
}

func toResponse(q Quote) transport.QuoteResponse {
	resp := transport.QuoteResponse{
		Lines:               make([]transport.QuoteLineResponse, 0, len(q.Lines)),
		UnitCount:           q.UnitCount,
		SubtotalCents:       q.SubtotalCents,
		BundleDiscountCents: q.BundleDiscountCents,
		PromoDiscountCents:  q.PromoDiscountCents,
		TotalCents:          q.TotalCents,
		UnresolvedServices:  q.UnresolvedIDs,
	}
	for _, line := range q.Lines {
		resp.Lines = append(resp.Lines, transport.QuoteLineResponse{
			ServiceID:      line.ServiceID,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
			LineTotalCents: line.LineTotalCents,
		})
	}
	if q.BundleTier != nil {
		resp.BundleTier = &transport.BundleTierResponse{
			Name:       q.BundleTier.Name,
			MinUnits:   q.BundleTier.MinUnits,
			PercentOff: q.BundleTier.PercentOff,
		}
	}
	if q.Promo != nil {
		resp.PromoCode = q.Promo.Code
		resp.PromoPercentOff = q.Promo.PercentOff
	}
	return resp
}
