package adapters

import (
	"context"

	attrrepo "quote_portal_backend/internal/attribution/repository"
	attribution "quote_portal_backend/internal/attribution/service"
	"quote_portal_backend/internal/leads/domain"
)

// SessionAttribution adapts the attribution service for the leads domain.
// It resolves the first-touch parameters of the visitor session carried on ctx.
type SessionAttribution struct {
	svc *attribution.Service
}

// NewSessionAttribution creates a new session attribution adapter.
func NewSessionAttribution(svc *attribution.Service) *SessionAttribution {
	return &SessionAttribution{svc: svc}
}

// SessionAttribution returns an empty attribution when ctx has no session.
func (a *SessionAttribution) SessionAttribution(ctx context.Context) (domain.Attribution, error) {
	sessionID := attribution.SessionID(ctx)
	if sessionID == "" {
		return domain.Attribution{}, nil
	}

	params, err := a.svc.Current(ctx, sessionID)
	if err != nil {
		return domain.Attribution{}, err
	}
	return ToLeadAttribution(params), nil
}

// ToLeadAttribution maps stored session parameters to lead attribution, absent values to nil.
func ToLeadAttribution(p attrrepo.Params) domain.Attribution {
	return domain.Attribution{
		Source:   optional(p.Source),
		Medium:   optional(p.Medium),
		Campaign: optional(p.Campaign),
		Term:     optional(p.Term),
		Content:  optional(p.Content),
	}
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
