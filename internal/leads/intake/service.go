// Package intake turns quote form submissions into lead records.
package intake

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"quote_portal_backend/internal/events"
	"quote_portal_backend/internal/leads/domain"
	"quote_portal_backend/internal/leads/repository"
	"quote_portal_backend/platform/logger"
)

// Result describes a stored submission.
type Result struct {
	LeadID          uuid.UUID
	Merged          bool
	SubmissionCount int
	IsReturning     bool
	InterestCount   int
}

// Service records lead submissions.
type Service struct {
	store repository.SubmissionStore
	bus   events.Bus
	log   *logger.Logger
	now   func() time.Time
}

// New creates a new intake service.
func New(store repository.SubmissionStore, bus events.Bus, log *logger.Logger) *Service {
	return &Service{store: store, bus: bus, log: log, now: time.Now}
}

// Submit stores a submission: leads without an email are always created, otherwise the
// lead owning the email is merged or created. The interest set is replaced in the same
// transaction. A returned *SubmitError with CodeInterestReplaceFailed comes with a
// Result whose LeadID is committed.
func (s *Service) Submit(ctx context.Context, sub domain.Submission) (Result, error) {
	sub = sub.Normalize()
	now := s.now().UTC()
	log := s.log.WithContext(ctx)

	tx, err := s.store.BeginSubmission(ctx)
	if err != nil {
		return Result{}, s.fail(ctx, sub, newSubmitError(CodeStoreUnavailable, err))
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			log.DatabaseError("lead submission rollback", rbErr)
		}
	}()

	lead, merged, subErr := s.writeLead(ctx, tx, sub, now)
	if subErr != nil {
		return Result{}, s.fail(ctx, sub, subErr)
	}

	interestCount, interestErr := tx.ReplaceInterests(ctx, lead.ID, sub.Services)

	if err := tx.Commit(ctx); err != nil {
		return Result{}, s.fail(ctx, sub, newSubmitError(CodeLeadWriteFailed, err))
	}

	result := Result{
		LeadID:          lead.ID,
		Merged:          merged,
		SubmissionCount: lead.SubmissionCount,
		IsReturning:     lead.IsReturning,
		InterestCount:   interestCount,
	}
	s.publishCaptured(ctx, lead, merged, sub)

	if interestErr != nil {
		leadID := lead.ID
		subErr := newSubmitError(CodeInterestReplaceFailed, interestErr)
		subErr.LeadID = &leadID
		log.LeadSubmission(lead.ID.String(), merged, string(subErr.Code), interestErr)
		s.bus.Publish(ctx, events.LeadInterestsUnconfirmed{
			BaseEvent: events.NewBaseEventAt(now),
			LeadID:    lead.ID,
			Services:  sub.Services,
			Reason:    interestErr.Error(),
		})
		return result, subErr
	}

	log.LeadSubmission(lead.ID.String(), merged, "", nil)
	return result, nil
}

func (s *Service) writeLead(ctx context.Context, tx repository.SubmissionTx, sub domain.Submission, now time.Time) (domain.Lead, bool, *SubmitError) {
	email := sub.Contact.Email
	if email != "" {
		existing, found, err := tx.FindByEmail(ctx, email)
		if err != nil {
			return domain.Lead{}, false, newSubmitError(CodeIdentityLookupFailed, err)
		}
		if found {
			return s.merge(ctx, tx, existing, sub, now)
		}
	}

	created, inserted, err := tx.Insert(ctx, domain.NewLead(sub, now))
	if err != nil {
		return domain.Lead{}, false, newSubmitError(CodeLeadWriteFailed, err)
	}
	if inserted {
		return created, false, nil
	}

	// A concurrent submission created the lead for this email after our lookup.
	existing, found, err := tx.FindByEmail(ctx, email)
	if err != nil {
		return domain.Lead{}, false, newSubmitError(CodeIdentityLookupFailed, err)
	}
	if !found {
		return domain.Lead{}, false, newSubmitError(CodeLeadWriteFailed, errors.New("conflicting lead vanished"))
	}
	return s.merge(ctx, tx, existing, sub, now)
}

func (s *Service) merge(ctx context.Context, tx repository.SubmissionTx, existing domain.Lead, sub domain.Submission, now time.Time) (domain.Lead, bool, *SubmitError) {
	updated, err := tx.Update(ctx, domain.Merge(existing, sub, now))
	if err != nil {
		return domain.Lead{}, false, newSubmitError(CodeLeadWriteFailed, err)
	}
	return updated, true, nil
}

func (s *Service) fail(ctx context.Context, sub domain.Submission, subErr *SubmitError) error {
	s.log.WithContext(ctx).LeadSubmission("", false, string(subErr.Code), subErr.Err)
	s.bus.Publish(ctx, events.LeadCaptureFailed{
		BaseEvent: events.NewBaseEventAt(s.now().UTC()),
		Code:      string(subErr.Code),
		Email:     sub.Contact.Email,
		FullName:  sub.Contact.FullName,
		Reason:    subErr.Err.Error(),
	})
	return subErr
}

func (s *Service) publishCaptured(ctx context.Context, lead domain.Lead, merged bool, sub domain.Submission) {
	s.bus.Publish(ctx, events.LeadCaptured{
		BaseEvent:       events.NewBaseEventAt(lead.UpdatedAt),
		LeadID:          lead.ID,
		Merged:          merged,
		SubmissionCount: lead.SubmissionCount,
		FullName:        value(lead.FullName),
		Email:           value(lead.Email),
		Phone:           value(lead.Phone),
		City:            value(lead.City),
		UTMSource:       value(lead.Attribution.Source),
		Services:        sub.Services,
		QuotedTotal:     sub.QuotedTotalCents,
	})
}

func value(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
