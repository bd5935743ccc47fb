// Package email renders operator notifications and delivers them over SMTP.
package email

import (
	"context"

	"quote_portal_backend/platform/config"
)

// LeadSummary is what an operator needs to follow up on a lead.
type LeadSummary struct {
	LeadID          string
	FullName        string
	Email           string
	Phone           string
	City            string
	Source          string
	Services        map[string]int
	QuotedTotal     *int64
	SubmissionCount int
	Merged          bool
	URL             string
}

type Sender interface {
	SendLeadCapturedEmail(ctx context.Context, toEmail string, lead LeadSummary) error
	SendLeadInterestsUnconfirmedEmail(ctx context.Context, toEmail string, lead LeadSummary, reason string) error
	SendLeadCaptureFailedEmail(ctx context.Context, toEmail, fullName, contactEmail, code, reason string) error
	SendLeadStatusChangedEmail(ctx context.Context, toEmail string, lead LeadSummary, oldStatus, newStatus string) error
}

type NoopSender struct{}

func (NoopSender) SendLeadCapturedEmail(context.Context, string, LeadSummary) error { return nil }

func (NoopSender) SendLeadInterestsUnconfirmedEmail(context.Context, string, LeadSummary, string) error {
	return nil
}

func (NoopSender) SendLeadCaptureFailedEmail(context.Context, string, string, string, string, string) error {
	return nil
}

func (NoopSender) SendLeadStatusChangedEmail(context.Context, string, LeadSummary, string, string) error {
	return nil
}

// NewSender returns an SMTP sender when email is enabled, otherwise a NoopSender.
func NewSender(cfg config.EmailConfig) Sender {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	)
}
