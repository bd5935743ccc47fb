package email

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements the Sender interface using a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	opts := []gomail.Option{
		gomail.WithPort(s.port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15 * time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	}
	if s.username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.username),
			gomail.WithPassword(s.password),
		)
	}

	client, err := gomail.NewClient(s.host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func (s *SMTPSender) SendLeadCapturedEmail(ctx context.Context, toEmail string, lead LeadSummary) error {
	heading := "New quote request"
	if lead.Merged {
		heading = "Returning visitor requested a quote"
	}
	content, err := renderEmailTemplate("lead_captured.html", leadEmailData{
		baseEmailData: baseEmailData{
			Title:    heading,
			Heading:  heading,
			CTALabel: "Open lead",
			CTAURL:   lead.URL,
		},
		Lead: newLeadView(lead),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectLeadCapturedFmt, displayName(lead.FullName, lead.Email)), content)
}

func (s *SMTPSender) SendLeadInterestsUnconfirmedEmail(ctx context.Context, toEmail string, lead LeadSummary, reason string) error {
	content, err := renderEmailTemplate("lead_interests_unconfirmed.html", leadEmailData{
		baseEmailData: baseEmailData{
			Title:      "Check requested services",
			Heading:    "Requested services were not saved",
			Subheading: "The lead was stored, but its service list needs to be confirmed by hand.",
			CTALabel:   "Open lead",
			CTAURL:     lead.URL,
		},
		Lead:   newLeadView(lead),
		Reason: reason,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectLeadInterestsUnconfirmedFmt, lead.LeadID), content)
}

func (s *SMTPSender) SendLeadCaptureFailedEmail(ctx context.Context, toEmail, fullName, contactEmail, code, reason string) error {
	content, err := renderEmailTemplate("lead_capture_failed.html", captureFailedEmailData{
		baseEmailData: baseEmailData{
			Title:      "Quote request lost",
			Heading:    "A quote request could not be stored",
			Subheading: "Contact the visitor directly, their details are below.",
		},
		FullName: fullName,
		Email:    contactEmail,
		Code:     code,
		Reason:   reason,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectLeadCaptureFailedFmt, displayName(fullName, contactEmail)), content)
}

func (s *SMTPSender) SendLeadStatusChangedEmail(ctx context.Context, toEmail string, lead LeadSummary, oldStatus, newStatus string) error {
	content, err := renderEmailTemplate("lead_status_changed.html", statusChangedEmailData{
		baseEmailData: baseEmailData{
			Title:    "Lead status changed",
			Heading:  "Lead status changed",
			CTALabel: "Open lead",
			CTAURL:   lead.URL,
		},
		Lead:      newLeadView(lead),
		OldStatus: oldStatus,
		NewStatus: newStatus,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectLeadStatusChangedFmt, displayName(lead.FullName, lead.Email), newStatus), content)
}

var _ Sender = (*SMTPSender)(nil)
