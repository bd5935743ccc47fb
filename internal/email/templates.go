package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"sort"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title      string
	Heading    string
	Subheading string
	CTALabel   string
	CTAURL     string
}

type serviceLine struct {
	ID       string
	Quantity int
}

type leadView struct {
	Name            string
	Email           string
	Phone           string
	City            string
	Source          string
	Services        []serviceLine
	QuotedTotal     string
	SubmissionCount int
}

type leadEmailData struct {
	baseEmailData
	Lead   leadView
	Reason string
}

type captureFailedEmailData struct {
	baseEmailData
	FullName string
	Email    string
	Code     string
	Reason   string
}

type statusChangedEmailData struct {
	baseEmailData
	Lead      leadView
	OldStatus string
	NewStatus string
}

func newLeadView(lead LeadSummary) leadView {
	view := leadView{
		Name:            displayName(lead.FullName, lead.Email),
		Email:           lead.Email,
		Phone:           lead.Phone,
		City:            lead.City,
		Source:          lead.Source,
		SubmissionCount: lead.SubmissionCount,
	}
	if lead.QuotedTotal != nil {
		view.QuotedTotal = formatCurrencyUSD(*lead.QuotedTotal)
	}
	for id, qty := range lead.Services {
		view.Services = append(view.Services, serviceLine{ID: id, Quantity: qty})
	}
	sort.Slice(view.Services, func(i, j int) bool { return view.Services[i].ID < view.Services[j].ID })
	return view
}

func displayName(fullName, email string) string {
	if name := strings.TrimSpace(fullName); name != "" {
		return name
	}
	if email != "" {
		return email
	}
	return "an anonymous visitor"
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

func formatCurrencyUSD(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
