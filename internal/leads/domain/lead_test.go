package domain

import (
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func deref(p *string) string {
	if p == nil {
		return "<nil>"
	}
	return *p
}

var (
	t0 = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	t1 = t0.Add(48 * time.Hour)
	t2 = t1.Add(72 * time.Hour)
)

func TestNewLeadDefaults(t *testing.T) {
	lead := NewLead(Submission{Contact: Contact{FullName: "Ana Ruiz"}}, t0)

	if lead.Status != StatusNew {
		t.Fatalf("expected status new, got %s", lead.Status)
	}
	if lead.SubmissionCount != 1 || lead.IsReturning {
		t.Fatalf("expected first submission, got count=%d returning=%v", lead.SubmissionCount, lead.IsReturning)
	}
	if lead.Country != DefaultCountry || lead.Source != DefaultSource {
		t.Fatalf("expected defaults, got country=%q source=%q", lead.Country, lead.Source)
	}
	if lead.Email != nil || lead.Phone != nil {
		t.Fatal("empty contact fields must be stored as null")
	}
	if !lead.LastSubmissionAt.Equal(t0) {
		t.Fatalf("expected last submission %v, got %v", t0, lead.LastSubmissionAt)
	}
}

func TestMergePartialUpdatePolicy(t *testing.T) {
	first := NewLead(Submission{
		Contact:     Contact{FullName: "A. Ruiz", Email: "ana@example.com", City: "Austin"},
		Attribution: Attribution{Source: strPtr("google"), Campaign: strPtr("spring")},
	}, t0)

	second := Merge(first, Submission{
		Contact:     Contact{FullName: "Ana Ruiz", Email: "ana@example.com"},
		Attribution: Attribution{Source: strPtr("facebook")},
	}, t1)

	if deref(second.FullName) != "Ana Ruiz" {
		t.Fatalf("expected name to update, got %s", deref(second.FullName))
	}
	if deref(second.City) != "Austin" {
		t.Fatalf("empty city must not overwrite, got %s", deref(second.City))
	}
	if deref(second.Attribution.Source) != "facebook" || deref(second.Attribution.Campaign) != "spring" {
		t.Fatalf("unexpected attribution: source=%s campaign=%s", deref(second.Attribution.Source), deref(second.Attribution.Campaign))
	}
	if second.SubmissionCount != 2 || !second.IsReturning {
		t.Fatalf("expected count 2 returning, got %d %v", second.SubmissionCount, second.IsReturning)
	}

	third := Merge(second, Submission{Contact: Contact{Email: "ana@example.com"}}, t2)
	if deref(third.FullName) != "Ana Ruiz" {
		t.Fatalf("empty name must keep the previous one, got %s", deref(third.FullName))
	}
	if third.SubmissionCount != 3 {
		t.Fatalf("expected count 3, got %d", third.SubmissionCount)
	}
	if !third.LastSubmissionAt.Equal(t2) || !third.CreatedAt.Equal(t0) {
		t.Fatalf("unexpected timestamps: last=%v created=%v", third.LastSubmissionAt, third.CreatedAt)
	}
}

func TestMergeDoesNotAliasExisting(t *testing.T) {
	first := NewLead(Submission{Contact: Contact{FullName: "Old"}}, t0)
	_ = Merge(first, Submission{Contact: Contact{FullName: "New"}}, t1)

	if deref(first.FullName) != "Old" {
		t.Fatalf("merge must not mutate the existing lead, got %s", deref(first.FullName))
	}
}

func TestSubmissionNormalize(t *testing.T) {
	s := Submission{
		Contact: Contact{
			FullName:     "  Ana   <b>Ruiz</b> ",
			Email:        " Ana@Example.COM ",
			Phone:        "(415) 867-5309",
			ServiceNotes: "<script>x</script>Ceiling fan in den",
		},
		Attribution: Attribution{Source: strPtr("  "), Medium: strPtr(" cpc ")},
		Services:    map[string]int{"ceiling-fan": 2, "bad": 0},
	}.Normalize()

	if s.Contact.FullName != "Ana Ruiz" {
		t.Fatalf("unexpected name %q", s.Contact.FullName)
	}
	if s.Contact.Email != "ana@example.com" {
		t.Fatalf("unexpected email %q", s.Contact.Email)
	}
	if s.Contact.Phone != "+14158675309" {
		t.Fatalf("unexpected phone %q", s.Contact.Phone)
	}
	if s.Attribution.Source != nil || deref(s.Attribution.Medium) != "cpc" {
		t.Fatalf("unexpected attribution source=%s medium=%s", deref(s.Attribution.Source), deref(s.Attribution.Medium))
	}
	if len(s.Services) != 1 || s.Services["ceiling-fan"] != 2 {
		t.Fatalf("unexpected services %v", s.Services)
	}
}

func TestStatusRules(t *testing.T) {
	if _, err := ParseStatus("Contacted"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseStatus("archived"); err == nil {
		t.Fatal("expected unknown status to fail")
	}
	if err := CheckTransition(StatusConverted, StatusLost); err == nil {
		t.Fatal("converted must be terminal")
	}
	if err := CheckTransition(StatusLost, StatusContacted); err != nil {
		t.Fatalf("lost leads can be reopened: %v", err)
	}
	if err := CheckTransition(StatusConverted, StatusConverted); err != nil {
		t.Fatalf("same status must be allowed: %v", err)
	}
}
