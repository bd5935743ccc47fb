package service

import (
	"bytes"
	"context"
	"net/url"
	"strings"
	"unicode/utf8"
	"testing"
	"time"

	"quote_portal_backend/internal/attribution/repository"
	"quote_portal_backend/platform/logger"
)

func TestParseIgnoresUnknownAndBlankKeys(t *testing.T) {
	q := url.Values{
		"utm_source":   {"  ", "google"},
		"utm_medium":   {"cpc"},
		"utm_campaign": {""},
		"gclid":        {"abc"},
	}

	got := Parse(q)
	want := repository.Params{Source: "google", Medium: "cpc"}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestParseTruncatesLongValues(t *testing.T) {
	got := Parse(url.Values{"utm_term": {strings.Repeat("x", 400)}})
	if len(got.Term) != maxValueLen {
		t.Fatalf("expected %d chars, got %d", maxValueLen, len(got.Term))
	}

	campaign := Parse(url.Values{"utm_campaign": {strings.Repeat("x", maxValueLen-1) + "é-sale"}}).Campaign
	if !utf8.ValidString(campaign) {
		t.Fatalf("truncated campaign is not valid UTF-8: %q", campaign)
	}
	if campaign != strings.Repeat("x", maxValueLen-1) {
		t.Fatalf("expected cut before the split rune, got len %d", len(campaign))
	}
}

func TestCaptureFirstTouch(t *testing.T) {
	first := url.Values{"utm_source": {"google"}, "utm_campaign": {"spring"}}
	second := url.Values{"utm_source": {"facebook"}}

	cases := []struct {
		name      string
		existing  *repository.Params
		query     url.Values
		want      repository.Params
		wantStore bool
	}{
		{name: "nothing stored, keys present", query: first, want: repository.Params{Source: "google", Campaign: "spring"}, wantStore: true},
		{name: "nothing stored, no keys", query: url.Values{"page": {"2"}}, want: repository.Params{}},
		{name: "already stored", existing: &repository.Params{Source: "google"}, query: second, want: repository.Params{Source: "google"}},
		{name: "stored but empty", existing: &repository.Params{}, query: second, want: repository.Params{Source: "facebook"}, wantStore: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, store := Capture(tc.existing, tc.query)
			if got != tc.want || store != tc.wantStore {
				t.Fatalf("expected %+v store=%v, got %+v store=%v", tc.want, tc.wantStore, got, store)
			}
		})
	}
}

func TestSourceLabel(t *testing.T) {
	cases := map[string]string{
		"":           "Direct",
		"google":     "Google",
		"GOOGLE":     "Google",
		"email":      "Email Campaign",
		"organic":    "Organic Search",
		"tiktok":     "tiktok",
		" linkedin ": "LinkedIn",
	}
	for in, want := range cases {
		if got := SourceLabel(in); got != want {
			t.Errorf("SourceLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestObserveKeepsFirstTouchAcrossRequests(t *testing.T) {
	svc := New(repository.NewMemoryStore(time.Hour), logger.NewWithWriter("production", &bytes.Buffer{}))
	ctx := context.Background()

	if _, err := svc.Observe(ctx, "s1", url.Values{"page": {"1"}}); err != nil {
		t.Fatalf("observe: %v", err)
	}
	if _, err := svc.Observe(ctx, "s1", url.Values{"utm_source": {"google"}}); err != nil {
		t.Fatalf("observe: %v", err)
	}
	got, err := svc.Observe(ctx, "s1", url.Values{"utm_source": {"bing"}, "utm_medium": {"cpc"}})
	if err != nil {
		t.Fatalf("observe: %v", err)
	}
	if got != (repository.Params{Source: "google"}) {
		t.Fatalf("expected first touch to persist, got %+v", got)
	}

	if err := svc.Clear(ctx, "s1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	current, _ := svc.Current(ctx, "s1")
	if !IsEmpty(current) {
		t.Fatalf("expected empty after clear, got %+v", current)
	}
}
