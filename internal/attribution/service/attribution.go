package service

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"quote_portal_backend/internal/attribution/repository"
)

// Recognised campaign parameter names. Anything else in a query is ignored.
const (
	KeySource   = "utm_source"
	KeyMedium   = "utm_medium"
	KeyCampaign = "utm_campaign"
	KeyTerm     = "utm_term"
	KeyContent  = "utm_content"
)

const maxValueLen = 255

// Parse extracts the campaign parameters from a query. Blank values are skipped
// and the first occurrence of a repeated key is used.
func Parse(query url.Values) repository.Params {
	return repository.Params{
		Source:   firstValue(query, KeySource),
		Medium:   firstValue(query, KeyMedium),
		Campaign: firstValue(query, KeyCampaign),
		Term:     firstValue(query, KeyTerm),
		Content:  firstValue(query, KeyContent),
	}
}

// IsEmpty reports whether no parameter was seen.
func IsEmpty(p repository.Params) bool {
	return p == repository.Params{}
}

// Capture applies first-touch: the existing set is kept when present, otherwise the
// parameters in query become the set. The bool reports whether the result must be stored.
func Capture(existing *repository.Params, query url.Values) (repository.Params, bool) {
	if existing != nil && !IsEmpty(*existing) {
		return *existing, false
	}
	parsed := Parse(query)
	if IsEmpty(parsed) {
		return repository.Params{}, false
	}
	return parsed, true
}

func firstValue(query url.Values, key string) string {
	for _, v := range query[key] {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if len(v) > maxValueLen {
			v = truncate(v, maxValueLen)
		}
		return v
	}
	return ""
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

var sourceLabels = map[string]string{
	"google":     "Google",
	"facebook":   "Facebook",
	"instagram":  "Instagram",
	"email":      "Email Campaign",
	"newsletter": "Newsletter",
	"bing":       "Bing",
	"linkedin":   "LinkedIn",
	"twitter":    "Twitter",
	"youtube":    "YouTube",
	"pinterest":  "Pinterest",
	"reddit":     "Reddit",
	"direct":     "Direct",
	"organic":    "Organic Search",
	"referral":   "Referral",
}

// SourceLabel returns a display name for a utm_source value.
func SourceLabel(source string) string {
	trimmed := strings.TrimSpace(source)
	if trimmed == "" {
		return "Direct"
	}
	if label, ok := sourceLabels[strings.ToLower(trimmed)]; ok {
		return label
	}
	return trimmed
}
