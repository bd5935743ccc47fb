package transport

// CaptureRequest carries a landing page query string from a single-page client.
type CaptureRequest struct {
	Query string `json:"query" validate:"max=2048"`
}

// AttributionResponse is the session's first-touch attribution.
type AttributionResponse struct {
	UTMSource   string `json:"utmSource,omitempty"`
	UTMMedium   string `json:"utmMedium,omitempty"`
	UTMCampaign string `json:"utmCampaign,omitempty"`
	UTMTerm     string `json:"utmTerm,omitempty"`
	UTMContent  string `json:"utmContent,omitempty"`
	SourceLabel string `json:"sourceLabel"`
	Captured    bool   `json:"captured"`
}
