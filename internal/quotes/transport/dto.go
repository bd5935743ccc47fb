package transport

// CalculateRequest is a service selection with an optional promo code.
type CalculateRequest struct {
	Services  map[string]int `json:"services" validate:"omitempty,max=50,dive,keys,slug,endkeys,min=1,max=10"`
	PromoCode string         `json:"promoCode,omitempty" validate:"max=32"`
}

// QuoteRequest is the public quote form: a selection plus contact details.
type QuoteRequest struct {
	Services  map[string]int `json:"services" validate:"required,min=1,max=50,dive,keys,slug,endkeys,min=1,max=10"`
	PromoCode string         `json:"promoCode,omitempty" validate:"max=32"`

	FullName  string   `json:"fullName" validate:"required,min=1,max=200"`
	Email     string   `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Phone     string   `json:"phone,omitempty" validate:"required_without=Email,omitempty,min=7,max=32"`
	Street    string   `json:"street,omitempty" validate:"max=200"`
	City      string   `json:"city,omitempty" validate:"max=100"`
	State     string   `json:"state,omitempty" validate:"max=100"`
	Zip       string   `json:"zip,omitempty" validate:"max=20"`
	Country   string   `json:"country,omitempty" validate:"max=100"`
	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	Notes     string   `json:"notes,omitempty" validate:"max=2000"`
}

// QuoteLineResponse is one priced entry.
type QuoteLineResponse struct {
	ServiceID      string `json:"serviceId"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	LineTotalCents int64  `json:"lineTotalCents"`
}

// BundleTierResponse describes the applied bundle discount.
type BundleTierResponse struct {
	Name       string `json:"name"`
	MinUnits   int    `json:"minUnits"`
	PercentOff int    `json:"percentOff"`
}

// QuoteResponse is a computed quote.
type QuoteResponse struct {
	Lines               []QuoteLineResponse `json:"lines"`
	UnitCount           int                 `json:"unitCount"`
	SubtotalCents       int64               `json:"subtotalCents"`
	BundleTier          *BundleTierResponse `json:"bundleTier,omitempty"`
	BundleDiscountCents int64               `json:"bundleDiscountCents"`
	PromoCode           string              `json:"promoCode,omitempty"`
	PromoPercentOff     int                 `json:"promoPercentOff,omitempty"`
	PromoDiscountCents  int64               `json:"promoDiscountCents"`
	TotalCents          int64               `json:"totalCents"`
	UnresolvedServices  []string            `json:"unresolvedServices,omitempty"`
}

// Lead capture states reported alongside a requested quote.
const (
	LeadCaptureQueued   = "queued"
	LeadCaptureFailed   = "failed"
	LeadCaptureDisabled = "disabled"
)

// QuoteRequestResponse carries the quote and the state of the lead hand-off.
type QuoteRequestResponse struct {
	Quote       QuoteResponse `json:"quote"`
	LeadCapture string        `json:"leadCapture"`
}

// PromoResponse is the preview result for a promo code.
type PromoResponse struct {
	Code       string `json:"code"`
	Valid      bool   `json:"valid"`
	PercentOff int    `json:"percentOff,omitempty"`
	Version    string `json:"version"`
}
