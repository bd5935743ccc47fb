package service

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed promos.yaml
var defaultPromosYAML []byte

// Promo is a percentage-off rule applied after the bundle discount.
type Promo struct {
	Code        string `yaml:"code"`
	PercentOff  int    `yaml:"percentOff"`
	Description string `yaml:"description"`
}

type promoFile struct {
	Version string  `yaml:"version"`
	Promos  []Promo `yaml:"promos"`
}

// PromoRegistry is a closed, versioned set of promo codes.
type PromoRegistry struct {
	version string
	codes   map[string]Promo
}

// ParsePromoRegistry decodes and validates a registry document.
func ParsePromoRegistry(data []byte) (*PromoRegistry, error) {
	var doc promoFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode promo registry: %w", err)
	}
	if strings.TrimSpace(doc.Version) == "" {
		return nil, fmt.Errorf("promo registry: version is required")
	}

	codes := make(map[string]Promo, len(doc.Promos))
	for _, p := range doc.Promos {
		key := NormalizePromoCode(p.Code)
		if key == "" {
			return nil, fmt.Errorf("promo registry: empty code")
		}
		if p.PercentOff < 1 || p.PercentOff > 100 {
			return nil, fmt.Errorf("promo registry: %s percentOff %d out of range", key, p.PercentOff)
		}
		if _, dup := codes[key]; dup {
			return nil, fmt.Errorf("promo registry: duplicate code %s", key)
		}
		p.Code = key
		codes[key] = p
	}

	return &PromoRegistry{version: doc.Version, codes: codes}, nil
}

// LoadPromoRegistry reads the registry from path, or the embedded default when path is empty.
func LoadPromoRegistry(path string) (*PromoRegistry, error) {
	if path == "" {
		return ParsePromoRegistry(defaultPromosYAML)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read promo registry: %w", err)
	}
	return ParsePromoRegistry(data)
}

// DefaultPromos returns the embedded registry. It panics if the embedded file is invalid,
// which is caught by tests.
func DefaultPromos() *PromoRegistry {
	reg, err := ParsePromoRegistry(defaultPromosYAML)
	if err != nil {
		panic(err)
	}
	return reg
}

// Lookup resolves a code case-insensitively after trimming. Unknown codes report false.
func (r *PromoRegistry) Lookup(code string) (Promo, bool) {
	if r == nil {
		return Promo{}, false
	}
	p, ok := r.codes[NormalizePromoCode(code)]
	return p, ok
}

// Version identifies the registry revision.
func (r *PromoRegistry) Version() string {
	if r == nil {
		return ""
	}
	return r.version
}

// NormalizePromoCode trims and upper-cases a code.
func NormalizePromoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
