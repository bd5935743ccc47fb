package service

import (
	"sort"

	"github.com/shopspring/decimal"
)

// PriceBook maps an offering id to its unit price in cents.
type PriceBook map[string]int64

// Selection maps an offering id to the requested quantity.
type Selection map[string]int

// BundleTier is a unit-count threshold and the percentage it takes off the subtotal.
type BundleTier struct {
	Name       string
	MinUnits   int
	PercentOff int
}

// bundleTiers is ordered from the largest threshold down.
var bundleTiers = []BundleTier{
	{Name: "bundle_5_plus", MinUnits: 5, PercentOff: 20},
	{Name: "bundle_3_plus", MinUnits: 3, PercentOff: 10},
}

// QuoteLine is one priced entry of a selection.
type QuoteLine struct {
	ServiceID      string
	Quantity       int
	UnitPriceCents int64
	LineTotalCents int64
}

// Quote is the derived price of a selection. It is never persisted.
type Quote struct {
	Lines               []QuoteLine
	UnitCount           int
	SubtotalCents       int64
	BundleTier          *BundleTier
	BundleDiscountCents int64
	AfterBundleCents    int64
	Promo               *Promo
	PromoDiscountCents  int64
	TotalCents          int64
	UnresolvedIDs       []string
}

// Calculator prices selections against a promo registry.
type Calculator struct {
	promos *PromoRegistry
}

// NewCalculator returns a Calculator. A nil registry accepts no promo codes.
func NewCalculator(promos *PromoRegistry) Calculator {
	return Calculator{promos: promos}
}

// Compute prices the selection. Ids missing from prices and non-positive quantities
// contribute nothing. Unknown promo codes leave the total unchanged.
func (c Calculator) Compute(prices PriceBook, selection Selection, promoCode string) Quote {
	ids := make([]string, 0, len(selection))
	for id := range selection {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	quote := Quote{Lines: []QuoteLine{}}
	for _, id := range ids {
		qty := selection[id]
		if qty <= 0 {
			continue
		}
		price, ok := prices[id]
		if !ok {
			quote.UnresolvedIDs = append(quote.UnresolvedIDs, id)
			continue
		}
		line := QuoteLine{
			ServiceID:      id,
			Quantity:       qty,
			UnitPriceCents: price,
			LineTotalCents: price * int64(qty),
		}
		quote.Lines = append(quote.Lines, line)
		quote.UnitCount += qty
		quote.SubtotalCents += line.LineTotalCents
	}

	quote.AfterBundleCents = quote.SubtotalCents
	if tier, ok := tierFor(quote.UnitCount); ok {
		quote.BundleTier = &tier
		quote.AfterBundleCents = applyPercentOff(quote.SubtotalCents, tier.PercentOff)
		quote.BundleDiscountCents = quote.SubtotalCents - quote.AfterBundleCents
	}

	quote.TotalCents = quote.AfterBundleCents
	if promo, ok := c.promos.Lookup(promoCode); ok && quote.AfterBundleCents > 0 {
		quote.Promo = &promo
		quote.TotalCents = applyPercentOff(quote.AfterBundleCents, promo.PercentOff)
		quote.PromoDiscountCents = quote.AfterBundleCents - quote.TotalCents
	}

	return quote
}

func tierFor(units int) (BundleTier, bool) {
	for _, tier := range bundleTiers {
		if units >= tier.MinUnits {
			return tier, true
		}
	}
	return BundleTier{}, false
}

// applyPercentOff returns round(amount x (100-percent) / 100), rounding halves up.
func applyPercentOff(amount int64, percent int) int64 {
	if percent <= 0 {
		return amount
	}
	if percent >= 100 {
		return 0
	}
	return decimal.NewFromInt(amount).
		Mul(decimal.NewFromInt(int64(100 - percent))).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}
