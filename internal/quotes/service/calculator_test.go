package service

import "testing"

func wholeDollarCatalog() PriceBook {
	return PriceBook{"fan": 200, "light": 150, "switch": 125}
}

func TestCompute_BundleTiers(t *testing.T) {
	calc := NewCalculator(DefaultPromos())
	prices := PriceBook{"fan": 10001}

	cases := []struct {
		name     string
		qty      int
		wantTier string
		want     int64
	}{
		{name: "single unit", qty: 1, want: 10001},
		{name: "two units", qty: 2, want: 20002},
		{name: "three units", qty: 3, wantTier: "bundle_3_plus", want: 27003},  // 30003 x 0.9 = 27002.7
		{name: "four units", qty: 4, wantTier: "bundle_3_plus", want: 36004},   // 40004 x 0.9 = 36003.6
		{name: "five units", qty: 5, wantTier: "bundle_5_plus", want: 40004},   // 50005 x 0.8
		{name: "ten units", qty: 10, wantTier: "bundle_5_plus", want: 80008},   // 100010 x 0.8
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := calc.Compute(prices, Selection{"fan": tc.qty}, "")
			gotTier := ""
			if q.BundleTier != nil {
				gotTier = q.BundleTier.Name
			}
			if gotTier != tc.wantTier {
				t.Fatalf("expected tier %q, got %q", tc.wantTier, gotTier)
			}
			if q.TotalCents != tc.want {
				t.Fatalf("expected total %d, got %d", tc.want, q.TotalCents)
			}
		})
	}
}

func TestCompute_TierCountsUnitsNotDistinctServices(t *testing.T) {
	calc := NewCalculator(nil)

	q := calc.Compute(wholeDollarCatalog(), Selection{"fan": 3}, "")
	if q.BundleTier == nil || q.BundleTier.PercentOff != 10 {
		t.Fatalf("expected 10%% tier for three units of one service, got %+v", q.BundleTier)
	}
	if q.TotalCents != 540 {
		t.Fatalf("expected total 540, got %d", q.TotalCents)
	}
}

func TestCompute_WholeDollarScenarioWithPromo(t *testing.T) {
	calc := NewCalculator(DefaultPromos())
	sel := Selection{"fan": 1, "light": 1, "switch": 1}

	q := calc.Compute(wholeDollarCatalog(), sel, "")
	if q.SubtotalCents != 475 {
		t.Fatalf("expected subtotal 475, got %d", q.SubtotalCents)
	}
	if q.AfterBundleCents != 428 {
		t.Fatalf("expected 428 after bundle (half-up of 427.5), got %d", q.AfterBundleCents)
	}

	withPromo := calc.Compute(wholeDollarCatalog(), sel, "  first20 ")
	if withPromo.Promo == nil || withPromo.Promo.Code != "FIRST20" {
		t.Fatalf("expected FIRST20 to apply, got %+v", withPromo.Promo)
	}
	if withPromo.TotalCents != 342 {
		t.Fatalf("expected total 342, got %d", withPromo.TotalCents)
	}
	// Sequential discounts differ from a combined 30% off.
	if withPromo.TotalCents == 333 {
		t.Fatal("discounts must compose sequentially")
	}
}

func TestCompute_CentsScenario(t *testing.T) {
	calc := NewCalculator(DefaultPromos())
	prices := PriceBook{"fan": 20000, "light": 15000, "switch": 12500}

	q := calc.Compute(prices, Selection{"fan": 1, "light": 1, "switch": 1}, "FIRST20")
	if q.SubtotalCents != 47500 {
		t.Fatalf("expected subtotal 47500, got %d", q.SubtotalCents)
	}
	if q.BundleDiscountCents != 4750 {
		t.Fatalf("expected bundle discount 4750, got %d", q.BundleDiscountCents)
	}
	if q.PromoDiscountCents != 8550 {
		t.Fatalf("expected promo discount 8550, got %d", q.PromoDiscountCents)
	}
	if q.TotalCents != 34200 {
		t.Fatalf("expected total 34200, got %d", q.TotalCents)
	}
}

func TestCompute_UnknownPromoIsNoOp(t *testing.T) {
	calc := NewCalculator(DefaultPromos())
	sel := Selection{"fan": 2, "light": 1}

	plain := calc.Compute(wholeDollarCatalog(), sel, "")
	unknown := calc.Compute(wholeDollarCatalog(), sel, "NOTREAL")

	if unknown.Promo != nil {
		t.Fatalf("expected no promo, got %+v", unknown.Promo)
	}
	if plain.TotalCents != unknown.TotalCents {
		t.Fatalf("expected %d, got %d", plain.TotalCents, unknown.TotalCents)
	}
}

func TestCompute_EmptySelectionIsZero(t *testing.T) {
	calc := NewCalculator(DefaultPromos())

	for _, code := range []string{"", "FIRST20", "NOTREAL"} {
		q := calc.Compute(wholeDollarCatalog(), Selection{}, code)
		if q.TotalCents != 0 || q.SubtotalCents != 0 {
			t.Fatalf("code %q: expected zero quote, got %+v", code, q)
		}
		if q.Promo != nil {
			t.Fatalf("code %q: promo must not apply to an empty selection", code)
		}
	}
}

func TestCompute_UnresolvedIDsContributeNothing(t *testing.T) {
	calc := NewCalculator(nil)

	q := calc.Compute(wholeDollarCatalog(), Selection{"fan": 1, "retired-service": 4}, "")
	if q.TotalCents != 200 {
		t.Fatalf("expected total 200, got %d", q.TotalCents)
	}
	if q.BundleTier != nil {
		t.Fatalf("unresolved units must not count toward a tier, got %+v", q.BundleTier)
	}
	if len(q.UnresolvedIDs) != 1 || q.UnresolvedIDs[0] != "retired-service" {
		t.Fatalf("expected retired-service to be reported, got %v", q.UnresolvedIDs)
	}

	all := calc.Compute(PriceBook{}, Selection{"a": 1, "b": 2}, "")
	if all.TotalCents != 0 {
		t.Fatalf("expected zero for a fully unresolved selection, got %d", all.TotalCents)
	}
}

func TestCompute_LinesAreSortedByID(t *testing.T) {
	calc := NewCalculator(nil)

	q := calc.Compute(wholeDollarCatalog(), Selection{"switch": 1, "fan": 2, "light": 1}, "")
	want := []string{"fan", "light", "switch"}
	if len(q.Lines) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(q.Lines))
	}
	for i, id := range want {
		if q.Lines[i].ServiceID != id {
			t.Fatalf("line %d: expected %s, got %s", i, id, q.Lines[i].ServiceID)
		}
	}
	if q.Lines[0].LineTotalCents != 400 {
		t.Fatalf("expected fan line 400, got %d", q.Lines[0].LineTotalCents)
	}
}
