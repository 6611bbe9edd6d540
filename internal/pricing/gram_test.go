package pricing

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// storeParams is the fixture every cascade test shares: the real store
// constants at the time the formulas were captured.
func storeParams() Params {
	return Params{
		MetalQuotation:    dec("1500"),
		ProfitMargin:      dec("0.30"),
		TaxRate:           dec("0.16"),
		ProcessorFeeRate:  dec("0.036"),
		ProcessorFixedFee: dec("3"),
	}
}

func wantExact(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Fatalf("%s = %s, want %s", name, got.String(), want)
	}
}

func wantFixed(t *testing.T, name string, got decimal.Decimal, places int32, want string) {
	t.Helper()
	if got.StringFixed(places) != want {
		t.Fatalf("%s = %s, want %s", name, got.StringFixed(places), want)
	}
}

func TestCalculateGram_FullCascade(t *testing.T) {
	v := GramVariables{
		Weight:          dec("5"),
		Factor:          dec("0.442"),
		LaborCost:       dec("15"),
		StoneCost:       dec("0"),
		SalesCommission: dec("30"),
		ShippingCost:    dec("800"),
	}

	b, err := CalculateGram(storeParams(), v)
	if err != nil {
		t.Fatalf("CalculateGram: %v", err)
	}

	wantExact(t, "metalCost", b.MetalCost, "3315")
	wantExact(t, "materialsCost", b.MaterialsCost, "75")
	wantExact(t, "costSubtotal", b.CostSubtotal, "3390")
	wantExact(t, "withProfit", b.WithProfit, "4407")
	wantExact(t, "commissionCost", b.CommissionCost, "150")
	wantExact(t, "withCommissionAndShipping", b.WithCommissionAndShipping, "5357")
	wantExact(t, "withTax", b.WithTax, "6214.12")
	wantExact(t, "finalPrice", b.FinalPrice, "6440.82832")
	wantFixed(t, "finalPrice rounded", b.FinalPrice, 2, "6440.83")
}

// A zero weight is not a zero price: shipping still flows through tax and the
// processor fee.
func TestCalculateGram_ZeroWeight(t *testing.T) {
	p := storeParams()
	v := GramVariables{
		Factor:          dec("0.442"),
		LaborCost:       dec("15"),
		SalesCommission: dec("30"),
		ShippingCost:    dec("800"),
	}

	b, err := CalculateGram(p, v)
	if err != nil {
		t.Fatalf("CalculateGram: %v", err)
	}

	want := v.ShippingCost.
		Mul(dec("1").Add(p.TaxRate)).
		Mul(dec("1").Add(p.ProcessorFeeRate)).
		Add(p.ProcessorFixedFee)
	wantExact(t, "finalPrice", b.FinalPrice, want.String())
	wantExact(t, "finalPrice", b.FinalPrice, "964.408")
}

func TestCalculateGram_Monotonicity(t *testing.T) {
	v := GramVariables{
		Weight:          dec("5"),
		Factor:          dec("0.442"),
		LaborCost:       dec("15"),
		SalesCommission: dec("30"),
		ShippingCost:    dec("800"),
	}
	base, err := CalculateGram(storeParams(), v)
	if err != nil {
		t.Fatalf("CalculateGram: %v", err)
	}

	bump := []struct {
		name   string
		mutate func(*Params)
	}{
		{"metalQuotation", func(p *Params) { p.MetalQuotation = dec("1600") }},
		{"profitMargin", func(p *Params) { p.ProfitMargin = dec("0.35") }},
		{"taxRate", func(p *Params) { p.TaxRate = dec("0.20") }},
	}
	for _, tc := range bump {
		p := storeParams()
		tc.mutate(&p)
		b, err := CalculateGram(p, v)
		if err != nil {
			t.Fatalf("CalculateGram(%s): %v", tc.name, err)
		}
		if !b.FinalPrice.GreaterThan(base.FinalPrice) {
			t.Fatalf("raising %s did not raise finalPrice: %s <= %s",
				tc.name, b.FinalPrice, base.FinalPrice)
		}
	}
}

func TestCalculateGram_RejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		p    Params
		v    GramVariables
	}{
		{"negative weight", storeParams(), GramVariables{Weight: dec("-1")}},
		{"zero quotation", Params{MetalQuotation: decimal.Zero}, GramVariables{}},
		{"margin above one", Params{MetalQuotation: dec("1500"), ProfitMargin: dec("1.2")}, GramVariables{}},
		{"negative shipping", storeParams(), GramVariables{ShippingCost: dec("-5")}},
	}
	for _, tc := range cases {
		_, err := CalculateGram(tc.p, tc.v)
		if err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%s: expected *ValidationError, got %T", tc.name, err)
		}
	}
}
