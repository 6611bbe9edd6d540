package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func broquelVariables() PieceVariables {
	return PieceVariables{
		Weight:          dec("0.185"),
		Purity:          dec("10"),
		WastageRate:     dec("0.08"),
		PieceCount:      dec("1"),
		LaborCost:       dec("20"),
		StoneCost:       dec("0"),
		SalesCommission: dec("30"),
		ShippingCost:    dec("800"),
	}
}

func TestCalculatePiece_FullCascade(t *testing.T) {
	b, err := CalculatePiece(storeParams(), broquelVariables())
	if err != nil {
		t.Fatalf("CalculatePiece: %v", err)
	}

	// purity/24 is a non-terminating division, so intermediates are asserted
	// at 4 fixed decimals rather than exact equality.
	wantFixed(t, "goldCost", b.GoldCost, 4, "115.6250")
	wantFixed(t, "goldCostWithWastage", b.GoldCostWithWastage, 4, "124.8750")
	wantFixed(t, "perPieceSubtotal", b.PerPieceSubtotal, 4, "144.8750")
	wantFixed(t, "subtotalByPieces", b.SubtotalByPieces, 4, "144.8750")
	wantFixed(t, "withProfit", b.WithProfit, 4, "188.3375")
	wantExact(t, "commissionCost", b.CommissionCost, "30")
	wantFixed(t, "withCommissionAndShipping", b.WithCommissionAndShipping, 4, "1018.3375")
	wantFixed(t, "withTax", b.WithTax, 4, "1181.2715")
	wantFixed(t, "finalPrice", b.FinalPrice, 2, "1226.80")
}

func TestCalculatePiece_PairOfStuds(t *testing.T) {
	v := broquelVariables()
	v.PieceCount = dec("2")

	b, err := CalculatePiece(storeParams(), v)
	if err != nil {
		t.Fatalf("CalculatePiece: %v", err)
	}

	// Labor, stone and commission double with the piece count; shipping does not.
	wantFixed(t, "subtotalByPieces", b.SubtotalByPieces, 4, "289.7500")
	wantExact(t, "commissionCost", b.CommissionCost, "60")
}

// Zero purity and zero piece count are accepted by design: they zero the
// corresponding cost term instead of failing.
func TestCalculatePiece_ZeroPurityAndZeroPieces(t *testing.T) {
	v := broquelVariables()
	v.Purity = decimal.Zero

	b, err := CalculatePiece(storeParams(), v)
	if err != nil {
		t.Fatalf("CalculatePiece purity=0: %v", err)
	}
	wantExact(t, "goldCost", b.GoldCost, "0")
	wantExact(t, "goldCostWithWastage", b.GoldCostWithWastage, "0")

	v = broquelVariables()
	v.PieceCount = decimal.Zero
	b, err = CalculatePiece(storeParams(), v)
	if err != nil {
		t.Fatalf("CalculatePiece pieceCount=0: %v", err)
	}
	wantExact(t, "subtotalByPieces", b.SubtotalByPieces, "0")
	wantExact(t, "commissionCost", b.CommissionCost, "0")
	// Only shipping survives, taxed and fee'd like the zero-weight gram edge.
	wantExact(t, "finalPrice", b.FinalPrice, "964.408")
}

func TestCalculatePiece_RejectsBadInput(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*PieceVariables)
	}{
		{"purity above 24", func(v *PieceVariables) { v.Purity = dec("25") }},
		{"negative purity", func(v *PieceVariables) { v.Purity = dec("-10") }},
		{"wastage above one", func(v *PieceVariables) { v.WastageRate = dec("1.5") }},
		{"negative piece count", func(v *PieceVariables) { v.PieceCount = dec("-1") }},
	}
	for _, tc := range cases {
		v := broquelVariables()
		tc.mutate(&v)
		if _, err := CalculatePiece(storeParams(), v); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}
