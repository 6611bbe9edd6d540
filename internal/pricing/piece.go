package pricing

import "github.com/shopspring/decimal"

// PieceVariables are the per-group cost inputs for items priced by karat
// purity and discrete piece count (studs sold by pair, variable-karat pieces).
type PieceVariables struct {
	Weight          decimal.Decimal // grams of gold per piece
	Purity          decimal.Decimal // karats, 0..24
	WastageRate     decimal.Decimal // fractional material loss, 0..1
	PieceCount      decimal.Decimal // pieces per sellable unit
	LaborCost       decimal.Decimal // per piece
	StoneCost       decimal.Decimal // per piece
	SalesCommission decimal.Decimal // per piece
	ShippingCost    decimal.Decimal // flat
}

func (v PieceVariables) Validate() error {
	for _, f := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"weight", v.Weight},
		{"purity", v.Purity},
		{"piece_count", v.PieceCount},
		{"labor_cost", v.LaborCost},
		{"stone_cost", v.StoneCost},
		{"sales_commission", v.SalesCommission},
		{"shipping_cost", v.ShippingCost},
	} {
		if err := checkAmount(f.name, f.value); err != nil {
			return err
		}
	}
	if v.Purity.GreaterThan(KaratScale) {
		return &ValidationError{Field: "purity", Reason: "must not exceed 24 karats"}
	}
	return checkRate("wastage_rate", v.WastageRate)
}

// PieceBreakdown exposes every intermediate subtotal of the piece cascade.
type PieceBreakdown struct {
	GoldCost                  decimal.Decimal
	GoldCostWithWastage       decimal.Decimal
	PerPieceSubtotal          decimal.Decimal
	SubtotalByPieces          decimal.Decimal
	WithProfit                decimal.Decimal
	CommissionCost            decimal.Decimal
	WithCommissionAndShipping decimal.Decimal
	WithTax                   decimal.Decimal // the displayed, pre-fee price
	FinalPrice                decimal.Decimal
}

// CalculatePiece runs the purity-based cascade:
//
//	gold    = quotation * (purity/24) * weight
//	wastage = gold * (1 + wastageRate)
//	piece   = wastage + labor + stone
//	pieces  = piece * pieceCount
//	profit  = pieces * (1 + margin)
//	comm    = pieceCount * commission
//	net     = profit + comm + shipping
//	tax     = net * (1 + taxRate)
//	final   = tax * (1 + feeRate) + fixedFee
//
// Unlike the gram cascade, labor, stone and commission scale with the piece
// count, not with weight. A purity or piece count of zero is accepted and
// zeroes the corresponding term.
func CalculatePiece(p Params, v PieceVariables) (PieceBreakdown, error) {
	if err := p.Validate(); err != nil {
		return PieceBreakdown{}, err
	}
	if err := v.Validate(); err != nil {
		return PieceBreakdown{}, err
	}

	b := PieceBreakdown{}
	b.GoldCost = p.MetalQuotation.Mul(v.Purity.Div(KaratScale)).Mul(v.Weight)
	b.GoldCostWithWastage = b.GoldCost.Mul(one.Add(v.WastageRate))
	b.PerPieceSubtotal = b.GoldCostWithWastage.Add(v.LaborCost).Add(v.StoneCost)
	b.SubtotalByPieces = b.PerPieceSubtotal.Mul(v.PieceCount)
	b.WithProfit = b.SubtotalByPieces.Mul(one.Add(p.ProfitMargin))
	b.CommissionCost = v.PieceCount.Mul(v.SalesCommission)
	b.WithCommissionAndShipping = b.WithProfit.Add(b.CommissionCost).Add(v.ShippingCost)
	b.WithTax = b.WithCommissionAndShipping.Mul(one.Add(p.TaxRate))
	b.FinalPrice = b.WithTax.Mul(one.Add(p.ProcessorFeeRate)).Add(p.ProcessorFixedFee)
	return b, nil
}
