package pricing

import "github.com/shopspring/decimal"

// GramVariables are the per-group cost inputs for items priced by metal mass.
type GramVariables struct {
	Weight          decimal.Decimal // grams of metal attributed to the group
	Factor          decimal.Decimal // empirical multiplier on the metal cost
	LaborCost       decimal.Decimal // per gram
	StoneCost       decimal.Decimal // per gram
	SalesCommission decimal.Decimal // per gram
	ShippingCost    decimal.Decimal // flat
}

func (v GramVariables) Validate() error {
	for _, f := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"weight", v.Weight},
		{"factor", v.Factor},
		{"labor_cost", v.LaborCost},
		{"stone_cost", v.StoneCost},
		{"sales_commission", v.SalesCommission},
		{"shipping_cost", v.ShippingCost},
	} {
		if err := checkAmount(f.name, f.value); err != nil {
			return err
		}
	}
	return nil
}

// GramBreakdown exposes every intermediate subtotal of the gram cascade so a
// stored price can always be reproduced step by step.
type GramBreakdown struct {
	MetalCost                 decimal.Decimal
	MaterialsCost             decimal.Decimal
	CostSubtotal              decimal.Decimal
	WithProfit                decimal.Decimal
	CommissionCost            decimal.Decimal
	WithCommissionAndShipping decimal.Decimal
	WithTax                   decimal.Decimal // the displayed, pre-fee price
	FinalPrice                decimal.Decimal
}

// CalculateGram runs the weight-based cascade:
//
//	metal  = quotation * weight * factor
//	mats   = weight * (labor + stone)
//	cost   = metal + mats
//	profit = cost * (1 + margin)
//	comm   = weight * commission
//	net    = profit + comm + shipping
//	tax    = net * (1 + taxRate)
//	final  = tax * (1 + feeRate) + fixedFee
//
// A zero weight does not produce a zero price: shipping, tax and the
// processor fee still apply.
func CalculateGram(p Params, v GramVariables) (GramBreakdown, error) {
	if err := p.Validate(); err != nil {
		return GramBreakdown{}, err
	}
	if err := v.Validate(); err != nil {
		return GramBreakdown{}, err
	}

	b := GramBreakdown{}
	b.MetalCost = p.MetalQuotation.Mul(v.Weight).Mul(v.Factor)
	b.MaterialsCost = v.Weight.Mul(v.LaborCost.Add(v.StoneCost))
	b.CostSubtotal = b.MetalCost.Add(b.MaterialsCost)
	b.WithProfit = b.CostSubtotal.Mul(one.Add(p.ProfitMargin))
	b.CommissionCost = v.Weight.Mul(v.SalesCommission)
	b.WithCommissionAndShipping = b.WithProfit.Add(b.CommissionCost).Add(v.ShippingCost)
	b.WithTax = b.WithCommissionAndShipping.Mul(one.Add(p.TaxRate))
	b.FinalPrice = b.WithTax.Mul(one.Add(p.ProcessorFeeRate)).Add(p.ProcessorFixedFee)
	return b, nil
}
