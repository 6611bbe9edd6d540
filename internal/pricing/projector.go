package pricing

import "github.com/shopspring/decimal"

// ProjectVariantPrice derives a sibling variant's price from a base price
// anchored at a base weight by linear scaling on weight. The result is
// rounded to 2 decimal places because this is the value that gets persisted.
//
// Callers must only take this shortcut when an anchor exists; without one the
// variant has to be priced through the full calculator with its own weight.
func ProjectVariantPrice(basePrice, baseWeight, variantWeight decimal.Decimal) (decimal.Decimal, error) {
	if err := checkAmount("base_price", basePrice); err != nil {
		return decimal.Zero, err
	}
	if baseWeight.Sign() <= 0 {
		return decimal.Zero, &ValidationError{Field: "base_weight", Reason: "must be greater than zero"}
	}
	if err := checkAmount("variant_weight", variantWeight); err != nil {
		return decimal.Zero, err
	}
	return basePrice.Mul(variantWeight).Div(baseWeight).Round(2), nil
}
