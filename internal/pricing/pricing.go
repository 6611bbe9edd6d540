// Package pricing implements the cost-plus price cascade used across the
// store: the per-gram and per-piece calculators, proportional variant price
// projection, the installment surcharge overlay and currency conversion.
//
// Every function here is a pure transformation over decimal inputs. Full
// precision is carried through every intermediate step; rounding happens only
// when a price is persisted or displayed. The step order inside each cascade
// is load-bearing — margin compounds before commission, tax compounds before
// the processor fee — and must not be rearranged.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// KaratScale is the denominator for fractional gold purity (24K = pure gold).
var KaratScale = decimal.NewFromInt(24)

var one = decimal.NewFromInt(1)

// ValidationError reports an input rejected before any arithmetic ran.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Params are the store-wide pricing constants shared by both calculators.
type Params struct {
	MetalQuotation    decimal.Decimal // price per gram of raw metal, home currency
	ProfitMargin      decimal.Decimal // fractional markup, 0..1
	TaxRate           decimal.Decimal // fractional consumption tax, 0..1
	ProcessorFeeRate  decimal.Decimal // payment processor percentage, 0..1
	ProcessorFixedFee decimal.Decimal // payment processor flat fee
}

// Validate rejects rates outside [0,1], negative fees and a non-positive
// metal quotation. No clamping ever happens; bad input fails fast.
func (p Params) Validate() error {
	if p.MetalQuotation.Sign() <= 0 {
		return &ValidationError{Field: "metal_quotation", Reason: "must be greater than zero"}
	}
	if err := checkRate("profit_margin", p.ProfitMargin); err != nil {
		return err
	}
	if err := checkRate("tax_rate", p.TaxRate); err != nil {
		return err
	}
	if err := checkRate("processor_fee_rate", p.ProcessorFeeRate); err != nil {
		return err
	}
	return checkAmount("processor_fixed_fee", p.ProcessorFixedFee)
}

func checkRate(field string, v decimal.Decimal) error {
	if v.Sign() < 0 {
		return &ValidationError{Field: field, Reason: "must not be negative"}
	}
	if v.GreaterThan(one) {
		return &ValidationError{Field: field, Reason: "must not exceed 1"}
	}
	return nil
}

func checkAmount(field string, v decimal.Decimal) error {
	if v.Sign() < 0 {
		return &ValidationError{Field: field, Reason: "must not be negative"}
	}
	return nil
}
