package pricing

import (
	"sort"

	"github.com/shopspring/decimal"
)

// installmentRates maps a plan's month count to its fixed interest surcharge.
// 0 months means pay-in-full. The marketing name is "months without interest"
// but every tier above pay-in-full carries a real surcharge, strictly
// increasing with the month count.
var installmentRates = map[int]decimal.Decimal{
	0:  decimal.Zero,
	3:  decimal.RequireFromString("0.05"),
	6:  decimal.RequireFromString("0.075"),
	9:  decimal.RequireFromString("0.10"),
	12: decimal.RequireFromString("0.125"),
	18: decimal.RequireFromString("0.175"),
	24: decimal.RequireFromString("0.225"),
}

// InstallmentMonths returns the supported plan sizes in ascending order.
func InstallmentMonths() []int {
	months := make([]int, 0, len(installmentRates))
	for m := range installmentRates {
		months = append(months, m)
	}
	sort.Ints(months)
	return months
}

// InstallmentRate looks up the surcharge for a plan size.
func InstallmentRate(months int) (decimal.Decimal, error) {
	rate, ok := installmentRates[months]
	if !ok {
		return decimal.Zero, &ValidationError{Field: "months", Reason: "unsupported installment plan"}
	}
	return rate, nil
}

// InstallmentQuote is the checkout-time overlay for one plan. It is never
// persisted; the payable amount is recomputed on every quote.
type InstallmentQuote struct {
	Months           int
	InterestRate     decimal.Decimal
	PriceWithInterest decimal.Decimal
	Payable          decimal.Decimal
	MonthlyPayment   decimal.Decimal
}

// QuoteInstallment overlays an installment plan onto a displayed price. The
// input price must already include tax but not the processor fee; the fee is
// folded in after interest, mirroring the persisted-price cascade:
//
//	withInterest = price * (1 + rate(months))
//	payable      = withInterest * (1 + feeRate) + fixedFee
//	monthly      = months > 0 ? payable / months : payable
func QuoteInstallment(price decimal.Decimal, months int, feeRate, fixedFee decimal.Decimal) (InstallmentQuote, error) {
	if err := checkAmount("price", price); err != nil {
		return InstallmentQuote{}, err
	}
	if err := checkRate("processor_fee_rate", feeRate); err != nil {
		return InstallmentQuote{}, err
	}
	if err := checkAmount("processor_fixed_fee", fixedFee); err != nil {
		return InstallmentQuote{}, err
	}
	rate, err := InstallmentRate(months)
	if err != nil {
		return InstallmentQuote{}, err
	}

	q := InstallmentQuote{Months: months, InterestRate: rate}
	q.PriceWithInterest = price.Mul(one.Add(rate))
	q.Payable = q.PriceWithInterest.Mul(one.Add(feeRate)).Add(fixedFee)
	q.MonthlyPayment = q.Payable
	if months > 0 {
		q.MonthlyPayment = q.Payable.Div(decimal.NewFromInt(int64(months)))
	}
	return q, nil
}
