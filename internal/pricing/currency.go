package pricing

import "github.com/shopspring/decimal"

// ConvertCurrency converts a home-currency price into the secondary display
// currency. The exchange rate is home units per unit of the secondary
// currency, so conversion divides. Installment interest is only offered in
// the home currency; secondary-currency flows must quote pay-in-full.
func ConvertCurrency(price, exchangeRate decimal.Decimal) (decimal.Decimal, error) {
	if err := checkAmount("price", price); err != nil {
		return decimal.Zero, err
	}
	if exchangeRate.Sign() <= 0 {
		return decimal.Zero, &ValidationError{Field: "exchange_rate", Reason: "must be greater than zero"}
	}
	return price.Div(exchangeRate), nil
}
