package pricing

import "testing"

func TestQuoteInstallment_SixMonths(t *testing.T) {
	q, err := QuoteInstallment(dec("6440.83"), 6, dec("0.036"), dec("3"))
	if err != nil {
		t.Fatalf("QuoteInstallment: %v", err)
	}

	wantExact(t, "interestRate", q.InterestRate, "0.075")
	wantExact(t, "priceWithInterest", q.PriceWithInterest, "6923.89225")
	wantExact(t, "payable", q.Payable, "7176.152371")
	wantFixed(t, "payable rounded", q.Payable, 2, "7176.15")
	wantFixed(t, "monthlyPayment", q.MonthlyPayment, 2, "1196.03")
}

func TestQuoteInstallment_PayInFull(t *testing.T) {
	q, err := QuoteInstallment(dec("6440.83"), 0, dec("0.036"), dec("3"))
	if err != nil {
		t.Fatalf("QuoteInstallment: %v", err)
	}
	wantExact(t, "interestRate", q.InterestRate, "0")
	wantExact(t, "priceWithInterest", q.PriceWithInterest, "6440.83")
	if !q.MonthlyPayment.Equal(q.Payable) {
		t.Fatalf("pay-in-full monthly %s != payable %s", q.MonthlyPayment, q.Payable)
	}
}

// The payable amount must be strictly increasing across the whole plan table,
// so pay-in-full is always the cheapest option.
func TestQuoteInstallment_StrictOrdering(t *testing.T) {
	months := InstallmentMonths()
	if len(months) != 7 || months[0] != 0 || months[len(months)-1] != 24 {
		t.Fatalf("unexpected plan table: %v", months)
	}

	prev, err := QuoteInstallment(dec("6440.83"), months[0], dec("0.036"), dec("3"))
	if err != nil {
		t.Fatalf("QuoteInstallment(%d): %v", months[0], err)
	}
	for _, m := range months[1:] {
		q, err := QuoteInstallment(dec("6440.83"), m, dec("0.036"), dec("3"))
		if err != nil {
			t.Fatalf("QuoteInstallment(%d): %v", m, err)
		}
		if !q.Payable.GreaterThan(prev.Payable) {
			t.Fatalf("payable(%d)=%s not greater than payable(%d)=%s",
				m, q.Payable, prev.Months, prev.Payable)
		}
		prev = q
	}
}

func TestQuoteInstallment_UnsupportedPlan(t *testing.T) {
	if _, err := QuoteInstallment(dec("100"), 5, dec("0.036"), dec("3")); err == nil {
		t.Fatal("expected validation error for unsupported plan")
	}
}

func TestConvertCurrency(t *testing.T) {
	got, err := ConvertCurrency(dec("3700"), dec("18.50"))
	if err != nil {
		t.Fatalf("ConvertCurrency: %v", err)
	}
	wantExact(t, "convertedPrice", got, "200")

	if _, err := ConvertCurrency(dec("100"), dec("0")); err == nil {
		t.Fatal("expected validation error for zero exchange rate")
	}
}
