package service

import (
	"context"
	"fmt"

	"joyeria/internal/payment"
	"joyeria/internal/pricing"

	"github.com/shopspring/decimal"
)

// --- DTOs ---

type PlanResponse struct {
	Months       int    `json:"months"`
	InterestRate string `json:"interest_rate"`
}

// QuoteRequest overlays an installment plan on a currently displayed price.
// Price is the tax-inclusive, fee-exclusive figure the storefront shows.
type QuoteRequest struct {
	Price    string `json:"price" binding:"required"`
	Months   int    `json:"months"`
	Currency string `json:"currency" binding:"omitempty,oneof=MXN USD"`
}

type QuoteResponse struct {
	Months            int    `json:"months"`
	InterestRate      string `json:"interest_rate"`
	PriceWithInterest string `json:"price_with_interest"`
	Payable           string `json:"payable"`
	MonthlyPayment    string `json:"monthly_payment"`
	Currency          string `json:"currency"`
}

type PayRequest struct {
	Price    string `json:"price" binding:"required"`
	Months   int    `json:"months"`
	Currency string `json:"currency" binding:"omitempty,oneof=MXN USD"`
}

type PayResponse struct {
	Confirmation string `json:"confirmation"`
	Charged      string `json:"charged"`
	Currency     string `json:"currency"`
	Months       int    `json:"months"`
}

// --- Interface ---

type CheckoutService interface {
	Plans() []PlanResponse
	Quote(ctx context.Context, req QuoteRequest) (QuoteResponse, error)
	// Pay quotes and captures in one step; the amount sent to the gateway is
	// the quoted payable, never a client-supplied total.
	Pay(ctx context.Context, req PayRequest) (PayResponse, error)
}

type checkoutService struct {
	params  ParamsService
	gateway payment.Gateway
}

func NewCheckoutService(params ParamsService, gateway payment.Gateway) CheckoutService {
	return &checkoutService{params: params, gateway: gateway}
}

// --- Implementation ---

func (s *checkoutService) Plans() []PlanResponse {
	months := pricing.InstallmentMonths()
	plans := make([]PlanResponse, 0, len(months))
	for _, m := range months {
		rate, _ := pricing.InstallmentRate(m)
		plans = append(plans, PlanResponse{Months: m, InterestRate: rate.String()})
	}
	return plans
}

func (s *checkoutService) Quote(ctx context.Context, req QuoteRequest) (QuoteResponse, error) {
	quote, currency, err := s.quote(ctx, req.Price, req.Months, req.Currency)
	if err != nil {
		return QuoteResponse{}, err
	}
	return toQuoteResponse(quote, currency), nil
}

func (s *checkoutService) Pay(ctx context.Context, req PayRequest) (PayResponse, error) {
	quote, currency, err := s.quote(ctx, req.Price, req.Months, req.Currency)
	if err != nil {
		return PayResponse{}, err
	}

	charged := quote.Payable.Round(2)
	confirmation, err := s.gateway.Capture(ctx, charged, currency)
	if err != nil {
		return PayResponse{}, fmt.Errorf("payment capture failed: %w", err)
	}

	return PayResponse{
		Confirmation: confirmation,
		Charged:      charged.StringFixed(2),
		Currency:     currency,
		Months:       quote.Months,
	}, nil
}

// --- Helpers ---

// quote resolves the plan against current parameters. USD checkouts are
// pay-in-full only: the plan collapses to zero months and the payable is
// converted at the configured exchange rate after the fee overlay.
func (s *checkoutService) quote(ctx context.Context, rawPrice string, months int, currency string) (pricing.InstallmentQuote, string, error) {
	if currency == "" {
		currency = payment.CurrencyMXN
	}
	if currency == payment.CurrencyUSD {
		months = 0
	}

	price, err := decimal.NewFromString(rawPrice)
	if err != nil {
		return pricing.InstallmentQuote{}, "", fmt.Errorf("invalid price value: %w", err)
	}

	params, err := s.params.Load(ctx)
	if err != nil {
		return pricing.InstallmentQuote{}, "", err
	}

	quote, err := pricing.QuoteInstallment(price, months, params.ProcessorFeeRate, params.ProcessorFixedFee)
	if err != nil {
		return pricing.InstallmentQuote{}, "", err
	}

	if currency == payment.CurrencyUSD {
		converted, err := pricing.ConvertCurrency(quote.Payable, params.ExchangeRate)
		if err != nil {
			return pricing.InstallmentQuote{}, "", err
		}
		quote.PriceWithInterest, err = pricing.ConvertCurrency(quote.PriceWithInterest, params.ExchangeRate)
		if err != nil {
			return pricing.InstallmentQuote{}, "", err
		}
		quote.Payable = converted
		quote.MonthlyPayment = converted
	}

	return quote, currency, nil
}

func toQuoteResponse(q pricing.InstallmentQuote, currency string) QuoteResponse {
	return QuoteResponse{
		Months:            q.Months,
		InterestRate:      q.InterestRate.String(),
		PriceWithInterest: q.PriceWithInterest.StringFixed(2),
		Payable:           q.Payable.StringFixed(2),
		MonthlyPayment:    q.MonthlyPayment.StringFixed(2),
		Currency:          currency,
	}
}
