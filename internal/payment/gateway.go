// Package payment is the boundary to the payment processor. The engine only
// ever hands it a final amount and a currency and gets a confirmation token
// back; fee math happens upstream in the pricing cascade.
package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Supported settlement currencies.
const (
	CurrencyMXN = "MXN"
	CurrencyUSD = "USD"
)

// Gateway captures a payment. Implementations are black boxes to the engine.
type Gateway interface {
	Capture(ctx context.Context, amount decimal.Decimal, currency string) (string, error)
}

type sandboxGateway struct {
	log zerolog.Logger
}

// NewSandbox returns a gateway that approves every valid capture and mints a
// synthetic confirmation token. Used in development and tests.
func NewSandbox(log zerolog.Logger) Gateway {
	return &sandboxGateway{log: log}
}

func (g *sandboxGateway) Capture(ctx context.Context, amount decimal.Decimal, currency string) (string, error) {
	if amount.Sign() <= 0 {
		return "", fmt.Errorf("capture amount must be positive, got %s", amount)
	}
	if currency != CurrencyMXN && currency != CurrencyUSD {
		return "", fmt.Errorf("unsupported capture currency %q", currency)
	}

	token := uuid.NewString()
	g.log.Info().
		Str("amount", amount.StringFixed(2)).
		Str("currency", currency).
		Str("confirmation", token).
		Msg("sandbox capture approved")
	return token, nil
}
