package service

import (
	"context"
	"testing"

	"joyeria/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPricingFixture(t *testing.T, method string, vars model.GroupVariables) (PricingService, uuid.UUID) {
	t.Helper()

	groups := newStubGroupRepo()
	group := model.PricingGroup{Name: "Cadenas oro 10k", Method: method}
	require.NoError(t, groups.CreateGroup(context.Background(), &group))
	vars.GroupID = group.ID
	require.NoError(t, groups.UpsertVariables(context.Background(), &vars))

	paramsSvc := NewParamsService(&stubParamsRepo{params: storedParameters()}, &stubAuditRepo{}, nil)
	return NewPricingService(paramsSvc, groups), group.ID
}

func chainVariables() model.GroupVariables {
	return model.GroupVariables{
		Weight:          decimal.RequireFromString("5"),
		Factor:          decimal.RequireFromString("0.442"),
		PieceCount:      decimal.NewFromInt(1),
		LaborCost:       decimal.RequireFromString("15"),
		SalesCommission: decimal.RequireFromString("30"),
		ShippingCost:    decimal.RequireFromString("800"),
	}
}

func TestQuoteGroupGramBreakdown(t *testing.T) {
	svc, groupID := newPricingFixture(t, model.MethodGram, chainVariables())

	b, err := svc.QuoteGroup(context.Background(), groupID.String())
	require.NoError(t, err)

	assert.Equal(t, model.MethodGram, b.Method)
	assert.Equal(t, "3315.00", b.MetalCost)
	assert.Equal(t, "75.00", b.MaterialsCost)
	assert.Equal(t, "3390.00", b.CostSubtotal)
	assert.Equal(t, "4407.00", b.WithProfit)
	assert.Equal(t, "150.00", b.CommissionCost)
	assert.Equal(t, "5357.00", b.WithCommissionAndShipping)
	assert.Equal(t, "6214.12", b.WithTax)
	assert.Equal(t, "6214.12", b.DisplayPrice, "display price excludes the processor fee")
	assert.Equal(t, "6440.83", b.FinalPrice)
	assert.Empty(t, b.GoldCost, "piece fields stay empty on a gram breakdown")
}

func TestQuickQuotePieceBreakdown(t *testing.T) {
	svc, _ := newPricingFixture(t, model.MethodGram, chainVariables())

	b, err := svc.QuickQuote(context.Background(), QuickQuoteRequest{
		Method: model.MethodPiece,
		Variables: GroupVariablesRequest{
			Weight:          "0.185",
			PieceCount:      "1",
			Purity:          "10",
			WastageRate:     "0.08",
			Factor:          "1",
			LaborCost:       "20",
			StoneCost:       "0",
			SalesCommission: "30",
			ShippingCost:    "800",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, model.MethodPiece, b.Method)
	assert.Equal(t, "30.00", b.CommissionCost)
	assert.Equal(t, "1181.27", b.WithTax)
	assert.Equal(t, "1181.27", b.DisplayPrice)
	assert.Equal(t, "1226.80", b.FinalPrice)
	assert.Empty(t, b.MetalCost, "gram fields stay empty on a piece breakdown")
}

func TestQuickQuoteRejectsBadVariables(t *testing.T) {
	svc, _ := newPricingFixture(t, model.MethodGram, chainVariables())

	req := QuickQuoteRequest{
		Method: model.MethodPiece,
		Variables: GroupVariablesRequest{
			Weight: "0.185", PieceCount: "1", Purity: "30", WastageRate: "0.08",
			Factor: "1", LaborCost: "20", StoneCost: "0", SalesCommission: "30", ShippingCost: "800",
		},
	}
	_, err := svc.QuickQuote(context.Background(), req)
	assert.Error(t, err, "purity above the karat scale must be rejected")
}

func TestPriceForWeightRecomputesAtOverride(t *testing.T) {
	svc, groupID := newPricingFixture(t, model.MethodGram, chainVariables())

	gp, err := svc.PriceForWeight(context.Background(), groupID, decimal.NewFromInt(2))
	require.NoError(t, err)

	// Weight 2 at factor 0.442: metal 1326, +labor 30, margin, commission 60,
	// shipping 800, tax 16%, then the processor overlay.
	assert.Equal(t, "3042.45", gp.DisplayPrice.StringFixed(2))
	assert.Equal(t, "3154.98", gp.FinalPrice.StringFixed(2))
}

func TestQuoteGroupUnknownGroup(t *testing.T) {
	svc, _ := newPricingFixture(t, model.MethodGram, chainVariables())

	_, err := svc.QuoteGroup(context.Background(), uuid.NewString())
	assert.ErrorContains(t, err, "not found")
}

func TestQuoteGroupUnconfiguredParameters(t *testing.T) {
	groups := newStubGroupRepo()
	group := model.PricingGroup{Name: "Pulseras", Method: model.MethodGram}
	require.NoError(t, groups.CreateGroup(context.Background(), &group))

	paramsSvc := NewParamsService(&stubParamsRepo{}, &stubAuditRepo{}, nil)
	svc := NewPricingService(paramsSvc, groups)

	_, err := svc.QuoteGroup(context.Background(), group.ID.String())
	assert.ErrorIs(t, err, ErrParametersNotLoaded)
}
