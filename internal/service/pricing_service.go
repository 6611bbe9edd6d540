package service

import (
	"context"
	"errors"
	"fmt"

	"joyeria/internal/model"
	"joyeria/internal/pricing"
	"joyeria/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

// BreakdownResponse is the transparency view of one calculation: every
// intermediate subtotal, rounded for display only. DisplayPrice is the
// tax-inclusive, pre-processor-fee figure the storefront shows; FinalPrice is
// what gets persisted and charged. They are deliberately separate outputs.
type BreakdownResponse struct {
	Method string `json:"method"`

	// gram cascade
	MetalCost     string `json:"metal_cost,omitempty"`
	MaterialsCost string `json:"materials_cost,omitempty"`
	CostSubtotal  string `json:"cost_subtotal,omitempty"`

	// piece cascade
	GoldCost            string `json:"gold_cost,omitempty"`
	GoldCostWithWastage string `json:"gold_cost_with_wastage,omitempty"`
	PerPieceSubtotal    string `json:"per_piece_subtotal,omitempty"`
	SubtotalByPieces    string `json:"subtotal_by_pieces,omitempty"`

	// shared tail
	WithProfit                string `json:"with_profit"`
	CommissionCost            string `json:"commission_cost"`
	WithCommissionAndShipping string `json:"with_commission_and_shipping"`
	WithTax                   string `json:"with_tax"`
	DisplayPrice              string `json:"display_price"`
	FinalPrice                string `json:"final_price"`
}

// QuickQuoteRequest is the admin quick calculator: ad-hoc variables priced
// against the current global parameters without touching any group record.
type QuickQuoteRequest struct {
	Method    string                `json:"method" binding:"required,oneof=GRAM PIECE"`
	Variables GroupVariablesRequest `json:"variables" binding:"required"`
}

// GroupPrice is the computed price pair for a given weight, used internally
// by the catalog and checkout paths.
type GroupPrice struct {
	DisplayPrice decimal.Decimal // tax inclusive, fee exclusive
	FinalPrice   decimal.Decimal // fee inclusive, the persistable value
}

// --- Interface ---

type PricingService interface {
	// QuoteGroup prices a group off its stored variables. Recomputed on
	// every call; breakdowns are never cached.
	QuoteGroup(ctx context.Context, groupID string) (BreakdownResponse, error)
	QuickQuote(ctx context.Context, req QuickQuoteRequest) (BreakdownResponse, error)
	// PriceForWeight prices a group's cost record at an explicit weight,
	// for variants that cannot take the proportional shortcut.
	PriceForWeight(ctx context.Context, groupID uuid.UUID, weight decimal.Decimal) (GroupPrice, error)
}

type pricingService struct {
	params ParamsService
	groups repository.GroupRepository
}

func NewPricingService(params ParamsService, groups repository.GroupRepository) PricingService {
	return &pricingService{params: params, groups: groups}
}

// --- Implementation ---

func (s *pricingService) QuoteGroup(ctx context.Context, groupID string) (BreakdownResponse, error) {
	id, err := uuid.Parse(groupID)
	if err != nil {
		return BreakdownResponse{}, fmt.Errorf("invalid group id: %w", err)
	}

	group, vars, params, err := s.loadInputs(ctx, id)
	if err != nil {
		return BreakdownResponse{}, err
	}

	return s.quote(group.Method, calcParams(params), *vars)
}

func (s *pricingService) QuickQuote(ctx context.Context, req QuickQuoteRequest) (BreakdownResponse, error) {
	params, err := s.params.Load(ctx)
	if err != nil {
		return BreakdownResponse{}, err
	}

	vars, err := parseVariables(uuid.Nil, req.Variables)
	if err != nil {
		return BreakdownResponse{}, err
	}

	return s.quote(req.Method, calcParams(params), vars)
}

func (s *pricingService) PriceForWeight(ctx context.Context, groupID uuid.UUID, weight decimal.Decimal) (GroupPrice, error) {
	group, vars, params, err := s.loadInputs(ctx, groupID)
	if err != nil {
		return GroupPrice{}, err
	}

	v := *vars
	v.Weight = weight

	switch group.Method {
	case model.MethodPiece:
		b, err := pricing.CalculatePiece(calcParams(params), pieceVariables(v))
		if err != nil {
			return GroupPrice{}, err
		}
		return GroupPrice{DisplayPrice: b.WithTax, FinalPrice: b.FinalPrice}, nil
	default:
		b, err := pricing.CalculateGram(calcParams(params), gramVariables(v))
		if err != nil {
			return GroupPrice{}, err
		}
		return GroupPrice{DisplayPrice: b.WithTax, FinalPrice: b.FinalPrice}, nil
	}
}

// --- Helpers ---

func (s *pricingService) loadInputs(ctx context.Context, groupID uuid.UUID) (*model.PricingGroup, *model.GroupVariables, model.GlobalParameters, error) {
	params, err := s.params.Load(ctx)
	if err != nil {
		return nil, nil, model.GlobalParameters{}, err
	}

	group, err := s.groups.FindGroupByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, model.GlobalParameters{}, fmt.Errorf("pricing group not found")
		}
		return nil, nil, model.GlobalParameters{}, fmt.Errorf("failed to fetch pricing group: %w", err)
	}

	vars, err := s.groups.GetVariables(ctx, groupID)
	if err != nil {
		return nil, nil, model.GlobalParameters{}, fmt.Errorf("failed to fetch group variables: %w", err)
	}

	return group, vars, params, nil
}

func (s *pricingService) quote(method string, params pricing.Params, vars model.GroupVariables) (BreakdownResponse, error) {
	switch method {
	case model.MethodPiece:
		b, err := pricing.CalculatePiece(params, pieceVariables(vars))
		if err != nil {
			return BreakdownResponse{}, err
		}
		return toPieceBreakdownResponse(b), nil
	case model.MethodGram:
		b, err := pricing.CalculateGram(params, gramVariables(vars))
		if err != nil {
			return BreakdownResponse{}, err
		}
		return toGramBreakdownResponse(b), nil
	default:
		return BreakdownResponse{}, fmt.Errorf("unknown pricing method %q", method)
	}
}

func toGramBreakdownResponse(b pricing.GramBreakdown) BreakdownResponse {
	return BreakdownResponse{
		Method:                    model.MethodGram,
		MetalCost:                 b.MetalCost.StringFixed(2),
		MaterialsCost:             b.MaterialsCost.StringFixed(2),
		CostSubtotal:              b.CostSubtotal.StringFixed(2),
		WithProfit:                b.WithProfit.StringFixed(2),
		CommissionCost:            b.CommissionCost.StringFixed(2),
		WithCommissionAndShipping: b.WithCommissionAndShipping.StringFixed(2),
		WithTax:                   b.WithTax.StringFixed(2),
		DisplayPrice:              b.WithTax.StringFixed(2),
		FinalPrice:                b.FinalPrice.StringFixed(2),
	}
}

func toPieceBreakdownResponse(b pricing.PieceBreakdown) BreakdownResponse {
	return BreakdownResponse{
		Method:                    model.MethodPiece,
		GoldCost:                  b.GoldCost.StringFixed(2),
		GoldCostWithWastage:       b.GoldCostWithWastage.StringFixed(2),
		PerPieceSubtotal:          b.PerPieceSubtotal.StringFixed(2),
		SubtotalByPieces:          b.SubtotalByPieces.StringFixed(2),
		WithProfit:                b.WithProfit.StringFixed(2),
		CommissionCost:            b.CommissionCost.StringFixed(2),
		WithCommissionAndShipping: b.WithCommissionAndShipping.StringFixed(2),
		WithTax:                   b.WithTax.StringFixed(2),
		DisplayPrice:              b.WithTax.StringFixed(2),
		FinalPrice:                b.FinalPrice.StringFixed(2),
	}
}
