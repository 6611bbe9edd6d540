package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"joyeria/internal/model"
	"joyeria/internal/pricing"
	"joyeria/internal/repository"
	"joyeria/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrParametersNotLoaded is returned when a calculation is requested before
// the global parameters row has ever been configured. Calculations must fail
// fast here instead of silently pricing off zeros.
var ErrParametersNotLoaded = errors.New("global pricing parameters have not been configured")

// --- DTOs ---

type UpdateParametersRequest struct {
	MetalQuotation    string `json:"metal_quotation" binding:"required"`     // decimal string, MXN per gram
	ProfitMargin      string `json:"profit_margin" binding:"required"`       // e.g. "0.30"
	TaxRate           string `json:"tax_rate" binding:"required"`            // e.g. "0.16"
	ProcessorFeeRate  string `json:"processor_fee_rate" binding:"required"`  // e.g. "0.036"
	ProcessorFixedFee string `json:"processor_fixed_fee" binding:"required"` // e.g. "3"
	ExchangeRate      string `json:"exchange_rate" binding:"required"`       // MXN per USD
}

type ParametersResponse struct {
	MetalQuotation    string `json:"metal_quotation"`
	ProfitMargin      string `json:"profit_margin"`
	TaxRate           string `json:"tax_rate"`
	ProcessorFeeRate  string `json:"processor_fee_rate"`
	ProcessorFixedFee string `json:"processor_fixed_fee"`
	ExchangeRate      string `json:"exchange_rate"`
	UpdatedAt         string `json:"updated_at"`
}

// --- Interface ---

type ParamsService interface {
	GetParameters(ctx context.Context) (ParametersResponse, error)
	UpdateParameters(ctx context.Context, req UpdateParametersRequest, userID string) (ParametersResponse, error)
	// Load returns the current parameters for calculation, served from the
	// in-process cache once warmed.
	Load(ctx context.Context) (model.GlobalParameters, error)
}

type paramsService struct {
	repo  repository.ParamsRepository
	audit repository.AuditRepository
	hub   *websocket.Hub

	mu     sync.RWMutex
	cached *model.GlobalParameters
}

func NewParamsService(repo repository.ParamsRepository, audit repository.AuditRepository, hub *websocket.Hub) ParamsService {
	return &paramsService{repo: repo, audit: audit, hub: hub}
}

// --- Implementation ---

func (s *paramsService) Load(ctx context.Context) (model.GlobalParameters, error) {
	s.mu.RLock()
	if s.cached != nil {
		p := *s.cached
		s.mu.RUnlock()
		return p, nil
	}
	s.mu.RUnlock()

	p, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.GlobalParameters{}, ErrParametersNotLoaded
		}
		return model.GlobalParameters{}, fmt.Errorf("failed to load global parameters: %w", err)
	}

	s.mu.Lock()
	s.cached = p
	s.mu.Unlock()
	return *p, nil
}

func (s *paramsService) GetParameters(ctx context.Context) (ParametersResponse, error) {
	p, err := s.Load(ctx)
	if err != nil {
		return ParametersResponse{}, err
	}
	return toParametersResponse(p), nil
}

func (s *paramsService) UpdateParameters(ctx context.Context, req UpdateParametersRequest, userID string) (ParametersResponse, error) {
	params, err := parseParameters(req)
	if err != nil {
		return ParametersResponse{}, err
	}

	if err := s.repo.Update(ctx, &params); err != nil {
		return ParametersResponse{}, fmt.Errorf("failed to update global parameters: %w", err)
	}

	// Refresh the read-through cache under the same snapshot that was persisted.
	s.mu.Lock()
	p := params
	s.cached = &p
	s.mu.Unlock()

	s.writeAuditLog(ctx, userID, model.ActionUpdateParameters, "global", "Global pricing parameters", req)

	resp := toParametersResponse(params)
	if s.hub != nil {
		s.hub.BroadcastEvent(websocket.Event{Type: websocket.EventParametersUpdated, Payload: resp})
	}

	return resp, nil
}

// --- Helpers ---

func parseParameters(req UpdateParametersRequest) (model.GlobalParameters, error) {
	fields := map[string]string{
		"metal_quotation":     req.MetalQuotation,
		"profit_margin":       req.ProfitMargin,
		"tax_rate":            req.TaxRate,
		"processor_fee_rate":  req.ProcessorFeeRate,
		"processor_fixed_fee": req.ProcessorFixedFee,
		"exchange_rate":       req.ExchangeRate,
	}
	parsed := make(map[string]decimal.Decimal, len(fields))
	for name, raw := range fields {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return model.GlobalParameters{}, fmt.Errorf("invalid %s value: %w", name, err)
		}
		parsed[name] = d
	}

	params := model.GlobalParameters{
		MetalQuotation:    parsed["metal_quotation"],
		ProfitMargin:      parsed["profit_margin"],
		TaxRate:           parsed["tax_rate"],
		ProcessorFeeRate:  parsed["processor_fee_rate"],
		ProcessorFixedFee: parsed["processor_fixed_fee"],
		ExchangeRate:      parsed["exchange_rate"],
	}

	if err := calcParams(params).Validate(); err != nil {
		return model.GlobalParameters{}, err
	}
	if params.ExchangeRate.Sign() <= 0 {
		return model.GlobalParameters{}, &pricing.ValidationError{Field: "exchange_rate", Reason: "must be greater than zero"}
	}
	return params, nil
}

// calcParams maps the stored singleton onto the calculator's parameter set.
func calcParams(m model.GlobalParameters) pricing.Params {
	return pricing.Params{
		MetalQuotation:    m.MetalQuotation,
		ProfitMargin:      m.ProfitMargin,
		TaxRate:           m.TaxRate,
		ProcessorFeeRate:  m.ProcessorFeeRate,
		ProcessorFixedFee: m.ProcessorFixedFee,
	}
}

func toParametersResponse(p model.GlobalParameters) ParametersResponse {
	return ParametersResponse{
		MetalQuotation:    p.MetalQuotation.String(),
		ProfitMargin:      p.ProfitMargin.String(),
		TaxRate:           p.TaxRate.String(),
		ProcessorFeeRate:  p.ProcessorFeeRate.String(),
		ProcessorFixedFee: p.ProcessorFixedFee.String(),
		ExchangeRate:      p.ExchangeRate.String(),
		UpdatedAt:         p.UpdatedAt.Format(time.RFC3339),
	}
}

func (s *paramsService) writeAuditLog(ctx context.Context, userID, action, entityID, entityName string, details interface{}) {
	writeAudit(ctx, s.audit, userID, action, entityID, entityName, details)
}

// writeAudit is the shared best-effort audit writer: a failed audit insert
// never fails the operation it describes.
func writeAudit(ctx context.Context, audit repository.AuditRepository, userID, action, entityID, entityName string, details interface{}) {
	if audit == nil {
		return
	}

	detailsJSON, _ := json.Marshal(details)
	entry := model.AuditLog{
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(detailsJSON),
	}

	if userID != "" {
		if parsed, err := uuid.Parse(userID); err == nil {
			entry.UserID = &parsed
		}
	}

	_ = audit.Log(ctx, &entry)
}
