package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"joyeria/internal/model"
	"joyeria/internal/pricing"
	"joyeria/internal/repository"
	"joyeria/internal/scheduler"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateGroupRequest struct {
	Name   string `json:"name" binding:"required"`
	Method string `json:"method" binding:"required,oneof=GRAM PIECE"`
}

type GroupResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Method string `json:"method"`
}

// GroupVariablesRequest carries the full cost record as decimal strings; the
// admin form always submits every field.
type GroupVariablesRequest struct {
	Weight          string `json:"weight" binding:"required"`
	PieceCount      string `json:"piece_count" binding:"required"`
	Purity          string `json:"purity" binding:"required"`
	WastageRate     string `json:"wastage_rate" binding:"required"`
	Factor          string `json:"factor" binding:"required"`
	LaborCost       string `json:"labor_cost" binding:"required"`
	StoneCost       string `json:"stone_cost" binding:"required"`
	SalesCommission string `json:"sales_commission" binding:"required"`
	ShippingCost    string `json:"shipping_cost" binding:"required"`
}

type GroupVariablesResponse struct {
	GroupID         string `json:"group_id"`
	Weight          string `json:"weight"`
	PieceCount      string `json:"piece_count"`
	Purity          string `json:"purity"`
	WastageRate     string `json:"wastage_rate"`
	Factor          string `json:"factor"`
	LaborCost       string `json:"labor_cost"`
	StoneCost       string `json:"stone_cost"`
	SalesCommission string `json:"sales_commission"`
	ShippingCost    string `json:"shipping_cost"`
}

// --- Interface ---

type GroupService interface {
	CreateGroup(ctx context.Context, req CreateGroupRequest, userID string) (GroupResponse, error)
	ListGroups(ctx context.Context, page, limit int) ([]GroupResponse, int64, error)
	// GetVariables seeds a default record on first access to a group.
	GetVariables(ctx context.Context, groupID string) (GroupVariablesResponse, error)
	// SubmitVariables validates the edit and hands it to the debounced
	// writer; persistence happens after the quiet window, last write wins.
	SubmitVariables(ctx context.Context, groupID string, req GroupVariablesRequest, userID string) (GroupVariablesResponse, error)
	// FlushPending drains unpersisted edits synchronously (shutdown path).
	FlushPending()
}

type groupService struct {
	repo      repository.GroupRepository
	audit     repository.AuditRepository
	debouncer *scheduler.Debouncer
}

func NewGroupService(repo repository.GroupRepository, audit repository.AuditRepository, window time.Duration, log zerolog.Logger) GroupService {
	s := &groupService{repo: repo, audit: audit}
	s.debouncer = scheduler.NewDebouncer(window, func(ctx context.Context, vars model.GroupVariables) error {
		if err := repo.UpsertVariables(ctx, &vars); err != nil {
			return err
		}
		writeAudit(ctx, audit, "", model.ActionUpsertGroupVariables, vars.GroupID.String(), "Group cost variables", vars)
		return nil
	}, log)
	return s
}

// --- Implementation ---

func (s *groupService) CreateGroup(ctx context.Context, req CreateGroupRequest, userID string) (GroupResponse, error) {
	group := model.PricingGroup{Name: req.Name, Method: req.Method}
	if err := s.repo.CreateGroup(ctx, &group); err != nil {
		return GroupResponse{}, fmt.Errorf("failed to create pricing group: %w", err)
	}

	writeAudit(ctx, s.audit, userID, model.ActionCreateGroup, group.ID.String(), group.Name, req)
	return toGroupResponse(group), nil
}

func (s *groupService) ListGroups(ctx context.Context, page, limit int) ([]GroupResponse, int64, error) {
	groups, total, err := s.repo.ListGroups(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list pricing groups: %w", err)
	}

	res := make([]GroupResponse, 0, len(groups))
	for _, g := range groups {
		res = append(res, toGroupResponse(g))
	}
	return res, total, nil
}

func (s *groupService) GetVariables(ctx context.Context, groupID string) (GroupVariablesResponse, error) {
	id, err := uuid.Parse(groupID)
	if err != nil {
		return GroupVariablesResponse{}, fmt.Errorf("invalid group id: %w", err)
	}

	if _, err := s.repo.FindGroupByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return GroupVariablesResponse{}, fmt.Errorf("pricing group not found")
		}
		return GroupVariablesResponse{}, fmt.Errorf("failed to fetch pricing group: %w", err)
	}

	vars, err := s.repo.GetVariables(ctx, id)
	if err != nil {
		return GroupVariablesResponse{}, fmt.Errorf("failed to fetch group variables: %w", err)
	}
	return toVariablesResponse(*vars), nil
}

func (s *groupService) SubmitVariables(ctx context.Context, groupID string, req GroupVariablesRequest, userID string) (GroupVariablesResponse, error) {
	id, err := uuid.Parse(groupID)
	if err != nil {
		return GroupVariablesResponse{}, fmt.Errorf("invalid group id: %w", err)
	}

	if _, err := s.repo.FindGroupByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return GroupVariablesResponse{}, fmt.Errorf("pricing group not found")
		}
		return GroupVariablesResponse{}, fmt.Errorf("failed to fetch pricing group: %w", err)
	}

	vars, err := parseVariables(id, req)
	if err != nil {
		return GroupVariablesResponse{}, err
	}

	s.debouncer.Submit(vars)
	// The response echoes the accepted edit; the row itself lands after the
	// quiet window.
	return toVariablesResponse(vars), nil
}

func (s *groupService) FlushPending() {
	s.debouncer.Flush()
}

// --- Helpers ---

func parseVariables(groupID uuid.UUID, req GroupVariablesRequest) (model.GroupVariables, error) {
	vars := model.GroupVariables{GroupID: groupID}

	var parseErr error
	parse := func(name, raw string) decimal.Decimal {
		if parseErr != nil {
			return decimal.Zero
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			parseErr = fmt.Errorf("invalid %s value: %w", name, err)
		}
		return d
	}

	vars.Weight = parse("weight", req.Weight)
	vars.PieceCount = parse("piece_count", req.PieceCount)
	vars.Purity = parse("purity", req.Purity)
	vars.WastageRate = parse("wastage_rate", req.WastageRate)
	vars.Factor = parse("factor", req.Factor)
	vars.LaborCost = parse("labor_cost", req.LaborCost)
	vars.StoneCost = parse("stone_cost", req.StoneCost)
	vars.SalesCommission = parse("sales_commission", req.SalesCommission)
	vars.ShippingCost = parse("shipping_cost", req.ShippingCost)
	if parseErr != nil {
		return model.GroupVariables{}, parseErr
	}

	if err := validateVariables(vars); err != nil {
		return model.GroupVariables{}, err
	}
	return vars, nil
}

// validateVariables rejects a record that either calculator would refuse,
// regardless of the group's current method — the record backs both.
func validateVariables(vars model.GroupVariables) error {
	if err := gramVariables(vars).Validate(); err != nil {
		return err
	}
	return pieceVariables(vars).Validate()
}

func gramVariables(vars model.GroupVariables) pricing.GramVariables {
	return pricing.GramVariables{
		Weight:          vars.Weight,
		Factor:          vars.Factor,
		LaborCost:       vars.LaborCost,
		StoneCost:       vars.StoneCost,
		SalesCommission: vars.SalesCommission,
		ShippingCost:    vars.ShippingCost,
	}
}

func pieceVariables(vars model.GroupVariables) pricing.PieceVariables {
	return pricing.PieceVariables{
		Weight:          vars.Weight,
		Purity:          vars.Purity,
		WastageRate:     vars.WastageRate,
		PieceCount:      vars.PieceCount,
		LaborCost:       vars.LaborCost,
		StoneCost:       vars.StoneCost,
		SalesCommission: vars.SalesCommission,
		ShippingCost:    vars.ShippingCost,
	}
}

func toGroupResponse(g model.PricingGroup) GroupResponse {
	return GroupResponse{ID: g.ID.String(), Name: g.Name, Method: g.Method}
}

func toVariablesResponse(v model.GroupVariables) GroupVariablesResponse {
	return GroupVariablesResponse{
		GroupID:         v.GroupID.String(),
		Weight:          v.Weight.String(),
		PieceCount:      v.PieceCount.String(),
		Purity:          v.Purity.String(),
		WastageRate:     v.WastageRate.String(),
		Factor:          v.Factor.String(),
		LaborCost:       v.LaborCost.String(),
		StoneCost:       v.StoneCost.String(),
		SalesCommission: v.SalesCommission.String(),
		ShippingCost:    v.ShippingCost.String(),
	}
}
