package repository

import (
	"context"
	"errors"

	"joyeria/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GroupRepository interface {
	CreateGroup(ctx context.Context, group *model.PricingGroup) error
	FindGroupByID(ctx context.Context, id uuid.UUID) (*model.PricingGroup, error)
	ListGroups(ctx context.Context, page, limit int) ([]model.PricingGroup, int64, error)
	GetVariables(ctx context.Context, groupID uuid.UUID) (*model.GroupVariables, error)
	UpsertVariables(ctx context.Context, vars *model.GroupVariables) error
}

type groupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) CreateGroup(ctx context.Context, group *model.PricingGroup) error {
	return GetDB(ctx, r.db).Create(group).Error
}

func (r *groupRepository) FindGroupByID(ctx context.Context, id uuid.UUID) (*model.PricingGroup, error) {
	var group model.PricingGroup
	if err := GetDB(ctx, r.db).First(&group, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) ListGroups(ctx context.Context, page, limit int) ([]model.PricingGroup, int64, error) {
	var groups []model.PricingGroup
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.PricingGroup{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("name asc").Offset(offset).Limit(limit).Find(&groups).Error; err != nil {
		return nil, 0, err
	}

	return groups, total, nil
}

// GetVariables returns the cost record for a group, seeding it with defaults
// on first access.
func (r *groupRepository) GetVariables(ctx context.Context, groupID uuid.UUID) (*model.GroupVariables, error) {
	var vars model.GroupVariables
	err := GetDB(ctx, r.db).First(&vars, "group_id = ?", groupID).Error
	if err == nil {
		return &vars, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	seeded := model.DefaultGroupVariables(groupID)
	if err := GetDB(ctx, r.db).Create(&seeded).Error; err != nil {
		return nil, err
	}
	return &seeded, nil
}

// UpsertVariables writes the full cost record, last write wins. Concurrent
// admin edits carry no optimistic concurrency token on purpose.
func (r *groupRepository) UpsertVariables(ctx context.Context, vars *model.GroupVariables) error {
	return GetDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "group_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"weight", "piece_count", "purity", "wastage_rate", "factor",
			"labor_cost", "stone_cost", "sales_commission", "shipping_cost", "updated_at",
		}),
	}).Create(vars).Error
}
