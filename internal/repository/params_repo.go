package repository

import (
	"context"

	"joyeria/internal/model"

	"gorm.io/gorm"
)

// ParamsRepository is the persistence side of the parameter store singleton.
// Get returns gorm.ErrRecordNotFound until the first explicit update has
// seeded the row — callers surface that as a missing-parameter error instead
// of defaulting to zeros.
type ParamsRepository interface {
	Get(ctx context.Context) (*model.GlobalParameters, error)
	Update(ctx context.Context, params *model.GlobalParameters) error
}

type paramsRepository struct {
	db *gorm.DB
}

func NewParamsRepository(db *gorm.DB) ParamsRepository {
	return &paramsRepository{db: db}
}

func (r *paramsRepository) Get(ctx context.Context) (*model.GlobalParameters, error) {
	var params model.GlobalParameters
	if err := GetDB(ctx, r.db).First(&params, "id = ?", model.GlobalParametersID).Error; err != nil {
		return nil, err
	}
	return &params, nil
}

func (r *paramsRepository) Update(ctx context.Context, params *model.GlobalParameters) error {
	params.ID = model.GlobalParametersID
	// Save upserts on the fixed primary key, so the first update creates the row.
	return GetDB(ctx, r.db).Save(params).Error
}
