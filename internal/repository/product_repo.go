package repository

import (
	"context"

	"joyeria/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindBySKU(ctx context.Context, sku string) (*model.Product, error)
	List(ctx context.Context, page, limit int, search string) ([]model.Product, int64, error)
	CreateVariant(ctx context.Context, variant *model.ProductVariant) error
	FindVariantByID(ctx context.Context, id uuid.UUID) (*model.ProductVariant, error)
	SetVariantPrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) error
	SetPriceAnchor(ctx context.Context, productID uuid.UUID, price, baseWeight decimal.Decimal) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	return GetDB(ctx, r.db).Create(product).Error
}

func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	return GetDB(ctx, r.db).Save(product).Error
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Product{}).Error
}

func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := GetDB(ctx, r.db).Preload("Variants").First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindBySKU(ctx context.Context, sku string) (*model.Product, error) {
	var product model.Product
	if err := GetDB(ctx, r.db).Where("sku = ?", sku).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context, page, limit int, search string) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Product{})
	if search != "" {
		db = db.Where("name ILIKE ? OR sku ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Variants").Order("created_at desc").Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *productRepository) CreateVariant(ctx context.Context, variant *model.ProductVariant) error {
	return GetDB(ctx, r.db).Create(variant).Error
}

func (r *productRepository) FindVariantByID(ctx context.Context, id uuid.UUID) (*model.ProductVariant, error) {
	var variant model.ProductVariant
	if err := GetDB(ctx, r.db).First(&variant, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

// SetVariantPrice persists an applied final price for one variant. An unknown
// id reports gorm.ErrRecordNotFound so bulk callers can record a per-id
// failure instead of aborting the batch.
func (r *productRepository) SetVariantPrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) error {
	res := GetDB(ctx, r.db).Model(&model.ProductVariant{}).
		Where("id = ?", id).
		Update("price", price)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetPriceAnchor stores the base price and the weight it was computed at.
func (r *productRepository) SetPriceAnchor(ctx context.Context, productID uuid.UUID, price, baseWeight decimal.Decimal) error {
	res := GetDB(ctx, r.db).Model(&model.Product{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{"base_price": price, "base_weight": baseWeight})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
