package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a catalog item. BasePrice/BaseWeight form the anchor from which
// sibling variant prices are projected; both are set together by a bulk price
// application and are nil until one has run.
type Product struct {
	ID         uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SKU        string           `gorm:"type:varchar(100);uniqueIndex;not null" json:"sku"`
	Name       string           `gorm:"type:varchar(255);not null" json:"name"`
	GroupID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"group_id"`
	Group      *PricingGroup    `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	BasePrice  *decimal.Decimal `gorm:"type:decimal(18,2)" json:"base_price"`
	BaseWeight *decimal.Decimal `gorm:"type:decimal(18,4)" json:"base_weight"` // grams the anchor was priced at
	Variants   []ProductVariant `gorm:"foreignKey:ProductID" json:"variants"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
	DeletedAt  gorm.DeletedAt   `gorm:"index" json:"-"`
}

// ProductVariant is a physical size of a product. Weight is nullable: a
// variant without its own weight sells at the product's anchor price.
type ProductVariant struct {
	ID        uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID uuid.UUID        `gorm:"type:uuid;not null;index" json:"product_id"`
	Size      string           `gorm:"type:varchar(20);not null" json:"size"`
	Weight    *decimal.Decimal `gorm:"type:decimal(18,4)" json:"weight"`
	Price     *decimal.Decimal `gorm:"type:decimal(18,2)" json:"price"` // last applied final price
	Stock     int              `gorm:"type:int;not null;default:0" json:"stock"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}
