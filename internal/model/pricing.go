package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PricingMethod enum constants — which calculator a group runs through
const (
	MethodGram  = "GRAM"
	MethodPiece = "PIECE"
)

// GlobalParametersID is the fixed primary key of the one-row parameters table.
const GlobalParametersID uint = 1

// GlobalParameters holds the store-wide pricing constants. Exactly one row
// exists (ID = 1); it is created by the first explicit update and never
// defaulted silently.
type GlobalParameters struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	MetalQuotation    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"metal_quotation"` // MXN per gram
	ProfitMargin      decimal.Decimal `gorm:"type:decimal(10,4);not null" json:"profit_margin"`   // e.g. 0.30 = 30%
	TaxRate           decimal.Decimal `gorm:"type:decimal(10,4);not null" json:"tax_rate"`        // IVA, e.g. 0.16
	ProcessorFeeRate  decimal.Decimal `gorm:"type:decimal(10,4);not null" json:"processor_fee_rate"`
	ProcessorFixedFee decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"processor_fixed_fee"`
	ExchangeRate      decimal.Decimal `gorm:"type:decimal(18,6);not null;default:1" json:"exchange_rate"` // MXN per USD
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// PricingGroup is the catalog "subcategory" acting as a pricing template:
// every product references a group and inherits its cost variables.
type PricingGroup struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Method    string         `gorm:"type:varchar(10);not null;default:'GRAM'" json:"method"` // GRAM, PIECE
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// GroupVariables is the 1:1 cost record behind a pricing group. A row is
// created with defaults on first access and then mutated via debounced
// upserts while an operator edits the template.
type GroupVariables struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	GroupID         uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null" json:"group_id"`
	Group           *PricingGroup   `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	Weight          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"weight"`       // grams
	PieceCount      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:1" json:"piece_count"`  // piece formula
	Purity          decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0" json:"purity"`       // karats, piece formula
	WastageRate     decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0" json:"wastage_rate"` // piece formula
	Factor          decimal.Decimal `gorm:"type:decimal(10,4);not null;default:1" json:"factor"`       // gram formula
	LaborCost       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"labor_cost"`
	StoneCost       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"stone_cost"`
	SalesCommission decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"sales_commission"`
	ShippingCost    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"shipping_cost"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// DefaultGroupVariables returns the record seeded on first access to a group.
func DefaultGroupVariables(groupID uuid.UUID) GroupVariables {
	return GroupVariables{
		GroupID:    groupID,
		PieceCount: decimal.NewFromInt(1),
		Factor:     decimal.NewFromInt(1),
	}
}
