package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionUpdateParameters     = "UPDATE_PARAMETERS"
	ActionCreateGroup          = "CREATE_GROUP"
	ActionUpsertGroupVariables = "UPSERT_GROUP_VARIABLES"
	ActionCreateProduct        = "CREATE_PRODUCT"
	ActionUpdateProduct        = "UPDATE_PRODUCT"
	ActionDeleteProduct        = "DELETE_PRODUCT"
	ActionApplyFinalPrice      = "APPLY_FINAL_PRICE"
)

// AuditLog tracks who changed which pricing input or price, and when.
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // nil when written by the scheduler
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string     `gorm:"type:jsonb" json:"details"` // serialized payload of the change
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
