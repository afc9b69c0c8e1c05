package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const MaxVisualDescription = 500

// VisualDetail is a showcase entry of images plus a description, reusable
// across consultations.
type VisualDetail struct {
	ID           string                      `gorm:"type:uuid;primary_key" json:"id"`
	Images       datatypes.JSONSlice[string] `gorm:"type:jsonb;not null" json:"images"`
	Description  string                      `gorm:"type:varchar(500)" json:"description"`
	DetailImages datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"detailImages"`
	CreatedBy    string                      `gorm:"type:varchar(100)" json:"createdBy"`
	CreatedAt    time.Time                   `gorm:"index" json:"createdAt"`
}

func (v *VisualDetail) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return
}
