package model

import "github.com/google/uuid"

// Item is a stock-keeping unit. CurrentStock has no floor: usage and sales may
// take it below zero. Only trackable items have their stock maintained by
// posted transactions.
type Item struct {
	BaseModel
	Name         string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name" validate:"required,max=255"`
	CategoryID   uuid.UUID `gorm:"type:uuid;not null;index" json:"category_id" validate:"uuid_required"`
	Category     *Category `gorm:"constraint:OnDelete:RESTRICT;" json:"category,omitempty" validate:"-"`
	Unit         string    `gorm:"type:varchar(20)" json:"unit"`
	CurrentStock int       `gorm:"not null;default:0" json:"current_stock"`
	IsTrackable  bool      `gorm:"not null" json:"is_trackable"`
}
