package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MovementType string

const (
	MovementIn  MovementType = "in"
	MovementOut MovementType = "out"
)

// StockMovement records one item line of a posted transaction.
type StockMovement struct {
	ID            uuid.UUID    `gorm:"type:uuid;primary_key;" json:"id"`
	ItemID        uuid.UUID    `gorm:"type:uuid;not null;index" json:"item_id"`
	Item          *Item        `gorm:"constraint:OnDelete:RESTRICT;" json:"item,omitempty"`
	TransactionID uuid.UUID    `gorm:"type:uuid;not null;index" json:"transaction_id"`
	MovementType  MovementType `gorm:"type:varchar(10);not null" json:"movement_type"`
	Quantity      int          `gorm:"not null" json:"quantity"`
	CreatedAt     time.Time    `json:"created_at"`
}

func (m *StockMovement) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
