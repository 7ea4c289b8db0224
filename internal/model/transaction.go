package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction is written once per posting and never updated.
type Transaction struct {
	ID                uuid.UUID        `gorm:"type:uuid;primary_key;" json:"id"`
	UserID            uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	User              *User            `json:"user,omitempty"`
	TransactionTypeID uint             `gorm:"not null;index" json:"transaction_type_id"`
	TransactionType   *TransactionType `json:"transaction_type,omitempty"`
	Description       string           `gorm:"type:text" json:"description"`
	Amount            decimal.Decimal  `gorm:"type:decimal(20,2);not null" json:"amount"`
	ReceiptPhoto      *string          `gorm:"type:varchar(255)" json:"receipt_photo,omitempty"`
	CreatedAt         time.Time        `gorm:"index" json:"created_at"`

	StockMovements []StockMovement `gorm:"constraint:OnDelete:CASCADE;" json:"stock_movements,omitempty"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TransactionFilter narrows transaction listings.
type TransactionFilter struct {
	TypeName string
	Period   Period
	Limit    int
	Offset   int
}
