package repository

import (
	"kkp-asta/internal/model"

	"gorm.io/gorm"
)

// Models lists every table owned by the service, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Category{},
		&model.Item{},
		&model.TransactionType{},
		&model.Transaction{},
		&model.StockMovement{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
