package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// WithinTransaction begins a transaction, runs fn and commits only if fn
// returns nil. Every other exit, including a panic inside fn, rolls back.
func WithinTransaction(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) (err error) {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback().Error; rbErr != nil && err == nil {
			err = fmt.Errorf("rollback: %w", rbErr)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit().Error; err != nil {
		return err
	}
	committed = true
	return nil
}
