package repository

import (
	"context"

	"kkp-asta/internal/apperror"
	"kkp-asta/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TransactionTypeRepository interface {
	FindAll(ctx context.Context) ([]model.TransactionType, error)
	// Sync inserts missing types and refreshes flow/description of existing
	// ones, keyed by name. Types absent from the input are left untouched.
	Sync(ctx context.Context, types []model.TransactionType) error
}

type transactionTypeRepo struct {
	db *gorm.DB
}

func NewTransactionTypeRepo(db *gorm.DB) TransactionTypeRepository {
	return &transactionTypeRepo{db: db}
}

func (r *transactionTypeRepo) FindAll(ctx context.Context) ([]model.TransactionType, error) {
	var types []model.TransactionType
	err := r.db.WithContext(ctx).Order("id ASC").Find(&types).Error
	return types, apperror.FromDB(err)
}

func (r *transactionTypeRepo) Sync(ctx context.Context, types []model.TransactionType) error {
	if len(types) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"flow", "description"}),
	}).Create(&types).Error
	return apperror.FromDB(err)
}
