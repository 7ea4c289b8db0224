package repository

import (
	"context"
	"errors"

	"kkp-asta/internal/apperror"
	"kkp-asta/internal/model"
	"kkp-asta/pkg/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ledger is the write side used by the transaction poster. Atomic runs fn in
// one storage transaction: writes made through tx are committed only when fn
// returns nil.
type Ledger interface {
	Atomic(ctx context.Context, fn func(tx LedgerTx) error) error
}

// LedgerTx is the set of operations available inside Ledger.Atomic.
type LedgerTx interface {
	TransactionTypeByName(ctx context.Context, name string) (*model.TransactionType, error)
	ItemByID(ctx context.Context, id uuid.UUID) (*model.Item, error)
	InsertTransaction(ctx context.Context, t *model.Transaction) error
	InsertStockMovement(ctx context.Context, m *model.StockMovement) error
	// AdjustStock applies delta relative to the stored value and returns the
	// stock as stored after the update.
	AdjustStock(ctx context.Context, itemID uuid.UUID, delta int, updatedBy string) (int, error)
}

type ledgerRepo struct {
	db *gorm.DB
}

func NewLedgerRepo(db *gorm.DB) Ledger {
	return &ledgerRepo{db: db}
}

func (r *ledgerRepo) Atomic(ctx context.Context, fn func(tx LedgerTx) error) error {
	err := database.WithinTransaction(ctx, r.db, func(tx *gorm.DB) error {
		return fn(&ledgerTx{tx: tx})
	})
	return apperror.FromDB(err)
}

type ledgerTx struct {
	tx *gorm.DB
}

func (l *ledgerTx) TransactionTypeByName(ctx context.Context, name string) (*model.TransactionType, error) {
	var tt model.TransactionType
	err := l.tx.WithContext(ctx).Where("name = ?", name).First(&tt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrTypeNotFound
	}
	if err != nil {
		return nil, apperror.FromDB(err)
	}
	return &tt, nil
}

func (l *ledgerTx) ItemByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	var item model.Item
	err := l.tx.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrItemNotFound
	}
	if err != nil {
		return nil, apperror.FromDB(err)
	}
	return &item, nil
}

func (l *ledgerTx) InsertTransaction(ctx context.Context, t *model.Transaction) error {
	return apperror.FromDB(l.tx.WithContext(ctx).Omit("User", "TransactionType", "StockMovements").Create(t).Error)
}

func (l *ledgerTx) InsertStockMovement(ctx context.Context, m *model.StockMovement) error {
	return apperror.FromDB(l.tx.WithContext(ctx).Omit("Item").Create(m).Error)
}

func (l *ledgerTx) AdjustStock(ctx context.Context, itemID uuid.UUID, delta int, updatedBy string) (int, error) {
	res := l.tx.WithContext(ctx).Model(&model.Item{}).
		Where("id = ?", itemID).
		Updates(map[string]interface{}{
			"current_stock": gorm.Expr("current_stock + ?", delta),
			"updated_by":    updatedBy,
		})
	if res.Error != nil {
		return 0, apperror.FromDB(res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, apperror.ErrItemNotFound
	}

	// The row stays locked until commit, so this is the value the update wrote.
	var stock []int
	if err := l.tx.WithContext(ctx).Model(&model.Item{}).
		Where("id = ?", itemID).
		Pluck("current_stock", &stock).Error; err != nil {
		return 0, apperror.FromDB(err)
	}
	if len(stock) == 0 {
		return 0, apperror.ErrItemNotFound
	}
	return stock[0], nil
}
