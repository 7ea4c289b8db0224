package repository

import (
	"context"
	"time"

	"kkp-asta/internal/apperror"
	"kkp-asta/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionRepository interface {
	FindAll(ctx context.Context, filter model.TransactionFilter) ([]model.Transaction, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error)
	GetStockMovement(ctx context.Context, startDate, endDate time.Time) ([]model.StockMovementData, error)
	GetDashboardStats(ctx context.Context, lowStockThreshold int, dayStart time.Time) (*model.DashboardStats, error)
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) FindAll(ctx context.Context, filter model.TransactionFilter) ([]model.Transaction, error) {
	var transactions []model.Transaction

	q := r.db.WithContext(ctx).
		Preload("TransactionType").
		Preload("User").
		Preload("StockMovements.Item")
	if filter.TypeName != "" {
		q = q.Joins("JOIN transaction_types ON transaction_types.id = transactions.transaction_type_id").
			Where("transaction_types.name = ?", filter.TypeName)
	}
	q = applyPeriod(q, "transactions.created_at", filter.Period)
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	err := q.Order("transactions.created_at DESC").Find(&transactions).Error
	return transactions, apperror.FromDB(err)
}

func (r *transactionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.WithContext(ctx).
		Preload("TransactionType").
		Preload("User").
		Preload("StockMovements.Item").
		First(&transaction, "id = ?", id).Error
	if err != nil {
		return nil, apperror.FromDB(err)
	}
	return &transaction, nil
}

func (r *transactionRepo) GetStockMovement(ctx context.Context, startDate, endDate time.Time) ([]model.StockMovementData, error) {
	var results []model.StockMovementData

	// Quantities per day, bucketed by the owning transaction's timestamp
	rows, err := r.db.WithContext(ctx).
		Table("stock_movements AS sm").
		Select(`
			DATE(t.created_at) as date,
			COALESCE(SUM(CASE WHEN sm.movement_type = 'in' THEN sm.quantity ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN sm.movement_type = 'out' THEN sm.quantity ELSE 0 END), 0) as outbound
		`).
		Joins("JOIN transactions AS t ON t.id = sm.transaction_id").
		Where("t.created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(t.created_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, apperror.FromDB(err)
	}
	defer rows.Close()

	for rows.Next() {
		var data model.StockMovementData
		if err := rows.Scan(&data.Date, &data.Inbound, &data.Outbound); err != nil {
			return nil, apperror.FromDB(err)
		}
		// postgres hands DATE() back as a timestamp, sqlite as text
		if len(data.Date) > len(model.DateLayout) {
			data.Date = data.Date[:len(model.DateLayout)]
		}
		results = append(results, data)
	}

	return results, apperror.FromDB(rows.Err())
}

func (r *transactionRepo) GetDashboardStats(ctx context.Context, lowStockThreshold int, dayStart time.Time) (*model.DashboardStats, error) {
	var stats model.DashboardStats
	db := r.db.WithContext(ctx)

	if err := db.Model(&model.Item{}).Count(&stats.TotalItems).Error; err != nil {
		return nil, apperror.FromDB(err)
	}
	if err := db.Model(&model.Category{}).Count(&stats.TotalCategories).Error; err != nil {
		return nil, apperror.FromDB(err)
	}
	if err := db.Model(&model.Item{}).
		Where("is_trackable = ? AND current_stock < ?", true, lowStockThreshold).
		Count(&stats.LowStockCount).Error; err != nil {
		return nil, apperror.FromDB(err)
	}
	if err := db.Model(&model.Transaction{}).
		Where("created_at >= ?", dayStart).
		Count(&stats.TransactionsToday).Error; err != nil {
		return nil, apperror.FromDB(err)
	}

	return &stats, nil
}
