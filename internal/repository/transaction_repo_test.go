package repository

import (
	"context"
	"testing"
	"time"

	"kkp-asta/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedMovement(t *testing.T, db *gorm.DB, tr *model.Transaction, item *model.Item, mt model.MovementType, qty int) {
	t.Helper()
	require.NoError(t, db.Omit("Item").Create(&model.StockMovement{
		ItemID:        item.ID,
		TransactionID: tr.ID,
		MovementType:  mt,
		Quantity:      qty,
	}).Error)
}

func TestTransactionRepo_GetStockMovement(t *testing.T) {
	db := setupTestDB(t)
	types := seedTypes(t, db, model.TypePenjualan, model.TypePembelian)
	beras := seedItem(t, db, "Beras", 20, true)
	gula := seedItem(t, db, "Gula", 10, true)
	repo := NewTransactionRepo(db)

	sale := seedTransaction(t, db, types[model.TypePenjualan].ID, 50000, mustDay(t, "2024-03-01"))
	seedMovement(t, db, sale, beras, model.MovementOut, 3)
	seedMovement(t, db, sale, gula, model.MovementOut, 2)

	purchase := seedTransaction(t, db, types[model.TypePembelian].ID, 80000, mustDay(t, "2024-03-01").Add(time.Hour))
	seedMovement(t, db, purchase, beras, model.MovementIn, 5)

	later := seedTransaction(t, db, types[model.TypePenjualan].ID, 10000, mustDay(t, "2024-03-02"))
	seedMovement(t, db, later, gula, model.MovementOut, 1)

	outside := seedTransaction(t, db, types[model.TypePenjualan].ID, 10000, mustDay(t, "2024-03-05"))
	seedMovement(t, db, outside, gula, model.MovementOut, 9)

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 2, 23, 59, 59, 0, time.UTC)

	got, err := repo.GetStockMovement(context.Background(), start, end)
	require.NoError(t, err)
	assert.Equal(t, []model.StockMovementData{
		{Date: "2024-03-01", Inbound: 5, Outbound: 5},
		{Date: "2024-03-02", Inbound: 0, Outbound: 1},
	}, got)

	t.Run("empty window", func(t *testing.T) {
		got, err := repo.GetStockMovement(context.Background(), start.AddDate(1, 0, 0), end.AddDate(1, 0, 0))
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestTransactionRepo_GetDashboardStats(t *testing.T) {
	db := setupTestDB(t)
	types := seedTypes(t, db, model.TypePenjualan)
	seedItem(t, db, "Beras", 20, true)
	seedItem(t, db, "Gula", 3, true)
	seedItem(t, db, "Jasa Antar", 0, false)
	repo := NewTransactionRepo(db)

	seedTransaction(t, db, types[model.TypePenjualan].ID, 10000, mustDay(t, "2024-03-01"))
	seedTransaction(t, db, types[model.TypePenjualan].ID, 10000, mustDay(t, "2024-03-02"))
	seedTransaction(t, db, types[model.TypePenjualan].ID, 10000, mustDay(t, "2024-03-02").Add(time.Hour))

	stats, err := repo.GetDashboardStats(context.Background(), 10, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.TotalItems)
	assert.EqualValues(t, 3, stats.TotalCategories)
	assert.EqualValues(t, 1, stats.LowStockCount)
	assert.EqualValues(t, 2, stats.TransactionsToday)
}
