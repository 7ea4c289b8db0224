package repository

import (
	"context"
	"testing"
	"time"

	"kkp-asta/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}

func seedTypes(t *testing.T, db *gorm.DB, names ...string) map[string]model.TransactionType {
	t.Helper()
	out := make(map[string]model.TransactionType, len(names))
	for _, name := range names {
		tt := model.TransactionType{Name: name, Flow: model.FlowKeluar}
		require.NoError(t, db.Create(&tt).Error)
		out[name] = tt
	}
	return out
}

func seedItem(t *testing.T, db *gorm.DB, name string, stock int, trackable bool) *model.Item {
	t.Helper()
	category := &model.Category{Name: "cat-" + name}
	require.NoError(t, db.Create(category).Error)
	item := &model.Item{Name: name, CategoryID: category.ID, Unit: "pcs", CurrentStock: stock, IsTrackable: trackable}
	require.NoError(t, db.Omit("Category").Create(item).Error)
	return item
}

func seedTransaction(t *testing.T, db *gorm.DB, typeID uint, amount int64, at time.Time) *model.Transaction {
	t.Helper()
	tr := &model.Transaction{
		UserID:            uuid.New(),
		TransactionTypeID: typeID,
		Amount:            decimal.NewFromInt(amount),
		CreatedAt:         at,
	}
	require.NoError(t, db.Omit("User", "TransactionType", "StockMovements").Create(tr).Error)
	return tr
}

func countRows(t *testing.T, db *gorm.DB, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.WithContext(context.Background()).Model(m).Count(&n).Error)
	return n
}

func mustDay(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(model.DateLayout, s)
	require.NoError(t, err)
	return d.Add(10 * time.Hour)
}
