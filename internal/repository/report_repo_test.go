package repository

import (
	"context"
	"testing"
	"time"

	"kkp-asta/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBuckets = []model.AmountBucket{
	{Name: "inflow", TypeNames: []string{model.TypePenjualan}},
	{Name: "cost", TypeNames: []string{model.TypePembelian, model.TypeOperasional, model.TypeGaji, model.TypePajak}},
}

func TestReportRepo_SumAmounts(t *testing.T) {
	db := setupTestDB(t)
	types := seedTypes(t, db, model.TypePenjualan, model.TypePembelian, model.TypeOperasional, model.TypePemasukan)
	day := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	seedTransaction(t, db, types[model.TypePenjualan].ID, 100000, day)
	seedTransaction(t, db, types[model.TypePembelian].ID, 40000, day.Add(time.Hour))
	seedTransaction(t, db, types[model.TypeOperasional].ID, 20000, day.Add(2*time.Hour))
	seedTransaction(t, db, types[model.TypePemasukan].ID, 50000, day.Add(3*time.Hour))

	repo := NewReportRepo(db)
	sums, err := repo.SumAmounts(context.Background(), model.Period{}, testBuckets)
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(100000).Equal(sums["inflow"]), sums["inflow"].String())
	assert.True(t, decimal.NewFromInt(60000).Equal(sums["cost"]), sums["cost"].String())
}

func TestReportRepo_SumAmountsPeriod(t *testing.T) {
	db := setupTestDB(t)
	types := seedTypes(t, db, model.TypePenjualan)
	id := types[model.TypePenjualan].ID

	seedTransaction(t, db, id, 1000, time.Date(2026, 3, 9, 23, 59, 0, 0, time.UTC))
	seedTransaction(t, db, id, 2000, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))
	seedTransaction(t, db, id, 4000, time.Date(2026, 3, 11, 23, 30, 0, 0, time.UTC))
	seedTransaction(t, db, id, 8000, time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC))

	repo := NewReportRepo(db)
	ctx := context.Background()
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		period model.Period
		want   int64
	}{
		{"closed window includes whole end day", model.Period{StartDate: &start, EndDate: &end}, 6000},
		{"open end", model.Period{StartDate: &start}, 14000},
		{"open start", model.Period{EndDate: &end}, 7000},
		{"unbounded", model.Period{}, 15000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sums, err := repo.SumAmounts(ctx, tt.period, testBuckets)
			require.NoError(t, err)
			assert.True(t, decimal.NewFromInt(tt.want).Equal(sums["inflow"]), sums["inflow"].String())
		})
	}
}

func TestReportRepo_EmptyIsZero(t *testing.T) {
	db := setupTestDB(t)
	seedTypes(t, db, model.TypePenjualan)

	sums, err := NewReportRepo(db).SumAmounts(context.Background(), model.Period{}, testBuckets)
	require.NoError(t, err)
	assert.True(t, sums["inflow"].IsZero())
	assert.True(t, sums["cost"].IsZero())

	sums, err = NewReportRepo(db).SumAmounts(context.Background(), model.Period{}, nil)
	require.NoError(t, err)
	assert.Empty(t, sums)
}
