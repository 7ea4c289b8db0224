package repository

import (
	"context"
	"fmt"
	"strings"

	"kkp-asta/internal/apperror"
	"kkp-asta/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ReportRepository interface {
	// SumAmounts sums transaction amounts per bucket over the period in a
	// single aggregate query. Buckets with no matching rows sum to zero.
	SumAmounts(ctx context.Context, period model.Period, buckets []model.AmountBucket) (map[string]decimal.Decimal, error)
}

type reportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db: db}
}

func (r *reportRepo) SumAmounts(ctx context.Context, period model.Period, buckets []model.AmountBucket) (map[string]decimal.Decimal, error) {
	if len(buckets) == 0 {
		return map[string]decimal.Decimal{}, nil
	}

	cols := make([]string, len(buckets))
	args := make([]interface{}, len(buckets))
	for i, b := range buckets {
		cols[i] = fmt.Sprintf("COALESCE(SUM(CASE WHEN tt.name IN ? THEN t.amount ELSE 0 END), 0) AS b%d", i)
		args[i] = b.TypeNames
	}

	q := r.db.WithContext(ctx).
		Table("transactions AS t").
		Select(strings.Join(cols, ", "), args...).
		Joins("JOIN transaction_types AS tt ON tt.id = t.transaction_type_id")
	q = applyPeriod(q, "t.created_at", period)

	sums := make([]decimal.Decimal, len(buckets))
	dest := make([]interface{}, len(buckets))
	for i := range sums {
		dest[i] = &sums[i]
	}
	if err := q.Row().Scan(dest...); err != nil {
		return nil, apperror.FromDB(err)
	}

	out := make(map[string]decimal.Decimal, len(buckets))
	for i, b := range buckets {
		out[b.Name] = sums[i]
	}
	return out, nil
}

// applyPeriod restricts column to the half-open range of the period.
func applyPeriod(q *gorm.DB, column string, period model.Period) *gorm.DB {
	from, until := period.Bounds()
	if from != nil {
		q = q.Where(column+" >= ?", *from)
	}
	if until != nil {
		q = q.Where(column+" < ?", *until)
	}
	return q
}
