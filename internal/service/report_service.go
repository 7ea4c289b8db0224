package service

import (
	"context"
	"time"

	"kkp-asta/internal/apperror"
	"kkp-asta/internal/metrics"
	"kkp-asta/internal/model"
	"kkp-asta/internal/repository"

	"github.com/shopspring/decimal"
)

// Types summed as sales income. "pemasukan" is deliberately absent.
var inflowTypes = []string{model.TypePenjualan}

// Types summed as costs and cash outflow.
var costTypes = []string{
	model.TypePembelian,
	model.TypeBiayaOperasional,
	model.TypeOperasional,
	model.TypeGaji,
	model.TypePajak,
}

const (
	bucketPenjualan = "total_penjualan"
	bucketBiaya     = "total_biaya"
	bucketKasMasuk  = "total_kas_masuk"
	bucketKasKeluar = "total_kas_keluar"
)

type ReportService interface {
	ProfitAndLoss(ctx context.Context, period model.Period) (*model.ProfitAndLoss, error)
	CashFlow(ctx context.Context, period model.Period) (*model.CashFlow, error)
	Recap(ctx context.Context, period model.Period) (*model.Recap, error)
}

type reportService struct {
	repo    repository.ReportRepository
	metrics *metrics.Metrics
}

func NewReportService(repo repository.ReportRepository, m *metrics.Metrics) ReportService {
	return &reportService{repo: repo, metrics: m}
}

func (s *reportService) ProfitAndLoss(ctx context.Context, period model.Period) (*model.ProfitAndLoss, error) {
	sums, err := s.sum(ctx, "laba_rugi", period,
		model.AmountBucket{Name: bucketPenjualan, TypeNames: inflowTypes},
		model.AmountBucket{Name: bucketBiaya, TypeNames: costTypes},
	)
	if err != nil {
		return nil, err
	}
	pl := profitAndLoss(sums)
	return &pl, nil
}

func (s *reportService) CashFlow(ctx context.Context, period model.Period) (*model.CashFlow, error) {
	sums, err := s.sum(ctx, "arus_kas", period,
		model.AmountBucket{Name: bucketKasMasuk, TypeNames: inflowTypes},
		model.AmountBucket{Name: bucketKasKeluar, TypeNames: costTypes},
	)
	if err != nil {
		return nil, err
	}
	cf := cashFlow(sums)
	return &cf, nil
}

// Recap computes both reports from one query over the same period.
func (s *reportService) Recap(ctx context.Context, period model.Period) (*model.Recap, error) {
	sums, err := s.sum(ctx, "rekap", period,
		model.AmountBucket{Name: bucketPenjualan, TypeNames: inflowTypes},
		model.AmountBucket{Name: bucketBiaya, TypeNames: costTypes},
		model.AmountBucket{Name: bucketKasMasuk, TypeNames: inflowTypes},
		model.AmountBucket{Name: bucketKasKeluar, TypeNames: costTypes},
	)
	if err != nil {
		return nil, err
	}
	return &model.Recap{
		Periode:  period.Label(),
		LabaRugi: profitAndLoss(sums),
		ArusKas:  cashFlow(sums),
	}, nil
}

func (s *reportService) sum(ctx context.Context, report string, period model.Period, buckets ...model.AmountBucket) (map[string]decimal.Decimal, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() { s.metrics.ReportDuration.WithLabelValues(report).Observe(time.Since(start).Seconds()) }()

	return s.repo.SumAmounts(ctx, period, buckets)
}

func profitAndLoss(sums map[string]decimal.Decimal) model.ProfitAndLoss {
	in, out := sums[bucketPenjualan], sums[bucketBiaya]
	return model.ProfitAndLoss{TotalPenjualan: in, TotalBiaya: out, LabaRugi: in.Sub(out)}
}

func cashFlow(sums map[string]decimal.Decimal) model.CashFlow {
	in, out := sums[bucketKasMasuk], sums[bucketKasKeluar]
	return model.CashFlow{TotalKasMasuk: in, TotalKasKeluar: out, ArusKas: in.Sub(out)}
}

func validatePeriod(p model.Period) error {
	if p.StartDate != nil && p.EndDate != nil && p.StartDate.After(*p.EndDate) {
		return &apperror.ValidationError{
			Message: "start_date must not be after end_date",
			Fields:  []apperror.FieldError{{Field: "start_date", Tag: "ltefield", Param: "end_date"}},
		}
	}
	return nil
}
