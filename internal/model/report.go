package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

// Period is an optional, inclusive date window over transaction created_at.
// Both ends are calendar dates in the caller's location.
type Period struct {
	StartDate *time.Time
	EndDate   *time.Time
}

// Bounds returns the half-open instant range [from, until) covered by the
// period. A nil bound is unbounded.
func (p Period) Bounds() (from, until *time.Time) {
	if p.StartDate != nil {
		s := startOfDay(*p.StartDate)
		from = &s
	}
	if p.EndDate != nil {
		e := startOfDay(*p.EndDate).AddDate(0, 0, 1)
		until = &e
	}
	return from, until
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	from, until := p.Bounds()
	if from != nil && t.Before(*from) {
		return false
	}
	if until != nil && !t.Before(*until) {
		return false
	}
	return true
}

// Label is the human readable period echoed by the recap report.
func (p Period) Label() string {
	switch {
	case p.StartDate != nil && p.EndDate != nil:
		return p.StartDate.Format(DateLayout) + " s/d " + p.EndDate.Format(DateLayout)
	case p.StartDate != nil:
		return "sejak " + p.StartDate.Format(DateLayout)
	case p.EndDate != nil:
		return "sampai " + p.EndDate.Format(DateLayout)
	}
	return "semua periode"
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AmountBucket names a set of transaction types whose amounts are summed
// together in one report column.
type AmountBucket struct {
	Name      string
	TypeNames []string
}

type ProfitAndLoss struct {
	TotalPenjualan decimal.Decimal `json:"total_penjualan"`
	TotalBiaya     decimal.Decimal `json:"total_biaya"`
	LabaRugi       decimal.Decimal `json:"laba_rugi"`
}

type CashFlow struct {
	TotalKasMasuk  decimal.Decimal `json:"total_kas_masuk"`
	TotalKasKeluar decimal.Decimal `json:"total_kas_keluar"`
	ArusKas        decimal.Decimal `json:"arus_kas"`
}

type Recap struct {
	Periode  string        `json:"periode"`
	LabaRugi ProfitAndLoss `json:"laba_rugi"`
	ArusKas  CashFlow      `json:"arus_kas"`
}

// StockMovementData is one day of the dashboard stock chart.
type StockMovementData struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

type DashboardStats struct {
	TotalItems        int64 `json:"total_items"`
	TotalCategories   int64 `json:"total_categories"`
	LowStockCount     int64 `json:"low_stock_count"`
	TransactionsToday int64 `json:"transactions_today"`
}
