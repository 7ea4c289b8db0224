package service

import (
	"context"
	"time"

	"kkp-asta/internal/model"
	"kkp-asta/internal/repository"
)

const maxChartDays = 90

type DashboardService interface {
	GetStockMovement(ctx context.Context, days int) ([]model.StockMovementData, error)
	GetDashboardStats(ctx context.Context) (*model.DashboardStats, error)
}

type dashboardService struct {
	txRepo            repository.TransactionRepository
	lowStockThreshold int
	loc               *time.Location
	now               func() time.Time
}

func NewDashboardService(txRepo repository.TransactionRepository, lowStockThreshold int, loc *time.Location) DashboardService {
	return &dashboardService{
		txRepo:            txRepo,
		lowStockThreshold: lowStockThreshold,
		loc:               loc,
		now:               time.Now,
	}
}

func (s *dashboardService) GetStockMovement(ctx context.Context, days int) ([]model.StockMovementData, error) {
	if days <= 0 {
		days = 7
	}
	if days > maxChartDays {
		days = maxChartDays
	}
	endDate := s.now().In(s.loc)
	startDate := startOfDay(endDate).AddDate(0, 0, -(days - 1))

	return s.txRepo.GetStockMovement(ctx, startDate, endDate)
}

func (s *dashboardService) GetDashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	return s.txRepo.GetDashboardStats(ctx, s.lowStockThreshold, startOfDay(s.now().In(s.loc)))
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
