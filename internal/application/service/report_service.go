package service

import (
	"context"
	"time"

	"github.com/primekad/laundry-management-system-sub002/internal/domain/enum"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/repository"
	"github.com/primekad/laundry-management-system-sub002/pkg/apperror"
	"github.com/shopspring/decimal"
)

const (
	maxReportDays   = 366
	defaultTopLimit = 5
)

// ReportService provides dashboard and sales reports for the active branch
type ReportService struct {
	reportRepo repository.ReportRepository
	now        func() time.Time
}

// NewReportService creates a new report service
func NewReportService(reportRepo repository.ReportRepository) *ReportService {
	return &ReportService{reportRepo: reportRepo, now: time.Now}
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	OrdersByStatus  map[string]int64 `json:"orders_by_status"`
	TotalOrders     int64            `json:"total_orders"`
	RevenueToday    decimal.Decimal  `json:"revenue_today"`
	RevenueMonth    decimal.Decimal  `json:"revenue_month"`
	ExpensesMonth   decimal.Decimal  `json:"expenses_month"`
	NetMonth        decimal.Decimal  `json:"net_month"`
	OutstandingDues decimal.Decimal  `json:"outstanding_dues"`
}

// Dashboard returns today's and this month's figures
func (s *ReportService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := today.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	counts, err := s.reportRepo.OrderCountsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	stats := &DashboardStats{OrdersByStatus: make(map[string]int64, len(counts))}
	for _, st := range enum.OrderStatusValues() {
		stats.OrdersByStatus[st] = 0
	}
	for _, c := range counts {
		stats.OrdersByStatus[c.Status] = c.Count
		stats.TotalOrders += c.Count
	}

	if stats.RevenueToday, err = s.reportRepo.Revenue(ctx, today, tomorrow); err != nil {
		return nil, err
	}
	if stats.RevenueMonth, err = s.reportRepo.Revenue(ctx, monthStart, tomorrow); err != nil {
		return nil, err
	}
	if stats.ExpensesMonth, err = s.reportRepo.ExpensesTotal(ctx, monthStart, tomorrow); err != nil {
		return nil, err
	}
	if stats.OutstandingDues, err = s.reportRepo.OutstandingDue(ctx); err != nil {
		return nil, err
	}
	stats.NetMonth = stats.RevenueMonth.Sub(stats.ExpensesMonth)
	return stats, nil
}

// DateRange is an inclusive day range; zero values default to the last 30 days
type DateRange struct {
	From time.Time
	To   time.Time
}

// DailySales returns revenue and order counts per day
func (s *ReportService) DailySales(ctx context.Context, r DateRange) ([]repository.DailySalesResult, error) {
	from, to, err := s.bounds(r)
	if err != nil {
		return nil, err
	}
	return s.reportRepo.DailySales(ctx, from, to)
}

// TopServices returns the best-selling service types by revenue
func (s *ReportService) TopServices(ctx context.Context, r DateRange, limit int) ([]repository.TopServiceResult, error) {
	from, to, err := s.bounds(r)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 50 {
		limit = defaultTopLimit
	}
	return s.reportRepo.TopServices(ctx, from, to, limit)
}

// PaymentMethods breaks revenue down by payment method
func (s *ReportService) PaymentMethods(ctx context.Context, r DateRange) ([]repository.MethodTotal, error) {
	from, to, err := s.bounds(r)
	if err != nil {
		return nil, err
	}
	return s.reportRepo.PaymentMethodBreakdown(ctx, from, to)
}

// bounds turns an inclusive day range into a half-open [from, to) interval
func (s *ReportService) bounds(r DateRange) (time.Time, time.Time, error) {
	now := s.now()
	to := r.To
	if to.IsZero() {
		to = now
	}
	from := r.From
	if from.IsZero() {
		from = to.AddDate(0, 0, -29)
	}

	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	to = time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, to.Location()).AddDate(0, 0, 1)

	if !from.Before(to) {
		return time.Time{}, time.Time{}, apperror.NewFieldError("start_date", "start_date must not be after end_date")
	}
	if to.Sub(from) > maxReportDays*24*time.Hour {
		return time.Time{}, time.Time{}, apperror.NewFieldError("start_date", "date range must not exceed one year")
	}
	return from, to, nil
}
