package repository

import (
	"context"
	"time"

	"github.com/primekad/laundry-management-system-sub002/internal/domain/entity"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/enum"
	domainRepo "github.com/primekad/laundry-management-system-sub002/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type sumRow struct {
	Total decimal.Decimal
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) domainRepo.ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) OrderCountsByStatus(ctx context.Context) ([]domainRepo.StatusCount, error) {
	var results []domainRepo.StatusCount
	err := r.db.WithContext(ctx).Model(&entity.Order{}).
		Scopes(BranchScope(ctx, "orders")).
		Select("orders.status AS status, COUNT(*) AS count").
		Group("orders.status").
		Scan(&results).Error
	return results, err
}

func (r *reportRepository) Revenue(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var sum sumRow
	err := r.db.WithContext(ctx).Model(&entity.Payment{}).
		Scopes(BranchScope(ctx, "payments")).
		Where("payments.status = ? AND payments.paid_at >= ? AND payments.paid_at < ?", enum.PaymentRecordPaid, from, to).
		Select("COALESCE(SUM(payments.amount), 0) AS total").
		Scan(&sum).Error
	return sum.Total, err
}

func (r *reportRepository) ExpensesTotal(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var sum sumRow
	err := r.db.WithContext(ctx).Model(&entity.Expense{}).
		Scopes(BranchScope(ctx, "expenses")).
		Where("expenses.expense_date >= ? AND expenses.expense_date < ?", from, to).
		Select("COALESCE(SUM(expenses.amount), 0) AS total").
		Scan(&sum).Error
	return sum.Total, err
}

func (r *reportRepository) OutstandingDue(ctx context.Context) (decimal.Decimal, error) {
	var sum sumRow
	err := r.db.WithContext(ctx).Model(&entity.Order{}).
		Scopes(BranchScope(ctx, "orders")).
		Where("orders.amount_due > 0 AND orders.status <> ?", enum.OrderStatusCancelled).
		Select("COALESCE(SUM(orders.amount_due), 0) AS total").
		Scan(&sum).Error
	return sum.Total, err
}

// DailySales buckets payments by day and joins the number of orders taken that day
func (r *reportRepository) DailySales(ctx context.Context, from, to time.Time) ([]domainRepo.DailySalesResult, error) {
	type row struct {
		Day   time.Time
		Value decimal.Decimal
		Count int64
	}

	var revenue []row
	err := r.db.WithContext(ctx).Model(&entity.Payment{}).
		Scopes(BranchScope(ctx, "payments")).
		Where("payments.status = ? AND payments.paid_at >= ? AND payments.paid_at < ?", enum.PaymentRecordPaid, from, to).
		Select("DATE_TRUNC('day', payments.paid_at) AS day, SUM(payments.amount) AS value").
		Group("day").
		Scan(&revenue).Error
	if err != nil {
		return nil, err
	}

	var orders []row
	err = r.db.WithContext(ctx).Model(&entity.Order{}).
		Scopes(BranchScope(ctx, "orders")).
		Where("orders.created_at >= ? AND orders.created_at < ?", from, to).
		Select("DATE_TRUNC('day', orders.created_at) AS day, COUNT(*) AS count").
		Group("day").
		Scan(&orders).Error
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]*domainRepo.DailySalesResult)
	key := func(t time.Time) string { return t.Format("2006-01-02") }

	var out []domainRepo.DailySalesResult
	for d := truncateDay(from); d.Before(to); d = d.AddDate(0, 0, 1) {
		out = append(out, domainRepo.DailySalesResult{Date: d, Revenue: decimal.Zero})
	}
	for i := range out {
		byDay[key(out[i].Date)] = &out[i]
	}
	for _, rv := range revenue {
		if d, ok := byDay[key(rv.Day)]; ok {
			d.Revenue = rv.Value
		}
	}
	for _, o := range orders {
		if d, ok := byDay[key(o.Day)]; ok {
			d.OrderCount = o.Count
		}
	}
	return out, nil
}

func (r *reportRepository) TopServices(ctx context.Context, from, to time.Time, limit int) ([]domainRepo.TopServiceResult, error) {
	var results []domainRepo.TopServiceResult
	err := r.db.WithContext(ctx).Model(&entity.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id AND orders.deleted_at IS NULL").
		Joins("JOIN service_types ON service_types.id = order_items.service_type_id").
		Scopes(BranchScope(ctx, "orders")).
		Where("orders.status <> ? AND orders.created_at >= ? AND orders.created_at < ?", enum.OrderStatusCancelled, from, to).
		Select("service_types.id AS service_type_id, service_types.name AS service_type_name, " +
			"SUM(order_items.quantity) AS quantity, SUM(order_items.total) AS revenue").
		Group("service_types.id, service_types.name").
		Order("revenue DESC").
		Limit(limit).
		Scan(&results).Error
	return results, err
}

func (r *reportRepository) PaymentMethodBreakdown(ctx context.Context, from, to time.Time) ([]domainRepo.MethodTotal, error) {
	var results []domainRepo.MethodTotal
	err := r.db.WithContext(ctx).Model(&entity.Payment{}).
		Scopes(BranchScope(ctx, "payments")).
		Where("payments.status = ? AND payments.paid_at >= ? AND payments.paid_at < ?", enum.PaymentRecordPaid, from, to).
		Select("payments.method AS method, SUM(payments.amount) AS total, COUNT(*) AS count").
		Group("payments.method").
		Order("total DESC").
		Scan(&results).Error
	return results, err
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
