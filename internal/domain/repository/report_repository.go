package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// StatusCount is the number of orders in one workflow status
type StatusCount struct {
	Status string
	Count  int64
}

// DailySalesResult is revenue and order volume for one day
type DailySalesResult struct {
	Date       time.Time
	Revenue    decimal.Decimal
	OrderCount int64
}

// TopServiceResult ranks service types by billed amount
type TopServiceResult struct {
	ServiceTypeID   string
	ServiceTypeName string
	Quantity        decimal.Decimal
	Revenue         decimal.Decimal
}

// MethodTotal is the amount received through one payment method
type MethodTotal struct {
	Method string
	Total  decimal.Decimal
	Count  int64
}

// ReportRepository defines aggregate queries for the branch in ctx
type ReportRepository interface {
	OrderCountsByStatus(ctx context.Context) ([]StatusCount, error)
	// Revenue sums payments received in [from, to)
	Revenue(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	// ExpensesTotal sums expenses dated in [from, to)
	ExpensesTotal(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	// OutstandingDue sums positive amount_due over open orders
	OutstandingDue(ctx context.Context) (decimal.Decimal, error)
	DailySales(ctx context.Context, from, to time.Time) ([]DailySalesResult, error)
	TopServices(ctx context.Context, from, to time.Time, limit int) ([]TopServiceResult, error)
	PaymentMethodBreakdown(ctx context.Context, from, to time.Time) ([]MethodTotal, error)
}
