package request

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerRequestBody creates or updates a customer
type CustomerRequestBody struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=255"`
	Phone   *string `json:"phone" binding:"omitempty,max=50"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Address *string `json:"address"`
	Notes   *string `json:"notes"`
}

// ServiceTypeRequest creates or updates a service type
type ServiceTypeRequest struct {
	Name         *string          `json:"name" binding:"omitempty,max=255"`
	Description  *string          `json:"description"`
	DefaultPrice *decimal.Decimal `json:"default_price"`
	PricingUnit  *string          `json:"pricing_unit" binding:"omitempty,oneof=per_item per_kg"`
	IsActive     *bool            `json:"is_active"`
}

// CategoryRequest creates or updates a garment category
type CategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=255"`
	Description *string `json:"description"`
}

// ExpenseRequest creates or updates an expense
type ExpenseRequest struct {
	Title       *string          `json:"title" binding:"omitempty,max=255"`
	Category    *string          `json:"category" binding:"omitempty,max=100"`
	Amount      *decimal.Decimal `json:"amount"`
	ExpenseDate *string          `json:"expense_date"`
	Notes       *string          `json:"notes"`
}

// Date parses expense_date; a nil result means it was not supplied
func (r *ExpenseRequest) Date() (*time.Time, bool) {
	if r.ExpenseDate == nil || *r.ExpenseDate == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", *r.ExpenseDate)
	if err != nil {
		return nil, false
	}
	return &t, true
}
