package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/entity"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/enum"
	"github.com/primekad/laundry-management-system-sub002/pkg/pagination"
)

// PaymentRepository defines the interface for payment data operations.
// Payments are insert-only.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.Payment, error)
	List(ctx context.Context, params *PaymentFilterParams) ([]entity.Payment, int64, error)
}

// PaymentFilterParams contains filtering parameters for payment listings
type PaymentFilterParams struct {
	Pagination *pagination.PaginationParams
	Method     *enum.PaymentMethod
	OrderID    *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}
