package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/entity"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/enum"
	"github.com/primekad/laundry-management-system-sub002/pkg/pagination"
)

// OrderRepository defines the interface for order data operations.
// Reads are scoped to the branch carried by ctx.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	// GetWithDetails loads customer, items (with service/category) and payments
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	// UpdateVersioned writes the order only if its version still equals
	// expectedVersion, and bumps the version. It returns false when no row matched.
	UpdateVersioned(ctx context.Context, order *entity.Order, expectedVersion int) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *OrderFilterParams) ([]entity.Order, int64, error)
	ListWithCursor(ctx context.Context, params *OrderCursorFilterParams) ([]entity.Order, error)
	GetDueOrders(ctx context.Context, params *pagination.PaginationParams) ([]entity.Order, int64, error)
}

// OrderFilter holds the filters shared by page and cursor listings
type OrderFilter struct {
	Search        string
	Status        *enum.OrderStatus
	PaymentStatus *enum.PaymentStatus
	CustomerID    *uuid.UUID
	StartDate     *time.Time
	EndDate       *time.Time
}

// OrderFilterParams contains filtering parameters for page-based order queries
type OrderFilterParams struct {
	OrderFilter
	Pagination *pagination.PaginationParams
	SortBy     string
	SortOrder  string
}

// OrderCursorFilterParams contains cursor-based filtering for order queries
type OrderCursorFilterParams struct {
	OrderFilter
	Cursor *pagination.CursorParams
}

// OrderItemRepository defines the interface for order item data operations
type OrderItemRepository interface {
	CreateBatch(ctx context.Context, items []entity.OrderItem) error
	GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.OrderItem, error)
	DeleteByOrderID(ctx context.Context, orderID uuid.UUID) error
}
