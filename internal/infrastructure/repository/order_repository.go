package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/entity"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/enum"
	domainRepo "github.com/primekad/laundry-management-system-sub002/internal/domain/repository"
	"github.com/primekad/laundry-management-system-sub002/pkg/pagination"
	"gorm.io/gorm"
)

var orderSortColumns = map[string]string{
	"created_at":   "orders.created_at",
	"order_number": "orders.order_number",
	"total_amount": "orders.total_amount",
	"amount_due":   "orders.amount_due",
	"status":       "orders.status",
	"pickup_date":  "orders.pickup_date",
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) domainRepo.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	return translate(r.db.WithContext(ctx).Omit("Branch", "CreatedBy", "Customer", "Items", "Payments").Create(order).Error)
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).
		Scopes(BranchScope(ctx, "orders")).
		First(&order, "id = ?", id).Error
	return notFound(&order, err)
}

func (r *orderRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).
		Scopes(BranchScope(ctx, "orders")).
		Preload("Customer").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.created_at ASC") }).
		Preload("Items.ServiceType").
		Preload("Items.Category").
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("payments.paid_at ASC") }).
		First(&order, "id = ?", id).Error
	return notFound(&order, err)
}

// UpdateVersioned writes the reconciled columns guarded by the version token
func (r *orderRepository) UpdateVersioned(ctx context.Context, order *entity.Order, expectedVersion int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&entity.Order{}).
		Where("id = ? AND version = ?", order.ID, expectedVersion).
		Updates(map[string]interface{}{
			"customer_id":    order.CustomerID,
			"status":         order.Status,
			"payment_status": order.PaymentStatus,
			"discount":       order.Discount,
			"total_amount":   order.TotalAmount,
			"amount_paid":    order.AmountPaid,
			"amount_due":     order.AmountDue,
			"notes":          order.Notes,
			"pickup_date":    order.PickupDate,
			"version":        gorm.Expr("version + 1"),
			"updated_at":     time.Now(),
		})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	order.Version = expectedVersion + 1
	return true, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) error {
	return r.db.WithContext(ctx).Model(&entity.Order{}).
		Scopes(BranchScope(ctx, "orders")).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":  status,
			"version": gorm.Expr("version + 1"),
		}).Error
}

func (r *orderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Scopes(BranchScope(ctx, "orders")).
		Delete(&entity.Order{}, "id = ?", id).Error
}

func (r *orderRepository) List(ctx context.Context, params *domainRepo.OrderFilterParams) ([]entity.Order, int64, error) {
	var orders []entity.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Order{}).
		Scopes(BranchScope(ctx, "orders"), orderFilter(params.OrderFilter))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy, ok := orderSortColumns[params.SortBy]
	if !ok {
		sortBy = "orders.created_at"
	}
	sortOrder := "DESC"
	if strings.EqualFold(params.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Customer").
		Order(sortBy + " " + sortOrder).
		Order("orders.id " + sortOrder).
		Find(&orders).Error
	return orders, total, err
}

// ListWithCursor walks orders newest first using (created_at, id) keysets
func (r *orderRepository) ListWithCursor(ctx context.Context, params *domainRepo.OrderCursorFilterParams) ([]entity.Order, error) {
	var orders []entity.Order

	params.Cursor.Validate()
	cursor, err := params.Cursor.Decode()
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Model(&entity.Order{}).
		Scopes(BranchScope(ctx, "orders"), orderFilter(params.OrderFilter))
	if cursor != nil {
		query = query.Where("(orders.created_at, orders.id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	err = query.Limit(params.Cursor.Limit + 1).
		Preload("Customer").
		Order("orders.created_at DESC, orders.id DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) GetDueOrders(ctx context.Context, params *pagination.PaginationParams) ([]entity.Order, int64, error) {
	var orders []entity.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Order{}).
		Scopes(BranchScope(ctx, "orders")).
		Where("orders.amount_due > 0 AND orders.status <> ?", enum.OrderStatusCancelled)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Preload("Customer").
		Order("orders.created_at DESC").
		Find(&orders).Error
	return orders, total, err
}

func orderFilter(f domainRepo.OrderFilter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if s := strings.TrimSpace(f.Search); s != "" {
			like := "%" + s + "%"
			db = db.Joins("LEFT JOIN customers ON customers.id = orders.customer_id").
				Where("orders.order_number ILIKE ? OR customers.name ILIKE ? OR customers.phone ILIKE ?", like, like, like)
		}
		if f.Status != nil {
			db = db.Where("orders.status = ?", *f.Status)
		}
		if f.PaymentStatus != nil {
			db = db.Where("orders.payment_status = ?", *f.PaymentStatus)
		}
		if f.CustomerID != nil {
			db = db.Where("orders.customer_id = ?", *f.CustomerID)
		}
		return DateRange("orders.created_at", f.StartDate, f.EndDate)(db)
	}
}

type orderItemRepository struct {
	db *gorm.DB
}

// NewOrderItemRepository creates a new order item repository
func NewOrderItemRepository(db *gorm.DB) domainRepo.OrderItemRepository {
	return &orderItemRepository{db: db}
}

func (r *orderItemRepository) CreateBatch(ctx context.Context, items []entity.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Omit("Order", "ServiceType", "Category").Create(&items).Error)
}

func (r *orderItemRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.OrderItem, error) {
	var items []entity.OrderItem
	err := r.db.WithContext(ctx).
		Preload("ServiceType").
		Preload("Category").
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *orderItemRepository) DeleteByOrderID(ctx context.Context, orderID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("order_id = ?", orderID).Delete(&entity.OrderItem{}).Error
}
