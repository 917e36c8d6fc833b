package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/entity"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/enum"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/reconcile"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/repository"
	"github.com/primekad/laundry-management-system-sub002/pkg/apperror"
	"github.com/primekad/laundry-management-system-sub002/pkg/pagination"
	"github.com/primekad/laundry-management-system-sub002/pkg/utils"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	msgUpdateFailed = "Failed to update order"
	msgCreateFailed = "Failed to create order"
)

// OrderService owns the order lifecycle. Every money-changing write goes
// through the reconciliation engine and a single unit of work.
type OrderService struct {
	orderRepo       repository.OrderRepository
	paymentRepo     repository.PaymentRepository
	customerRepo    repository.CustomerRepository
	serviceTypeRepo repository.ServiceTypeRepository
	categoryRepo    repository.ServiceCategoryRepository
	uow             repository.UnitOfWork
	views           OrderViewCache
	events          *OrderEvents
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	customerRepo repository.CustomerRepository,
	serviceTypeRepo repository.ServiceTypeRepository,
	categoryRepo repository.ServiceCategoryRepository,
	uow repository.UnitOfWork,
	views OrderViewCache,
	events *OrderEvents,
) *OrderService {
	return &OrderService{
		orderRepo:       orderRepo,
		paymentRepo:     paymentRepo,
		customerRepo:    customerRepo,
		serviceTypeRepo: serviceTypeRepo,
		categoryRepo:    categoryRepo,
		uow:             uow,
		views:           views,
		events:          events,
	}
}

// CreateOrderInput represents the create order input
type CreateOrderInput struct {
	CreatedBy  uuid.UUID
	Intent     reconcile.ItemsUpdate
	PickupDate *time.Time
}

// CreateOrder reconciles the new order against an empty snapshot and writes
// the order, its items, an optional new customer and the first payment together.
func (s *OrderService) CreateOrder(ctx context.Context, input *CreateOrderInput) (*entity.Order, error) {
	branchID, ok := repository.BranchFromContext(ctx)
	if !ok {
		return nil, apperror.ErrBranchRequired
	}
	if len(input.Intent.Items) == 0 {
		return nil, apperror.NewFieldError("items", "at least one item is required")
	}

	plan, err := reconcile.Reconcile(reconcile.Snapshot{Status: enum.OrderStatusPending}, input.Intent)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, plan); err != nil {
		return nil, err
	}

	order := &entity.Order{
		ID:          uuid.New(),
		BranchID:    branchID,
		CreatedByID: input.CreatedBy,
		OrderNumber: utils.GenerateOrderNumber(),
		PickupDate:  input.PickupDate,
		Version:     1,
	}
	applyPlan(order, plan)
	s.warnMismatches(order, plan)

	err = s.uow.Do(ctx, func(ctx context.Context, tx *repository.TxRepositories) error {
		if err := createCustomer(ctx, tx, branchID, plan); err != nil {
			return err
		}
		order.CustomerID = plan.CustomerID

		if err := tx.Orders.Create(ctx, order); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		if err := tx.OrderItems.CreateBatch(ctx, buildItems(order.ID, plan.Items)); err != nil {
			return fmt.Errorf("insert items: %w", err)
		}
		return insertPayment(ctx, tx, order, plan, input.CreatedBy)
	})
	if err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, apperror.NewConflictError("Order number already exists, please retry")
		}
		log.Error().Err(err).Str("branch_id", branchID.String()).Msg("create order transaction failed")
		return nil, apperror.NewInternalError(msgCreateFailed)
	}

	s.events.Committed(ctx, order, EventCreated)
	return s.reload(ctx, order), nil
}

// UpdateOrder runs the full update: load, reconcile, write in one unit of
// work, then invalidate views. expectedVersion may be nil, in which case the
// loaded version guards the write.
func (s *OrderService) UpdateOrder(ctx context.Context, orderID uuid.UUID, intent reconcile.Intent, expectedVersion *int, actor uuid.UUID) (*entity.Order, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}

	version := order.Version
	if expectedVersion != nil {
		if *expectedVersion != order.Version {
			return nil, apperror.ErrStaleVersion
		}
		version = *expectedVersion
	}

	plan, err := reconcile.Reconcile(snapshotOf(order), intent)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, plan); err != nil {
		return nil, err
	}
	s.warnMismatches(order, plan)

	err = s.uow.Do(ctx, func(ctx context.Context, tx *repository.TxRepositories) error {
		if err := createCustomer(ctx, tx, order.BranchID, plan); err != nil {
			return err
		}

		applyPlan(order, plan)
		updated, err := tx.Orders.UpdateVersioned(ctx, order, version)
		if err != nil {
			return fmt.Errorf("update order row: %w", err)
		}
		if !updated {
			return apperror.ErrStaleVersion
		}

		if !plan.PaymentOnly && plan.ReplaceItems {
			if err := tx.OrderItems.DeleteByOrderID(ctx, order.ID); err != nil {
				return fmt.Errorf("delete items: %w", err)
			}
			if err := tx.OrderItems.CreateBatch(ctx, buildItems(order.ID, plan.Items)); err != nil {
				return fmt.Errorf("insert items: %w", err)
			}
		}

		return insertPayment(ctx, tx, order, plan, actor)
	})
	if err != nil {
		if errors.Is(err, apperror.ErrStaleVersion) {
			return nil, apperror.ErrStaleVersion
		}
		log.Error().Err(err).
			Str("order_id", orderID.String()).
			Str("branch_id", order.BranchID.String()).
			Msg("update order transaction failed")
		return nil, apperror.NewInternalError(msgUpdateFailed)
	}

	s.events.Committed(ctx, order, EventUpdated)
	return s.reload(ctx, order), nil
}

// GetOrder returns the order with customer, items and payments
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	if v, ok := s.views.GetDetail(id); ok {
		if order, ok := v.(*entity.Order); ok && visible(ctx, order.BranchID) {
			return order, nil
		}
	}

	token := s.views.Token()
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.views.SetDetail(id, token, order)
	return order, nil
}

// ListOrders returns a page of orders. queryKey identifies the request for
// the list view cache; pass "" to bypass it.
func (s *OrderService) ListOrders(ctx context.Context, params *repository.OrderFilterParams, queryKey string) (*pagination.Page[entity.Order], error) {
	branchID, cacheable := repository.BranchFromContext(ctx)
	cacheable = cacheable && queryKey != ""
	if cacheable {
		if v, ok := s.views.GetList(branchID, queryKey); ok {
			if page, ok := v.(*pagination.Page[entity.Order]); ok {
				return page, nil
			}
		}
	}

	token := s.views.Token()
	orders, total, err := s.orderRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	page := pagination.NewPage(orders, params.Pagination, total)
	if cacheable {
		s.views.SetList(branchID, queryKey, token, page)
	}
	return page, nil
}

// ListOrdersWithCursor returns orders newest first from the given cursor
func (s *OrderService) ListOrdersWithCursor(ctx context.Context, params *repository.OrderCursorFilterParams) (*pagination.CursorPage[entity.Order], error) {
	orders, err := s.orderRepo.ListWithCursor(ctx, params)
	if err != nil {
		if errors.Is(err, pagination.ErrInvalidCursor) {
			return nil, apperror.NewBadRequestError("Invalid cursor")
		}
		return nil, err
	}
	return pagination.NewCursorPage(orders, params.Cursor.Limit, orderKey), nil
}

// GetDueOrders lists open orders with a positive amount due
func (s *OrderService) GetDueOrders(ctx context.Context, params *pagination.PaginationParams) (*pagination.Page[entity.Order], error) {
	orders, total, err := s.orderRepo.GetDueOrders(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewPage(orders, params, total), nil
}

// GetOrderPayments lists an order's payments oldest first
func (s *OrderService) GetOrderPayments(ctx context.Context, orderID uuid.UUID) ([]entity.Payment, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return s.paymentRepo.GetByOrderID(ctx, orderID)
}

// UpdateOrderStatus moves the order to another workflow status.
// Completed and cancelled orders are closed.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status enum.OrderStatus) (*entity.Order, error) {
	if !status.IsValid() {
		return nil, apperror.NewFieldError("status", "status is invalid")
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	if order.Status.IsFinal() {
		return nil, apperror.NewBadRequestError(fmt.Sprintf("Order is already %s", order.Status))
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, err
	}
	order.Status = status
	order.Version++

	s.events.Committed(ctx, order, EventUpdated)
	return order, nil
}

// CancelOrder cancels an order that is not yet completed
func (s *OrderService) CancelOrder(ctx context.Context, orderID uuid.UUID) (*entity.Order, error) {
	return s.UpdateOrderStatus(ctx, orderID, enum.OrderStatusCancelled)
}

// DeleteOrder soft-deletes an order
func (s *OrderService) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return apperror.NewNotFoundError("Order")
	}
	if err := s.orderRepo.Delete(ctx, orderID); err != nil {
		return err
	}

	s.events.Committed(ctx, order, EventDeleted)
	return nil
}

// load is the order loader: it fails with NotFound before anything is written
func (s *OrderService) load(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetWithDetails(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("order_id", id.String()).Msg("load order")
		return nil, apperror.NewInternalError("Failed to load order")
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// reload re-reads the committed order for the response. The write already
// succeeded, so a failed read falls back to the in-memory record.
func (s *OrderService) reload(ctx context.Context, order *entity.Order) *entity.Order {
	fresh, err := s.orderRepo.GetWithDetails(ctx, order.ID)
	if err != nil || fresh == nil {
		log.Warn().Err(err).Str("order_id", order.ID.String()).Msg("reload after commit failed")
		return order
	}
	return fresh
}

// checkReferences verifies referenced customers, service types and
// categories exist, so a bad id is a 422 rather than a failed transaction
func (s *OrderService) checkReferences(ctx context.Context, plan *reconcile.Plan) error {
	var fieldErrs []apperror.FieldError

	if plan.NewCustomer == nil && plan.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *plan.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil {
			fieldErrs = append(fieldErrs, apperror.FieldError{Field: "customer.id", Message: "customer not found"})
		}
	}

	if plan.ReplaceItems && len(plan.Items) > 0 {
		ids := make([]uuid.UUID, 0, len(plan.Items))
		for _, it := range plan.Items {
			ids = append(ids, it.ServiceTypeID)
		}
		types, err := s.serviceTypeRepo.GetByIDs(ctx, ids)
		if err != nil {
			return err
		}
		known := make(map[uuid.UUID]bool, len(types))
		for _, st := range types {
			known[st.ID] = true
		}
		for i, it := range plan.Items {
			if !known[it.ServiceTypeID] {
				fieldErrs = append(fieldErrs, apperror.FieldError{
					Field:   fmt.Sprintf("items[%d].service_type_id", i),
					Message: "service type not found",
				})
			}
		}

		errs, err := s.checkCategories(ctx, plan.Items)
		if err != nil {
			return err
		}
		fieldErrs = append(fieldErrs, errs...)
	}

	if len(fieldErrs) > 0 {
		return apperror.NewValidationError(fieldErrs)
	}
	return nil
}

func (s *OrderService) checkCategories(ctx context.Context, items []reconcile.Item) ([]apperror.FieldError, error) {
	var ids []uuid.UUID
	for _, it := range items {
		if it.CategoryID != nil {
			ids = append(ids, *it.CategoryID)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	categories, err := s.categoryRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	known := make(map[uuid.UUID]bool, len(categories))
	for _, c := range categories {
		known[c.ID] = true
	}

	var errs []apperror.FieldError
	for i, it := range items {
		if it.CategoryID != nil && !known[*it.CategoryID] {
			errs = append(errs, apperror.FieldError{
				Field:   fmt.Sprintf("items[%d].category_id", i),
				Message: "category not found",
			})
		}
	}
	return errs, nil
}

func (s *OrderService) warnMismatches(order *entity.Order, plan *reconcile.Plan) {
	for _, i := range plan.PriceMismatches {
		it := plan.Items[i]
		log.Warn().
			Str("order_id", order.ID.String()).
			Int("item", i).
			Str("quantity", it.Quantity.String()).
			Str("unit_price", it.UnitPrice.String()).
			Str("total", it.Total.String()).
			Msg("item total differs from quantity x unit price")
	}
}

func snapshotOf(order *entity.Order) reconcile.Snapshot {
	payments := make([]decimal.Decimal, 0, len(order.Payments))
	for _, p := range order.Payments {
		if p.Status == enum.PaymentRecordPaid {
			payments = append(payments, p.Amount)
		}
	}
	return reconcile.Snapshot{
		TotalAmount: order.TotalAmount,
		Discount:    order.Discount,
		Status:      order.Status,
		CustomerID:  order.CustomerID,
		Notes:       order.Notes,
		Payments:    payments,
	}
}

func applyPlan(order *entity.Order, plan *reconcile.Plan) {
	order.TotalAmount = plan.TotalAmount
	order.Discount = plan.Discount
	order.AmountPaid = plan.AmountPaid
	order.AmountDue = plan.AmountDue
	order.PaymentStatus = plan.PaymentStatus
	order.Status = plan.Status
	order.Notes = plan.Notes
	order.CustomerID = plan.CustomerID
}

func createCustomer(ctx context.Context, tx *repository.TxRepositories, branchID uuid.UUID, plan *reconcile.Plan) error {
	if plan.NewCustomer == nil {
		return nil
	}
	nc := plan.NewCustomer
	customer := &entity.Customer{
		BranchID: branchID,
		Name:     nc.Name,
		Phone:    nc.Phone,
		Email:    nc.Email,
		Address:  nc.Address,
	}
	if err := tx.Customers.Create(ctx, customer); err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	plan.CustomerID = &customer.ID
	return nil
}

func insertPayment(ctx context.Context, tx *repository.TxRepositories, order *entity.Order, plan *reconcile.Plan, actor uuid.UUID) error {
	if plan.NewPayment == nil {
		return nil
	}
	payment := &entity.Payment{
		OrderID:       order.ID,
		BranchID:      order.BranchID,
		Amount:        plan.NewPayment.Amount,
		Method:        plan.NewPayment.Method,
		TransactionID: plan.NewPayment.TransactionID,
		Status:        enum.PaymentRecordPaid,
	}
	if actor != uuid.Nil {
		payment.ReceivedByID = &actor
	}
	if err := tx.Payments.Create(ctx, payment); err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func buildItems(orderID uuid.UUID, items []reconcile.Item) []entity.OrderItem {
	out := make([]entity.OrderItem, 0, len(items))
	for _, it := range items {
		out = append(out, entity.OrderItem{
			OrderID:       orderID,
			ServiceTypeID: it.ServiceTypeID,
			CategoryID:    it.CategoryID,
			Quantity:      it.Quantity,
			UnitPrice:     it.UnitPrice,
			Total:         *it.Total,
			Notes:         it.Notes,
			Size:          it.Size,
		})
	}
	return out
}

func orderKey(o entity.Order) (string, time.Time) {
	return o.ID.String(), o.CreatedAt
}

// visible reports whether a cached record may be served in ctx's branch
func visible(ctx context.Context, branchID uuid.UUID) bool {
	if id, ok := repository.BranchFromContext(ctx); ok {
		return id == branchID
	}
	return repository.AllBranches(ctx)
}
