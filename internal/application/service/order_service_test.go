package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/entity"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/enum"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/reconcile"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/repository"
	"github.com/primekad/laundry-management-system-sub002/internal/infrastructure/cache"
	"github.com/primekad/laundry-management-system-sub002/internal/infrastructure/realtime"
	"github.com/primekad/laundry-management-system-sub002/pkg/apperror"
	"github.com/primekad/laundry-management-system-sub002/pkg/pagination"
	"github.com/shopspring/decimal"
)

type orderFixture struct {
	store     *memStore
	orders    *memOrderRepo
	uow       *memUoW
	views     *cache.ViewCache
	publisher *fakePublisher
	svc       *OrderService

	branchID uuid.UUID
	washID   uuid.UUID
	ironID   uuid.UUID
	shirtsID uuid.UUID
	ctx      context.Context
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	f := &orderFixture{
		store:     newMemStore(),
		views:     cache.NewViewCache(time.Minute),
		publisher: &fakePublisher{},
		branchID:  uuid.New(),
		washID:    uuid.New(),
		ironID:    uuid.New(),
	}
	f.store.serviceTypes[f.washID] = entity.ServiceType{ID: f.washID, Name: "Wash & Fold", IsActive: true}
	f.store.serviceTypes[f.ironID] = entity.ServiceType{ID: f.ironID, Name: "Ironing", IsActive: true}
	f.shirtsID = uuid.New()
	f.store.categories[f.shirtsID] = entity.ServiceCategory{ID: f.shirtsID, Name: "Shirts"}

	f.uow = &memUoW{store: &f.store}
	f.orders = &memOrderRepo{store: &f.store}
	f.svc = NewOrderService(
		f.orders,
		&memPaymentRepo{store: &f.store},
		&memCustomerRepo{store: &f.store},
		&memServiceTypeRepo{store: &f.store},
		&memCategoryRepo{store: &f.store},
		f.uow,
		f.views,
		NewOrderEvents(f.views, f.publisher),
	)
	f.ctx = repository.WithBranch(context.Background(), f.branchID)
	return f
}

// seedOrder stores an order with the given total and prior payments
func (f *orderFixture) seedOrder(total string, payments ...string) entity.Order {
	order := entity.Order{
		ID:            uuid.New(),
		BranchID:      f.branchID,
		OrderNumber:   "ORD-" + strings.ToUpper(uuid.NewString()[:8]),
		Status:        enum.OrderStatusPending,
		PaymentStatus: enum.PaymentStatusPending,
		TotalAmount:   dec(total),
		AmountDue:     dec(total),
		Version:       1,
	}
	paid := decimal.Zero
	for _, p := range payments {
		f.store.payments[order.ID] = append(f.store.payments[order.ID], entity.Payment{
			ID:      uuid.New(),
			OrderID: order.ID,
			Amount:  dec(p),
			Method:  enum.PaymentMethodCash,
			Status:  enum.PaymentRecordPaid,
		})
		paid = paid.Add(dec(p))
	}
	order.AmountPaid = paid
	order.AmountDue = order.TotalAmount.Sub(paid)
	order.PaymentStatus = reconcile.DerivePaymentStatus(order.TotalAmount, order.AmountDue)
	f.store.orders[order.ID] = order
	f.store.items[order.ID] = []entity.OrderItem{{
		ID:            uuid.New(),
		OrderID:       order.ID,
		ServiceTypeID: f.washID,
		Quantity:      dec("1"),
		UnitPrice:     dec(total),
		Total:         dec(total),
	}}
	return order
}

func (f *orderFixture) item(serviceTypeID uuid.UUID, qty, price, total string) reconcile.Item {
	t := dec(total)
	return reconcile.Item{ServiceTypeID: serviceTypeID, Quantity: dec(qty), UnitPrice: dec(price), Total: &t}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDec(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}

func assertCode(t *testing.T, err error, code int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with status %d, got nil", code)
	}
	if got := apperror.GetAppError(err).Code; got != code {
		t.Fatalf("expected status %d, got %d (%v)", code, got, err)
	}
}

func TestUpdateOrder_ItemsWithPayment(t *testing.T) {
	f := newOrderFixture(t)
	order := f.seedOrder("0")
	discount := dec("10")

	intent := reconcile.ItemsUpdate{
		Items: []reconcile.Item{
			f.item(f.washID, "2", "25", "50"),
			f.item(f.ironID, "3", "10", "30"),
		},
		Discount: &discount,
		Payment:  &reconcile.PaymentInput{Amount: dec("40"), Method: enum.PaymentMethodCash},
	}

	got, err := f.svc.UpdateOrder(f.ctx, order.ID, intent, nil, uuid.New())
	if err != nil {
		t.Fatalf("UpdateOrder: %v", err)
	}

	assertDec(t, "total", got.TotalAmount, "70")
	assertDec(t, "paid", got.AmountPaid, "40")
	assertDec(t, "due", got.AmountDue, "30")
	if got.PaymentStatus != enum.PaymentStatusPartial {
		t.Errorf("payment status = %s, want partial", got.PaymentStatus)
	}
	if got.Version != 2 {
		t.Errorf("version = %d, want 2", got.Version)
	}
	if len(got.Items) != 2 {
		t.Errorf("items = %d, want 2", len(got.Items))
	}
	if len(f.store.payments[order.ID]) != 1 {
		t.Errorf("payments = %d, want 1", len(f.store.payments[order.ID]))
	}
}

func TestUpdateOrder_PaymentOnlyKeepsTotal(t *testing.T) {
	f := newOrderFixture(t)
	order := f.seedOrder("100", "60")

	intent := reconcile.PaymentOnlyUpdate{
		Payment: reconcile.PaymentInput{Amount: dec("40"), Method: enum.PaymentMethodMobileMoney},
	}

	got, err := f.svc.UpdateOrder(f.ctx, order.ID, intent, nil, uuid.New())
	if err != nil {
		t.Fatalf("UpdateOrder: %v", err)
	}

	assertDec(t, "total", got.TotalAmount, "100")
	assertDec(t, "paid", got.AmountPaid, "100")
	assertDec(t, "due", got.AmountDue, "0")
	if got.PaymentStatus != enum.PaymentStatusPaid {
		t.Errorf("payment status = %s, want paid", got.PaymentStatus)
	}
	if len(got.Items) != 1 {
		t.Errorf("items should be untouched, got %d", len(got.Items))
	}
	if n := len(got.Payments); n != 2 {
		t.Fatalf("payments = %d, want 2", n)
	}
	if got.Payments[1].Method != enum.PaymentMethodMobileMoney {
		t.Errorf("new payment method = %s", got.Payments[1].Method)
	}
}

func TestUpdateOrder_EmptyItemsClearsTotal(t *testing.T) {
	f := newOrderFixture(t)
	order := f.seedOrder("100")

	got, err := f.svc.UpdateOrder(f.ctx, order.ID, reconcile.ItemsUpdate{Items: []reconcile.Item{}}, nil, uuid.New())
	if err != nil {
		t.Fatalf("UpdateOrder: %v", err)
	}

	assertDec(t, "total", got.TotalAmount, "0")
	assertDec(t, "due", got.AmountDue, "0")
	if got.PaymentStatus != enum.PaymentStatusPaid {
		t.Errorf("payment status = %s, want paid", got.PaymentStatus)
	}
	if len(f.store.items[order.ID]) != 0 {
		t.Errorf("items should be cleared, got %d", len(f.store.items[order.ID]))
	}
}

func TestUpdateOrder_NotFoundWritesNothing(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.svc.UpdateOrder(f.ctx, uuid.New(), reconcile.PaymentOnlyUpdate{
		Payment: reconcile.PaymentInput{Amount: dec("10"), Method: enum.PaymentMethodCash},
	}, nil, uuid.New())

	assertCode(t, err, http.StatusNotFound)
	if f.uow.calls != 0 {
		t.Errorf("unit of work ran %d times", f.uow.calls)
	}
	if len(f.publisher.types()) != 0 {
		t.Errorf("unexpected events: %v", f.publisher.types())
	}
}

func TestUpdateOrder_OtherBranchIsNotFound(t *testing.T) {
	f := newOrderFixture(t)
	order := f.seedOrder("50")

	ctx := repository.WithBranch(context.Background(), uuid.New())
	_, err := f.svc.UpdateOrder(ctx, order.ID, reconcile.DetailsUpdate{}, nil, uuid.New())

	assertCode(t, err, http.StatusNotFound)
}

func TestUpdateOrder_PersistenceFailureRollsBack(t *testing.T) {
	f := newOrderFixture(t)
	order := f.seedOrder("100")
	f.store.failOn = "payment"

	intent := reconcile.ItemsUpdate{
		Items:   []reconcile.Item{f.item(f.washID, "1", "80", "80")},
		Payment: &reconcile.PaymentInput{Amount: dec("20"), Method: enum.PaymentMethodCard},
	}
	_, err := f.svc.UpdateOrder(f.ctx, order.ID, intent, nil, uuid.New())

	assertCode(t, err, http.StatusInternalServerError)
	if msg := apperror.GetAppError(err).Message; msg != "Failed to update order" {
		t.Errorf("message = %q", msg)
	}
	if strings.Contains(err.Error(), errInjected.Error()) {
		t.Error("storage error leaked into the response")
	}

	stored := f.store.orders[order.ID]
	assertDec(t, "stored total", stored.TotalAmount, "100")
	if stored.Version != 1 {
		t.Errorf("stored version = %d, want 1", stored.Version)
	}
	if items := f.store.items[order.ID]; len(items) != 1 || !items[0].Total.Equal(dec("100")) {
		t.Errorf("items changed despite rollback: %+v", items)
	}
	if len(f.publisher.types()) != 0 {
		t.Errorf("events published for a rolled back update: %v", f.publisher.types())
	}
}

func TestUpdateOrder_StaleExpectedVersion(t *testing.T) {
	f := newOrderFixture(t)
	order := f.seedOrder("100")
	stale := 0

	_, err := f.svc.UpdateOrder(f.ctx, order.ID, reconcile.DetailsUpdate{}, &stale, uuid.New())

	assertCode(t, err, http.StatusConflict)
	if !errors.Is(err, apperror.ErrStaleVersion) {
		t.Errorf("expected ErrStaleVersion, got %v", err)
	}
	if f.uow.calls != 0 {
		t.Error("unit of work should not run for a stale version")
	}
}

func TestUpdateOrder_ConcurrentWriterWins(t *testing.T) {
	f := newOrderFixture(t)
	order := f.seedOrder("100")

	f.uow.beforeFn = func(staged *memStore) {
		o := staged.orders[order.ID]
		o.Version++
		staged.orders[order.ID] = o
	}

	_, err := f.svc.UpdateOrder(f.ctx, order.ID, reconcile.PaymentOnlyUpdate{
		Payment: reconcile.PaymentInput{Amount: dec("10"), Method: enum.PaymentMethodCash},
	}, nil, uuid.New())

	if !errors.Is(err, apperror.ErrStaleVersion) {
		t.Fatalf("expected ErrStaleVersion, got %v", err)
	}
	if len(f.store.payments[order.ID]) != 0 {
		t.Error("payment recorded despite losing the version race")
	}
}

func TestUpdateOrder_CreatesNewCustomer(t *testing.T) {
	f := newOrderFixture(t)
	order := f.seedOrder("40")
	phone := "0244000111"

	intent := reconcile.DetailsUpdate{Details: reconcile.Details{
		Customer: &reconcile.CustomerInput{Name: "Ama Mensah", Phone: &phone},
	}}
	got, err := f.svc.UpdateOrder(f.ctx, order.ID, intent, nil, uuid.New())
	if err != nil {
		t.Fatalf("UpdateOrder: %v", err)
	}

	if got.CustomerID == nil {
		t.Fatal("customer id not substituted")
	}
	customer, ok := f.store.customers[*got.CustomerID]
	if !ok {
		t.Fatal("customer not stored")
	}
	if customer.BranchID != f.branchID || customer.Name != "Ama Mensah" {
		t.Errorf("unexpected customer %+v", customer)
	}
	if got.Customer == nil || got.Customer.ID != customer.ID {
		t.Error("reloaded order should carry the new customer")
	}
}

func TestUpdateOrder_UnknownReferences(t *testing.T) {
	f := newOrderFixture(t)
	order := f.seedOrder("40")
	missing := uuid.New()

	shirts := f.item(f.washID, "1", "20", "20")
	shirts.CategoryID = &f.shirtsID
	unknownCategory := f.item(f.ironID, "1", "5", "5")
	unknownCategory.CategoryID = &missing

	intent := reconcile.ItemsUpdate{
		Details: reconcile.Details{Customer: &reconcile.CustomerInput{ID: &missing}},
		Items: []reconcile.Item{
			shirts,
			f.item(uuid.New(), "1", "20", "20"),
			unknownCategory,
		},
	}
	_, err := f.svc.UpdateOrder(f.ctx, order.ID, intent, nil, uuid.New())

	assertCode(t, err, http.StatusUnprocessableEntity)
	fields := map[string]bool{}
	for _, fe := range apperror.GetAppError(err).Errors {
		fields[fe.Field] = true
	}
	for _, want := range []string{"customer.id", "items[1].service_type_id", "items[2].category_id"} {
		if !fields[want] {
			t.Errorf("missing field error %s in %+v", want, apperror.GetAppError(err).Errors)
		}
	}
	if fields["items[0].category_id"] {
		t.Error("known category reported as missing")
	}
	if f.uow.calls != 0 {
		t.Error("unit of work should not run for invalid references")
	}
}

func TestUpdateOrder_AmountWithoutMethodRejected(t *testing.T) {
	f := newOrderFixture(t)
	order := f.seedOrder("40")

	_, err := f.svc.UpdateOrder(f.ctx, order.ID, reconcile.PaymentOnlyUpdate{
		Payment: reconcile.PaymentInput{Amount: dec("10")},
	}, nil, uuid.New())

	assertCode(t, err, http.StatusUnprocessableEntity)
}

// payNow records a cash payment through the service
func (f *orderFixture) payNow(t *testing.T, orderID uuid.UUID, amount string) {
	t.Helper()
	_, err := f.svc.UpdateOrder(f.ctx, orderID, reconcile.PaymentOnlyUpdate{
		Payment: reconcile.PaymentInput{Amount: dec(amount), Method: enum.PaymentMethodCash},
	}, nil, uuid.New())
	if err != nil {
		t.Fatalf("UpdateOrder: %v", err)
	}
}

func TestGetOrder_UpdateDuringReadNotCached(t *testing.T) {
	f := newOrderFixture(t)
	order := f.seedOrder("100")

	f.orders.afterRead = func() { f.payNow(t, order.ID, "40") }
	read, err := f.svc.GetOrder(f.ctx, order.ID)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	assertDec(t, "amount_paid of the interleaved read", read.AmountPaid, "0")

	got, err := f.svc.GetOrder(f.ctx, order.ID)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	assertDec(t, "amount_paid", got.AmountPaid, "40")
	if got.Version != 2 {
		t.Errorf("version = %d, want 2", got.Version)
	}
}

func TestListOrders_UpdateDuringReadNotCached(t *testing.T) {
	f := newOrderFixture(t)
	order := f.seedOrder("100")
	params := &repository.OrderFilterParams{Pagination: pagination.DefaultPagination()}

	f.orders.afterRead = func() { f.payNow(t, order.ID, "40") }
	if _, err := f.svc.ListOrders(f.ctx, params, "page=1"); err != nil {
		t.Fatalf("ListOrders: %v", err)
	}

	page, err := f.svc.ListOrders(f.ctx, params, "page=1")
	if err != nil {
		t.Fatalf("ListOrders: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("expected 1 order, got %d", len(page.Items))
	}
	assertDec(t, "amount_paid", page.Items[0].AmountPaid, "40")
}

func TestUpdateOrder_InvalidatesViewsAfterCommit(t *testing.T) {
	f := newOrderFixture(t)
	order := f.seedOrder("100")

	if _, err := f.svc.GetOrder(f.ctx, order.ID); err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	f.views.SetList(f.branchID, "page=1", f.views.Token(), "cached")
	if _, ok := f.views.GetDetail(order.ID); !ok {
		t.Fatal("detail view should be cached")
	}

	_, err := f.svc.UpdateOrder(f.ctx, order.ID, reconcile.PaymentOnlyUpdate{
		Payment: reconcile.PaymentInput{Amount: dec("25"), Method: enum.PaymentMethodCash},
	}, nil, uuid.New())
	if err != nil {
		t.Fatalf("UpdateOrder: %v", err)
	}

	if _, ok := f.views.GetDetail(order.ID); ok {
		t.Error("detail view survived the update")
	}
	if _, ok := f.views.GetList(f.branchID, "page=1"); ok {
		t.Error("list view survived the update")
	}

	want := []string{realtime.EventOrderUpdated, realtime.EventOrdersInvalidated}
	got := f.publisher.types()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("events = %v, want %v", got, want)
	}

	fresh, err := f.svc.GetOrder(f.ctx, order.ID)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	assertDec(t, "paid after update", fresh.AmountPaid, "25")
}

func TestCreateOrder(t *testing.T) {
	f := newOrderFixture(t)
	createdBy := uuid.New()

	got, err := f.svc.CreateOrder(f.ctx, &CreateOrderInput{
		CreatedBy: createdBy,
		Intent: reconcile.ItemsUpdate{
			Items:   []reconcile.Item{f.item(f.washID, "4", "15", "60")},
			Payment: &reconcile.PaymentInput{Amount: dec("60"), Method: enum.PaymentMethodCash},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	if !strings.HasPrefix(got.OrderNumber, "ORD-") {
		t.Errorf("order number = %q", got.OrderNumber)
	}
	if got.BranchID != f.branchID || got.CreatedByID != createdBy {
		t.Error("branch or creator not set")
	}
	assertDec(t, "total", got.TotalAmount, "60")
	if got.PaymentStatus != enum.PaymentStatusPaid {
		t.Errorf("payment status = %s", got.PaymentStatus)
	}
	if got.Version != 1 || len(got.Items) != 1 || len(got.Payments) != 1 {
		t.Errorf("unexpected order %+v", got)
	}
	if types := f.publisher.types(); len(types) == 0 || types[0] != realtime.EventOrderCreated {
		t.Errorf("events = %v", types)
	}
}

func TestCreateOrder_Validation(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.svc.CreateOrder(f.ctx, &CreateOrderInput{Intent: reconcile.ItemsUpdate{}})
	assertCode(t, err, http.StatusUnprocessableEntity)

	_, err = f.svc.CreateOrder(context.Background(), &CreateOrderInput{
		Intent: reconcile.ItemsUpdate{Items: []reconcile.Item{f.item(f.washID, "1", "5", "5")}},
	})
	if !errors.Is(err, apperror.ErrBranchRequired) {
		t.Errorf("expected ErrBranchRequired, got %v", err)
	}
}

func TestUpdateOrderStatus_ClosedOrder(t *testing.T) {
	f := newOrderFixture(t)
	order := f.seedOrder("10")

	if _, err := f.svc.CancelOrder(f.ctx, order.ID); err != nil {
		t.Fatalf("CancelOrder: %v", err)
	}
	_, err := f.svc.UpdateOrderStatus(f.ctx, order.ID, enum.OrderStatusReady)
	assertCode(t, err, http.StatusBadRequest)

	_, err = f.svc.UpdateOrderStatus(f.ctx, order.ID, enum.OrderStatus("folded"))
	assertCode(t, err, http.StatusUnprocessableEntity)
}

func TestGetOrder_CachedViewRespectsBranch(t *testing.T) {
	f := newOrderFixture(t)
	order := f.seedOrder("10")

	if _, err := f.svc.GetOrder(f.ctx, order.ID); err != nil {
		t.Fatalf("GetOrder: %v", err)
	}

	other := repository.WithBranch(context.Background(), uuid.New())
	_, err := f.svc.GetOrder(other, order.ID)
	assertCode(t, err, http.StatusNotFound)
}
