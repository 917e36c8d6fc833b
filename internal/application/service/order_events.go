package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/entity"
	"github.com/primekad/laundry-management-system-sub002/internal/infrastructure/realtime"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// OrderViewCache is the read-side cache of order detail and list views.
// Take a Token before loading; Set drops the view when an invalidation
// landed after the token was taken.
type OrderViewCache interface {
	Token() uint64
	GetDetail(orderID uuid.UUID) (interface{}, bool)
	SetDetail(orderID uuid.UUID, token uint64, v interface{})
	GetList(branchID uuid.UUID, query string) (interface{}, bool)
	SetList(branchID uuid.UUID, query string, token uint64, v interface{})
	InvalidateOrder(branchID, orderID uuid.UUID)
	InvalidateBranch(branchID uuid.UUID)
}

// EventPublisher pushes an event to every subscriber of a branch
type EventPublisher interface {
	Publish(branchID uuid.UUID, eventType string, payload interface{})
}

// OrderChange says what happened to an order
type OrderChange int

const (
	EventCreated OrderChange = iota
	EventUpdated
	EventDeleted
)

// OrderEventPayload is what subscribers receive about a changed order
type OrderEventPayload struct {
	OrderID       uuid.UUID       `json:"order_id"`
	OrderNumber   string          `json:"order_number"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
	AmountDue     decimal.Decimal `json:"amount_due"`
	Version       int             `json:"version"`
}

// OrderEvents runs the post-commit side effects of order writes. They are
// best effort: a failure here is logged and never undoes the commit.
type OrderEvents struct {
	views     OrderViewCache
	publisher EventPublisher
}

// NewOrderEvents creates the post-commit notifier; publisher may be nil
func NewOrderEvents(views OrderViewCache, publisher EventPublisher) *OrderEvents {
	return &OrderEvents{views: views, publisher: publisher}
}

// Committed evicts cached views of the order and its branch list, then
// notifies websocket subscribers.
func (e *OrderEvents) Committed(ctx context.Context, order *entity.Order, change OrderChange) {
	if e == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("order_id", order.ID.String()).Msg("post-commit invalidation panicked")
		}
	}()

	if e.views != nil {
		e.views.InvalidateOrder(order.BranchID, order.ID)
	}
	if e.publisher == nil {
		return
	}

	payload := OrderEventPayload{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		Status:        order.Status.String(),
		PaymentStatus: order.PaymentStatus.String(),
		AmountDue:     order.AmountDue,
		Version:       order.Version,
	}
	switch change {
	case EventCreated:
		e.publisher.Publish(order.BranchID, realtime.EventOrderCreated, payload)
	case EventUpdated:
		e.publisher.Publish(order.BranchID, realtime.EventOrderUpdated, payload)
	}
	e.publisher.Publish(order.BranchID, realtime.EventOrdersInvalidated, nil)

	log.Ctx(ctx).Debug().Str("order_id", order.ID.String()).Int("change", int(change)).Msg("order views invalidated")
}
