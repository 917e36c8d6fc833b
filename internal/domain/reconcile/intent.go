package reconcile

import (
	"github.com/google/uuid"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Intent is one of ItemsUpdate, PaymentOnlyUpdate or DetailsUpdate.
// The HTTP layer decides which variant a payload is before the engine runs.
type Intent interface {
	details() Details
}

// Details are the fields every intent may change
type Details struct {
	Status   *enum.OrderStatus
	Notes    *string
	Customer *CustomerInput
}

func (d Details) details() Details { return d }

// ItemsUpdate replaces the order's items and recomputes the total.
// An empty Items slice is still a replacement (with nothing).
type ItemsUpdate struct {
	Details
	Items    []Item
	Discount *decimal.Decimal
	Payment  *PaymentInput
}

// PaymentOnlyUpdate records a payment and keeps the current total
type PaymentOnlyUpdate struct {
	Details
	Payment PaymentInput
}

// DetailsUpdate changes status, notes or customer only
type DetailsUpdate struct {
	Details
}

// Item is a caller-priced order line. Total is taken as given.
type Item struct {
	ServiceTypeID uuid.UUID
	CategoryID    *uuid.UUID
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	Total         *decimal.Decimal
	Notes         *string
	Size          *string
}

// PaymentInput is the single payment attached to an update. Method is empty
// when the caller did not name one.
type PaymentInput struct {
	Amount        decimal.Decimal
	Method        enum.PaymentMethod
	TransactionID *string
}

// CustomerInput references an existing customer (ID set) or describes a new one
type CustomerInput struct {
	ID      *uuid.UUID
	Name    string
	Phone   *string
	Email   *string
	Address *string
}

// IsNew reports whether the customer has to be created before the order is written
func (c *CustomerInput) IsNew() bool {
	return c != nil && (c.ID == nil || *c.ID == uuid.Nil)
}
