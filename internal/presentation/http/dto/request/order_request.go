package request

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/enum"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/reconcile"
	"github.com/primekad/laundry-management-system-sub002/pkg/apperror"
	"github.com/shopspring/decimal"
)

// OrderItemRequest is one priced line. price and subtotal are accepted as
// aliases of unit_price and total.
type OrderItemRequest struct {
	ServiceTypeID string           `json:"service_type_id"`
	CategoryID    *string          `json:"category_id"`
	Quantity      decimal.Decimal  `json:"quantity"`
	UnitPrice     *decimal.Decimal `json:"unit_price"`
	Price         *decimal.Decimal `json:"price"`
	Total         *decimal.Decimal `json:"total"`
	Subtotal      *decimal.Decimal `json:"subtotal"`
	Notes         *string          `json:"notes"`
	Size          *string          `json:"size"`
}

// PaymentRequest is a payment descriptor; only the first one in a request is used
type PaymentRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	TransactionID *string         `json:"transaction_id"`
}

// CustomerRequest references an existing customer by id or describes a new one
type CustomerRequest struct {
	ID      *string `json:"id"`
	Name    string  `json:"name"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
}

// UpdateOrderRequest is the order update payload. items is kept raw so an
// absent or non-array value can be told apart from an empty array.
type UpdateOrderRequest struct {
	Items           json.RawMessage  `json:"items"`
	Discount        *decimal.Decimal `json:"discount"`
	Payments        []PaymentRequest `json:"payments"`
	AmountPaid      *decimal.Decimal `json:"amount_paid"`
	PaymentMethod   *string          `json:"payment_method"`
	Status          *string          `json:"status" binding:"omitempty,order_status"`
	Notes           *string          `json:"notes"`
	Customer        *CustomerRequest `json:"customer"`
	ExpectedVersion *int             `json:"expected_version" binding:"omitempty,gte=1"`
}

// ToIntent resolves the payload into exactly one update intent
func (r *UpdateOrderRequest) ToIntent() (reconcile.Intent, error) {
	var errs []apperror.FieldError

	details, derrs := toDetails(r.Status, r.Notes, r.Customer)
	errs = append(errs, derrs...)
	payment := toPayment(r.Payments, r.AmountPaid, r.PaymentMethod)

	trimmed := bytes.TrimSpace(r.Items)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []OrderItemRequest
		if err := json.Unmarshal(trimmed, &items); err != nil {
			errs = append(errs, apperror.FieldError{Field: "items", Message: "items must be an array of order items"})
			return nil, apperror.NewValidationError(errs)
		}
		converted, ierrs := toItems(items)
		errs = append(errs, ierrs...)
		if len(errs) > 0 {
			return nil, apperror.NewValidationError(errs)
		}
		return reconcile.ItemsUpdate{
			Details:  details,
			Items:    converted,
			Discount: r.Discount,
			Payment:  payment,
		}, nil
	}

	if len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}
	if payment != nil {
		return reconcile.PaymentOnlyUpdate{Details: details, Payment: *payment}, nil
	}
	return reconcile.DetailsUpdate{Details: details}, nil
}

// CreateOrderRequest is the order creation payload
type CreateOrderRequest struct {
	Items         []OrderItemRequest `json:"items" binding:"required,min=1"`
	Discount      *decimal.Decimal   `json:"discount"`
	Payments      []PaymentRequest   `json:"payments"`
	AmountPaid    *decimal.Decimal   `json:"amount_paid"`
	PaymentMethod *string            `json:"payment_method"`
	Notes         *string            `json:"notes"`
	Customer      *CustomerRequest   `json:"customer"`
	PickupDate    *string            `json:"pickup_date"`
}

// ToIntent resolves the payload into an items intent and the optional pickup date
func (r *CreateOrderRequest) ToIntent() (reconcile.ItemsUpdate, *time.Time, error) {
	var errs []apperror.FieldError

	details, derrs := toDetails(nil, r.Notes, r.Customer)
	errs = append(errs, derrs...)
	items, ierrs := toItems(r.Items)
	errs = append(errs, ierrs...)

	var pickup *time.Time
	if r.PickupDate != nil && *r.PickupDate != "" {
		t, err := time.Parse("2006-01-02", *r.PickupDate)
		if err != nil {
			errs = append(errs, apperror.FieldError{Field: "pickup_date", Message: "pickup_date must be a date in YYYY-MM-DD format"})
		} else {
			pickup = &t
		}
	}

	if len(errs) > 0 {
		return reconcile.ItemsUpdate{}, nil, apperror.NewValidationError(errs)
	}
	return reconcile.ItemsUpdate{
		Details:  details,
		Items:    items,
		Discount: r.Discount,
		Payment:  toPayment(r.Payments, r.AmountPaid, r.PaymentMethod),
	}, pickup, nil
}

// UpdateOrderStatusRequest moves an order through the workflow
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,order_status"`
}

func toDetails(status, notes *string, customer *CustomerRequest) (reconcile.Details, []apperror.FieldError) {
	var d reconcile.Details
	var errs []apperror.FieldError

	if status != nil {
		s := enum.OrderStatus(*status)
		d.Status = &s
	}
	d.Notes = notes

	if customer != nil {
		c := &reconcile.CustomerInput{
			Name:    customer.Name,
			Phone:   customer.Phone,
			Email:   customer.Email,
			Address: customer.Address,
		}
		if customer.ID != nil && *customer.ID != "" {
			id, err := uuid.Parse(*customer.ID)
			if err != nil {
				errs = append(errs, apperror.FieldError{Field: "customer.id", Message: "customer.id must be a valid UUID"})
			} else {
				c.ID = &id
			}
		}
		d.Customer = c
	}
	return d, errs
}

// toPayment prefers payments[0] over the flat amount_paid/payment_method pair
func toPayment(payments []PaymentRequest, amountPaid *decimal.Decimal, method *string) *reconcile.PaymentInput {
	if len(payments) > 0 {
		p := payments[0]
		return &reconcile.PaymentInput{
			Amount:        p.Amount,
			Method:        enum.PaymentMethod(p.PaymentMethod),
			TransactionID: p.TransactionID,
		}
	}
	if amountPaid == nil && method == nil {
		return nil
	}

	p := &reconcile.PaymentInput{}
	if amountPaid != nil {
		p.Amount = *amountPaid
	}
	if method != nil {
		p.Method = enum.PaymentMethod(*method)
	}
	return p
}

func toItems(items []OrderItemRequest) ([]reconcile.Item, []apperror.FieldError) {
	out := make([]reconcile.Item, 0, len(items))
	var errs []apperror.FieldError

	for i, it := range items {
		item := reconcile.Item{
			Quantity: it.Quantity,
			Notes:    it.Notes,
			Size:     it.Size,
		}

		if it.ServiceTypeID != "" {
			id, err := uuid.Parse(it.ServiceTypeID)
			if err != nil {
				errs = append(errs, apperror.FieldError{Field: fmt.Sprintf("items[%d].service_type_id", i), Message: "service_type_id must be a valid UUID"})
			}
			item.ServiceTypeID = id
		}
		if it.CategoryID != nil && *it.CategoryID != "" {
			id, err := uuid.Parse(*it.CategoryID)
			if err != nil {
				errs = append(errs, apperror.FieldError{Field: fmt.Sprintf("items[%d].category_id", i), Message: "category_id must be a valid UUID"})
			} else {
				item.CategoryID = &id
			}
		}

		switch {
		case it.UnitPrice != nil:
			item.UnitPrice = *it.UnitPrice
		case it.Price != nil:
			item.UnitPrice = *it.Price
		}
		switch {
		case it.Total != nil:
			item.Total = it.Total
		case it.Subtotal != nil:
			item.Total = it.Subtotal
		}

		out = append(out, item)
	}
	return out, errs
}
