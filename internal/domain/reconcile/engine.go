package reconcile

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/enum"
	"github.com/primekad/laundry-management-system-sub002/pkg/apperror"
	"github.com/shopspring/decimal"
)

const msgCents = "must have at most 2 decimal places"

// Snapshot is the persisted order state an intent is applied to
type Snapshot struct {
	TotalAmount decimal.Decimal
	Discount    decimal.Decimal
	Status      enum.OrderStatus
	CustomerID  *uuid.UUID
	Notes       *string
	Payments    []decimal.Decimal
}

// Plan is the fully resolved result of reconciling an intent.
// The writer persists it as-is.
type Plan struct {
	TotalAmount   decimal.Decimal
	Discount      decimal.Decimal
	AmountPaid    decimal.Decimal
	AmountDue     decimal.Decimal
	PaymentStatus enum.PaymentStatus
	Status        enum.OrderStatus
	Notes         *string
	CustomerID    *uuid.UUID

	// NewCustomer is set when the customer must be created and its id
	// substituted into CustomerID before the order row is written.
	NewCustomer *CustomerInput

	PaymentOnly  bool
	ReplaceItems bool
	Items        []Item

	// NewPayment is nil unless a positive amount with a method was supplied
	NewPayment *PaymentInput

	// PriceMismatches holds indexes of items whose total differs from
	// quantity x unit price. They are reported, not corrected.
	PriceMismatches []int
}

// Reconcile applies intent to snap without touching any storage.
// It is deterministic: the same inputs always produce the same Plan.
func Reconcile(snap Snapshot, intent Intent) (*Plan, error) {
	if intent == nil {
		intent = DetailsUpdate{}
	}
	d := intent.details()

	if errs := validateDetails(d); len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	plan := &Plan{
		TotalAmount: snap.TotalAmount,
		Discount:    snap.Discount,
		Status:      snap.Status,
		Notes:       snap.Notes,
		CustomerID:  snap.CustomerID,
	}

	var payment *PaymentInput
	switch in := intent.(type) {
	case ItemsUpdate:
		errs := validateItems(in.Items)
		if in.Discount != nil {
			switch {
			case in.Discount.IsNegative():
				errs = append(errs, apperror.FieldError{Field: "discount", Message: "discount must not be negative"})
			case !isCents(*in.Discount):
				errs = append(errs, apperror.FieldError{Field: "discount", Message: msgCents})
			}
		}
		if in.Payment != nil {
			errs = append(errs, validatePayment(*in.Payment)...)
		}
		if len(errs) > 0 {
			return nil, apperror.NewValidationError(errs)
		}

		discount := decimal.Zero
		if in.Discount != nil {
			discount = *in.Discount
		}
		plan.Discount = discount
		plan.TotalAmount = sumItems(in.Items).Sub(discount)
		plan.ReplaceItems = true
		plan.Items = in.Items
		plan.PriceMismatches = priceMismatches(in.Items)
		payment = in.Payment

	case PaymentOnlyUpdate:
		if errs := validatePayment(in.Payment); len(errs) > 0 {
			return nil, apperror.NewValidationError(errs)
		}
		plan.PaymentOnly = true
		p := in.Payment
		payment = &p

	case DetailsUpdate:
		// totals carried forward

	default:
		return nil, fmt.Errorf("reconcile: unsupported intent %T", intent)
	}

	newAmount := decimal.Zero
	if payment != nil {
		newAmount = payment.Amount
		if newAmount.IsPositive() && payment.Method != "" {
			p := *payment
			plan.NewPayment = &p
		}
	}

	existing := decimal.Zero
	for _, amt := range snap.Payments {
		existing = existing.Add(amt)
	}

	plan.AmountPaid = existing.Add(newAmount)
	plan.AmountDue = plan.TotalAmount.Sub(plan.AmountPaid)
	plan.PaymentStatus = DerivePaymentStatus(plan.TotalAmount, plan.AmountDue)

	if d.Status != nil {
		plan.Status = *d.Status
	}
	if d.Notes != nil {
		plan.Notes = d.Notes
	}
	if d.Customer != nil {
		if d.Customer.IsNew() {
			c := *d.Customer
			plan.NewCustomer = &c
		} else {
			id := *d.Customer.ID
			plan.CustomerID = &id
		}
	}

	return plan, nil
}

// DerivePaymentStatus maps amount due against total to a payment status
func DerivePaymentStatus(total, due decimal.Decimal) enum.PaymentStatus {
	switch {
	case !due.IsPositive():
		return enum.PaymentStatusPaid
	case due.LessThan(total):
		return enum.PaymentStatusPartial
	default:
		return enum.PaymentStatusPending
	}
}

// isCents reports whether d fits a numeric(12,2) column unrounded.
// The money columns round independently, so sub-cent input would break
// amount_due == total_amount - amount_paid in the stored row.
func isCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}

func sumItems(items []Item) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(*it.Total)
	}
	return sum
}

func priceMismatches(items []Item) []int {
	var out []int
	for i, it := range items {
		if !it.Quantity.Mul(it.UnitPrice).Equal(*it.Total) {
			out = append(out, i)
		}
	}
	return out
}

func validateItems(items []Item) []apperror.FieldError {
	var errs []apperror.FieldError
	for i, it := range items {
		prefix := fmt.Sprintf("items[%d].", i)
		if it.ServiceTypeID == uuid.Nil {
			errs = append(errs, apperror.FieldError{Field: prefix + "service_type_id", Message: "service_type_id is required"})
		}
		if !it.Quantity.IsPositive() {
			errs = append(errs, apperror.FieldError{Field: prefix + "quantity", Message: "quantity must be greater than 0"})
		}
		switch {
		case it.UnitPrice.IsNegative():
			errs = append(errs, apperror.FieldError{Field: prefix + "unit_price", Message: "unit_price must not be negative"})
		case !isCents(it.UnitPrice):
			errs = append(errs, apperror.FieldError{Field: prefix + "unit_price", Message: msgCents})
		}
		switch {
		case it.Total == nil:
			errs = append(errs, apperror.FieldError{Field: prefix + "total", Message: "total is required"})
		case it.Total.IsNegative():
			errs = append(errs, apperror.FieldError{Field: prefix + "total", Message: "total must not be negative"})
		case !isCents(*it.Total):
			errs = append(errs, apperror.FieldError{Field: prefix + "total", Message: msgCents})
		}
	}
	return errs
}

func validatePayment(p PaymentInput) []apperror.FieldError {
	var errs []apperror.FieldError
	switch {
	case p.Amount.IsNegative():
		errs = append(errs, apperror.FieldError{Field: "payment.amount", Message: "amount must not be negative"})
	case !isCents(p.Amount):
		errs = append(errs, apperror.FieldError{Field: "payment.amount", Message: msgCents})
	}
	if p.Method != "" && !p.Method.IsValid() {
		errs = append(errs, apperror.FieldError{Field: "payment.payment_method", Message: "payment_method is invalid"})
	}
	if p.Amount.IsPositive() && p.Method == "" {
		errs = append(errs, apperror.FieldError{Field: "payment.payment_method", Message: "payment_method is required when amount is greater than 0"})
	}
	return errs
}

func validateDetails(d Details) []apperror.FieldError {
	var errs []apperror.FieldError
	if d.Status != nil && !d.Status.IsValid() {
		errs = append(errs, apperror.FieldError{Field: "status", Message: "status is invalid"})
	}
	if d.Customer.IsNew() && d.Customer.Name == "" {
		errs = append(errs, apperror.FieldError{Field: "customer.name", Message: "name is required for a new customer"})
	}
	return errs
}
