package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/entity"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/repository"
	"github.com/primekad/laundry-management-system-sub002/pkg/apperror"
	"github.com/primekad/laundry-management-system-sub002/pkg/printer"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const receiptDateLayout = "2006-01-02 15:04"

var oneUnit = decimal.NewFromInt(1)

// ReceiptService composes order receipts and sends them to the ticket printer
type ReceiptService struct {
	orderRepo  repository.OrderRepository
	branchRepo repository.BranchRepository
	device     printer.Device
	width      int
}

// NewReceiptService creates a new receipt service
func NewReceiptService(orderRepo repository.OrderRepository, branchRepo repository.BranchRepository, device printer.Device, width int) *ReceiptService {
	return &ReceiptService{orderRepo: orderRepo, branchRepo: branchRepo, device: device, width: width}
}

// PrinterStatus describes the configured printer
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Device     string `json:"device"`
	Width      int    `json:"width"`
}

// Status reports which printer receipts go to
func (s *ReceiptService) Status() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.device != nil && s.device.Name() != "none",
		Device:     s.deviceName(),
		Width:      s.width,
	}
}

// BuildReceipt composes the receipt view of an order
func (s *ReceiptService) BuildReceipt(ctx context.Context, orderID uuid.UUID) (*entity.Receipt, error) {
	order, err := s.orderRepo.GetWithDetails(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	branch, err := s.branchRepo.GetByID(ctx, order.BranchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		branch = &entity.Branch{}
	}
	return ComposeReceipt(order, branch), nil
}

// PrintReceipt sends the order's receipt to the printer and returns what was printed
func (s *ReceiptService) PrintReceipt(ctx context.Context, orderID uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.BuildReceipt(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if s.device == nil {
		return receipt, apperror.NewAppError(http.StatusServiceUnavailable, "No receipt printer is configured")
	}

	if err := s.device.Send(ctx, FormatReceipt(receipt, s.width)); err != nil {
		if errors.Is(err, printer.ErrDisabled) {
			return receipt, apperror.NewAppError(http.StatusServiceUnavailable, "No receipt printer is configured")
		}
		log.Error().Err(err).Str("order_id", orderID.String()).Str("device", s.device.Name()).Msg("print receipt")
		return receipt, apperror.NewAppError(http.StatusBadGateway, "Printer did not accept the receipt")
	}
	return receipt, nil
}

func (s *ReceiptService) deviceName() string {
	if s.device == nil {
		return "none"
	}
	return s.device.Name()
}

// ComposeReceipt maps an order loaded with details onto a receipt
func ComposeReceipt(order *entity.Order, branch *entity.Branch) *entity.Receipt {
	r := &entity.Receipt{
		Header:        entity.ReceiptHeader{BranchName: branch.Name},
		OrderNumber:   order.OrderNumber,
		Date:          order.CreatedAt.Format(receiptDateLayout),
		Discount:      order.Discount,
		Total:         order.TotalAmount,
		Paid:          order.AmountPaid,
		Due:           order.AmountDue,
		PaymentStatus: order.PaymentStatus.String(),
		Currency:      branch.SettingString(entity.SettingCurrency, "GHS"),
		Footer:        branch.SettingString(entity.SettingReceiptFooter, ""),
		Lines:         make([]entity.ReceiptLine, 0, len(order.Items)),
	}
	if branch.Address != nil {
		r.Header.Address = *branch.Address
	}
	if branch.Phone != nil {
		r.Header.Phone = *branch.Phone
	}
	if order.PickupDate != nil {
		r.PickupDate = order.PickupDate.Format("2006-01-02")
	}
	if order.Customer != nil {
		r.Customer = order.Customer.Name
		if order.Customer.Phone != nil {
			r.CustomerPhone = *order.Customer.Phone
		}
	}

	for _, it := range order.Items {
		line := entity.ReceiptLine{
			Description: "Service",
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Total:       it.Total,
		}
		if it.ServiceType != nil {
			line.Description = it.ServiceType.Name
		}
		if it.Category != nil {
			line.Description += " - " + it.Category.Name
		}
		if it.Size != nil && *it.Size != "" {
			line.Description += " (" + *it.Size + ")"
		}
		if it.Notes != nil {
			line.Notes = *it.Notes
		}
		r.Lines = append(r.Lines, line)
	}
	return r
}

// FormatReceipt renders a receipt as an ESC/POS job
func FormatReceipt(r *entity.Receipt, width int) []byte {
	t := printer.NewTicket(width)
	money := func(v decimal.Decimal) string {
		return r.Currency + " " + v.StringFixed(2)
	}

	t.Align(printer.Center).Bold(true).Large(true).
		Line(r.Header.BranchName).
		Large(false).Bold(false)
	if r.Header.Address != "" {
		t.Wrap(r.Header.Address)
	}
	if r.Header.Phone != "" {
		t.Line(r.Header.Phone)
	}

	t.Align(printer.Left).Rule('-').
		Pair("Order:", r.OrderNumber).
		Pair("Date:", r.Date)
	if r.PickupDate != "" {
		t.Pair("Pickup:", r.PickupDate)
	}
	if r.Customer != "" {
		t.Pair("Customer:", r.Customer)
	}
	if r.CustomerPhone != "" {
		t.Pair("Phone:", r.CustomerPhone)
	}
	t.Rule('-')

	for _, l := range r.Lines {
		t.Pair(l.Quantity.String()+" x "+l.Description, l.Total.StringFixed(2))
		if !l.Quantity.Equal(oneUnit) {
			t.Line("  @ " + l.UnitPrice.StringFixed(2))
		}
		if l.Notes != "" {
			t.Wrap("  " + l.Notes)
		}
	}
	t.Rule('-')

	if r.Discount.IsPositive() {
		t.Pair("Discount:", "-"+money(r.Discount))
	}
	t.Bold(true).Pair("TOTAL:", money(r.Total)).Bold(false).
		Pair("Paid:", money(r.Paid))
	if r.Due.IsPositive() {
		t.Bold(true).Pair("Balance due:", money(r.Due)).Bold(false)
	} else if r.Due.IsNegative() {
		t.Pair("Change:", money(r.Due.Neg()))
	}
	t.Pair("Status:", strings.ToUpper(r.PaymentStatus))

	if r.Footer != "" {
		t.Rule('-').Align(printer.Center).Wrap(r.Footer).Align(printer.Left)
	}
	return t.Cut().Bytes()
}
