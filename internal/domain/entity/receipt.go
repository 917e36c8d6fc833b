package entity

import "github.com/shopspring/decimal"

// ReceiptHeader is the branch block printed at the top of a ticket
type ReceiptHeader struct {
	BranchName string `json:"branch_name"`
	Address    string `json:"address,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// ReceiptLine is one garment/service line on a ticket
type ReceiptLine struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
	Notes       string          `json:"notes,omitempty"`
}

// Receipt is composed from an order at print time; it is not persisted.
type Receipt struct {
	Header        ReceiptHeader   `json:"header"`
	OrderNumber   string          `json:"order_number"`
	Date          string          `json:"date"`
	PickupDate    string          `json:"pickup_date,omitempty"`
	Customer      string          `json:"customer,omitempty"`
	CustomerPhone string          `json:"customer_phone,omitempty"`
	Lines         []ReceiptLine   `json:"lines"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
	Paid          decimal.Decimal `json:"paid"`
	Due           decimal.Decimal `json:"due"`
	PaymentStatus string          `json:"payment_status"`
	Currency      string          `json:"currency"`
	Footer        string          `json:"footer,omitempty"`
}
