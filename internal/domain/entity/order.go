package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order is a batch of laundry dropped off by a customer.
// AmountDue always equals TotalAmount - AmountPaid after a write and may be
// negative when the customer overpaid.
type Order struct {
	ID            uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	BranchID      uuid.UUID          `gorm:"type:uuid;not null;index" json:"branch_id"`
	CustomerID    *uuid.UUID         `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	CreatedByID   uuid.UUID          `gorm:"type:uuid;not null;index" json:"created_by_id"`
	OrderNumber   string             `gorm:"size:50;unique;not null" json:"order_number"`
	Status        enum.OrderStatus   `gorm:"size:20;not null;default:'pending';index" json:"status"`
	PaymentStatus enum.PaymentStatus `gorm:"size:20;not null;default:'pending';index" json:"payment_status"`
	Discount      decimal.Decimal    `gorm:"type:numeric(12,2);not null;default:0" json:"discount"`
	TotalAmount   decimal.Decimal    `gorm:"type:numeric(12,2);not null;default:0" json:"total_amount"`
	AmountPaid    decimal.Decimal    `gorm:"type:numeric(12,2);not null;default:0" json:"amount_paid"`
	AmountDue     decimal.Decimal    `gorm:"type:numeric(12,2);not null;default:0" json:"amount_due"`
	Notes         *string            `gorm:"type:text" json:"notes,omitempty"`
	PickupDate    *time.Time         `gorm:"type:date" json:"pickup_date,omitempty"`
	Version       int                `gorm:"not null;default:1" json:"version"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	DeletedAt     gorm.DeletedAt     `gorm:"index" json:"-"`

	Branch    Branch      `gorm:"foreignKey:BranchID" json:"-"`
	CreatedBy User        `gorm:"foreignKey:CreatedByID" json:"-"`
	Customer  *Customer   `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items     []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	Payments  []Payment   `gorm:"foreignKey:OrderID" json:"payments,omitempty"`
}

// BeforeCreate generates a UUID before creating a new order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.Version == 0 {
		o.Version = 1
	}
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderItem is one line of an order. Items are owned by the order and are
// replaced as a whole set, never patched individually.
type OrderItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	OrderID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ServiceTypeID uuid.UUID       `gorm:"type:uuid;not null;index" json:"service_type_id"`
	CategoryID    *uuid.UUID      `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Quantity      decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"quantity"`
	UnitPrice     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	Total         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	Notes         *string         `gorm:"type:text" json:"notes,omitempty"`
	Size          *string         `gorm:"size:50" json:"size,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`

	Order       Order            `gorm:"foreignKey:OrderID" json:"-"`
	ServiceType *ServiceType     `gorm:"foreignKey:ServiceTypeID" json:"service_type,omitempty"`
	Category    *ServiceCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// BeforeCreate generates a UUID before creating a new order item
func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}
