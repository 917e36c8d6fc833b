package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment is money received against an order. Payments are append-only.
type Payment struct {
	ID            uuid.UUID                `gorm:"type:uuid;primary_key" json:"id"`
	OrderID       uuid.UUID                `gorm:"type:uuid;not null;index" json:"order_id"`
	BranchID      uuid.UUID                `gorm:"type:uuid;not null;index" json:"branch_id"`
	Amount        decimal.Decimal          `gorm:"type:numeric(12,2);not null" json:"amount"`
	Method        enum.PaymentMethod       `gorm:"size:30;not null" json:"method"`
	TransactionID *string                  `gorm:"size:255" json:"transaction_id,omitempty"`
	Status        enum.PaymentRecordStatus `gorm:"size:20;not null;default:'paid'" json:"status"`
	ReceivedByID  *uuid.UUID               `gorm:"type:uuid" json:"received_by_id,omitempty"`
	PaidAt        time.Time                `gorm:"not null;index" json:"paid_at"`
	CreatedAt     time.Time                `json:"created_at"`

	Order Order `gorm:"foreignKey:OrderID" json:"-"`
}

// BeforeCreate generates a UUID and stamps PaidAt
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.PaidAt.IsZero() {
		p.PaidAt = time.Now()
	}
	return nil
}

// TableName returns the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}
