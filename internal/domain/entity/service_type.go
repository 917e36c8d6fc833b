package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Pricing units for service types
const (
	PricingPerItem = "per_item"
	PricingPerKg   = "per_kg"
)

// ServiceType is a billable laundry service such as washing or dry cleaning
type ServiceType struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Name         string          `gorm:"size:255;unique;not null" json:"name"`
	Description  *string         `gorm:"type:text" json:"description,omitempty"`
	DefaultPrice decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"default_price"`
	PricingUnit  string          `gorm:"size:20;not null;default:'per_item'" json:"pricing_unit"`
	IsActive     bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new service type
func (s *ServiceType) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ServiceType model
func (ServiceType) TableName() string {
	return "service_types"
}

// ServiceCategory groups garments, e.g. shirts or bedding
type ServiceCategory struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name        string         `gorm:"size:255;unique;not null" json:"name"`
	Description *string        `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new category
func (c *ServiceCategory) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ServiceCategory model
func (ServiceCategory) TableName() string {
	return "service_categories"
}
