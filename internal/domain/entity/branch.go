package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Branch settings keys
const (
	SettingCurrency        = "currency"
	SettingReceiptFooter   = "receipt_footer"
	SettingTurnaroundHours = "turnaround_hours"
)

// Branch is a physical laundry shop. Customers, orders, payments and
// expenses all belong to exactly one branch.
type Branch struct {
	ID        uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	Name      string            `gorm:"size:255;not null" json:"name"`
	Code      string            `gorm:"size:50;unique;not null" json:"code"`
	Address   *string           `gorm:"type:text" json:"address,omitempty"`
	Phone     *string           `gorm:"size:50" json:"phone,omitempty"`
	Email     *string           `gorm:"size:255" json:"email,omitempty"`
	Settings  datatypes.JSONMap `gorm:"type:jsonb" json:"settings"`
	IsActive  bool              `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	DeletedAt gorm.DeletedAt    `gorm:"index" json:"-"`

	Members []BranchMembership `gorm:"foreignKey:BranchID" json:"-"`
}

// BeforeCreate generates a UUID and fills default settings
func (b *Branch) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Settings == nil {
		b.Settings = DefaultBranchSettings()
	}
	return nil
}

// TableName returns the table name for the Branch model
func (Branch) TableName() string {
	return "branches"
}

// SettingString returns a string setting or fallback when unset
func (b *Branch) SettingString(key, fallback string) string {
	if v, ok := b.Settings[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// DefaultBranchSettings returns the settings new branches start with
func DefaultBranchSettings() datatypes.JSONMap {
	return datatypes.JSONMap{
		SettingCurrency:        "GHS",
		SettingReceiptFooter:   "Thank you for your patronage",
		SettingTurnaroundHours: 48,
	}
}

// BranchMembership grants a user access to a branch
type BranchMembership struct {
	BranchID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"branch_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Role      string    `gorm:"size:50;default:'staff'" json:"role"` // manager, staff
	CreatedAt time.Time `json:"created_at"`

	Branch Branch `gorm:"foreignKey:BranchID" json:"-"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`

	MemberUser *MemberUser `gorm:"-" json:"user,omitempty"`
}

// MemberUser is the user subset shown in membership listings
type MemberUser struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
}

// PopulateUserDetails copies the preloaded user into MemberUser
func (m *BranchMembership) PopulateUserDetails() {
	if m.User.ID != uuid.Nil {
		m.MemberUser = &MemberUser{
			ID:        m.User.ID,
			FirstName: m.User.FirstName,
			LastName:  m.User.LastName,
			Email:     m.User.Email,
		}
	}
}

// TableName returns the table name for the BranchMembership model
func (BranchMembership) TableName() string {
	return "branch_memberships"
}
