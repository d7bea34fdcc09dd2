package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer represents a loyalty customer. Orders without a customer are
// anonymous walk-ins; debt tenders require a known customer.
type Customer struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name          string         `gorm:"size:255;not null" json:"name"`
	Phone         *string        `gorm:"size:50;index" json:"phone,omitempty"`
	Email         *string        `gorm:"size:255" json:"email,omitempty"`
	Address       *string        `gorm:"type:text" json:"address,omitempty"`
	PointsBalance int64          `gorm:"default:0" json:"points_balance"`
	DebtBalance   int64          `gorm:"default:0" json:"debt_balance"` // Minor units
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Orders []Order `gorm:"foreignKey:CustomerID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
