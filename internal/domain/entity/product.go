package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product represents a sellable item. Quantity is stock in base units;
// conversion units sell fixed multiples of the base unit.
type Product struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name               string         `gorm:"size:255;not null" json:"name"`
	SKU                string         `gorm:"size:100;unique;not null" json:"sku"`
	Barcode            *string        `gorm:"size:100;index" json:"barcode,omitempty"`
	BaseUnit           string         `gorm:"size:50;default:'pcs'" json:"base_unit"`
	SellingPrice       int64          `gorm:"default:0" json:"selling_price"` // Minor units per base unit
	Taxable            bool           `gorm:"default:false" json:"taxable"`
	Quantity           int            `gorm:"default:0" json:"quantity"` // Stock in base units
	QuantityAlert      int            `gorm:"default:0" json:"quantity_alert"`
	AllowNegativeStock bool           `gorm:"default:false" json:"allow_negative_stock"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Units []ProductUnit `gorm:"foreignKey:ProductID" json:"units,omitempty"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// UnitByID finds a conversion unit on the product; nil when absent.
func (p *Product) UnitByID(unitID uuid.UUID) *ProductUnit {
	for i := range p.Units {
		if p.Units[i].ID == unitID {
			return &p.Units[i]
		}
	}
	return nil
}

// ProductUnit is an alternate selling unit with a fixed multiplier against
// the product's base unit. A unit may carry its own price and barcode;
// without a price it sells at base price x conversion rate.
type ProductUnit struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	ProductID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	Name           string         `gorm:"size:50;not null" json:"name"`
	ConversionRate int            `gorm:"not null" json:"conversion_rate"` // Base units per one of this unit, > 0
	Price          *int64         `json:"price,omitempty"`
	Barcode        *string        `gorm:"size:100;index" json:"barcode,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new product unit
func (u *ProductUnit) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ProductUnit model
func (ProductUnit) TableName() string {
	return "product_units"
}

// UnitPrice resolves the selling price for one of this unit.
func (u *ProductUnit) UnitPrice(basePrice int64) int64 {
	if u.Price != nil {
		return *u.Price
	}
	return basePrice * int64(u.ConversionRate)
}
