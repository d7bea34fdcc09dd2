package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Order is a settled sale. All money fields are minor units.
// total_amount = subtotal - discount_amount + tax_amount - points_discount,
// floored at zero; the sum of tenders always covers it.
type Order struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceNo  string     `gorm:"size:100;unique;not null" json:"invoice_no"`
	OperatorID uuid.UUID  `gorm:"type:uuid;not null;index" json:"operator_id"`
	RegisterID uuid.UUID  `gorm:"type:uuid;not null;index" json:"register_id"`
	ShiftID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"shift_id"`
	CustomerID *uuid.UUID `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	OrderDate  time.Time  `gorm:"not null" json:"order_date"`

	Subtotal        int64 `gorm:"default:0" json:"subtotal"`
	DiscountAmount  int64 `gorm:"default:0" json:"discount_amount"`
	DiscountPercent int64 `gorm:"default:0" json:"discount_percent"` // Basis points, stored for display
	TaxAmount       int64 `gorm:"default:0" json:"tax_amount"`
	PointsUsed      int64 `gorm:"default:0" json:"points_used"`
	PointsDiscount  int64 `gorm:"default:0" json:"points_discount"`
	TotalAmount     int64 `gorm:"default:0" json:"total_amount"`

	PaymentMethod  string             `gorm:"size:50" json:"payment_method"`
	CashReceived   int64              `gorm:"default:0" json:"cash_received"`
	ChangeAmount   int64              `gorm:"default:0" json:"change_amount"`
	CardAmount     int64              `gorm:"default:0" json:"card_amount"`
	TransferAmount int64              `gorm:"default:0" json:"transfer_amount"`
	DebtAmount     int64              `gorm:"default:0" json:"debt_amount"`
	PaidAmount     int64              `gorm:"default:0" json:"paid_amount"`
	RemainingDebt  int64              `gorm:"default:0" json:"remaining_debt"`
	PaymentStatus  enum.PaymentStatus `gorm:"default:0" json:"payment_status"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Operator User        `gorm:"foreignKey:OperatorID" json:"-"`
	Customer *Customer   `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Shift    Shift       `gorm:"foreignKey:ShiftID" json:"-"`
	Lines    []OrderLine `gorm:"foreignKey:OrderID" json:"lines,omitempty"`
}

// BeforeCreate generates a UUID before creating a new order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderLine is a settled cart line. Product and unit figures are snapshotted
// at settlement so later catalog edits cannot rewrite history.
type OrderLine struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	OrderID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"product_id"`
	UnitID         *uuid.UUID `gorm:"type:uuid" json:"unit_id,omitempty"` // nil means base unit
	ProductName    string     `gorm:"size:255;not null" json:"product_name"`
	UnitName       string     `gorm:"size:50;not null" json:"unit_name"`
	ConversionRate int        `gorm:"default:1" json:"conversion_rate"`
	Quantity       int        `gorm:"not null" json:"quantity"`
	UnitPrice      int64      `gorm:"not null" json:"unit_price"`
	DiscountAmount int64      `gorm:"default:0" json:"discount_amount"`
	TotalPrice     int64      `gorm:"not null" json:"total_price"`
	IsGift         bool       `gorm:"default:false" json:"is_gift"`
	PromotionID    *uuid.UUID `gorm:"type:uuid" json:"promotion_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`

	// Relationships
	Order   Order   `gorm:"foreignKey:OrderID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new order line
func (l *OrderLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderLine model
func (OrderLine) TableName() string {
	return "order_lines"
}

// BaseQuantity is the stock movement this line causes, in base units.
func (l *OrderLine) BaseQuantity() int {
	rate := l.ConversionRate
	if rate < 1 {
		rate = 1
	}
	return l.Quantity * rate
}
