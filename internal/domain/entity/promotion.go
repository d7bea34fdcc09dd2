package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Promotion is an auto-gift rule: when the cart satisfies the trigger
// condition, gift lines are generated automatically at zero price.
type Promotion struct {
	ID          uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	Name        string           `gorm:"size:255;not null" json:"name"`
	Active      bool             `gorm:"default:true" json:"active"`
	TriggerMode enum.TriggerMode `gorm:"default:0" json:"trigger_mode"`
	TriggerQty  int              `gorm:"not null" json:"trigger_qty"`
	MaxPerOrder int              `gorm:"default:0" json:"max_per_order"` // 0 means uncapped
	StartsAt    *time.Time       `json:"starts_at,omitempty"`
	EndsAt      *time.Time       `json:"ends_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relationships
	Triggers []PromotionTrigger `gorm:"foreignKey:PromotionID" json:"triggers,omitempty"`
	Gifts    []PromotionGift    `gorm:"foreignKey:PromotionID" json:"gifts,omitempty"`
}

// BeforeCreate generates a UUID before creating a new promotion
func (p *Promotion) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Promotion model
func (Promotion) TableName() string {
	return "promotions"
}

// InWindow reports whether the rule is inside its optional validity window.
func (p *Promotion) InWindow(now time.Time) bool {
	if p.StartsAt != nil && now.Before(*p.StartsAt) {
		return false
	}
	if p.EndsAt != nil && now.After(*p.EndsAt) {
		return false
	}
	return true
}

// PromotionTrigger names one product in the rule's trigger set
type PromotionTrigger struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	PromotionID uuid.UUID `gorm:"type:uuid;not null;index" json:"promotion_id"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`

	// Relationships
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// BeforeCreate generates a UUID before creating a new trigger
func (t *PromotionTrigger) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PromotionTrigger model
func (PromotionTrigger) TableName() string {
	return "promotion_triggers"
}

// PromotionGift names one product the rule gives away and its base quantity
type PromotionGift struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	PromotionID uuid.UUID `gorm:"type:uuid;not null;index" json:"promotion_id"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity    int       `gorm:"not null" json:"quantity"`

	// Relationships
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// BeforeCreate generates a UUID before creating a new gift
func (g *PromotionGift) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PromotionGift model
func (PromotionGift) TableName() string {
	return "promotion_gifts"
}
