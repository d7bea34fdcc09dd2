package request

import (
	"time"

	"github.com/google/uuid"
)

// PromotionGiftRequest names one giveaway product in a rule
type PromotionGiftRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// CreatePromotionRequest represents an auto-gift rule creation request.
// TriggerMode "any" fires per trigger product; "all" requires every trigger
// product to reach the threshold.
type CreatePromotionRequest struct {
	Name        string                 `json:"name" binding:"required,min=2,max=255"`
	TriggerMode string                 `json:"trigger_mode" binding:"omitempty,oneof=any all"`
	TriggerQty  int                    `json:"trigger_qty" binding:"required,min=1"`
	MaxPerOrder int                    `json:"max_per_order" binding:"min=0"`
	StartsAt    *time.Time             `json:"starts_at"`
	EndsAt      *time.Time             `json:"ends_at"`
	TriggerIDs  []uuid.UUID            `json:"trigger_ids" binding:"required,min=1"`
	Gifts       []PromotionGiftRequest `json:"gifts" binding:"required,min=1,dive"`
}

// SetPromotionActiveRequest toggles a rule on or off
type SetPromotionActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}
