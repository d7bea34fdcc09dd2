package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	"github.com/sangkips/tillpoint-api/internal/domain/enum"
)

// EvaluateGifts regenerates the full gift-line set for a cart from the active
// rules. It is a complete recompute over the non-gift lines: running it twice
// without an intervening mutation yields the same result, and a rule that no
// longer qualifies simply produces no lines.
//
// Rules evaluate independently; two rules gifting the same product produce
// one line each and their quantities sum.
func EvaluateGifts(lines []Line, rules []entity.Promotion, now time.Time) []Line {
	// Aggregate purchased quantity per product in base units, across units.
	baseQty := make(map[uuid.UUID]int)
	for i := range lines {
		if lines[i].IsGift {
			continue
		}
		baseQty[lines[i].ProductID] += lines[i].BaseQuantity()
	}

	var gifts []Line
	for r := range rules {
		rule := &rules[r]
		if !rule.Active || rule.TriggerQty <= 0 || !rule.InWindow(now) {
			continue
		}

		multiplier := ruleMultiplier(rule, baseQty)
		if multiplier <= 0 {
			continue
		}

		for g := range rule.Gifts {
			gift := &rule.Gifts[g]
			quantity := gift.Quantity * multiplier
			if rule.MaxPerOrder > 0 && quantity > rule.MaxPerOrder {
				quantity = rule.MaxPerOrder
			}
			if quantity <= 0 {
				continue
			}
			promotionID := rule.ID
			gifts = append(gifts, Line{
				ID:             uuid.New(),
				ProductID:      gift.ProductID,
				ProductName:    gift.Product.Name,
				UnitName:       gift.Product.BaseUnit,
				ConversionRate: 1,
				Quantity:       quantity,
				UnitPrice:      0,
				TotalPrice:     0,
				IsGift:         true,
				PromotionID:    &promotionID,
			})
		}
	}
	return gifts
}

// ruleMultiplier computes how many times a rule fires against the purchased
// quantities. Any mode scales with the best matching product; All mode fires
// at most once and only when every trigger product qualifies.
func ruleMultiplier(rule *entity.Promotion, baseQty map[uuid.UUID]int) int {
	if len(rule.Triggers) == 0 {
		return 0
	}

	switch rule.TriggerMode {
	case enum.TriggerModeAll:
		for i := range rule.Triggers {
			if baseQty[rule.Triggers[i].ProductID] < rule.TriggerQty {
				return 0
			}
		}
		return 1
	default: // TriggerModeAny
		best := 0
		for i := range rule.Triggers {
			if m := baseQty[rule.Triggers[i].ProductID] / rule.TriggerQty; m > best {
				best = m
			}
		}
		return best
	}
}
