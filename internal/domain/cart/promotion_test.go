package cart

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	"github.com/sangkips/tillpoint-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func giftRule(triggerID, giftID uuid.UUID, mode enum.TriggerMode, triggerQty, giftQty, maxPerOrder int) entity.Promotion {
	return entity.Promotion{
		ID:          uuid.New(),
		Name:        "Buy some, get some",
		Active:      true,
		TriggerMode: mode,
		TriggerQty:  triggerQty,
		MaxPerOrder: maxPerOrder,
		Triggers:    []entity.PromotionTrigger{{ProductID: triggerID}},
		Gifts: []entity.PromotionGift{{
			ProductID: giftID,
			Quantity:  giftQty,
			Product:   entity.Product{ID: giftID, Name: "Free Cup", BaseUnit: "pcs"},
		}},
	}
}

func purchasedLine(productID uuid.UUID, qty, rate int) Line {
	l := Line{
		ID:             uuid.New(),
		ProductID:      productID,
		Quantity:       qty,
		ConversionRate: rate,
		UnitPrice:      5000,
	}
	l.recompute()
	return l
}

func TestEvaluateGiftsAnyModeMultiplier(t *testing.T) {
	triggerID := uuid.New()
	giftID := uuid.New()
	now := time.Now()

	tests := []struct {
		name       string
		boughtQty  int
		triggerQty int
		giftQty    int
		maxPer     int
		want       int
	}{
		{"below threshold yields nothing", 1, 2, 1, 0, 0},
		{"threshold met once", 3, 2, 1, 0, 1},
		{"multiplier scales with quantity", 5, 2, 1, 0, 2},
		{"cap limits gift quantity", 5, 2, 2, 2, 2},
		{"zero cap means uncapped", 10, 2, 1, 0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := []entity.Promotion{giftRule(triggerID, giftID, enum.TriggerModeAny, tt.triggerQty, tt.giftQty, tt.maxPer)}
			lines := []Line{purchasedLine(triggerID, tt.boughtQty, 1)}

			gifts := EvaluateGifts(lines, rules, now)
			if tt.want == 0 {
				assert.Empty(t, gifts)
				return
			}
			require.Len(t, gifts, 1)
			assert.Equal(t, tt.want, gifts[0].Quantity)
			assert.True(t, gifts[0].IsGift)
			assert.Equal(t, int64(0), gifts[0].TotalPrice)
		})
	}
}

func TestEvaluateGiftsAllModeFiresOnce(t *testing.T) {
	triggerA := uuid.New()
	triggerB := uuid.New()
	giftID := uuid.New()
	now := time.Now()

	rule := giftRule(triggerA, giftID, enum.TriggerModeAll, 2, 1, 0)
	rule.Triggers = append(rule.Triggers, entity.PromotionTrigger{ProductID: triggerB})

	// Only one trigger product qualifies.
	gifts := EvaluateGifts([]Line{purchasedLine(triggerA, 5, 1)}, []entity.Promotion{rule}, now)
	assert.Empty(t, gifts)

	// Both qualify; multiplier stays 1 however high the quantities go.
	gifts = EvaluateGifts([]Line{
		purchasedLine(triggerA, 9, 1),
		purchasedLine(triggerB, 4, 1),
	}, []entity.Promotion{rule}, now)
	require.Len(t, gifts, 1)
	assert.Equal(t, 1, gifts[0].Quantity)
}

func TestEvaluateGiftsAggregatesAcrossUnits(t *testing.T) {
	triggerID := uuid.New()
	giftID := uuid.New()
	now := time.Now()

	// 1 carton of 24 plus 1 single = 25 base units, threshold 10 fires twice.
	rules := []entity.Promotion{giftRule(triggerID, giftID, enum.TriggerModeAny, 10, 1, 0)}
	lines := []Line{
		purchasedLine(triggerID, 1, 24),
		purchasedLine(triggerID, 1, 1),
	}

	gifts := EvaluateGifts(lines, rules, now)
	require.Len(t, gifts, 1)
	assert.Equal(t, 2, gifts[0].Quantity)
}

func TestEvaluateGiftsIgnoresGiftLinesAsTriggers(t *testing.T) {
	triggerID := uuid.New()
	now := time.Now()

	rules := []entity.Promotion{giftRule(triggerID, triggerID, enum.TriggerModeAny, 2, 2, 0)}

	gift := purchasedLine(triggerID, 4, 1)
	gift.IsGift = true

	// Gift lines of the trigger product must not feed the threshold back.
	gifts := EvaluateGifts([]Line{gift}, rules, now)
	assert.Empty(t, gifts)
}

func TestEvaluateGiftsSkipsInactiveAndOutOfWindow(t *testing.T) {
	triggerID := uuid.New()
	giftID := uuid.New()
	now := time.Now()

	inactive := giftRule(triggerID, giftID, enum.TriggerModeAny, 1, 1, 0)
	inactive.Active = false

	past := now.Add(-time.Hour)
	expired := giftRule(triggerID, giftID, enum.TriggerModeAny, 1, 1, 0)
	expired.EndsAt = &past

	gifts := EvaluateGifts([]Line{purchasedLine(triggerID, 5, 1)},
		[]entity.Promotion{inactive, expired}, now)
	assert.Empty(t, gifts)
}

func TestEvaluateGiftsIndependentRulesSum(t *testing.T) {
	triggerID := uuid.New()
	giftID := uuid.New()
	now := time.Now()

	ruleA := giftRule(triggerID, giftID, enum.TriggerModeAny, 2, 1, 0)
	ruleB := giftRule(triggerID, giftID, enum.TriggerModeAny, 3, 1, 0)

	gifts := EvaluateGifts([]Line{purchasedLine(triggerID, 6, 1)},
		[]entity.Promotion{ruleA, ruleB}, now)
	require.Len(t, gifts, 2)
	assert.Equal(t, 3, gifts[0].Quantity)
	assert.Equal(t, 2, gifts[1].Quantity)
}

func TestEvaluateGiftsIsIdempotent(t *testing.T) {
	triggerID := uuid.New()
	giftID := uuid.New()
	now := time.Now()

	rules := []entity.Promotion{giftRule(triggerID, giftID, enum.TriggerModeAny, 2, 1, 0)}
	c := New(uuid.New(), uuid.New())
	_, err := c.AddLine(testSpec(triggerID, 5000, 4))
	require.NoError(t, err)

	c.SetGiftLines(EvaluateGifts(c.NonGiftLines(), rules, now))
	firstCount := len(c.Lines)
	firstQty := c.Lines[len(c.Lines)-1].Quantity

	c.SetGiftLines(EvaluateGifts(c.NonGiftLines(), rules, now))
	assert.Equal(t, firstCount, len(c.Lines))
	assert.Equal(t, firstQty, c.Lines[len(c.Lines)-1].Quantity)
}

func TestEvaluateGiftsVanishWhenTriggerRemoved(t *testing.T) {
	triggerID := uuid.New()
	giftID := uuid.New()
	now := time.Now()

	rules := []entity.Promotion{giftRule(triggerID, giftID, enum.TriggerModeAny, 2, 1, 0)}
	c := New(uuid.New(), uuid.New())
	line, err := c.AddLine(testSpec(triggerID, 5000, 4))
	require.NoError(t, err)

	c.SetGiftLines(EvaluateGifts(c.NonGiftLines(), rules, now))
	require.Len(t, c.Lines, 2)

	require.NoError(t, c.RemoveLine(line.ID))
	c.SetGiftLines(EvaluateGifts(c.NonGiftLines(), rules, now))
	assert.Empty(t, c.Lines)
}
