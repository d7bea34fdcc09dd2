package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func totalsLines() []Line {
	taxed := Line{ID: uuid.New(), ProductID: uuid.New(), Quantity: 2, UnitPrice: 50000, Taxable: true}
	taxed.recompute()
	untaxed := Line{ID: uuid.New(), ProductID: uuid.New(), Quantity: 1, UnitPrice: 100000}
	untaxed.recompute()
	return []Line{taxed, untaxed}
}

func TestCalculateTotalsPlain(t *testing.T) {
	totals, err := CalculateTotals(totalsLines(), TotalsInput{TaxRateBps: 1000})
	require.NoError(t, err)

	assert.Equal(t, int64(200000), totals.Subtotal)
	assert.Equal(t, int64(10000), totals.TaxAmount) // tax only on the taxable line
	assert.Equal(t, int64(210000), totals.TotalAmount)
}

func TestCalculateTotalsDiscountsAreExclusive(t *testing.T) {
	_, err := CalculateTotals(totalsLines(), TotalsInput{
		DiscountAmount:     5000,
		DiscountPercentBps: 500,
	})
	assert.Error(t, err)
}

func TestCalculateTotalsPercentDiscount(t *testing.T) {
	totals, err := CalculateTotals(totalsLines(), TotalsInput{DiscountPercentBps: 1250})
	require.NoError(t, err)

	assert.Equal(t, int64(25000), totals.DiscountAmount) // 12.5% of 200000
	assert.Equal(t, int64(175000), totals.TotalAmount)
}

func TestCalculateTotalsAmountDiscountCappedAtSubtotal(t *testing.T) {
	totals, err := CalculateTotals(totalsLines(), TotalsInput{DiscountAmount: 999999})
	require.NoError(t, err)

	assert.Equal(t, int64(200000), totals.DiscountAmount)
	assert.Equal(t, int64(0), totals.TotalAmount)
}

func TestCalculateTotalsPointsShrinkToCap(t *testing.T) {
	// Cap is subtotal minus discount = 150000; at 1000 per point only 150
	// of the requested 500 points can apply.
	totals, err := CalculateTotals(totalsLines(), TotalsInput{
		DiscountAmount: 50000,
		PointsUsed:     500,
		PointValue:     1000,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(150), totals.PointsUsed)
	assert.Equal(t, int64(150000), totals.PointsDiscount)
	assert.Equal(t, int64(0), totals.TotalAmount)
}

func TestCalculateTotalsPointsWithoutValueIgnored(t *testing.T) {
	totals, err := CalculateTotals(totalsLines(), TotalsInput{PointsUsed: 100})
	require.NoError(t, err)

	assert.Equal(t, int64(0), totals.PointsUsed)
	assert.Equal(t, int64(0), totals.PointsDiscount)
}

func TestCalculateTotalsNeverNegative(t *testing.T) {
	totals, err := CalculateTotals(totalsLines(), TotalsInput{
		DiscountAmount: 200000,
		PointsUsed:     50,
		PointValue:     1000,
	})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, totals.TotalAmount, int64(0))
}

func TestCalculateTotalsRejectsNegativeInputs(t *testing.T) {
	_, err := CalculateTotals(totalsLines(), TotalsInput{DiscountAmount: -1})
	assert.Error(t, err)
	_, err = CalculateTotals(totalsLines(), TotalsInput{PointsUsed: -1})
	assert.Error(t, err)
}

func TestCalculateTotalsGiftLinesContributeZero(t *testing.T) {
	lines := totalsLines()
	lines = append(lines, Line{ID: uuid.New(), ProductID: uuid.New(), Quantity: 3, IsGift: true})

	withGift, err := CalculateTotals(lines, TotalsInput{TaxRateBps: 1000})
	require.NoError(t, err)
	withoutGift, err := CalculateTotals(totalsLines(), TotalsInput{TaxRateBps: 1000})
	require.NoError(t, err)

	assert.Equal(t, withoutGift.TotalAmount, withGift.TotalAmount)
}
