package entity

import (
	"testing"

	"github.com/sangkips/tillpoint-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var vndDenominations = []int64{500, 1000, 2000, 5000, 10000, 20000, 50000, 100000, 200000, 500000}

func TestNewDenominationCount(t *testing.T) {
	dc, err := NewDenominationCount(map[int64]int{
		500000: 2,
		100000: 5,
		500:    0,
	}, vndDenominations)
	require.NoError(t, err)

	assert.Equal(t, int64(1500000), dc.Total())
	_, hasZero := dc[500]
	assert.False(t, hasZero, "zero counts should be dropped")
}

func TestNewDenominationCountRejectsNegative(t *testing.T) {
	_, err := NewDenominationCount(map[int64]int{10000: -1}, vndDenominations)
	assert.Error(t, err)
}

func TestNewDenominationCountRejectsUnknownDenomination(t *testing.T) {
	_, err := NewDenominationCount(map[int64]int{300: 1}, vndDenominations)
	assert.Error(t, err)
}

func TestNewDenominationCountEmptyAllowedAcceptsAnything(t *testing.T) {
	dc, err := NewDenominationCount(map[int64]int{300: 2}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(600), dc.Total())
}

func TestComputeExpectedCash(t *testing.T) {
	shift := &Shift{
		OpeningCash:        500000,
		TotalCashSales:     1200000,
		TotalDebtCollected: 0,
		TotalReturns:       50000,
		TotalExpenses:      100000,
	}

	assert.Equal(t, int64(1550000), shift.ComputeExpectedCash())
}

func TestComputeExpectedCashCreditsDebtCollections(t *testing.T) {
	shift := &Shift{
		OpeningCash:        500000,
		TotalCashSales:     1000000,
		TotalDebtCollected: 200000,
	}

	assert.Equal(t, int64(1700000), shift.ComputeExpectedCash())
}

func TestClassifyDiscrepancy(t *testing.T) {
	tests := []struct {
		name        string
		discrepancy int64
		tolerance   int64
		want        enum.ReconciliationStatus
	}{
		{"exact match", 0, 0, enum.ReconciliationMatched},
		{"short drawer", -10000, 0, enum.ReconciliationShort},
		{"over drawer", 5000, 0, enum.ReconciliationOver},
		{"short within tolerance", -500, 1000, enum.ReconciliationMatched},
		{"over within tolerance", 800, 1000, enum.ReconciliationMatched},
		{"short beyond tolerance", -1500, 1000, enum.ReconciliationShort},
		{"negative tolerance treated as zero", 1, -5, enum.ReconciliationOver},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyDiscrepancy(tt.discrepancy, tt.tolerance))
		})
	}
}

func TestReconciliationExample(t *testing.T) {
	// Opened with 500k, sold 1.2M cash, refunded 50k, spent 100k from the
	// till. Counting 1.54M leaves the drawer 10k short.
	shift := &Shift{
		OpeningCash:    500000,
		TotalCashSales: 1200000,
		TotalReturns:   50000,
		TotalExpenses:  100000,
	}

	counted, err := NewDenominationCount(map[int64]int{
		500000: 3,
		20000:  2,
	}, vndDenominations)
	require.NoError(t, err)
	require.Equal(t, int64(1540000), counted.Total())

	expected := shift.ComputeExpectedCash()
	discrepancy := counted.Total() - expected

	assert.Equal(t, int64(1550000), expected)
	assert.Equal(t, int64(-10000), discrepancy)
	assert.Equal(t, enum.ReconciliationShort, ClassifyDiscrepancy(discrepancy, 0))
}
