package cart

import (
	"testing"

	"github.com/sangkips/tillpoint-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocatePaymentCashWithChange(t *testing.T) {
	alloc, err := AllocatePayment(150000, 0, Tender{CashReceived: 200000}, false)
	require.NoError(t, err)

	assert.Equal(t, int64(50000), alloc.ChangeAmount)
	assert.Equal(t, int64(150000), alloc.PaidAmount)
	assert.Equal(t, enum.PaymentStatusPaid, alloc.PaymentStatus)
	assert.Equal(t, "cash", alloc.PaymentMethod)
}

func TestAllocatePaymentMixedTenders(t *testing.T) {
	alloc, err := AllocatePayment(300000, 0, Tender{
		CashReceived:   100000,
		CardAmount:     150000,
		TransferAmount: 50000,
	}, false)
	require.NoError(t, err)

	assert.Equal(t, int64(0), alloc.ChangeAmount)
	assert.Equal(t, "mixed", alloc.PaymentMethod)
	assert.Equal(t, enum.PaymentStatusPaid, alloc.PaymentStatus)
}

func TestAllocatePaymentSingleNonCashMethod(t *testing.T) {
	alloc, err := AllocatePayment(100000, 0, Tender{CardAmount: 100000}, false)
	require.NoError(t, err)

	assert.Equal(t, "card", alloc.PaymentMethod)
}

func TestAllocatePaymentDebtRequiresCustomer(t *testing.T) {
	_, err := AllocatePayment(100000, 0, Tender{DebtAmount: 100000}, false)
	assert.Error(t, err)

	alloc, err := AllocatePayment(100000, 0, Tender{DebtAmount: 100000}, true)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), alloc.RemainingDebt)
	assert.Equal(t, int64(0), alloc.PaidAmount)
	assert.Equal(t, enum.PaymentStatusPartial, alloc.PaymentStatus)
	assert.Equal(t, "debt", alloc.PaymentMethod)
}

func TestAllocatePaymentShortfallRejected(t *testing.T) {
	_, err := AllocatePayment(150000, 0, Tender{CashReceived: 100000}, false)
	assert.Error(t, err)
}

func TestAllocatePaymentNonCashCannotOverpay(t *testing.T) {
	_, err := AllocatePayment(100000, 0, Tender{CardAmount: 150000}, false)
	assert.Error(t, err)
}

func TestAllocatePaymentNegativeTenderRejected(t *testing.T) {
	_, err := AllocatePayment(100000, 0, Tender{CashReceived: -1}, false)
	assert.Error(t, err)
}

func TestAllocatePaymentZeroTotalFullyCoveredByPoints(t *testing.T) {
	// Points already netted the total to zero; no tender is required.
	alloc, err := AllocatePayment(0, 50000, Tender{}, true)
	require.NoError(t, err)

	assert.Equal(t, int64(0), alloc.PaidAmount)
	assert.Equal(t, enum.PaymentStatusPaid, alloc.PaymentStatus)
	assert.Equal(t, "points", alloc.PaymentMethod)
}

func TestAllocatePaymentPointsPlusCashIsMixed(t *testing.T) {
	alloc, err := AllocatePayment(50000, 25000, Tender{CashReceived: 50000}, true)
	require.NoError(t, err)

	assert.Equal(t, "mixed", alloc.PaymentMethod)
}
