package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/cart"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	"github.com/sangkips/tillpoint-api/internal/domain/enum"
	"github.com/sangkips/tillpoint-api/internal/infrastructure/session"
	"github.com/sangkips/tillpoint-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkoutFixture struct {
	svc       *CheckoutService
	sessions  *session.Store
	orders    *fakeOrderRepo
	lines     *fakeOrderLineRepo
	products  *fakeProductRepo
	customers *fakeCustomerRepo
	shifts    *fakeShiftRepo

	operatorID uuid.UUID
	registerID uuid.UUID
	shift      *entity.Shift
	product    *entity.Product
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	f := &checkoutFixture{
		sessions:   session.NewStore(),
		orders:     newFakeOrderRepo(),
		lines:      &fakeOrderLineRepo{},
		products:   newFakeProductRepo(),
		customers:  newFakeCustomerRepo(),
		shifts:     newFakeShiftRepo(),
		operatorID: uuid.New(),
		registerID: uuid.New(),
	}
	f.svc = NewCheckoutService(f.sessions, f.orders, f.lines, f.products,
		f.customers, f.shifts, fakeTxManager{}, testPOSConfig())

	f.product = &entity.Product{
		ID:           uuid.New(),
		Name:         "Instant Noodles",
		SKU:          "SKU-NOODLE",
		BaseUnit:     "pcs",
		SellingPrice: 5000,
		Quantity:     100,
	}
	require.NoError(t, f.products.Create(context.Background(), f.product))

	f.shift = &entity.Shift{
		OperatorID:  f.operatorID,
		RegisterID:  f.registerID,
		ClockIn:     time.Now(),
		OpeningCash: 500000,
		Status:      enum.ShiftStatusActive,
	}
	require.NoError(t, f.shifts.Create(context.Background(), f.shift))
	return f
}

// openCart seeds a session holding qty units of the fixture product.
func (f *checkoutFixture) openCart(t *testing.T, qty int) uuid.UUID {
	t.Helper()
	c := cart.New(f.operatorID, f.registerID)
	if qty > 0 {
		_, err := c.AddLine(cart.LineSpec{
			ProductID:      f.product.ID,
			ProductName:    f.product.Name,
			UnitName:       f.product.BaseUnit,
			ConversionRate: 1,
			UnitPrice:      f.product.SellingPrice,
			Quantity:       qty,
		})
		require.NoError(t, err)
	}
	f.sessions.Open(c)
	return c.ID
}

func TestFinalizeOrderCashSale(t *testing.T) {
	f := newCheckoutFixture(t)
	cartID := f.openCart(t, 4) // 4 x 5000 = 20000

	order, err := f.svc.FinalizeOrder(context.Background(), FinalizeOrderInput{
		CartID: cartID,
		Tender: cart.Tender{CashReceived: 50000},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(20000), order.TotalAmount)
	assert.Equal(t, int64(30000), order.ChangeAmount)
	assert.Equal(t, "cash", order.PaymentMethod)
	assert.Equal(t, enum.PaymentStatusPaid, order.PaymentStatus)
	assert.NotEmpty(t, order.InvoiceNo)

	// Stock decremented, shift totals folded, session gone.
	stored, _ := f.products.GetByID(context.Background(), f.product.ID)
	assert.Equal(t, 96, stored.Quantity)

	shift, _ := f.shifts.GetByID(context.Background(), f.shift.ID)
	assert.Equal(t, int64(20000), shift.TotalCashSales)
	assert.Equal(t, 1, shift.OrderCount)

	_, err = f.sessions.Get(cartID)
	assert.True(t, apperror.IsCode(err, http.StatusNotFound))
}

func TestFinalizeOrderPersistsSnapshotLines(t *testing.T) {
	f := newCheckoutFixture(t)
	cartID := f.openCart(t, 2)

	order, err := f.svc.FinalizeOrder(context.Background(), FinalizeOrderInput{
		CartID: cartID,
		Tender: cart.Tender{CashReceived: 10000},
	})
	require.NoError(t, err)

	lines, err := f.lines.GetByOrderID(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "Instant Noodles", lines[0].ProductName)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, int64(10000), lines[0].TotalPrice)
}

func TestFinalizeOrderRejectsEmptyCart(t *testing.T) {
	f := newCheckoutFixture(t)
	cartID := f.openCart(t, 0)

	_, err := f.svc.FinalizeOrder(context.Background(), FinalizeOrderInput{CartID: cartID})
	assert.True(t, apperror.IsCode(err, http.StatusUnprocessableEntity))
}

func TestFinalizeOrderRejectsPendingScan(t *testing.T) {
	f := newCheckoutFixture(t)
	cartID := f.openCart(t, 1)

	sess, err := f.sessions.Get(cartID)
	require.NoError(t, err)
	sess.PendingScan = []cart.Match{{}}

	_, err = f.svc.FinalizeOrder(context.Background(), FinalizeOrderInput{
		CartID: cartID,
		Tender: cart.Tender{CashReceived: 5000},
	})
	assert.True(t, apperror.IsCode(err, http.StatusConflict))
}

func TestFinalizeOrderRequiresActiveShift(t *testing.T) {
	f := newCheckoutFixture(t)
	cartID := f.openCart(t, 1)

	f.shift.Status = enum.ShiftStatusReconciling
	require.NoError(t, f.shifts.Update(context.Background(), f.shift))

	_, err := f.svc.FinalizeOrder(context.Background(), FinalizeOrderInput{
		CartID: cartID,
		Tender: cart.Tender{CashReceived: 5000},
	})
	assert.True(t, apperror.IsCode(err, http.StatusConflict))

	// Nothing was committed and the cart is still open.
	stored, _ := f.products.GetByID(context.Background(), f.product.ID)
	assert.Equal(t, 100, stored.Quantity)
	_, err = f.sessions.Get(cartID)
	assert.NoError(t, err)
}

func TestFinalizeOrderFailsWhenShiftFreezesMidSettlement(t *testing.T) {
	f := newCheckoutFixture(t)
	cartID := f.openCart(t, 4)

	// The shift enters Reconciling after the Active pre-check has passed but
	// before the settlement's unit of work runs.
	f.svc.tx = hookTxManager{before: func() {
		stored, err := f.shifts.GetByID(context.Background(), f.shift.ID)
		require.NoError(t, err)
		stored.Status = enum.ShiftStatusReconciling
		require.NoError(t, f.shifts.Update(context.Background(), stored))
	}}

	_, err := f.svc.FinalizeOrder(context.Background(), FinalizeOrderInput{
		CartID: cartID,
		Tender: cart.Tender{CashReceived: 20000},
	})
	assert.True(t, apperror.IsCode(err, http.StatusConflict))

	// The frozen shift keeps its state and its totals stay untouched.
	stored, _ := f.shifts.GetByID(context.Background(), f.shift.ID)
	assert.Equal(t, enum.ShiftStatusReconciling, stored.Status)
	assert.Equal(t, int64(0), stored.TotalCashSales)
	assert.Equal(t, 0, stored.OrderCount)

	_, err = f.sessions.Get(cartID)
	assert.NoError(t, err, "session survives a failed settlement")
}

func TestFinalizeOrderSettlementsAccumulateOnShift(t *testing.T) {
	f := newCheckoutFixture(t)

	for _, qty := range []int{4, 2} {
		cartID := f.openCart(t, qty)
		_, err := f.svc.FinalizeOrder(context.Background(), FinalizeOrderInput{
			CartID: cartID,
			Tender: cart.Tender{CashReceived: int64(qty) * 5000},
		})
		require.NoError(t, err)
	}

	shift, _ := f.shifts.GetByID(context.Background(), f.shift.ID)
	assert.Equal(t, int64(30000), shift.TotalCashSales)
	assert.Equal(t, 2, shift.OrderCount)
}

func TestFinalizeOrderInsufficientStockKeepsCart(t *testing.T) {
	f := newCheckoutFixture(t)
	f.product.Quantity = 2
	require.NoError(t, f.products.Update(context.Background(), f.product))

	cartID := f.openCart(t, 5)

	_, err := f.svc.FinalizeOrder(context.Background(), FinalizeOrderInput{
		CartID: cartID,
		Tender: cart.Tender{CashReceived: 25000},
	})
	assert.True(t, apperror.IsCode(err, http.StatusUnprocessableEntity))

	stored, _ := f.products.GetByID(context.Background(), f.product.ID)
	assert.Equal(t, 2, stored.Quantity)
	_, err = f.sessions.Get(cartID)
	assert.NoError(t, err, "session survives a failed settlement")
}

func TestFinalizeOrderAllowsNegativeStockWhenFlagged(t *testing.T) {
	f := newCheckoutFixture(t)
	f.product.Quantity = 2
	f.product.AllowNegativeStock = true
	require.NoError(t, f.products.Update(context.Background(), f.product))

	cartID := f.openCart(t, 5)

	_, err := f.svc.FinalizeOrder(context.Background(), FinalizeOrderInput{
		CartID: cartID,
		Tender: cart.Tender{CashReceived: 25000},
	})
	require.NoError(t, err)

	stored, _ := f.products.GetByID(context.Background(), f.product.ID)
	assert.Equal(t, -3, stored.Quantity)
}

func TestFinalizeOrderDebtSale(t *testing.T) {
	f := newCheckoutFixture(t)
	customer := &entity.Customer{ID: uuid.New(), Name: "Anh"}
	require.NoError(t, f.customers.Create(context.Background(), customer))

	cartID := f.openCart(t, 4) // 20000
	sess, _ := f.sessions.Get(cartID)
	sess.Cart.CustomerID = &customer.ID

	order, err := f.svc.FinalizeOrder(context.Background(), FinalizeOrderInput{
		CartID: cartID,
		Tender: cart.Tender{CashReceived: 5000, DebtAmount: 15000},
	})
	require.NoError(t, err)

	assert.Equal(t, enum.PaymentStatusPartial, order.PaymentStatus)
	assert.Equal(t, int64(15000), order.RemainingDebt)

	stored, _ := f.customers.GetByID(context.Background(), customer.ID)
	assert.Equal(t, int64(15000), stored.DebtBalance)

	shift, _ := f.shifts.GetByID(context.Background(), f.shift.ID)
	assert.Equal(t, int64(15000), shift.TotalDebtSales)
	assert.Equal(t, int64(5000), shift.TotalCashSales)
}

func TestFinalizeOrderRedeemsPoints(t *testing.T) {
	f := newCheckoutFixture(t)
	customer := &entity.Customer{ID: uuid.New(), Name: "Anh", PointsBalance: 50}
	require.NoError(t, f.customers.Create(context.Background(), customer))

	cartID := f.openCart(t, 4) // 20000
	sess, _ := f.sessions.Get(cartID)
	sess.Cart.CustomerID = &customer.ID

	// 10 points at 1000 each cover half the total.
	order, err := f.svc.FinalizeOrder(context.Background(), FinalizeOrderInput{
		CartID:     cartID,
		PointsUsed: 10,
		Tender:     cart.Tender{CashReceived: 10000},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(10000), order.PointsDiscount)
	assert.Equal(t, int64(10000), order.TotalAmount)
	assert.Equal(t, "mixed", order.PaymentMethod)

	stored, _ := f.customers.GetByID(context.Background(), customer.ID)
	assert.Equal(t, int64(40), stored.PointsBalance)
}

func TestFinalizeOrderRejectsPointsBeyondBalance(t *testing.T) {
	f := newCheckoutFixture(t)
	customer := &entity.Customer{ID: uuid.New(), Name: "Anh", PointsBalance: 5}
	require.NoError(t, f.customers.Create(context.Background(), customer))

	cartID := f.openCart(t, 4)
	sess, _ := f.sessions.Get(cartID)
	sess.Cart.CustomerID = &customer.ID

	_, err := f.svc.FinalizeOrder(context.Background(), FinalizeOrderInput{
		CartID:     cartID,
		PointsUsed: 10,
		Tender:     cart.Tender{CashReceived: 20000},
	})
	assert.True(t, apperror.IsCode(err, http.StatusUnprocessableEntity))
}

func TestFinalizeOrderRejectsPointsWithoutCustomer(t *testing.T) {
	f := newCheckoutFixture(t)
	cartID := f.openCart(t, 4)

	_, err := f.svc.FinalizeOrder(context.Background(), FinalizeOrderInput{
		CartID:     cartID,
		PointsUsed: 10,
		Tender:     cart.Tender{CashReceived: 20000},
	})
	assert.True(t, apperror.IsCode(err, http.StatusUnprocessableEntity))
}

func TestFinalizeOrderRejectsShortTender(t *testing.T) {
	f := newCheckoutFixture(t)
	cartID := f.openCart(t, 4)

	_, err := f.svc.FinalizeOrder(context.Background(), FinalizeOrderInput{
		CartID: cartID,
		Tender: cart.Tender{CashReceived: 10000},
	})
	assert.Error(t, err)

	// The cart survives to be retried with a corrected tender.
	_, err = f.sessions.Get(cartID)
	assert.NoError(t, err)
}

func TestPreviewTotalsDoesNotSettle(t *testing.T) {
	f := newCheckoutFixture(t)
	cartID := f.openCart(t, 4)

	totals, err := f.svc.PreviewTotals(context.Background(), FinalizeOrderInput{
		CartID:             cartID,
		DiscountPercentBps: 1000,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(20000), totals.Subtotal)
	assert.Equal(t, int64(2000), totals.DiscountAmount)

	// No order was written and the session still exists.
	_, total, err := f.orders.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	_, err = f.sessions.Get(cartID)
	assert.NoError(t, err)
}

func TestGetOrderUnknownID(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.svc.GetOrder(context.Background(), uuid.New())
	assert.True(t, apperror.IsCode(err, http.StatusNotFound))
}
