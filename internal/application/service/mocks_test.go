package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	"github.com/sangkips/tillpoint-api/internal/domain/enum"
	"github.com/sangkips/tillpoint-api/internal/domain/repository"
	"github.com/sangkips/tillpoint-api/pkg/apperror"
)

// In-memory repository fakes. They keep just enough behavior for the service
// flows under test; filtering and pagination are deliberately naive.

type fakeShiftRepo struct {
	shifts map[uuid.UUID]*entity.Shift
}

func newFakeShiftRepo() *fakeShiftRepo {
	return &fakeShiftRepo{shifts: make(map[uuid.UUID]*entity.Shift)}
}

func (r *fakeShiftRepo) Create(ctx context.Context, shift *entity.Shift) error {
	if shift.ID == uuid.Nil {
		shift.ID = uuid.New()
	}
	copied := *shift
	r.shifts[shift.ID] = &copied
	return nil
}

func (r *fakeShiftRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Shift, error) {
	s, ok := r.shifts[id]
	if !ok {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (r *fakeShiftRepo) Update(ctx context.Context, shift *entity.Shift) error {
	copied := *shift
	r.shifts[shift.ID] = &copied
	return nil
}

func (r *fakeShiftRepo) GetActive(ctx context.Context, operatorID, registerID uuid.UUID) (*entity.Shift, error) {
	for _, s := range r.shifts {
		if s.OperatorID == operatorID && s.RegisterID == registerID && s.Status != enum.ShiftStatusClosed {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeShiftRepo) GetLastClosed(ctx context.Context, registerID uuid.UUID) (*entity.Shift, error) {
	var last *entity.Shift
	for _, s := range r.shifts {
		if s.RegisterID != registerID || s.Status != enum.ShiftStatusClosed {
			continue
		}
		if last == nil || (s.ClockOut != nil && last.ClockOut != nil && s.ClockOut.After(*last.ClockOut)) {
			last = s
		}
	}
	if last == nil {
		return nil, nil
	}
	copied := *last
	return &copied, nil
}

func (r *fakeShiftRepo) TransitionStatus(ctx context.Context, shiftID uuid.UUID, from, to enum.ShiftStatus) error {
	s, ok := r.shifts[shiftID]
	if !ok || s.Status != from {
		return apperror.NewStateError("shift state changed concurrently")
	}
	s.Status = to
	return nil
}

// activeIncrement mirrors the state-gated atomic update of the real
// repository: increments apply only while the stored shift is Active.
func (r *fakeShiftRepo) activeIncrement(id uuid.UUID, fn func(s *entity.Shift)) error {
	s, ok := r.shifts[id]
	if !ok || s.Status != enum.ShiftStatusActive {
		return apperror.NewStateError("shift is not active")
	}
	fn(s)
	return nil
}

func (r *fakeShiftRepo) FoldOrderTotals(ctx context.Context, shiftID uuid.UUID, order *entity.Order) error {
	return r.activeIncrement(shiftID, func(s *entity.Shift) {
		s.TotalCashSales += order.CashReceived - order.ChangeAmount
		s.TotalCardSales += order.CardAmount
		s.TotalTransferSales += order.TransferAmount
		s.TotalDebtSales += order.DebtAmount
		s.TotalPointSales += order.PointsDiscount
		s.OrderCount++
	})
}

func (r *fakeShiftRepo) AddExpense(ctx context.Context, shiftID uuid.UUID, amount int64) error {
	return r.activeIncrement(shiftID, func(s *entity.Shift) { s.TotalExpenses += amount })
}

func (r *fakeShiftRepo) AddReturn(ctx context.Context, shiftID uuid.UUID, amount int64) error {
	return r.activeIncrement(shiftID, func(s *entity.Shift) { s.TotalReturns += amount })
}

func (r *fakeShiftRepo) AddDebtCollected(ctx context.Context, shiftID uuid.UUID, amount int64) error {
	return r.activeIncrement(shiftID, func(s *entity.Shift) { s.TotalDebtCollected += amount })
}

func (r *fakeShiftRepo) List(ctx context.Context, params *repository.ShiftFilterParams) ([]entity.Shift, int64, error) {
	var out []entity.Shift
	for _, s := range r.shifts {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context) ([]entity.User, error) {
	var out []entity.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

type fakeCustomerRepo struct {
	customers map[uuid.UUID]*entity.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[uuid.UUID]*entity.Customer)}
}

func (r *fakeCustomerRepo) Create(ctx context.Context, customer *entity.Customer) error {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	r.customers[customer.ID] = customer
	return nil
}

func (r *fakeCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCustomerRepo) Update(ctx context.Context, customer *entity.Customer) error {
	r.customers[customer.ID] = customer
	return nil
}

func (r *fakeCustomerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.customers, id)
	return nil
}

func (r *fakeCustomerRepo) List(ctx context.Context, params *repository.CustomerFilterParams) ([]entity.Customer, int64, error) {
	var out []entity.Customer
	for _, c := range r.customers {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *fakeCustomerRepo) AddDebt(ctx context.Context, id uuid.UUID, amount int64) error {
	r.customers[id].DebtBalance += amount
	return nil
}

func (r *fakeCustomerRepo) AddPoints(ctx context.Context, id uuid.UUID, points int64) error {
	r.customers[id].PointsBalance += points
	return nil
}

type fakeProductRepo struct {
	products map[uuid.UUID]*entity.Product
	order    []uuid.UUID
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*entity.Product)}
}

func (r *fakeProductRepo) Create(ctx context.Context, product *entity.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	r.products[product.ID] = product
	r.order = append(r.order, product.ID)
	return nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (r *fakeProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	var out []entity.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Update(ctx context.Context, product *entity.Product) error {
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) List(ctx context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	catalog, _ := r.ListCatalog(ctx)
	return catalog, int64(len(catalog)), nil
}

func (r *fakeProductRepo) ListCatalog(ctx context.Context) ([]entity.Product, error) {
	out := make([]entity.Product, 0, len(r.order))
	for _, id := range r.order {
		if p, ok := r.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) AddUnit(ctx context.Context, unit *entity.ProductUnit) error {
	if unit.ID == uuid.Nil {
		unit.ID = uuid.New()
	}
	p := r.products[unit.ProductID]
	p.Units = append(p.Units, *unit)
	return nil
}

func (r *fakeProductRepo) RemoveUnit(ctx context.Context, unitID uuid.UUID) error {
	for _, p := range r.products {
		for i := range p.Units {
			if p.Units[i].ID == unitID {
				p.Units = append(p.Units[:i], p.Units[i+1:]...)
				return nil
			}
		}
	}
	return nil
}

func (r *fakeProductRepo) AdjustStock(ctx context.Context, deltas map[uuid.UUID]int) ([]uuid.UUID, error) {
	var failed []uuid.UUID
	for id, delta := range deltas {
		p, ok := r.products[id]
		if !ok {
			failed = append(failed, id)
			continue
		}
		if !p.AllowNegativeStock && p.Quantity+delta < 0 {
			failed = append(failed, id)
		}
	}
	if len(failed) > 0 {
		return failed, nil
	}
	for id, delta := range deltas {
		r.products[id].Quantity += delta
	}
	return nil, nil
}

type fakePromotionRepo struct {
	promotions []entity.Promotion
}

func (r *fakePromotionRepo) Create(ctx context.Context, promotion *entity.Promotion) error {
	if promotion.ID == uuid.Nil {
		promotion.ID = uuid.New()
	}
	r.promotions = append(r.promotions, *promotion)
	return nil
}

func (r *fakePromotionRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Promotion, error) {
	for i := range r.promotions {
		if r.promotions[i].ID == id {
			copied := r.promotions[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakePromotionRepo) Update(ctx context.Context, promotion *entity.Promotion) error {
	for i := range r.promotions {
		if r.promotions[i].ID == promotion.ID {
			r.promotions[i] = *promotion
		}
	}
	return nil
}

func (r *fakePromotionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i := range r.promotions {
		if r.promotions[i].ID == id {
			r.promotions = append(r.promotions[:i], r.promotions[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakePromotionRepo) List(ctx context.Context) ([]entity.Promotion, error) {
	return append([]entity.Promotion{}, r.promotions...), nil
}

func (r *fakePromotionRepo) ListActive(ctx context.Context) ([]entity.Promotion, error) {
	var out []entity.Promotion
	for _, p := range r.promotions {
		if p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeOrderRepo struct {
	orders map[uuid.UUID]*entity.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*entity.Order)}
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *entity.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	copied := *order
	r.orders[order.ID] = &copied
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	copied := *o
	return &copied, nil
}

func (r *fakeOrderRepo) GetWithLines(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeOrderRepo) GetByInvoiceNo(ctx context.Context, invoiceNo string) (*entity.Order, error) {
	for _, o := range r.orders {
		if o.InvoiceNo == invoiceNo {
			copied := *o
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeOrderRepo) List(ctx context.Context, params *repository.OrderFilterParams) ([]entity.Order, int64, error) {
	var out []entity.Order
	for _, o := range r.orders {
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

type fakeOrderLineRepo struct {
	lines []entity.OrderLine
}

func (r *fakeOrderLineRepo) CreateBatch(ctx context.Context, lines []entity.OrderLine) error {
	r.lines = append(r.lines, lines...)
	return nil
}

func (r *fakeOrderLineRepo) GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.OrderLine, error) {
	var out []entity.OrderLine
	for _, l := range r.lines {
		if l.OrderID == orderID {
			out = append(out, l)
		}
	}
	return out, nil
}

// fakeTxManager runs the unit of work directly; rollback behavior is covered
// by asserting on observable state after a failed settlement.
type fakeTxManager struct{}

func (fakeTxManager) WithinTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

// hookTxManager lets a test interleave a state change between a service's
// pre-checks and its unit of work, simulating a concurrent writer.
type hookTxManager struct {
	before func()
}

func (m hookTxManager) WithinTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if m.before != nil {
		m.before()
	}
	return fn(ctx)
}
