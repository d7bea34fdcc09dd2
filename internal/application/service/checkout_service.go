package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/config"
	"github.com/sangkips/tillpoint-api/internal/domain/cart"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	"github.com/sangkips/tillpoint-api/internal/domain/enum"
	"github.com/sangkips/tillpoint-api/internal/domain/repository"
	"github.com/sangkips/tillpoint-api/internal/infrastructure/session"
	"github.com/sangkips/tillpoint-api/pkg/apperror"
	"github.com/sangkips/tillpoint-api/pkg/utils"
)

// CheckoutService settles carts into orders. Settlement is one atomic unit:
// order, lines, stock decrement, shift tender totals and customer balance
// adjustments commit together or not at all.
type CheckoutService struct {
	sessions     *session.Store
	orderRepo    repository.OrderRepository
	lineRepo     repository.OrderLineRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	shiftRepo    repository.ShiftRepository
	tx           repository.TxManager
	pos          config.POSConfig
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	sessions *session.Store,
	orderRepo repository.OrderRepository,
	lineRepo repository.OrderLineRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	shiftRepo repository.ShiftRepository,
	tx repository.TxManager,
	pos config.POSConfig,
) *CheckoutService {
	return &CheckoutService{
		sessions:     sessions,
		orderRepo:    orderRepo,
		lineRepo:     lineRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		shiftRepo:    shiftRepo,
		tx:           tx,
		pos:          pos,
	}
}

// FinalizeOrderInput carries the order-level adjustments and the tender split
// for one settlement attempt.
type FinalizeOrderInput struct {
	CartID             uuid.UUID
	DiscountAmount     int64
	DiscountPercentBps int64
	PointsUsed         int64
	Tender             cart.Tender
}

// PreviewTotals computes the money breakdown for a cart without settling it.
func (s *CheckoutService) PreviewTotals(ctx context.Context, in FinalizeOrderInput) (*cart.Totals, error) {
	sess, err := s.sessions.Get(in.CartID)
	if err != nil {
		return nil, err
	}

	var totals cart.Totals
	err = sess.WithLock(func() error {
		totals, err = cart.CalculateTotals(sess.Cart.Lines, cart.TotalsInput{
			DiscountAmount:     in.DiscountAmount,
			DiscountPercentBps: in.DiscountPercentBps,
			PointsUsed:         in.PointsUsed,
			PointValue:         s.pos.PointValue,
			TaxRateBps:         s.pos.TaxRateBps,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

// FinalizeOrder settles the cart. It requires an active shift on the cart's
// operator/register pair, recomputes totals from the live cart state, checks
// the tender split, and commits the order, its lines, the stock movement, the
// shift totals and any customer debt or points adjustment in one transaction.
// The cart session is destroyed only after the commit succeeds.
func (s *CheckoutService) FinalizeOrder(ctx context.Context, in FinalizeOrderInput) (*entity.Order, error) {
	sess, err := s.sessions.Get(in.CartID)
	if err != nil {
		return nil, err
	}

	var order *entity.Order
	err = sess.WithLock(func() error {
		c := sess.Cart
		if c.IsEmpty() {
			return apperror.NewFieldValidationError("cart", "cannot settle an empty cart")
		}
		if len(sess.PendingScan) > 0 {
			return apperror.NewStateError("a scan is awaiting selection")
		}

		shift, err := s.shiftRepo.GetActive(ctx, c.OperatorID, c.RegisterID)
		if err != nil {
			return err
		}
		if shift == nil || shift.Status != enum.ShiftStatusActive {
			return apperror.NewStateError("order settlement requires an active shift")
		}

		var customer *entity.Customer
		if c.CustomerID != nil {
			customer, err = s.customerRepo.GetByID(ctx, *c.CustomerID)
			if err != nil {
				return err
			}
			if customer == nil {
				return apperror.NewNotFoundError("Customer")
			}
		}
		if in.PointsUsed > 0 {
			if customer == nil {
				return apperror.NewFieldValidationError("points_used",
					"redeeming points requires a known customer")
			}
			if in.PointsUsed > customer.PointsBalance {
				return apperror.NewFieldValidationError("points_used",
					fmt.Sprintf("customer has only %d points", customer.PointsBalance))
			}
		}

		totals, err := cart.CalculateTotals(c.Lines, cart.TotalsInput{
			DiscountAmount:     in.DiscountAmount,
			DiscountPercentBps: in.DiscountPercentBps,
			PointsUsed:         in.PointsUsed,
			PointValue:         s.pos.PointValue,
			TaxRateBps:         s.pos.TaxRateBps,
		})
		if err != nil {
			return err
		}

		alloc, err := cart.AllocatePayment(totals.TotalAmount, totals.PointsDiscount, in.Tender, customer != nil)
		if err != nil {
			return err
		}

		order = &entity.Order{
			InvoiceNo:  utils.GenerateInvoiceNo(),
			OperatorID: c.OperatorID,
			RegisterID: c.RegisterID,
			ShiftID:    shift.ID,
			CustomerID: c.CustomerID,
			OrderDate:  time.Now(),

			Subtotal:        totals.Subtotal,
			DiscountAmount:  totals.DiscountAmount,
			DiscountPercent: totals.DiscountPercent,
			TaxAmount:       totals.TaxAmount,
			PointsUsed:      totals.PointsUsed,
			PointsDiscount:  totals.PointsDiscount,
			TotalAmount:     totals.TotalAmount,

			PaymentMethod:  alloc.PaymentMethod,
			CashReceived:   alloc.CashReceived,
			ChangeAmount:   alloc.ChangeAmount,
			CardAmount:     alloc.CardAmount,
			TransferAmount: alloc.TransferAmount,
			DebtAmount:     alloc.DebtAmount,
			PaidAmount:     alloc.PaidAmount,
			RemainingDebt:  alloc.RemainingDebt,
			PaymentStatus:  alloc.PaymentStatus,
		}

		lines := make([]entity.OrderLine, 0, len(c.Lines))
		deltas := make(map[uuid.UUID]int)
		for i := range c.Lines {
			l := &c.Lines[i]
			lines = append(lines, entity.OrderLine{
				ProductID:      l.ProductID,
				UnitID:         l.UnitID,
				ProductName:    l.ProductName,
				UnitName:       l.UnitName,
				ConversionRate: l.ConversionRate,
				Quantity:       l.Quantity,
				UnitPrice:      l.UnitPrice,
				DiscountAmount: l.DiscountAmount,
				TotalPrice:     l.TotalPrice,
				IsGift:         l.IsGift,
				PromotionID:    l.PromotionID,
			})
			deltas[l.ProductID] -= l.BaseQuantity()
		}

		return s.tx.WithinTx(ctx, func(txCtx context.Context) error {
			if err := s.orderRepo.Create(txCtx, order); err != nil {
				return err
			}
			for i := range lines {
				lines[i].OrderID = order.ID
			}
			if err := s.lineRepo.CreateBatch(txCtx, lines); err != nil {
				return err
			}

			failed, err := s.productRepo.AdjustStock(txCtx, deltas)
			if err != nil {
				return err
			}
			if len(failed) > 0 {
				return apperror.NewConsistencyError(
					fmt.Sprintf("insufficient stock for %d product(s)", len(failed)))
			}

			// Atomic increment gated on the shift still being Active. A
			// shift that entered Reconciling after the pre-check above fails
			// here and rolls the whole settlement back.
			if err := s.shiftRepo.FoldOrderTotals(txCtx, shift.ID, order); err != nil {
				return err
			}

			if customer != nil {
				if alloc.DebtAmount > 0 {
					if err := s.customerRepo.AddDebt(txCtx, customer.ID, alloc.DebtAmount); err != nil {
						return err
					}
				}
				if totals.PointsUsed > 0 {
					if err := s.customerRepo.AddPoints(txCtx, customer.ID, -totals.PointsUsed); err != nil {
						return err
					}
				}
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.sessions.Close(in.CartID)

	settled, err := s.orderRepo.GetWithLines(ctx, order.ID)
	if err != nil || settled == nil {
		return order, nil
	}
	return settled, nil
}

// GetOrder returns a settled order with its lines.
func (s *CheckoutService) GetOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetWithLines(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// ListOrders returns settled orders matching the filter.
func (s *CheckoutService) ListOrders(ctx context.Context, params *repository.OrderFilterParams) ([]entity.Order, int64, error) {
	return s.orderRepo.List(ctx, params)
}
