package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/cart"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	"github.com/sangkips/tillpoint-api/internal/domain/repository"
	"github.com/sangkips/tillpoint-api/internal/infrastructure/session"
	"github.com/sangkips/tillpoint-api/pkg/apperror"
)

// CartService orchestrates register cart sessions: scanning, line edits and
// the gift recompute that follows every mutation. Each call returns the new
// fully-consistent snapshot; nothing is recalculated lazily.
type CartService struct {
	sessions      *session.Store
	productRepo   repository.ProductRepository
	promotionRepo repository.PromotionRepository
	customerRepo  repository.CustomerRepository
	scanDebounce  time.Duration
}

// NewCartService creates a new cart service
func NewCartService(
	sessions *session.Store,
	productRepo repository.ProductRepository,
	promotionRepo repository.PromotionRepository,
	customerRepo repository.CustomerRepository,
	scanDebounce time.Duration,
) *CartService {
	return &CartService{
		sessions:      sessions,
		productRepo:   productRepo,
		promotionRepo: promotionRepo,
		customerRepo:  customerRepo,
		scanDebounce:  scanDebounce,
	}
}

// CartSnapshot is the read model handed back after every cart operation.
type CartSnapshot struct {
	ID          uuid.UUID    `json:"id"`
	OperatorID  uuid.UUID    `json:"operator_id"`
	RegisterID  uuid.UUID    `json:"register_id"`
	CustomerID  *uuid.UUID   `json:"customer_id,omitempty"`
	Lines       []cart.Line  `json:"lines"`
	Subtotal    int64        `json:"subtotal"`
	PendingScan []cart.Match `json:"pending_scan,omitempty"`
}

func snapshot(s *session.Session) *CartSnapshot {
	c := s.Cart
	lines := make([]cart.Line, len(c.Lines))
	copy(lines, c.Lines)
	return &CartSnapshot{
		ID:          c.ID,
		OperatorID:  c.OperatorID,
		RegisterID:  c.RegisterID,
		CustomerID:  c.CustomerID,
		Lines:       lines,
		Subtotal:    c.Subtotal(),
		PendingScan: s.PendingScan,
	}
}

// OpenCart starts a new cart session for an operator/register pair.
func (s *CartService) OpenCart(ctx context.Context, operatorID, registerID uuid.UUID) (*CartSnapshot, error) {
	sess := s.sessions.Open(cart.New(operatorID, registerID))
	return snapshot(sess), nil
}

// GetCart returns the current snapshot without mutating anything.
func (s *CartService) GetCart(ctx context.Context, cartID uuid.UUID) (*CartSnapshot, error) {
	sess, err := s.sessions.Get(cartID)
	if err != nil {
		return nil, err
	}
	var snap *CartSnapshot
	_ = sess.WithLock(func() error {
		snap = snapshot(sess)
		return nil
	})
	return snap, nil
}

// mutate runs fn under the session lock and follows it with the gift
// recompute, so callers always observe a settled snapshot.
func (s *CartService) mutate(ctx context.Context, cartID uuid.UUID, fn func(sess *session.Session) error) (*CartSnapshot, error) {
	sess, err := s.sessions.Get(cartID)
	if err != nil {
		return nil, err
	}

	var snap *CartSnapshot
	err = sess.WithLock(func() error {
		if err := fn(sess); err != nil {
			return err
		}
		if err := s.recomputeGifts(ctx, sess.Cart); err != nil {
			return err
		}
		snap = snapshot(sess)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// recomputeGifts regenerates the cart's gift lines from the active rules.
func (s *CartService) recomputeGifts(ctx context.Context, c *cart.Cart) error {
	rules, err := s.promotionRepo.ListActive(ctx)
	if err != nil {
		return err
	}
	c.SetGiftLines(cart.EvaluateGifts(c.NonGiftLines(), rules, time.Now()))
	return nil
}

// Scan resolves a scanned code against the catalog. A unique match adds one
// unit of the matched product; an ambiguous one parks the candidates on the
// session and surfaces them for explicit selection. Duplicate scanner events
// inside the debounce window are dropped, and while a selection is pending
// further scans are refused.
func (s *CartService) Scan(ctx context.Context, cartID uuid.UUID, code string) (*CartSnapshot, error) {
	sess, err := s.sessions.Get(cartID)
	if err != nil {
		return nil, err
	}

	var snap *CartSnapshot
	err = sess.WithLock(func() error {
		if len(sess.PendingScan) > 0 {
			return apperror.NewStateError("a previous scan is awaiting selection")
		}
		if sess.Debounced(code, s.scanDebounce) {
			snap = snapshot(sess)
			return nil
		}

		catalog, err := s.productRepo.ListCatalog(ctx)
		if err != nil {
			return err
		}
		matches, err := cart.ResolveBarcode(code, catalog)
		if err != nil {
			if len(matches) > 1 {
				sess.PendingScan = matches
			}
			return err
		}

		if _, err := sess.Cart.AddLine(matches[0].LineSpec(1)); err != nil {
			return err
		}
		sess.MarkScanned(code)
		if err := s.recomputeGifts(ctx, sess.Cart); err != nil {
			return err
		}
		snap = snapshot(sess)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// SelectScanCandidate resolves a pending ambiguous scan by index, adding
// exactly one line for the chosen product/unit at quantity 1.
func (s *CartService) SelectScanCandidate(ctx context.Context, cartID uuid.UUID, index int) (*CartSnapshot, error) {
	return s.mutate(ctx, cartID, func(sess *session.Session) error {
		if len(sess.PendingScan) == 0 {
			return apperror.NewStateError("no scan is awaiting selection")
		}
		if index < 0 || index >= len(sess.PendingScan) {
			return apperror.NewFieldValidationError("index", "selection index out of range")
		}
		match := sess.PendingScan[index]
		sess.PendingScan = nil
		_, err := sess.Cart.AddLine(match.LineSpec(1))
		return err
	})
}

// CancelScan discards a pending ambiguous scan without adding anything.
func (s *CartService) CancelScan(ctx context.Context, cartID uuid.UUID) (*CartSnapshot, error) {
	return s.mutate(ctx, cartID, func(sess *session.Session) error {
		sess.PendingScan = nil
		return nil
	})
}

// specFor builds a line spec for a product and optional conversion unit.
func specFor(p *entity.Product, unitID *uuid.UUID, quantity int) (cart.LineSpec, error) {
	if unitID == nil {
		return cart.LineSpec{
			ProductID:      p.ID,
			ProductName:    p.Name,
			UnitName:       p.BaseUnit,
			ConversionRate: 1,
			UnitPrice:      p.SellingPrice,
			Taxable:        p.Taxable,
			Quantity:       quantity,
		}, nil
	}
	unit := p.UnitByID(*unitID)
	if unit == nil {
		return cart.LineSpec{}, apperror.NewNotFoundError("Product unit")
	}
	id := unit.ID
	return cart.LineSpec{
		ProductID:      p.ID,
		UnitID:         &id,
		ProductName:    p.Name,
		UnitName:       unit.Name,
		ConversionRate: unit.ConversionRate,
		UnitPrice:      unit.UnitPrice(p.SellingPrice),
		Taxable:        p.Taxable,
		Quantity:       quantity,
	}, nil
}

// AddLine adds a product to the cart in its base or a conversion unit.
func (s *CartService) AddLine(ctx context.Context, cartID, productID uuid.UUID, unitID *uuid.UUID, quantity int) (*CartSnapshot, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	spec, err := specFor(product, unitID, quantity)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, cartID, func(sess *session.Session) error {
		_, err := sess.Cart.AddLine(spec)
		return err
	})
}

// ChangeUnit moves a line onto another selling unit of its product.
func (s *CartService) ChangeUnit(ctx context.Context, cartID, lineID uuid.UUID, unitID *uuid.UUID) (*CartSnapshot, error) {
	sess, err := s.sessions.Get(cartID)
	if err != nil {
		return nil, err
	}

	var productID uuid.UUID
	if err := sess.WithLock(func() error {
		for i := range sess.Cart.Lines {
			if sess.Cart.Lines[i].ID == lineID {
				productID = sess.Cart.Lines[i].ProductID
				return nil
			}
		}
		return apperror.NewNotFoundError("Cart line")
	}); err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	spec, err := specFor(product, unitID, 0)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, cartID, func(sess *session.Session) error {
		_, err := sess.Cart.ChangeUnit(lineID, spec)
		return err
	})
}

// SetQuantity updates a line's quantity; zero or less removes it.
func (s *CartService) SetQuantity(ctx context.Context, cartID, lineID uuid.UUID, quantity int) (*CartSnapshot, error) {
	return s.mutate(ctx, cartID, func(sess *session.Session) error {
		return sess.Cart.SetQuantity(lineID, quantity)
	})
}

// ApplyLineDiscount applies a manual percent or amount discount to a line.
func (s *CartService) ApplyLineDiscount(ctx context.Context, cartID, lineID uuid.UUID, mode cart.DiscountMode, value int64) (*CartSnapshot, error) {
	return s.mutate(ctx, cartID, func(sess *session.Session) error {
		return sess.Cart.ApplyLineDiscount(lineID, mode, value)
	})
}

// RemoveLine deletes a line from the cart.
func (s *CartService) RemoveLine(ctx context.Context, cartID, lineID uuid.UUID) (*CartSnapshot, error) {
	return s.mutate(ctx, cartID, func(sess *session.Session) error {
		return sess.Cart.RemoveLine(lineID)
	})
}

// SetCustomer attaches a loyalty customer to the cart (nil detaches).
func (s *CartService) SetCustomer(ctx context.Context, cartID uuid.UUID, customerID *uuid.UUID) (*CartSnapshot, error) {
	if customerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *customerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
	}
	return s.mutate(ctx, cartID, func(sess *session.Session) error {
		sess.Cart.CustomerID = customerID
		return nil
	})
}
