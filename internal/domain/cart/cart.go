// Package cart implements the in-session sale engine: line management with
// multi-unit pricing, barcode resolution, auto-gift evaluation, order totals
// and payment allocation. Everything here is pure computation over snapshots;
// persistence and session locking live in the outer layers.
package cart

import (
	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/pkg/apperror"
)

// Line is one cart entry. UnitID nil means the product's base unit.
// TotalPrice is always quantity x unit price minus discount and is recomputed
// synchronously on every mutation.
type Line struct {
	ID             uuid.UUID  `json:"id"`
	ProductID      uuid.UUID  `json:"product_id"`
	UnitID         *uuid.UUID `json:"unit_id,omitempty"`
	ProductName    string     `json:"product_name"`
	UnitName       string     `json:"unit_name"`
	ConversionRate int        `json:"conversion_rate"`
	Quantity       int        `json:"quantity"`
	UnitPrice      int64      `json:"unit_price"`
	DiscountAmount int64      `json:"discount_amount"`
	TotalPrice     int64      `json:"total_price"`
	Taxable        bool       `json:"taxable"`
	IsGift         bool       `json:"is_gift"`
	PromotionID    *uuid.UUID `json:"promotion_id,omitempty"`
}

// BaseQuantity is the stock this line consumes, in base units.
func (l *Line) BaseQuantity() int {
	rate := l.ConversionRate
	if rate < 1 {
		rate = 1
	}
	return l.Quantity * rate
}

func (l *Line) recompute() {
	max := int64(l.Quantity) * l.UnitPrice
	if l.DiscountAmount < 0 {
		l.DiscountAmount = 0
	}
	if l.DiscountAmount > max {
		l.DiscountAmount = max
	}
	l.TotalPrice = max - l.DiscountAmount
}

// sameTarget reports whether the line sells the same (product, unit) pair.
func (l *Line) sameTarget(productID uuid.UUID, unitID *uuid.UUID) bool {
	if l.ProductID != productID {
		return false
	}
	if (l.UnitID == nil) != (unitID == nil) {
		return false
	}
	return l.UnitID == nil || *l.UnitID == *unitID
}

// Cart is one register session's mutable line collection.
type Cart struct {
	ID         uuid.UUID  `json:"id"`
	OperatorID uuid.UUID  `json:"operator_id"`
	RegisterID uuid.UUID  `json:"register_id"`
	CustomerID *uuid.UUID `json:"customer_id,omitempty"`
	Lines      []Line     `json:"lines"`
}

// New creates an empty cart for an operator/register pair.
func New(operatorID, registerID uuid.UUID) *Cart {
	return &Cart{
		ID:         uuid.New(),
		OperatorID: operatorID,
		RegisterID: registerID,
		Lines:      []Line{},
	}
}

// LineSpec carries everything needed to insert a line; the caller resolves
// product/unit data from the catalog before building one.
type LineSpec struct {
	ProductID      uuid.UUID
	UnitID         *uuid.UUID
	ProductName    string
	UnitName       string
	ConversionRate int
	UnitPrice      int64
	Taxable        bool
	Quantity       int
}

// AddLine inserts a line or merges its quantity into an existing line for
// the same (product, unit). Gift lines are never merge targets.
func (c *Cart) AddLine(spec LineSpec) (*Line, error) {
	if spec.Quantity <= 0 {
		return nil, apperror.NewFieldValidationError("quantity", "quantity must be greater than zero")
	}
	if spec.ConversionRate < 1 {
		spec.ConversionRate = 1
	}

	for i := range c.Lines {
		line := &c.Lines[i]
		if !line.IsGift && line.sameTarget(spec.ProductID, spec.UnitID) {
			line.Quantity += spec.Quantity
			line.recompute()
			return line, nil
		}
	}

	line := Line{
		ID:             uuid.New(),
		ProductID:      spec.ProductID,
		UnitID:         spec.UnitID,
		ProductName:    spec.ProductName,
		UnitName:       spec.UnitName,
		ConversionRate: spec.ConversionRate,
		Quantity:       spec.Quantity,
		UnitPrice:      spec.UnitPrice,
		Taxable:        spec.Taxable,
	}
	line.recompute()
	c.Lines = append(c.Lines, line)
	return &c.Lines[len(c.Lines)-1], nil
}

func (c *Cart) findLine(lineID uuid.UUID) (int, *Line) {
	for i := range c.Lines {
		if c.Lines[i].ID == lineID {
			return i, &c.Lines[i]
		}
	}
	return -1, nil
}

// ChangeUnit swaps a line onto another selling unit of the same product.
// Implemented as remove + reinsert so every derived field is rebuilt from the
// new unit; a line discount does not survive the change because it was
// clamped against the old unit price.
func (c *Cart) ChangeUnit(lineID uuid.UUID, spec LineSpec) (*Line, error) {
	idx, line := c.findLine(lineID)
	if line == nil {
		return nil, apperror.NewNotFoundError("Cart line")
	}
	if line.IsGift {
		return nil, apperror.NewStateError("gift lines are managed by promotions and cannot be edited")
	}
	if spec.ProductID != line.ProductID {
		return nil, apperror.NewFieldValidationError("unit_id", "unit does not belong to the line's product")
	}
	quantity := line.Quantity
	c.Lines = append(c.Lines[:idx], c.Lines[idx+1:]...)

	spec.Quantity = quantity
	return c.AddLine(spec)
}

// SetQuantity updates a line's quantity; zero or less removes the line so a
// zero-quantity line can never persist.
func (c *Cart) SetQuantity(lineID uuid.UUID, quantity int) error {
	_, line := c.findLine(lineID)
	if line == nil {
		return apperror.NewNotFoundError("Cart line")
	}
	if line.IsGift {
		return apperror.NewStateError("gift lines are managed by promotions and cannot be edited")
	}
	if quantity <= 0 {
		return c.RemoveLine(lineID)
	}
	line.Quantity = quantity
	line.recompute()
	return nil
}

// DiscountMode selects how ApplyLineDiscount interprets its value.
type DiscountMode string

const (
	DiscountPercent DiscountMode = "percent"
	DiscountAmount  DiscountMode = "amount"
)

// ApplyLineDiscount applies a manual discount to a non-gift line. Percent is
// clamped to [0,100], amounts to [0, quantity x unit price].
func (c *Cart) ApplyLineDiscount(lineID uuid.UUID, mode DiscountMode, value int64) error {
	_, line := c.findLine(lineID)
	if line == nil {
		return apperror.NewNotFoundError("Cart line")
	}
	if line.IsGift {
		return apperror.NewStateError("gift lines are managed by promotions and cannot be discounted")
	}

	switch mode {
	case DiscountPercent:
		if value < 0 {
			value = 0
		}
		if value > 100 {
			value = 100
		}
		line.DiscountAmount = int64(line.Quantity) * line.UnitPrice * value / 100
	case DiscountAmount:
		line.DiscountAmount = value
	default:
		return apperror.NewFieldValidationError("mode", "discount mode must be percent or amount")
	}
	line.recompute()
	return nil
}

// RemoveLine deletes a line by id.
func (c *Cart) RemoveLine(lineID uuid.UUID) error {
	idx, line := c.findLine(lineID)
	if line == nil {
		return apperror.NewNotFoundError("Cart line")
	}
	c.Lines = append(c.Lines[:idx], c.Lines[idx+1:]...)
	return nil
}

// SetGiftLines replaces every gift line with a freshly evaluated set. Gift
// lines are regenerated wholesale, never patched, so a rule that stops
// qualifying leaves no orphan behind.
func (c *Cart) SetGiftLines(gifts []Line) {
	kept := c.Lines[:0]
	for _, line := range c.Lines {
		if !line.IsGift {
			kept = append(kept, line)
		}
	}
	c.Lines = append(kept, gifts...)
}

// NonGiftLines returns the operator-entered lines.
func (c *Cart) NonGiftLines() []Line {
	lines := make([]Line, 0, len(c.Lines))
	for _, line := range c.Lines {
		if !line.IsGift {
			lines = append(lines, line)
		}
	}
	return lines
}

// Subtotal sums every line's total price. Gift lines contribute zero by
// construction.
func (c *Cart) Subtotal() int64 {
	var subtotal int64
	for i := range c.Lines {
		subtotal += c.Lines[i].TotalPrice
	}
	return subtotal
}

// IsEmpty reports whether the cart holds no operator-entered lines.
func (c *Cart) IsEmpty() bool {
	for i := range c.Lines {
		if !c.Lines[i].IsGift {
			return false
		}
	}
	return true
}
