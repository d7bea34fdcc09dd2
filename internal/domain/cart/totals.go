package cart

import (
	"github.com/sangkips/tillpoint-api/pkg/apperror"
)

// TotalsInput carries the order-level adjustments applied on top of the cart.
// DiscountAmount and DiscountPercentBps are mutually exclusive; percent is in
// basis points (1250 = 12.5%), as is TaxRateBps.
type TotalsInput struct {
	DiscountAmount     int64
	DiscountPercentBps int64
	PointsUsed         int64
	PointValue         int64
	TaxRateBps         int64
}

// Totals is the aggregated money breakdown of a cart about to settle.
type Totals struct {
	Subtotal        int64 `json:"subtotal"`
	DiscountAmount  int64 `json:"discount_amount"`
	DiscountPercent int64 `json:"discount_percent"`
	TaxAmount       int64 `json:"tax_amount"`
	PointsUsed      int64 `json:"points_used"`
	PointsDiscount  int64 `json:"points_discount"`
	TotalAmount     int64 `json:"total_amount"`
}

// CalculateTotals aggregates cart lines (gifts included, contributing zero)
// into subtotal, discount, tax, points discount and final total:
//
//	total = max(0, subtotal - discount + tax - points_discount)
//
// Tax applies only to lines whose product opts in, on the line total after
// its own discount. The points discount is capped so it can never exceed
// subtotal minus the order discount; points used shrink to fit the cap.
func CalculateTotals(lines []Line, in TotalsInput) (Totals, error) {
	if in.DiscountAmount > 0 && in.DiscountPercentBps > 0 {
		return Totals{}, apperror.NewFieldValidationError("discount",
			"discount amount and discount percent are mutually exclusive")
	}
	if in.DiscountAmount < 0 || in.DiscountPercentBps < 0 || in.PointsUsed < 0 {
		return Totals{}, apperror.NewFieldValidationError("discount", "negative adjustments are not allowed")
	}
	if in.DiscountPercentBps > 10000 {
		in.DiscountPercentBps = 10000
	}

	var subtotal, taxable int64
	for i := range lines {
		subtotal += lines[i].TotalPrice
		if lines[i].Taxable {
			taxable += lines[i].TotalPrice
		}
	}

	discount := in.DiscountAmount
	if in.DiscountPercentBps > 0 {
		discount = subtotal * in.DiscountPercentBps / 10000
	}
	if discount > subtotal {
		discount = subtotal
	}

	tax := taxable * in.TaxRateBps / 10000

	pointsUsed := in.PointsUsed
	pointsDiscount := int64(0)
	if pointsUsed > 0 && in.PointValue > 0 {
		cap := subtotal - discount
		if maxPoints := cap / in.PointValue; pointsUsed > maxPoints {
			pointsUsed = maxPoints
		}
		pointsDiscount = pointsUsed * in.PointValue
	} else {
		pointsUsed = 0
	}

	total := subtotal - discount + tax - pointsDiscount
	if total < 0 {
		total = 0
	}

	return Totals{
		Subtotal:        subtotal,
		DiscountAmount:  discount,
		DiscountPercent: in.DiscountPercentBps,
		TaxAmount:       tax,
		PointsUsed:      pointsUsed,
		PointsDiscount:  pointsDiscount,
		TotalAmount:     total,
	}, nil
}
