package cart

import (
	"github.com/sangkips/tillpoint-api/internal/domain/enum"
	"github.com/sangkips/tillpoint-api/pkg/apperror"
)

// Tender is what the customer hands over, split by method. Amounts are minor
// units; debt is the portion deferred onto a known customer's balance.
type Tender struct {
	CashReceived   int64 `json:"cash_received"`
	CardAmount     int64 `json:"card_amount"`
	TransferAmount int64 `json:"transfer_amount"`
	DebtAmount     int64 `json:"debt_amount"`
}

// Allocation is the settled payment split for an order.
type Allocation struct {
	CashReceived   int64              `json:"cash_received"`
	ChangeAmount   int64              `json:"change_amount"`
	CardAmount     int64              `json:"card_amount"`
	TransferAmount int64              `json:"transfer_amount"`
	DebtAmount     int64              `json:"debt_amount"`
	PaidAmount     int64              `json:"paid_amount"`
	RemainingDebt  int64              `json:"remaining_debt"`
	PaymentStatus  enum.PaymentStatus `json:"payment_status"`
	PaymentMethod  string             `json:"payment_method"`
}

// AllocatePayment splits a settled total across tenders. The tender sum must
// cover the total; only cash can overpay, and the surplus comes back as
// change. A debt tender requires a known, non-anonymous customer.
// pointsDiscount only informs the summary payment method; the total is
// already net of it.
func AllocatePayment(totalAmount, pointsDiscount int64, t Tender, hasCustomer bool) (Allocation, error) {
	if totalAmount < 0 {
		return Allocation{}, apperror.NewFieldValidationError("total_amount", "total must not be negative")
	}
	if t.CashReceived < 0 || t.CardAmount < 0 || t.TransferAmount < 0 || t.DebtAmount < 0 {
		return Allocation{}, apperror.NewFieldValidationError("tenders", "tender amounts must not be negative")
	}
	if t.DebtAmount > 0 && !hasCustomer {
		return Allocation{}, apperror.NewFieldValidationError("debt_amount",
			"debt payment requires a known customer")
	}

	nonCash := t.CardAmount + t.TransferAmount + t.DebtAmount
	if nonCash > totalAmount {
		return Allocation{}, apperror.NewConsistencyError("non-cash tenders exceed the order total")
	}

	cashDue := totalAmount - nonCash
	if t.CashReceived < cashDue {
		return Allocation{}, apperror.NewConsistencyError("tendered amounts do not cover the order total")
	}
	change := t.CashReceived - cashDue

	alloc := Allocation{
		CashReceived:   t.CashReceived,
		ChangeAmount:   change,
		CardAmount:     t.CardAmount,
		TransferAmount: t.TransferAmount,
		DebtAmount:     t.DebtAmount,
		PaidAmount:     totalAmount - t.DebtAmount,
		RemainingDebt:  t.DebtAmount,
		PaymentStatus:  enum.PaymentStatusPaid,
	}
	if alloc.RemainingDebt > 0 {
		alloc.PaymentStatus = enum.PaymentStatusPartial
	}
	alloc.PaymentMethod = summarizeMethod(alloc, pointsDiscount, cashDue)
	return alloc, nil
}

// summarizeMethod names the tender mix for reporting: a single method keeps
// its name, anything else is "mixed".
func summarizeMethod(a Allocation, pointsDiscount, cashDue int64) string {
	var methods []string
	if cashDue > 0 {
		methods = append(methods, "cash")
	}
	if a.CardAmount > 0 {
		methods = append(methods, "card")
	}
	if a.TransferAmount > 0 {
		methods = append(methods, "transfer")
	}
	if a.DebtAmount > 0 {
		methods = append(methods, "debt")
	}
	if pointsDiscount > 0 {
		methods = append(methods, "points")
	}
	switch len(methods) {
	case 0:
		return "cash"
	case 1:
		return methods[0]
	default:
		return "mixed"
	}
}
