package request

import "github.com/google/uuid"

// OpenCartRequest starts a cart session on a register
type OpenCartRequest struct {
	RegisterID uuid.UUID `json:"register_id" binding:"required"`
}

// ScanRequest carries one scanner event
type ScanRequest struct {
	Code string `json:"code" binding:"required,max=100"`
}

// SelectCandidateRequest resolves an ambiguous scan by candidate index
type SelectCandidateRequest struct {
	Index int `json:"index" binding:"min=0"`
}

// AddLineRequest adds a product to the cart
type AddLineRequest struct {
	ProductID uuid.UUID  `json:"product_id" binding:"required"`
	UnitID    *uuid.UUID `json:"unit_id"`
	Quantity  int        `json:"quantity" binding:"required,min=1"`
}

// ChangeUnitRequest moves a line onto another selling unit
type ChangeUnitRequest struct {
	UnitID *uuid.UUID `json:"unit_id"` // null targets the base unit
}

// SetQuantityRequest updates a line quantity; zero removes the line
type SetQuantityRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}

// LineDiscountRequest applies a manual discount to a line
type LineDiscountRequest struct {
	Mode  string `json:"mode" binding:"required,oneof=percent amount"`
	Value int64  `json:"value" binding:"min=0"`
}

// SetCustomerRequest attaches a customer to the cart; null detaches
type SetCustomerRequest struct {
	CustomerID *uuid.UUID `json:"customer_id"`
}

// CheckoutRequest settles the cart into an order
type CheckoutRequest struct {
	DiscountAmount     int64 `json:"discount_amount" binding:"min=0"`
	DiscountPercentBps int64 `json:"discount_percent_bps" binding:"min=0,max=10000"`
	PointsUsed         int64 `json:"points_used" binding:"min=0"`
	CashReceived       int64 `json:"cash_received" binding:"min=0"`
	CardAmount         int64 `json:"card_amount" binding:"min=0"`
	TransferAmount     int64 `json:"transfer_amount" binding:"min=0"`
	DebtAmount         int64 `json:"debt_amount" binding:"min=0"`
}
