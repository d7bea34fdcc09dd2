package request

import "github.com/google/uuid"

// ClockInRequest opens a shift on a register. Denomination counts map the
// banknote value in minor units to how many were counted.
type ClockInRequest struct {
	RegisterID         uuid.UUID     `json:"register_id" binding:"required"`
	Mode               string        `json:"mode" binding:"omitempty,oneof=new handover"`
	OpeningCashCounts  map[int64]int `json:"opening_cash_counts"`
	OpeningBankBalance int64         `json:"opening_bank_balance" binding:"min=0"`
}

// CashMovementRequest records a mid-shift expense or return
type CashMovementRequest struct {
	Amount int64 `json:"amount" binding:"required,min=1"`
}

// DebtCollectionRequest records cash collected against a customer's debt
type DebtCollectionRequest struct {
	CustomerID uuid.UUID `json:"customer_id" binding:"required"`
	Amount     int64     `json:"amount" binding:"required,min=1"`
}

// BeginReconciliationRequest freezes the shift with a counted drawer
type BeginReconciliationRequest struct {
	CountedCashCounts  map[int64]int `json:"counted_cash_counts" binding:"required"`
	ClosingBankBalance *int64        `json:"closing_bank_balance" binding:"omitempty,min=0"`
}

// ConfirmCloseRequest finalizes a reconciling shift
type ConfirmCloseRequest struct {
	Notes string `json:"notes" binding:"omitempty,max=2000"`
}
