package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/enum"
	"github.com/sangkips/tillpoint-api/pkg/apperror"
	"gorm.io/gorm"
)

// DenominationCount maps a banknote/coin value (minor units) to how many of
// it were counted. The total is always derived, never stored independently.
type DenominationCount map[int64]int

// NewDenominationCount validates raw counts against the configured
// denomination set. Negative counts and unknown denominations are rejected.
func NewDenominationCount(counts map[int64]int, allowed []int64) (DenominationCount, error) {
	allowedSet := make(map[int64]bool, len(allowed))
	for _, d := range allowed {
		allowedSet[d] = true
	}
	dc := make(DenominationCount, len(counts))
	for value, count := range counts {
		if count < 0 {
			return nil, apperror.NewFieldValidationError("denominations",
				fmt.Sprintf("count for denomination %d must not be negative", value))
		}
		if len(allowed) > 0 && !allowedSet[value] {
			return nil, apperror.NewFieldValidationError("denominations",
				fmt.Sprintf("unknown denomination %d", value))
		}
		if count > 0 {
			dc[value] = count
		}
	}
	return dc, nil
}

// Total returns the weighted sum of all counted denominations.
func (d DenominationCount) Total() int64 {
	var total int64
	for value, count := range d {
		total += value * int64(count)
	}
	return total
}

// Shift is one operator's cash-register session. Running tender totals are
// mutated by each settled order while Active, frozen once Reconciling begins
// and immutable after Closed.
type Shift struct {
	ID               uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	OperatorID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"operator_id"`
	RegisterID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"register_id"`
	HandoverPersonID *uuid.UUID `gorm:"type:uuid" json:"handover_person_id,omitempty"`
	SalaryRate       int64      `gorm:"default:0" json:"salary_rate"`
	ClockIn          time.Time  `gorm:"not null" json:"clock_in"`
	ClockOut         *time.Time `json:"clock_out,omitempty"`

	OpeningCash        int64             `gorm:"default:0" json:"opening_cash"`
	OpeningCashDetails DenominationCount `gorm:"serializer:json" json:"opening_cash_details"`
	OpeningBankBalance int64             `gorm:"default:0" json:"opening_bank_balance"`
	ClosingCash        *int64            `json:"closing_cash,omitempty"`
	ClosingCashDetails DenominationCount `gorm:"serializer:json" json:"closing_cash_details,omitempty"`
	ClosingBankBalance *int64            `json:"closing_bank_balance,omitempty"`

	TotalCashSales     int64 `gorm:"default:0" json:"total_cash_sales"`
	TotalCardSales     int64 `gorm:"default:0" json:"total_card_sales"`
	TotalTransferSales int64 `gorm:"default:0" json:"total_transfer_sales"`
	TotalDebtSales     int64 `gorm:"default:0" json:"total_debt_sales"`
	TotalPointSales    int64 `gorm:"default:0" json:"total_point_sales"`
	TotalReturns       int64 `gorm:"default:0" json:"total_returns"`  // Cash refunded to customers
	TotalExpenses      int64 `gorm:"default:0" json:"total_expenses"` // Cash taken from the till
	TotalDebtCollected int64 `gorm:"default:0" json:"total_debt_collected"`
	OrderCount         int   `gorm:"default:0" json:"order_count"`

	ExpectedCash         int64                     `gorm:"default:0" json:"expected_cash"`
	DiscrepancyAmount    int64                     `gorm:"default:0" json:"discrepancy_amount"`
	ReconciliationStatus enum.ReconciliationStatus `gorm:"default:0" json:"reconciliation_status"`
	ReconciliationNotes  *string                   `gorm:"type:text" json:"reconciliation_notes,omitempty"`
	Status               enum.ShiftStatus          `gorm:"default:0;index" json:"status"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Operator User    `gorm:"foreignKey:OperatorID" json:"-"`
	Orders   []Order `gorm:"foreignKey:ShiftID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new shift
func (s *Shift) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Shift model
func (Shift) TableName() string {
	return "shifts"
}

// ComputeExpectedCash returns the cash that should be in the drawer:
// opening cash plus cash sales and cash debt collections, minus cash
// refunds and expenses paid from the till.
func (s *Shift) ComputeExpectedCash() int64 {
	return s.OpeningCash + s.TotalCashSales + s.TotalDebtCollected - s.TotalReturns - s.TotalExpenses
}

// ClassifyDiscrepancy maps counted-minus-expected cash to a provisional
// reconciliation status. Values inside the tolerance count as matched.
func ClassifyDiscrepancy(discrepancy, tolerance int64) enum.ReconciliationStatus {
	if tolerance < 0 {
		tolerance = 0
	}
	switch {
	case discrepancy > tolerance:
		return enum.ReconciliationOver
	case discrepancy < -tolerance:
		return enum.ReconciliationShort
	default:
		return enum.ReconciliationMatched
	}
}
