package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/config"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	"github.com/sangkips/tillpoint-api/internal/domain/enum"
	"github.com/sangkips/tillpoint-api/internal/domain/repository"
	"github.com/sangkips/tillpoint-api/pkg/apperror"
)

// ShiftService manages the cash-shift lifecycle: clock-in (fresh or drawer
// handover), mid-shift cash movements, and the two-step reconciliation close.
type ShiftService struct {
	shiftRepo    repository.ShiftRepository
	userRepo     repository.UserRepository
	customerRepo repository.CustomerRepository
	tx           repository.TxManager
	pos          config.POSConfig

	// clockInMu serializes clock-in attempts per operator/register pair so
	// two concurrent requests cannot both pass the active-shift check.
	clockInMu sync.Map
}

// NewShiftService creates a new shift service
func NewShiftService(
	shiftRepo repository.ShiftRepository,
	userRepo repository.UserRepository,
	customerRepo repository.CustomerRepository,
	tx repository.TxManager,
	pos config.POSConfig,
) *ShiftService {
	return &ShiftService{
		shiftRepo:    shiftRepo,
		userRepo:     userRepo,
		customerRepo: customerRepo,
		tx:           tx,
		pos:          pos,
	}
}

func (s *ShiftService) lockPair(operatorID, registerID uuid.UUID) func() {
	key := operatorID.String() + "/" + registerID.String()
	muAny, _ := s.clockInMu.LoadOrStore(key, &sync.Mutex{})
	mu := muAny.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Clock-in modes. A handover inherits the previous closed shift's counted
// drawer instead of re-counting it.
const (
	ClockInModeNew      = "new"
	ClockInModeHandover = "handover"
)

// ClockInInput carries one clock-in attempt.
type ClockInInput struct {
	OperatorID         uuid.UUID
	RegisterID         uuid.UUID
	Mode               string
	OpeningCashCounts  map[int64]int
	OpeningBankBalance int64
}

// ClockIn opens a shift. An operator can hold at most one non-closed shift
// per register; a second clock-in on the same pair is rejected.
func (s *ShiftService) ClockIn(ctx context.Context, in ClockInInput) (*entity.Shift, error) {
	unlock := s.lockPair(in.OperatorID, in.RegisterID)
	defer unlock()

	existing, err := s.shiftRepo.GetActive(ctx, in.OperatorID, in.RegisterID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewStateError("operator already has an open shift on this register")
	}

	operator, err := s.userRepo.GetByID(ctx, in.OperatorID)
	if err != nil {
		return nil, err
	}
	if operator == nil {
		return nil, apperror.NewNotFoundError("Operator")
	}

	shift := &entity.Shift{
		OperatorID:         in.OperatorID,
		RegisterID:         in.RegisterID,
		SalaryRate:         operator.SalaryRate,
		ClockIn:            time.Now(),
		OpeningBankBalance: in.OpeningBankBalance,
		Status:             enum.ShiftStatusActive,
	}

	switch in.Mode {
	case ClockInModeHandover:
		prev, err := s.shiftRepo.GetLastClosed(ctx, in.RegisterID)
		if err != nil {
			return nil, err
		}
		if prev == nil || prev.ClosingCash == nil {
			return nil, apperror.NewStateError("no closed shift is available to hand over from")
		}
		shift.OpeningCash = *prev.ClosingCash
		shift.OpeningCashDetails = prev.ClosingCashDetails
		if prev.ClosingBankBalance != nil {
			shift.OpeningBankBalance = *prev.ClosingBankBalance
		}
		shift.HandoverPersonID = &prev.OperatorID
	case ClockInModeNew, "":
		details, err := entity.NewDenominationCount(in.OpeningCashCounts, s.pos.CashDenominations)
		if err != nil {
			return nil, err
		}
		shift.OpeningCash = details.Total()
		shift.OpeningCashDetails = details
	default:
		return nil, apperror.NewFieldValidationError("mode", "mode must be 'new' or 'handover'")
	}

	if err := s.shiftRepo.Create(ctx, shift); err != nil {
		return nil, err
	}
	return shift, nil
}

// activeShift loads a shift and requires it to be Active.
func (s *ShiftService) activeShift(ctx context.Context, id uuid.UUID) (*entity.Shift, error) {
	shift, err := s.shiftRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, apperror.NewNotFoundError("Shift")
	}
	if shift.Status != enum.ShiftStatusActive {
		return nil, apperror.NewStateError("shift is not active")
	}
	return shift, nil
}

// RecordExpense registers cash taken out of the till during the shift.
// The counter moves by an atomic increment so concurrent movements and
// settlements never overwrite each other's totals.
func (s *ShiftService) RecordExpense(ctx context.Context, shiftID uuid.UUID, amount int64) (*entity.Shift, error) {
	if amount <= 0 {
		return nil, apperror.NewFieldValidationError("amount", "amount must be positive")
	}
	if _, err := s.activeShift(ctx, shiftID); err != nil {
		return nil, err
	}
	if err := s.shiftRepo.AddExpense(ctx, shiftID, amount); err != nil {
		return nil, err
	}
	return s.shiftRepo.GetByID(ctx, shiftID)
}

// RecordReturn registers cash refunded to a customer during the shift.
func (s *ShiftService) RecordReturn(ctx context.Context, shiftID uuid.UUID, amount int64) (*entity.Shift, error) {
	if amount <= 0 {
		return nil, apperror.NewFieldValidationError("amount", "amount must be positive")
	}
	if _, err := s.activeShift(ctx, shiftID); err != nil {
		return nil, err
	}
	if err := s.shiftRepo.AddReturn(ctx, shiftID, amount); err != nil {
		return nil, err
	}
	return s.shiftRepo.GetByID(ctx, shiftID)
}

// RecordDebtCollection registers cash a customer paid against their debt
// balance. The drawer credit and the balance decrement commit together.
func (s *ShiftService) RecordDebtCollection(ctx context.Context, shiftID, customerID uuid.UUID, amount int64) (*entity.Shift, error) {
	if amount <= 0 {
		return nil, apperror.NewFieldValidationError("amount", "amount must be positive")
	}
	if _, err := s.activeShift(ctx, shiftID); err != nil {
		return nil, err
	}
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	err = s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.shiftRepo.AddDebtCollected(txCtx, shiftID, amount); err != nil {
			return err
		}
		return s.customerRepo.AddDebt(txCtx, customerID, -amount)
	})
	if err != nil {
		return nil, err
	}
	return s.shiftRepo.GetByID(ctx, shiftID)
}

// ReconciliationResult is the provisional settlement picture shown to the
// operator while the shift sits in Reconciling.
type ReconciliationResult struct {
	Shift             *entity.Shift             `json:"shift"`
	ExpectedCash      int64                     `json:"expected_cash"`
	CountedCash       int64                     `json:"counted_cash"`
	DiscrepancyAmount int64                     `json:"discrepancy_amount"`
	ProvisionalStatus enum.ReconciliationStatus `json:"provisional_status"`
}

// BeginReconciliation moves an active shift to Reconciling. The counted
// drawer is recorded, expected cash and the discrepancy are computed, and a
// provisional over/short/matched classification comes back, but the stored
// reconciliation status stays Pending until the operator confirms.
func (s *ShiftService) BeginReconciliation(ctx context.Context, shiftID uuid.UUID, countedCounts map[int64]int, closingBankBalance *int64) (*ReconciliationResult, error) {
	details, err := entity.NewDenominationCount(countedCounts, s.pos.CashDenominations)
	if err != nil {
		return nil, err
	}
	if _, err := s.activeShift(ctx, shiftID); err != nil {
		return nil, err
	}

	// Freeze before reading the totals. Once Reconciling, no settlement or
	// cash movement can fold new amounts in, so the snapshot below reads
	// final figures; any settlement still in flight fails its state gate
	// and rolls back.
	if err := s.shiftRepo.TransitionStatus(ctx, shiftID, enum.ShiftStatusActive, enum.ShiftStatusReconciling); err != nil {
		return nil, err
	}

	shift, err := s.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	counted := details.Total()

	expected := shift.ComputeExpectedCash()
	discrepancy := counted - expected

	shift.ClosingCash = &counted
	shift.ClosingCashDetails = details
	shift.ClosingBankBalance = closingBankBalance
	shift.ExpectedCash = expected
	shift.DiscrepancyAmount = discrepancy
	shift.ReconciliationStatus = enum.ReconciliationPending

	if err := s.shiftRepo.Update(ctx, shift); err != nil {
		return nil, err
	}

	return &ReconciliationResult{
		Shift:             shift,
		ExpectedCash:      expected,
		CountedCash:       counted,
		DiscrepancyAmount: discrepancy,
		ProvisionalStatus: entity.ClassifyDiscrepancy(discrepancy, s.pos.ReconciliationTolerance),
	}, nil
}

// CancelReconciliation abandons a pending reconciliation and returns the
// shift to Active with no side effects; the counted figures are discarded.
func (s *ShiftService) CancelReconciliation(ctx context.Context, shiftID uuid.UUID) (*entity.Shift, error) {
	shift, err := s.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, apperror.NewNotFoundError("Shift")
	}
	if shift.Status != enum.ShiftStatusReconciling {
		return nil, apperror.NewStateError("shift is not reconciling")
	}

	shift.Status = enum.ShiftStatusActive
	shift.ClosingCash = nil
	shift.ClosingCashDetails = nil
	shift.ClosingBankBalance = nil
	shift.ExpectedCash = 0
	shift.DiscrepancyAmount = 0
	shift.ReconciliationStatus = enum.ReconciliationPending

	if err := s.shiftRepo.Update(ctx, shift); err != nil {
		return nil, err
	}
	return shift, nil
}

// ConfirmClose finalizes a reconciling shift. The discrepancy is classified
// and recorded as-is; an over or short drawer never blocks the close. Closed
// shifts are immutable.
func (s *ShiftService) ConfirmClose(ctx context.Context, shiftID uuid.UUID, notes string) (*entity.Shift, error) {
	shift, err := s.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, apperror.NewNotFoundError("Shift")
	}
	if shift.Status != enum.ShiftStatusReconciling {
		return nil, apperror.NewStateError("shift close requires a pending reconciliation")
	}

	now := time.Now()
	shift.Status = enum.ShiftStatusClosed
	shift.ClockOut = &now
	shift.ReconciliationStatus = entity.ClassifyDiscrepancy(shift.DiscrepancyAmount, s.pos.ReconciliationTolerance)
	if notes != "" {
		shift.ReconciliationNotes = &notes
	}

	if err := s.shiftRepo.Update(ctx, shift); err != nil {
		return nil, err
	}
	return shift, nil
}

// GetShift returns a shift by id.
func (s *ShiftService) GetShift(ctx context.Context, id uuid.UUID) (*entity.Shift, error) {
	shift, err := s.shiftRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, apperror.NewNotFoundError("Shift")
	}
	return shift, nil
}

// GetActiveShift returns the operator's open shift on a register, if any.
func (s *ShiftService) GetActiveShift(ctx context.Context, operatorID, registerID uuid.UUID) (*entity.Shift, error) {
	shift, err := s.shiftRepo.GetActive(ctx, operatorID, registerID)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, apperror.NewNotFoundError("Active shift")
	}
	return shift, nil
}

// ListShifts returns shifts matching the filter.
func (s *ShiftService) ListShifts(ctx context.Context, params *repository.ShiftFilterParams) ([]entity.Shift, int64, error) {
	return s.shiftRepo.List(ctx, params)
}
