package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	"github.com/sangkips/tillpoint-api/internal/domain/enum"
	"github.com/sangkips/tillpoint-api/pkg/pagination"
)

// ShiftRepository defines the interface for cash-shift operations
type ShiftRepository interface {
	Create(ctx context.Context, shift *entity.Shift) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Shift, error)
	Update(ctx context.Context, shift *entity.Shift) error
	// GetActive returns the one non-closed shift for an operator/register
	// pair, or nil when there is none.
	GetActive(ctx context.Context, operatorID, registerID uuid.UUID) (*entity.Shift, error)
	// GetLastClosed returns the most recently closed shift on a register,
	// used to carry closing figures forward on handover clock-in.
	GetLastClosed(ctx context.Context, registerID uuid.UUID) (*entity.Shift, error)
	List(ctx context.Context, params *ShiftFilterParams) ([]entity.Shift, int64, error)

	// TransitionStatus moves a shift between lifecycle states as one guarded
	// update; a shift no longer in the expected source state is refused.
	TransitionStatus(ctx context.Context, shiftID uuid.UUID, from, to enum.ShiftStatus) error
	// FoldOrderTotals adds a settled order's tender amounts to a shift's
	// running totals as one atomic increment, gated on the shift still being
	// Active. A settlement racing reconciliation gets a state error instead
	// of writing stale totals, and concurrent settlements never overwrite
	// each other.
	FoldOrderTotals(ctx context.Context, shiftID uuid.UUID, order *entity.Order) error
	// AddExpense, AddReturn and AddDebtCollected atomically increment one
	// cash counter on an Active shift under the same state gate.
	AddExpense(ctx context.Context, shiftID uuid.UUID, amount int64) error
	AddReturn(ctx context.Context, shiftID uuid.UUID, amount int64) error
	AddDebtCollected(ctx context.Context, shiftID uuid.UUID, amount int64) error
}

// ShiftFilterParams contains filtering parameters for shift queries
type ShiftFilterParams struct {
	Pagination *pagination.PaginationParams
	OperatorID *uuid.UUID
	RegisterID *uuid.UUID
}
