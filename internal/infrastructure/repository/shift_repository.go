package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	"github.com/sangkips/tillpoint-api/internal/domain/enum"
	domainRepo "github.com/sangkips/tillpoint-api/internal/domain/repository"
	"github.com/sangkips/tillpoint-api/pkg/apperror"
	"gorm.io/gorm"
)

type shiftRepository struct {
	db *gorm.DB
}

// NewShiftRepository creates a new shift repository
func NewShiftRepository(db *gorm.DB) domainRepo.ShiftRepository {
	return &shiftRepository{db: db}
}

func (r *shiftRepository) Create(ctx context.Context, shift *entity.Shift) error {
	return conn(ctx, r.db).Create(shift).Error
}

func (r *shiftRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Shift, error) {
	var shift entity.Shift
	err := conn(ctx, r.db).First(&shift, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &shift, err
}

func (r *shiftRepository) Update(ctx context.Context, shift *entity.Shift) error {
	return conn(ctx, r.db).Save(shift).Error
}

func (r *shiftRepository) GetActive(ctx context.Context, operatorID, registerID uuid.UUID) (*entity.Shift, error) {
	var shift entity.Shift
	err := conn(ctx, r.db).
		Where("operator_id = ? AND register_id = ? AND status <> ?",
			operatorID, registerID, enum.ShiftStatusClosed).
		Order("clock_in DESC").
		First(&shift).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &shift, err
}

func (r *shiftRepository) GetLastClosed(ctx context.Context, registerID uuid.UUID) (*entity.Shift, error) {
	var shift entity.Shift
	err := conn(ctx, r.db).
		Where("register_id = ? AND status = ?", registerID, enum.ShiftStatusClosed).
		Order("clock_out DESC").
		First(&shift).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &shift, err
}

// activeIncrement applies column increments to a shift only while it is
// Active. Zero rows affected means the shift changed state underneath the
// caller; the increment is refused so totals can never land on a frozen or
// closed shift.
func (r *shiftRepository) activeIncrement(ctx context.Context, shiftID uuid.UUID, updates map[string]interface{}) error {
	res := conn(ctx, r.db).Model(&entity.Shift{}).
		Where("id = ? AND status = ?", shiftID, enum.ShiftStatusActive).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NewStateError("shift is not active")
	}
	return nil
}

func (r *shiftRepository) TransitionStatus(ctx context.Context, shiftID uuid.UUID, from, to enum.ShiftStatus) error {
	res := conn(ctx, r.db).Model(&entity.Shift{}).
		Where("id = ? AND status = ?", shiftID, from).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NewStateError("shift state changed concurrently")
	}
	return nil
}

func (r *shiftRepository) FoldOrderTotals(ctx context.Context, shiftID uuid.UUID, order *entity.Order) error {
	return r.activeIncrement(ctx, shiftID, map[string]interface{}{
		"total_cash_sales":     gorm.Expr("total_cash_sales + ?", order.CashReceived-order.ChangeAmount),
		"total_card_sales":     gorm.Expr("total_card_sales + ?", order.CardAmount),
		"total_transfer_sales": gorm.Expr("total_transfer_sales + ?", order.TransferAmount),
		"total_debt_sales":     gorm.Expr("total_debt_sales + ?", order.DebtAmount),
		"total_point_sales":    gorm.Expr("total_point_sales + ?", order.PointsDiscount),
		"order_count":          gorm.Expr("order_count + 1"),
	})
}

func (r *shiftRepository) AddExpense(ctx context.Context, shiftID uuid.UUID, amount int64) error {
	return r.activeIncrement(ctx, shiftID, map[string]interface{}{
		"total_expenses": gorm.Expr("total_expenses + ?", amount),
	})
}

func (r *shiftRepository) AddReturn(ctx context.Context, shiftID uuid.UUID, amount int64) error {
	return r.activeIncrement(ctx, shiftID, map[string]interface{}{
		"total_returns": gorm.Expr("total_returns + ?", amount),
	})
}

func (r *shiftRepository) AddDebtCollected(ctx context.Context, shiftID uuid.UUID, amount int64) error {
	return r.activeIncrement(ctx, shiftID, map[string]interface{}{
		"total_debt_collected": gorm.Expr("total_debt_collected + ?", amount),
	})
}

func (r *shiftRepository) List(ctx context.Context, params *domainRepo.ShiftFilterParams) ([]entity.Shift, int64, error) {
	var shifts []entity.Shift
	var total int64

	query := conn(ctx, r.db).Model(&entity.Shift{})
	if params.OperatorID != nil {
		query = query.Where("operator_id = ?", *params.OperatorID)
	}
	if params.RegisterID != nil {
		query = query.Where("register_id = ?", *params.RegisterID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("clock_in DESC").
		Find(&shifts).Error

	return shifts, total, err
}
