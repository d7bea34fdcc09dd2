package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	"github.com/sangkips/tillpoint-api/pkg/pagination"
)

// CustomerRepository defines the interface for loyalty customer operations
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *CustomerFilterParams) ([]entity.Customer, int64, error)
	// AddDebt increases the customer's running debt balance (negative pays it down).
	AddDebt(ctx context.Context, id uuid.UUID, amount int64) error
	// AddPoints adjusts the points balance (negative redeems).
	AddPoints(ctx context.Context, id uuid.UUID, points int64) error
}

// CustomerFilterParams contains filtering parameters for customer queries
type CustomerFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	WithDebt   bool
}
