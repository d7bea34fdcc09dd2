package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	"github.com/sangkips/tillpoint-api/pkg/pagination"
)

// ProductRepository defines the interface for catalog data operations
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *ProductFilterParams) ([]entity.Product, int64, error)
	// ListCatalog returns the full catalog with units preloaded, in stable
	// catalog order; barcode resolution runs over this snapshot.
	ListCatalog(ctx context.Context) ([]entity.Product, error)
	AddUnit(ctx context.Context, unit *entity.ProductUnit) error
	RemoveUnit(ctx context.Context, unitID uuid.UUID) error
	// AdjustStock atomically applies base-unit deltas (negative = decrement).
	// Products whose stock would go negative without permission are returned
	// as failed and nothing is applied.
	AdjustStock(ctx context.Context, deltas map[uuid.UUID]int) (failed []uuid.UUID, err error)
}

// ProductFilterParams contains filtering parameters for product queries
type ProductFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	LowStock   bool
}
