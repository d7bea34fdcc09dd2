package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
)

// PromotionRepository defines the interface for auto-gift rule operations
type PromotionRepository interface {
	Create(ctx context.Context, promotion *entity.Promotion) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Promotion, error)
	Update(ctx context.Context, promotion *entity.Promotion) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]entity.Promotion, error)
	// ListActive returns enabled rules with triggers and gift products
	// preloaded, in creation order so evaluation stays deterministic.
	ListActive(ctx context.Context) ([]entity.Promotion, error)
}
