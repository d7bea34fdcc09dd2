package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	"github.com/sangkips/tillpoint-api/internal/domain/enum"
	"github.com/sangkips/tillpoint-api/internal/domain/repository"
	"github.com/sangkips/tillpoint-api/pkg/apperror"
)

// PromotionService manages auto-gift rules
type PromotionService struct {
	promotionRepo repository.PromotionRepository
	productRepo   repository.ProductRepository
}

// NewPromotionService creates a new promotion service
func NewPromotionService(promotionRepo repository.PromotionRepository, productRepo repository.ProductRepository) *PromotionService {
	return &PromotionService{
		promotionRepo: promotionRepo,
		productRepo:   productRepo,
	}
}

// GiftInput names one giveaway product and its quantity per trigger hit
type GiftInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// CreatePromotionInput represents auto-gift rule creation input
type CreatePromotionInput struct {
	Name        string
	TriggerMode enum.TriggerMode
	TriggerQty  int
	MaxPerOrder int
	StartsAt    *time.Time
	EndsAt      *time.Time
	TriggerIDs  []uuid.UUID
	Gifts       []GiftInput
}

func (s *PromotionService) validateRule(ctx context.Context, in *CreatePromotionInput) error {
	if in.TriggerQty <= 0 {
		return apperror.NewFieldValidationError("trigger_qty", "trigger quantity must be positive")
	}
	if in.MaxPerOrder < 0 {
		return apperror.NewFieldValidationError("max_per_order", "max per order must not be negative")
	}
	if len(in.TriggerIDs) == 0 {
		return apperror.NewFieldValidationError("triggers", "at least one trigger product is required")
	}
	if len(in.Gifts) == 0 {
		return apperror.NewFieldValidationError("gifts", "at least one gift product is required")
	}
	if in.StartsAt != nil && in.EndsAt != nil && in.EndsAt.Before(*in.StartsAt) {
		return apperror.NewFieldValidationError("ends_at", "validity window ends before it starts")
	}

	ids := make([]uuid.UUID, 0, len(in.TriggerIDs)+len(in.Gifts))
	ids = append(ids, in.TriggerIDs...)
	for _, g := range in.Gifts {
		if g.Quantity <= 0 {
			return apperror.NewFieldValidationError("gifts", "gift quantity must be positive")
		}
		ids = append(ids, g.ProductID)
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	known := make(map[uuid.UUID]bool, len(products))
	for i := range products {
		known[products[i].ID] = true
	}
	for _, id := range ids {
		if !known[id] {
			return apperror.NewNotFoundError("Product " + id.String())
		}
	}
	return nil
}

// CreatePromotion creates a new auto-gift rule
func (s *PromotionService) CreatePromotion(ctx context.Context, input *CreatePromotionInput) (*entity.Promotion, error) {
	if err := s.validateRule(ctx, input); err != nil {
		return nil, err
	}

	promotion := &entity.Promotion{
		Name:        input.Name,
		Active:      true,
		TriggerMode: input.TriggerMode,
		TriggerQty:  input.TriggerQty,
		MaxPerOrder: input.MaxPerOrder,
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
	}
	for _, id := range input.TriggerIDs {
		promotion.Triggers = append(promotion.Triggers, entity.PromotionTrigger{ProductID: id})
	}
	for _, g := range input.Gifts {
		promotion.Gifts = append(promotion.Gifts, entity.PromotionGift{ProductID: g.ProductID, Quantity: g.Quantity})
	}

	if err := s.promotionRepo.Create(ctx, promotion); err != nil {
		return nil, err
	}
	return promotion, nil
}

// SetActive enables or disables a rule without touching its definition
func (s *PromotionService) SetActive(ctx context.Context, id uuid.UUID, active bool) (*entity.Promotion, error) {
	promotion, err := s.GetPromotion(ctx, id)
	if err != nil {
		return nil, err
	}
	promotion.Active = active
	if err := s.promotionRepo.Update(ctx, promotion); err != nil {
		return nil, err
	}
	return promotion, nil
}

// GetPromotion returns a rule with triggers and gifts
func (s *PromotionService) GetPromotion(ctx context.Context, id uuid.UUID) (*entity.Promotion, error) {
	promotion, err := s.promotionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if promotion == nil {
		return nil, apperror.NewNotFoundError("Promotion")
	}
	return promotion, nil
}

// DeletePromotion removes a rule. Settled orders keep their gift lines; only
// future evaluations are affected.
func (s *PromotionService) DeletePromotion(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetPromotion(ctx, id); err != nil {
		return err
	}
	return s.promotionRepo.Delete(ctx, id)
}

// ListPromotions returns all rules
func (s *PromotionService) ListPromotions(ctx context.Context) ([]entity.Promotion, error) {
	return s.promotionRepo.List(ctx)
}
