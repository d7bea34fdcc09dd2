package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	domainRepo "github.com/sangkips/tillpoint-api/internal/domain/repository"
	"gorm.io/gorm"
)

type promotionRepository struct {
	db *gorm.DB
}

// NewPromotionRepository creates a new promotion repository
func NewPromotionRepository(db *gorm.DB) domainRepo.PromotionRepository {
	return &promotionRepository{db: db}
}

func (r *promotionRepository) Create(ctx context.Context, promotion *entity.Promotion) error {
	return conn(ctx, r.db).Create(promotion).Error
}

func (r *promotionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Promotion, error) {
	var promotion entity.Promotion
	err := conn(ctx, r.db).
		Preload("Triggers").
		Preload("Gifts").
		Preload("Gifts.Product").
		First(&promotion, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &promotion, err
}

func (r *promotionRepository) Update(ctx context.Context, promotion *entity.Promotion) error {
	return conn(ctx, r.db).Save(promotion).Error
}

func (r *promotionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Delete(&entity.Promotion{}, "id = ?", id).Error
}

func (r *promotionRepository) List(ctx context.Context) ([]entity.Promotion, error) {
	var promotions []entity.Promotion
	err := conn(ctx, r.db).
		Preload("Triggers").
		Preload("Gifts").
		Order("created_at ASC").
		Find(&promotions).Error
	return promotions, err
}

func (r *promotionRepository) ListActive(ctx context.Context) ([]entity.Promotion, error) {
	var promotions []entity.Promotion
	err := conn(ctx, r.db).
		Preload("Triggers").
		Preload("Gifts").
		Preload("Gifts.Product").
		Where("active = ?", true).
		Order("created_at ASC").
		Find(&promotions).Error
	return promotions, err
}
