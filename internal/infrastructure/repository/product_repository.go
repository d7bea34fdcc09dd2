package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	domainRepo "github.com/sangkips/tillpoint-api/internal/domain/repository"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	return conn(ctx, r.db).Create(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	err := conn(ctx, r.db).Preload("Units").First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	var products []entity.Product
	err := conn(ctx, r.db).Preload("Units").Where("id IN ?", ids).Find(&products).Error
	return products, err
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	return conn(ctx, r.db).Save(product).Error
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Delete(&entity.Product{}, "id = ?", id).Error
}

func (r *productRepository) List(ctx context.Context, params *domainRepo.ProductFilterParams) ([]entity.Product, int64, error) {
	var products []entity.Product
	var total int64

	query := conn(ctx, r.db).Model(&entity.Product{})
	if params.Search != "" {
		like := "%" + params.Search + "%"
		query = query.Where("name LIKE ? OR sku LIKE ? OR barcode LIKE ?", like, like, like)
	}
	if params.LowStock {
		query = query.Where("quantity <= quantity_alert")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Units").
		Order("created_at ASC").
		Find(&products).Error

	return products, total, err
}

func (r *productRepository) ListCatalog(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	err := conn(ctx, r.db).
		Preload("Units", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Order("created_at ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepository) AddUnit(ctx context.Context, unit *entity.ProductUnit) error {
	return conn(ctx, r.db).Create(unit).Error
}

func (r *productRepository) RemoveUnit(ctx context.Context, unitID uuid.UUID) error {
	return conn(ctx, r.db).Delete(&entity.ProductUnit{}, "id = ?", unitID).Error
}

// AdjustStock applies base-unit deltas guarded against negative stock unless
// the product allows it. Run inside a settlement transaction the guard makes
// oversells roll the whole order back.
func (r *productRepository) AdjustStock(ctx context.Context, deltas map[uuid.UUID]int) ([]uuid.UUID, error) {
	db := conn(ctx, r.db)
	var failed []uuid.UUID

	for productID, delta := range deltas {
		if delta == 0 {
			continue
		}
		q := db.Model(&entity.Product{}).Where("id = ?", productID)
		if delta < 0 {
			q = q.Where("allow_negative_stock = ? OR quantity >= ?", true, -delta)
		}
		res := q.Update("quantity", gorm.Expr("quantity + ?", delta))
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			failed = append(failed, productID)
		}
	}
	return failed, nil
}
