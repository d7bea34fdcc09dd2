package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	"github.com/sangkips/tillpoint-api/internal/domain/repository"
	"github.com/sangkips/tillpoint-api/pkg/apperror"
	"github.com/sangkips/tillpoint-api/pkg/utils"
)

// ProductService handles catalog operations
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// CreateProductInput represents product creation input
type CreateProductInput struct {
	Name               string
	SKU                string
	Barcode            *string
	BaseUnit           string
	SellingPrice       int64
	Taxable            bool
	Quantity           int
	QuantityAlert      int
	AllowNegativeStock bool
}

// CreateProduct creates a new catalog product
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	if input.SellingPrice < 0 {
		return nil, apperror.NewFieldValidationError("selling_price", "price must not be negative")
	}

	sku := input.SKU
	if sku == "" {
		sku = utils.GenerateSKU()
	}
	baseUnit := input.BaseUnit
	if baseUnit == "" {
		baseUnit = "pcs"
	}

	product := &entity.Product{
		Name:               input.Name,
		SKU:                sku,
		Barcode:            input.Barcode,
		BaseUnit:           baseUnit,
		SellingPrice:       input.SellingPrice,
		Taxable:            input.Taxable,
		Quantity:           input.Quantity,
		QuantityAlert:      input.QuantityAlert,
		AllowNegativeStock: input.AllowNegativeStock,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProductInput represents product update input; nil fields are unchanged
type UpdateProductInput struct {
	Name               *string
	Barcode            *string
	SellingPrice       *int64
	Taxable            *bool
	QuantityAlert      *int
	AllowNegativeStock *bool
}

// UpdateProduct updates a catalog product
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Barcode != nil {
		product.Barcode = input.Barcode
	}
	if input.SellingPrice != nil {
		if *input.SellingPrice < 0 {
			return nil, apperror.NewFieldValidationError("selling_price", "price must not be negative")
		}
		product.SellingPrice = *input.SellingPrice
	}
	if input.Taxable != nil {
		product.Taxable = *input.Taxable
	}
	if input.QuantityAlert != nil {
		product.QuantityAlert = *input.QuantityAlert
	}
	if input.AllowNegativeStock != nil {
		product.AllowNegativeStock = *input.AllowNegativeStock
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetProduct returns a product with its units
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// DeleteProduct removes a product from the catalog
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}
	return s.productRepo.Delete(ctx, id)
}

// ListProducts returns products matching the filter
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	return s.productRepo.List(ctx, params)
}

// AddUnitInput represents a conversion unit creation input
type AddUnitInput struct {
	Name           string
	ConversionRate int
	Price          *int64
	Barcode        *string
}

// AddUnit attaches a conversion selling unit to a product
func (s *ProductService) AddUnit(ctx context.Context, productID uuid.UUID, input *AddUnitInput) (*entity.ProductUnit, error) {
	if input.ConversionRate <= 0 {
		return nil, apperror.NewFieldValidationError("conversion_rate", "conversion rate must be positive")
	}
	if input.Price != nil && *input.Price < 0 {
		return nil, apperror.NewFieldValidationError("price", "price must not be negative")
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	unit := &entity.ProductUnit{
		ProductID:      productID,
		Name:           input.Name,
		ConversionRate: input.ConversionRate,
		Price:          input.Price,
		Barcode:        input.Barcode,
	}
	if err := s.productRepo.AddUnit(ctx, unit); err != nil {
		return nil, err
	}
	return unit, nil
}

// RemoveUnit detaches a conversion unit from its product
func (s *ProductService) RemoveUnit(ctx context.Context, unitID uuid.UUID) error {
	return s.productRepo.RemoveUnit(ctx, unitID)
}

// AdjustStock applies a manual stock correction in base units
func (s *ProductService) AdjustStock(ctx context.Context, productID uuid.UUID, delta int) (*entity.Product, error) {
	failed, err := s.productRepo.AdjustStock(ctx, map[uuid.UUID]int{productID: delta})
	if err != nil {
		return nil, err
	}
	if len(failed) > 0 {
		return nil, apperror.NewConsistencyError("adjustment would make stock negative")
	}
	return s.GetProduct(ctx, productID)
}
