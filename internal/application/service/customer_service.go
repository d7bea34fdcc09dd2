package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	"github.com/sangkips/tillpoint-api/internal/domain/repository"
	"github.com/sangkips/tillpoint-api/pkg/apperror"
)

// CustomerService handles loyalty customer operations
type CustomerService struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// CreateCustomerInput represents customer creation input
type CreateCustomerInput struct {
	Name    string
	Phone   string
	Email   string
	Address string
}

// CreateCustomer creates a new loyalty customer
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CreateCustomerInput) (*entity.Customer, error) {
	customer := &entity.Customer{
		Name:    input.Name,
		Phone:   &input.Phone,
		Email:   &input.Email,
		Address: &input.Address,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// UpdateCustomerInput represents customer update input; nil fields are unchanged
type UpdateCustomerInput struct {
	Name    *string
	Phone   *string
	Email   *string
	Address *string
}

// UpdateCustomer updates a loyalty customer
func (s *CustomerService) UpdateCustomer(ctx context.Context, id uuid.UUID, input *UpdateCustomerInput) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	if input.Name != nil {
		customer.Name = *input.Name
	}
	if input.Phone != nil {
		customer.Phone = input.Phone
	}
	if input.Email != nil {
		customer.Email = input.Email
	}
	if input.Address != nil {
		customer.Address = input.Address
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomer returns a customer by id
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// DeleteCustomer removes a customer. Customers still carrying debt cannot be
// deleted.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if customer == nil {
		return apperror.NewNotFoundError("Customer")
	}
	if customer.DebtBalance > 0 {
		return apperror.NewStateError("customer has outstanding debt")
	}
	return s.customerRepo.Delete(ctx, id)
}

// ListCustomers returns customers matching the filter
func (s *CustomerService) ListCustomers(ctx context.Context, params *repository.CustomerFilterParams) ([]entity.Customer, int64, error) {
	return s.customerRepo.List(ctx, params)
}

// AwardPoints grants loyalty points to a customer
func (s *CustomerService) AwardPoints(ctx context.Context, id uuid.UUID, points int64) (*entity.Customer, error) {
	if points <= 0 {
		return nil, apperror.NewFieldValidationError("points", "points must be positive")
	}
	if _, err := s.GetCustomer(ctx, id); err != nil {
		return nil, err
	}
	if err := s.customerRepo.AddPoints(ctx, id, points); err != nil {
		return nil, err
	}
	return s.GetCustomer(ctx, id)
}
