package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/entity"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/repository"
	"github.com/primekad/laundry-management-system-sub002/pkg/apperror"
	"github.com/primekad/laundry-management-system-sub002/pkg/pagination"
)

// CustomerService handles customer-related operations
type CustomerService struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// CustomerInput represents the create and update customer input.
// Nil fields are left unchanged on update.
type CustomerInput struct {
	Name    *string
	Phone   *string
	Email   *string
	Address *string
	Notes   *string
}

// CreateCustomer creates a customer in the active branch. Phone numbers are
// unique per branch.
func (s *CustomerService) CreateCustomer(ctx context.Context, input *CustomerInput) (*entity.Customer, error) {
	branchID, ok := repository.BranchFromContext(ctx)
	if !ok {
		return nil, apperror.ErrBranchRequired
	}
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" {
		return nil, apperror.NewFieldError("name", "name is required")
	}
	if err := s.checkPhone(ctx, input.Phone, uuid.Nil); err != nil {
		return nil, err
	}

	customer := &entity.Customer{
		BranchID: branchID,
		Name:     strings.TrimSpace(*input.Name),
		Phone:    input.Phone,
		Email:    input.Email,
		Address:  input.Address,
		Notes:    input.Notes,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomer retrieves a customer by ID
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

// ListCustomers returns a page of customers matching search
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.Page[entity.Customer], error) {
	customers, total, err := s.customerRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}
	return pagination.NewPage(customers, params, total), nil
}

// ListCustomersWithCursor lists customers newest first from a cursor
func (s *CustomerService) ListCustomersWithCursor(ctx context.Context, params *pagination.CursorParams, search string) (*pagination.CursorPage[entity.Customer], error) {
	customers, err := s.customerRepo.ListWithCursor(ctx, params, search)
	if err != nil {
		if errors.Is(err, pagination.ErrInvalidCursor) {
			return nil, apperror.NewBadRequestError("Invalid cursor")
		}
		return nil, err
	}
	return pagination.NewCursorPage(customers, params.Limit, customerKey), nil
}

// UpdateCustomer updates a customer
func (s *CustomerService) UpdateCustomer(ctx context.Context, id uuid.UUID, input *CustomerInput) (*entity.Customer, error) {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperror.NewFieldError("name", "name must not be empty")
		}
		customer.Name = name
	}
	if input.Phone != nil {
		if err := s.checkPhone(ctx, input.Phone, customer.ID); err != nil {
			return nil, err
		}
		customer.Phone = input.Phone
	}
	if input.Email != nil {
		customer.Email = input.Email
	}
	if input.Address != nil {
		customer.Address = input.Address
	}
	if input.Notes != nil {
		customer.Notes = input.Notes
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// DeleteCustomer deletes a customer
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCustomer(ctx, id); err != nil {
		return err
	}
	return s.customerRepo.Delete(ctx, id)
}

func (s *CustomerService) checkPhone(ctx context.Context, phone *string, self uuid.UUID) error {
	if phone == nil || *phone == "" {
		return nil
	}
	existing, err := s.customerRepo.GetByPhone(ctx, *phone)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != self {
		return apperror.NewConflictError("A customer with this phone number already exists")
	}
	return nil
}

func customerKey(c entity.Customer) (string, time.Time) {
	return c.ID.String(), c.CreatedAt
}
