package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/entity"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/repository"
	"github.com/primekad/laundry-management-system-sub002/pkg/apperror"
	"github.com/shopspring/decimal"
)

// CatalogService manages the service types and garment categories orders are priced from
type CatalogService struct {
	serviceTypeRepo repository.ServiceTypeRepository
	categoryRepo    repository.ServiceCategoryRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(serviceTypeRepo repository.ServiceTypeRepository, categoryRepo repository.ServiceCategoryRepository) *CatalogService {
	return &CatalogService{serviceTypeRepo: serviceTypeRepo, categoryRepo: categoryRepo}
}

// ServiceTypeInput represents the create and update service type input
type ServiceTypeInput struct {
	Name         *string
	Description  *string
	DefaultPrice *decimal.Decimal
	PricingUnit  *string
	IsActive     *bool
}

// CreateServiceType creates a new service type
func (s *CatalogService) CreateServiceType(ctx context.Context, input *ServiceTypeInput) (*entity.ServiceType, error) {
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" {
		return nil, apperror.NewFieldError("name", "name is required")
	}

	st := &entity.ServiceType{
		Name:         strings.TrimSpace(*input.Name),
		Description:  input.Description,
		DefaultPrice: decimal.Zero,
		PricingUnit:  entity.PricingPerItem,
		IsActive:     true,
	}
	if err := applyServiceType(st, input); err != nil {
		return nil, err
	}

	if err := s.serviceTypeRepo.Create(ctx, st); err != nil {
		return nil, duplicateName(err, "Service type")
	}
	return st, nil
}

// GetServiceType retrieves a service type by ID
func (s *CatalogService) GetServiceType(ctx context.Context, id uuid.UUID) (*entity.ServiceType, error) {
	st, err := s.serviceTypeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, apperror.NewNotFoundError("Service type")
	}
	return st, nil
}

// ListServiceTypes lists service types, optionally only active ones
func (s *CatalogService) ListServiceTypes(ctx context.Context, activeOnly bool) ([]entity.ServiceType, error) {
	return s.serviceTypeRepo.List(ctx, activeOnly)
}

// UpdateServiceType updates a service type. Existing order items keep the
// prices they were sold at.
func (s *CatalogService) UpdateServiceType(ctx context.Context, id uuid.UUID, input *ServiceTypeInput) (*entity.ServiceType, error) {
	st, err := s.GetServiceType(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperror.NewFieldError("name", "name must not be empty")
		}
		st.Name = name
	}
	if input.Description != nil {
		st.Description = input.Description
	}
	if err := applyServiceType(st, input); err != nil {
		return nil, err
	}

	if err := s.serviceTypeRepo.Update(ctx, st); err != nil {
		return nil, duplicateName(err, "Service type")
	}
	return st, nil
}

// DeleteServiceType soft-deletes a service type
func (s *CatalogService) DeleteServiceType(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetServiceType(ctx, id); err != nil {
		return err
	}
	return s.serviceTypeRepo.Delete(ctx, id)
}

// CategoryInput represents the create and update category input
type CategoryInput struct {
	Name        *string
	Description *string
}

// CreateCategory creates a new garment category
func (s *CatalogService) CreateCategory(ctx context.Context, input *CategoryInput) (*entity.ServiceCategory, error) {
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" {
		return nil, apperror.NewFieldError("name", "name is required")
	}
	category := &entity.ServiceCategory{
		Name:        strings.TrimSpace(*input.Name),
		Description: input.Description,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, duplicateName(err, "Category")
	}
	return category, nil
}

// GetCategory retrieves a category by ID
func (s *CatalogService) GetCategory(ctx context.Context, id uuid.UUID) (*entity.ServiceCategory, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apperror.NewNotFoundError("Category")
	}
	return category, nil
}

// ListCategories lists all categories
func (s *CatalogService) ListCategories(ctx context.Context) ([]entity.ServiceCategory, error) {
	return s.categoryRepo.List(ctx)
}

// UpdateCategory updates a category
func (s *CatalogService) UpdateCategory(ctx context.Context, id uuid.UUID, input *CategoryInput) (*entity.ServiceCategory, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
		category.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		category.Description = input.Description
	}
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, duplicateName(err, "Category")
	}
	return category, nil
}

// DeleteCategory soft-deletes a category
func (s *CatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return err
	}
	return s.categoryRepo.Delete(ctx, id)
}

func applyServiceType(st *entity.ServiceType, input *ServiceTypeInput) error {
	if input.DefaultPrice != nil {
		if input.DefaultPrice.IsNegative() {
			return apperror.NewFieldError("default_price", "default_price must not be negative")
		}
		st.DefaultPrice = *input.DefaultPrice
	}
	if input.PricingUnit != nil {
		switch *input.PricingUnit {
		case entity.PricingPerItem, entity.PricingPerKg:
			st.PricingUnit = *input.PricingUnit
		default:
			return apperror.NewFieldError("pricing_unit", "pricing_unit must be per_item or per_kg")
		}
	}
	if input.IsActive != nil {
		st.IsActive = *input.IsActive
	}
	return nil
}

func duplicateName(err error, resource string) error {
	if errors.Is(err, apperror.ErrConflict) {
		return apperror.NewConflictError(resource + " with this name already exists")
	}
	return err
}
