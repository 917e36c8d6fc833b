package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/entity"
)

// ServiceTypeRepository defines the interface for the service catalog
type ServiceTypeRepository interface {
	Create(ctx context.Context, st *entity.ServiceType) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ServiceType, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.ServiceType, error)
	Update(ctx context.Context, st *entity.ServiceType) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, activeOnly bool) ([]entity.ServiceType, error)
}

// ServiceCategoryRepository defines the interface for garment categories
type ServiceCategoryRepository interface {
	Create(ctx context.Context, c *entity.ServiceCategory) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ServiceCategory, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.ServiceCategory, error)
	Update(ctx context.Context, c *entity.ServiceCategory) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]entity.ServiceCategory, error)
}
