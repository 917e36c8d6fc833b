package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/entity"
	domainRepo "github.com/primekad/laundry-management-system-sub002/internal/domain/repository"
	"gorm.io/gorm"
)

type serviceTypeRepository struct {
	db *gorm.DB
}

// NewServiceTypeRepository creates a new service type repository
func NewServiceTypeRepository(db *gorm.DB) domainRepo.ServiceTypeRepository {
	return &serviceTypeRepository{db: db}
}

func (r *serviceTypeRepository) Create(ctx context.Context, st *entity.ServiceType) error {
	return translate(r.db.WithContext(ctx).Create(st).Error)
}

func (r *serviceTypeRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ServiceType, error) {
	var st entity.ServiceType
	return notFound(&st, r.db.WithContext(ctx).First(&st, "id = ?", id).Error)
}

func (r *serviceTypeRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.ServiceType, error) {
	var types []entity.ServiceType
	if len(ids) == 0 {
		return types, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&types).Error
	return types, err
}

func (r *serviceTypeRepository) Update(ctx context.Context, st *entity.ServiceType) error {
	return translate(r.db.WithContext(ctx).Save(st).Error)
}

func (r *serviceTypeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.ServiceType{}, "id = ?", id).Error
}

func (r *serviceTypeRepository) List(ctx context.Context, activeOnly bool) ([]entity.ServiceType, error) {
	var types []entity.ServiceType
	query := r.db.WithContext(ctx).Order("name ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Find(&types).Error
	return types, err
}

type serviceCategoryRepository struct {
	db *gorm.DB
}

// NewServiceCategoryRepository creates a new category repository
func NewServiceCategoryRepository(db *gorm.DB) domainRepo.ServiceCategoryRepository {
	return &serviceCategoryRepository{db: db}
}

func (r *serviceCategoryRepository) Create(ctx context.Context, c *entity.ServiceCategory) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r *serviceCategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ServiceCategory, error) {
	var c entity.ServiceCategory
	return notFound(&c, r.db.WithContext(ctx).First(&c, "id = ?", id).Error)
}

func (r *serviceCategoryRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.ServiceCategory, error) {
	var categories []entity.ServiceCategory
	if len(ids) == 0 {
		return categories, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&categories).Error
	return categories, err
}

func (r *serviceCategoryRepository) Update(ctx context.Context, c *entity.ServiceCategory) error {
	return translate(r.db.WithContext(ctx).Save(c).Error)
}

func (r *serviceCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.ServiceCategory{}, "id = ?", id).Error
}

func (r *serviceCategoryRepository) List(ctx context.Context) ([]entity.ServiceCategory, error) {
	var categories []entity.ServiceCategory
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}
