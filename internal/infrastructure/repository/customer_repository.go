package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/entity"
	domainRepo "github.com/primekad/laundry-management-system-sub002/internal/domain/repository"
	"github.com/primekad/laundry-management-system-sub002/pkg/pagination"
	"gorm.io/gorm"
)

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *gorm.DB) domainRepo.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *entity.Customer) error {
	return translate(r.db.WithContext(ctx).Create(customer).Error)
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	var customer entity.Customer
	err := r.db.WithContext(ctx).
		Scopes(BranchScope(ctx, "customers")).
		First(&customer, "id = ?", id).Error
	return notFound(&customer, err)
}

func (r *customerRepository) GetByPhone(ctx context.Context, phone string) (*entity.Customer, error) {
	var customer entity.Customer
	err := r.db.WithContext(ctx).
		Scopes(BranchScope(ctx, "customers")).
		First(&customer, "phone = ?", phone).Error
	return notFound(&customer, err)
}

func (r *customerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	return translate(r.db.WithContext(ctx).Omit("Branch", "Orders").Save(customer).Error)
}

func (r *customerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Scopes(BranchScope(ctx, "customers")).
		Delete(&entity.Customer{}, "id = ?", id).Error
}

func (r *customerRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error) {
	var customers []entity.Customer
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Customer{}).
		Scopes(BranchScope(ctx, "customers"), customerSearch(search))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("created_at DESC").
		Find(&customers).Error
	return customers, total, err
}

// ListWithCursor walks customers newest first using (created_at, id) keysets
func (r *customerRepository) ListWithCursor(ctx context.Context, params *pagination.CursorParams, search string) ([]entity.Customer, error) {
	var customers []entity.Customer

	params.Validate()
	cursor, err := params.Decode()
	if err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).Model(&entity.Customer{}).
		Scopes(BranchScope(ctx, "customers"), customerSearch(search))
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	err = query.Limit(params.Limit + 1).
		Order("created_at DESC, id DESC").
		Find(&customers).Error
	return customers, err
}

func customerSearch(search string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		search = strings.TrimSpace(search)
		if search == "" {
			return db
		}
		like := "%" + search + "%"
		return db.Where("name ILIKE ? OR phone ILIKE ? OR email ILIKE ?", like, like, like)
	}
}
