package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/entity"
	domainRepo "github.com/primekad/laundry-management-system-sub002/internal/domain/repository"
	"github.com/primekad/laundry-management-system-sub002/pkg/pagination"
	"gorm.io/gorm"
)

type branchRepository struct {
	db *gorm.DB
}

// NewBranchRepository creates a new branch repository
func NewBranchRepository(db *gorm.DB) domainRepo.BranchRepository {
	return &branchRepository{db: db}
}

func (r *branchRepository) Create(ctx context.Context, branch *entity.Branch) error {
	return translate(r.db.WithContext(ctx).Create(branch).Error)
}

func (r *branchRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Branch, error) {
	var branch entity.Branch
	return notFound(&branch, r.db.WithContext(ctx).First(&branch, "id = ?", id).Error)
}

func (r *branchRepository) GetByCode(ctx context.Context, code string) (*entity.Branch, error) {
	var branch entity.Branch
	return notFound(&branch, r.db.WithContext(ctx).First(&branch, "code = ?", code).Error)
}

func (r *branchRepository) Update(ctx context.Context, branch *entity.Branch) error {
	return translate(r.db.WithContext(ctx).Save(branch).Error)
}

func (r *branchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Branch{}, "id = ?", id).Error
}

func (r *branchRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Branch, int64, error) {
	var branches []entity.Branch
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Branch{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("name ASC").
		Find(&branches).Error
	return branches, total, err
}

func (r *branchRepository) GetUserBranches(ctx context.Context, userID uuid.UUID) ([]entity.Branch, error) {
	var branches []entity.Branch
	err := r.db.WithContext(ctx).
		Joins("JOIN branch_memberships ON branch_memberships.branch_id = branches.id").
		Where("branch_memberships.user_id = ? AND branches.is_active = ?", userID, true).
		Order("branch_memberships.created_at ASC").
		Find(&branches).Error
	return branches, err
}

func (r *branchRepository) AddMember(ctx context.Context, membership *entity.BranchMembership) error {
	return translate(r.db.WithContext(ctx).Create(membership).Error)
}

func (r *branchRepository) RemoveMember(ctx context.Context, branchID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&entity.BranchMembership{}, "branch_id = ? AND user_id = ?", branchID, userID).Error
}

func (r *branchRepository) GetMembers(ctx context.Context, branchID uuid.UUID) ([]entity.BranchMembership, error) {
	var members []entity.BranchMembership
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("branch_id = ?", branchID).
		Find(&members).Error
	for i := range members {
		members[i].PopulateUserDetails()
	}
	return members, err
}

func (r *branchRepository) IsMember(ctx context.Context, branchID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.BranchMembership{}).
		Where("branch_id = ? AND user_id = ?", branchID, userID).
		Count(&count).Error
	return count > 0, err
}
