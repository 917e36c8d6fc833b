package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/entity"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/repository"
	"github.com/primekad/laundry-management-system-sub002/pkg/apperror"
	"github.com/primekad/laundry-management-system-sub002/pkg/pagination"
	"github.com/primekad/laundry-management-system-sub002/pkg/utils"
	"gorm.io/datatypes"
)

// BranchService handles branches and who may work in them
type BranchService struct {
	branchRepo repository.BranchRepository
	userRepo   repository.UserRepository
}

// NewBranchService creates a new branch service
func NewBranchService(branchRepo repository.BranchRepository, userRepo repository.UserRepository) *BranchService {
	return &BranchService{branchRepo: branchRepo, userRepo: userRepo}
}

// BranchInput represents input for creating or updating a branch
type BranchInput struct {
	Name     string
	Code     string
	Address  *string
	Phone    *string
	Email    *string
	Settings map[string]interface{}
	IsActive *bool
}

// CreateBranch creates a new branch. A code is derived from the name when none is given.
func (s *BranchService) CreateBranch(ctx context.Context, input *BranchInput) (*entity.Branch, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" {
		code = utils.GenerateBranchCode(input.Name)
	}

	existing, err := s.branchRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Branch code already exists")
	}

	settings := entity.DefaultBranchSettings()
	for k, v := range input.Settings {
		settings[k] = v
	}

	branch := &entity.Branch{
		Name:     input.Name,
		Code:     code,
		Address:  input.Address,
		Phone:    input.Phone,
		Email:    input.Email,
		Settings: settings,
		IsActive: true,
	}
	if err := s.branchRepo.Create(ctx, branch); err != nil {
		return nil, err
	}
	return branch, nil
}

// GetBranch retrieves a branch by ID
func (s *BranchService) GetBranch(ctx context.Context, id uuid.UUID) (*entity.Branch, error) {
	branch, err := s.branchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, apperror.NewNotFoundError("Branch")
	}
	return branch, nil
}

// ListBranches returns a page of branches
func (s *BranchService) ListBranches(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.Page[entity.Branch], error) {
	branches, total, err := s.branchRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}
	return pagination.NewPage(branches, params, total), nil
}

// UpdateBranch updates a branch. Settings are merged key by key.
func (s *BranchService) UpdateBranch(ctx context.Context, id uuid.UUID, input *BranchInput) (*entity.Branch, error) {
	branch, err := s.GetBranch(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		branch.Name = input.Name
	}
	if code := strings.ToUpper(strings.TrimSpace(input.Code)); code != "" && code != branch.Code {
		existing, err := s.branchRepo.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.NewConflictError("Branch code already exists")
		}
		branch.Code = code
	}
	if input.Address != nil {
		branch.Address = input.Address
	}
	if input.Phone != nil {
		branch.Phone = input.Phone
	}
	if input.Email != nil {
		branch.Email = input.Email
	}
	if input.IsActive != nil {
		branch.IsActive = *input.IsActive
	}
	if len(input.Settings) > 0 {
		if branch.Settings == nil {
			branch.Settings = datatypes.JSONMap{}
		}
		for k, v := range input.Settings {
			branch.Settings[k] = v
		}
	}

	if err := s.branchRepo.Update(ctx, branch); err != nil {
		return nil, err
	}
	return branch, nil
}

// DeleteBranch soft-deletes a branch
func (s *BranchService) DeleteBranch(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetBranch(ctx, id); err != nil {
		return err
	}
	return s.branchRepo.Delete(ctx, id)
}

// GetUserBranches lists the branches a user belongs to
func (s *BranchService) GetUserBranches(ctx context.Context, userID uuid.UUID) ([]entity.Branch, error) {
	return s.branchRepo.GetUserBranches(ctx, userID)
}

// AddMember gives a user access to a branch
func (s *BranchService) AddMember(ctx context.Context, branchID, userID uuid.UUID, role string) error {
	if _, err := s.GetBranch(ctx, branchID); err != nil {
		return err
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.NewNotFoundError("User")
	}

	isMember, err := s.branchRepo.IsMember(ctx, branchID, userID)
	if err != nil {
		return err
	}
	if isMember {
		return apperror.NewConflictError("User is already a member of this branch")
	}

	if role == "" {
		role = entity.RoleStaff
	}
	return s.branchRepo.AddMember(ctx, &entity.BranchMembership{BranchID: branchID, UserID: userID, Role: role})
}

// RemoveMember revokes a user's access to a branch
func (s *BranchService) RemoveMember(ctx context.Context, branchID, userID uuid.UUID) error {
	return s.branchRepo.RemoveMember(ctx, branchID, userID)
}

// GetMembers lists a branch's members with user details
func (s *BranchService) GetMembers(ctx context.Context, branchID uuid.UUID) ([]entity.BranchMembership, error) {
	members, err := s.branchRepo.GetMembers(ctx, branchID)
	if err != nil {
		return nil, err
	}
	for i := range members {
		members[i].PopulateUserDetails()
	}
	return members, nil
}

// ResolveBranch picks the branch a request acts on. requested may be Nil, in
// which case the user's first branch is used. Super admins may act on any
// active branch; everyone else needs a membership.
func (s *BranchService) ResolveBranch(ctx context.Context, userID, requested uuid.UUID, superAdmin bool) (*entity.Branch, error) {
	if requested == uuid.Nil {
		branches, err := s.branchRepo.GetUserBranches(ctx, userID)
		if err != nil {
			return nil, err
		}
		for i := range branches {
			if branches[i].IsActive {
				return &branches[i], nil
			}
		}
		return nil, nil
	}

	branch, err := s.branchRepo.GetByID(ctx, requested)
	if err != nil {
		return nil, err
	}
	if branch == nil || !branch.IsActive {
		return nil, apperror.NewNotFoundError("Branch")
	}
	if superAdmin {
		return branch, nil
	}

	isMember, err := s.branchRepo.IsMember(ctx, requested, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, apperror.NewAppError(403, "You do not have access to this branch")
	}
	return branch, nil
}
