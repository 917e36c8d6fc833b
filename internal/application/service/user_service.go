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
	"github.com/rs/zerolog/log"
)

// UserService handles user management operations
type UserService struct {
	userRepo       repository.UserRepository
	roleRepo       repository.RoleRepository
	permissionRepo repository.PermissionRepository
	branchRepo     repository.BranchRepository
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	permissionRepo repository.PermissionRepository,
	branchRepo repository.BranchRepository,
) *UserService {
	return &UserService{
		userRepo:       userRepo,
		roleRepo:       roleRepo,
		permissionRepo: permissionRepo,
		branchRepo:     branchRepo,
	}
}

// ListUsers returns a paginated list of users with their roles
func (s *UserService) ListUsers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.Page[entity.User], error) {
	users, total, err := s.userRepo.List(ctx, params, search)
	if err != nil {
		return nil, err
	}
	return pagination.NewPage(users, params, total), nil
}

// GetUser returns a user by ID with roles and permissions
func (s *UserService) GetUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetWithRoles(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}
	return user, nil
}

// CreateUserInput represents the create user input
type CreateUserInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     *string
	Password  string
	Roles     []string
	BranchIDs []uuid.UUID
}

// CreateUser provisions a staff account, assigns roles and branch memberships
func (s *UserService) CreateUser(ctx context.Context, input *CreateUserInput) (*entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	roles, err := s.resolveRoles(ctx, input.Roles)
	if err != nil {
		return nil, err
	}
	for i, id := range input.BranchIDs {
		branch, err := s.branchRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if branch == nil {
			return nil, apperror.NewFieldError("branch_ids", "branch "+input.BranchIDs[i].String()+" not found")
		}
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     email,
		Phone:     input.Phone,
		Password:  hashed,
		Provider:  "local",
		IsActive:  true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.userRepo.SyncRoles(ctx, user.ID, roleIDs(roles)); err != nil {
		return nil, err
	}
	for _, id := range input.BranchIDs {
		membership := &entity.BranchMembership{BranchID: id, UserID: user.ID, Role: entity.RoleStaff}
		if err := s.branchRepo.AddMember(ctx, membership); err != nil {
			log.Error().Err(err).Str("user_id", user.ID.String()).Str("branch_id", id.String()).Msg("add membership")
			return nil, err
		}
	}

	return s.GetUser(ctx, user.ID)
}

// UpdateUserRoles replaces the user's roles
func (s *UserService) UpdateUserRoles(ctx context.Context, userID uuid.UUID, names []string) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFoundError("User")
	}

	roles, err := s.resolveRoles(ctx, names)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.SyncRoles(ctx, userID, roleIDs(roles)); err != nil {
		return nil, err
	}
	return s.GetUser(ctx, userID)
}

// DeleteUser soft-deletes a user. Users cannot delete themselves.
func (s *UserService) DeleteUser(ctx context.Context, actorID, userID uuid.UUID) error {
	if actorID == userID {
		return apperror.NewBadRequestError("You cannot delete your own account")
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.NewNotFoundError("User")
	}
	return s.userRepo.Delete(ctx, userID)
}

// ListRoles returns all roles with their permissions
func (s *UserService) ListRoles(ctx context.Context) ([]entity.Role, error) {
	return s.roleRepo.List(ctx)
}

// ListPermissions returns all permissions
func (s *UserService) ListPermissions(ctx context.Context) ([]entity.Permission, error) {
	return s.permissionRepo.List(ctx)
}

func (s *UserService) resolveRoles(ctx context.Context, names []string) ([]entity.Role, error) {
	if len(names) == 0 {
		names = []string{entity.RoleStaff}
	}
	roles, err := s.roleRepo.GetByNames(ctx, names)
	if err != nil {
		return nil, err
	}
	if len(roles) != len(names) {
		known := make(map[string]bool, len(roles))
		for _, r := range roles {
			known[r.Name] = true
		}
		for _, n := range names {
			if !known[n] {
				return nil, apperror.NewFieldError("roles", "unknown role "+n)
			}
		}
	}
	return roles, nil
}

func roleIDs(roles []entity.Role) []uint {
	ids := make([]uint, 0, len(roles))
	for _, r := range roles {
		ids = append(ids, r.ID)
	}
	return ids
}
