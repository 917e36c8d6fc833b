package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/entity"
	"github.com/primekad/laundry-management-system-sub002/pkg/pagination"
)

// BranchRepository defines the interface for branch data operations
type BranchRepository interface {
	Create(ctx context.Context, branch *entity.Branch) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Branch, error)
	GetByCode(ctx context.Context, code string) (*entity.Branch, error)
	Update(ctx context.Context, branch *entity.Branch) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Branch, int64, error)

	// GetUserBranches lists the branches a user is a member of
	GetUserBranches(ctx context.Context, userID uuid.UUID) ([]entity.Branch, error)

	AddMember(ctx context.Context, membership *entity.BranchMembership) error
	RemoveMember(ctx context.Context, branchID, userID uuid.UUID) error
	GetMembers(ctx context.Context, branchID uuid.UUID) ([]entity.BranchMembership, error)
	IsMember(ctx context.Context, branchID, userID uuid.UUID) (bool, error)
}
