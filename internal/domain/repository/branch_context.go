package repository

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const (
	branchIDKey    ctxKey = "branch_id"
	allBranchesKey ctxKey = "all_branches"
)

// WithBranch scopes repository calls made with the returned context to branchID
func WithBranch(ctx context.Context, branchID uuid.UUID) context.Context {
	return context.WithValue(ctx, branchIDKey, branchID)
}

// BranchFromContext returns the active branch, if any
func BranchFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(branchIDKey).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// WithAllBranches lifts branch scoping for super admins listing across branches
func WithAllBranches(ctx context.Context, all bool) context.Context {
	return context.WithValue(ctx, allBranchesKey, all)
}

// AllBranches reports whether branch scoping was lifted
func AllBranches(ctx context.Context) bool {
	all, _ := ctx.Value(allBranchesKey).(bool)
	return all
}
