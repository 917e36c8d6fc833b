package repository

import (
	"context"
	"time"

	domainRepo "github.com/primekad/laundry-management-system-sub002/internal/domain/repository"
	"gorm.io/gorm"
)

// BranchScope filters branch-owned tables by the branch carried in ctx.
// Without a branch the query matches nothing, unless scoping was lifted.
func BranchScope(ctx context.Context, table string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if branchID, ok := domainRepo.BranchFromContext(ctx); ok {
			return db.Where(table+".branch_id = ?", branchID)
		}
		if domainRepo.AllBranches(ctx) {
			return db
		}
		return db.Where("1 = 0")
	}
}

// DateRange restricts column to the calendar days from..to, both inclusive.
// The upper bound is the next midnight, exclusive, so it holds for date and
// timestamp columns alike.
func DateRange(column string, from, to *time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if from != nil {
			db = db.Where(column+" >= ?", truncateDay(*from))
		}
		if to != nil {
			db = db.Where(column+" < ?", truncateDay(*to).AddDate(0, 0, 1))
		}
		return db
	}
}
