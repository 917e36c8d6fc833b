package repository

import (
	"context"

	domainRepo "github.com/primekad/laundry-management-system-sub002/internal/domain/repository"
	"gorm.io/gorm"
)

type unitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork creates a gorm-backed unit of work
func NewUnitOfWork(db *gorm.DB) domainRepo.UnitOfWork {
	return &unitOfWork{db: db}
}

// Do opens a transaction, hands fn repositories bound to it, and commits
// when fn returns nil. gorm rolls back on error or panic.
func (u *unitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos *domainRepo.TxRepositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &domainRepo.TxRepositories{
			Orders:     NewOrderRepository(tx),
			OrderItems: NewOrderItemRepository(tx),
			Payments:   NewPaymentRepository(tx),
			Customers:  NewCustomerRepository(tx),
		})
	})
}
