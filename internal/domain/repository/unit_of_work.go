package repository

import "context"

// TxRepositories are the repositories bound to one open transaction
type TxRepositories struct {
	Orders     OrderRepository
	OrderItems OrderItemRepository
	Payments   PaymentRepository
	Customers  CustomerRepository
}

// UnitOfWork runs fn inside a single transaction. If fn returns an error
// (or panics) nothing fn wrote is kept; otherwise everything is committed.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, repos *TxRepositories) error) error
}
