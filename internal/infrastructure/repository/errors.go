package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/primekad/laundry-management-system-sub002/pkg/apperror"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translate maps driver errors callers can act on to AppErrors and passes
// everything else through untouched.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.ErrConflict
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperror.ErrConflict
		case pgForeignKeyViolation:
			return apperror.NewBadRequestError("Referenced record does not exist")
		}
	}
	return err
}

// notFound turns gorm's not-found into the nil,nil the services expect
func notFound[T any](v *T, err error) (*T, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}
