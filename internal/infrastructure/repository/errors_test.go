package repository

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/primekad/laundry-management-system-sub002/pkg/apperror"
	"gorm.io/gorm"
)

func TestTranslate(t *testing.T) {
	plain := errors.New("connection reset")

	tests := []struct {
		name     string
		in       error
		wantCode int
	}{
		{"unique violation", &pgconn.PgError{Code: "23505"}, http.StatusConflict},
		{"wrapped unique violation", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), http.StatusConflict},
		{"foreign key violation", &pgconn.PgError{Code: "23503"}, http.StatusBadRequest},
		{"gorm duplicate", gorm.ErrDuplicatedKey, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translate(tt.in)
			var appErr *apperror.AppError
			if !errors.As(got, &appErr) || appErr.Code != tt.wantCode {
				t.Fatalf("expected %d, got %v", tt.wantCode, got)
			}
		})
	}

	if got := translate(plain); got != plain {
		t.Fatalf("unrelated errors should pass through, got %v", got)
	}
	if translate(nil) != nil {
		t.Fatal("nil should stay nil")
	}
}

func TestNotFound(t *testing.T) {
	v := 1
	got, err := notFound(&v, gorm.ErrRecordNotFound)
	if got != nil || err != nil {
		t.Fatalf("expected nil, nil; got %v, %v", got, err)
	}

	got, err = notFound(&v, nil)
	if got != &v || err != nil {
		t.Fatalf("expected value passthrough")
	}
}
