package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestGetAppError_Wrapped(t *testing.T) {
	err := fmt.Errorf("load order: %w", NewNotFoundError("Order"))

	appErr := GetAppError(err)
	if appErr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", appErr.Code)
	}
	if appErr.Message != "Order not found" {
		t.Fatalf("unexpected message %q", appErr.Message)
	}
}

func TestGetAppError_HidesForeignErrors(t *testing.T) {
	err := errors.New(`pq: duplicate key value violates unique constraint "orders_pkey"`)

	appErr := GetAppError(err)
	if appErr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", appErr.Code)
	}
	if appErr.Message == err.Error() {
		t.Fatal("driver message leaked into the client error")
	}
}

func TestNewFieldError(t *testing.T) {
	err := NewFieldError("items[0].total", "total is required")

	if err.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", err.Code)
	}
	if len(err.Errors) != 1 || err.Errors[0].Field != "items[0].total" {
		t.Fatalf("unexpected field errors: %+v", err.Errors)
	}
	if !IsAppError(err) {
		t.Fatal("expected IsAppError to be true")
	}
}
