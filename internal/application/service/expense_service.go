package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/entity"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/repository"
	"github.com/primekad/laundry-management-system-sub002/pkg/apperror"
	"github.com/primekad/laundry-management-system-sub002/pkg/pagination"
	"github.com/shopspring/decimal"
)

// ExpenseService handles branch expenses
type ExpenseService struct {
	expenseRepo repository.ExpenseRepository
}

// NewExpenseService creates a new expense service
func NewExpenseService(expenseRepo repository.ExpenseRepository) *ExpenseService {
	return &ExpenseService{expenseRepo: expenseRepo}
}

// ExpenseInput represents the create and update expense input
type ExpenseInput struct {
	Title       *string
	Category    *string
	Amount      *decimal.Decimal
	ExpenseDate *time.Time
	Notes       *string
}

// CreateExpense records an expense in the active branch
func (s *ExpenseService) CreateExpense(ctx context.Context, createdBy uuid.UUID, input *ExpenseInput) (*entity.Expense, error) {
	branchID, ok := repository.BranchFromContext(ctx)
	if !ok {
		return nil, apperror.ErrBranchRequired
	}

	var errs []apperror.FieldError
	if input.Title == nil || strings.TrimSpace(*input.Title) == "" {
		errs = append(errs, apperror.FieldError{Field: "title", Message: "title is required"})
	}
	if input.Amount == nil {
		errs = append(errs, apperror.FieldError{Field: "amount", Message: "amount is required"})
	}
	if len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	expense := &entity.Expense{
		BranchID:    branchID,
		CreatedByID: createdBy,
		Category:    "general",
		ExpenseDate: time.Now(),
	}
	if err := applyExpense(expense, input); err != nil {
		return nil, err
	}
	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// GetExpense retrieves an expense by ID
func (s *ExpenseService) GetExpense(ctx context.Context, id uuid.UUID) (*entity.Expense, error) {
	expense, err := s.expenseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, apperror.NewNotFoundError("Expense")
	}
	return expense, nil
}

// ListExpenses returns a filtered page of expenses
func (s *ExpenseService) ListExpenses(ctx context.Context, params *repository.ExpenseFilterParams) (*pagination.Page[entity.Expense], error) {
	expenses, total, err := s.expenseRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewPage(expenses, params.Pagination, total), nil
}

// UpdateExpense updates an expense
func (s *ExpenseService) UpdateExpense(ctx context.Context, id uuid.UUID, input *ExpenseInput) (*entity.Expense, error) {
	expense, err := s.GetExpense(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyExpense(expense, input); err != nil {
		return nil, err
	}
	if err := s.expenseRepo.Update(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// DeleteExpense soft-deletes an expense
func (s *ExpenseService) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetExpense(ctx, id); err != nil {
		return err
	}
	return s.expenseRepo.Delete(ctx, id)
}

func applyExpense(e *entity.Expense, input *ExpenseInput) error {
	if input.Title != nil {
		if t := strings.TrimSpace(*input.Title); t != "" {
			e.Title = t
		}
	}
	if input.Category != nil && strings.TrimSpace(*input.Category) != "" {
		e.Category = strings.ToLower(strings.TrimSpace(*input.Category))
	}
	if input.Amount != nil {
		if !input.Amount.IsPositive() {
			return apperror.NewFieldError("amount", "amount must be greater than 0")
		}
		e.Amount = *input.Amount
	}
	if input.ExpenseDate != nil {
		e.ExpenseDate = *input.ExpenseDate
	}
	if input.Notes != nil {
		e.Notes = input.Notes
	}
	return nil
}
