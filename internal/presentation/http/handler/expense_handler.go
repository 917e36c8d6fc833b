package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/primekad/laundry-management-system-sub002/internal/application/service"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/repository"
	"github.com/primekad/laundry-management-system-sub002/internal/presentation/http/dto/request"
	"github.com/primekad/laundry-management-system-sub002/internal/presentation/http/dto/response"
	"github.com/primekad/laundry-management-system-sub002/pkg/apperror"
)

// ExpenseHandler handles branch expenses
type ExpenseHandler struct {
	expenseService *service.ExpenseService
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(expenseService *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

func bindExpense(c *gin.Context) (*service.ExpenseInput, bool) {
	var req request.ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return nil, false
	}
	date, ok := req.Date()
	if !ok {
		response.Error(c, apperror.NewFieldError("expense_date", "expense_date must be a date in YYYY-MM-DD format"))
		return nil, false
	}
	return &service.ExpenseInput{
		Title:       req.Title,
		Category:    req.Category,
		Amount:      req.Amount,
		ExpenseDate: date,
		Notes:       req.Notes,
	}, true
}

// List handles listing expenses with category, search and date filters
func (h *ExpenseHandler) List(c *gin.Context) {
	start, ok := queryDate(c, "start_date")
	if !ok {
		return
	}
	end, ok := queryDate(c, "end_date")
	if !ok {
		return
	}

	result, err := h.expenseService.ListExpenses(c.Request.Context(), &repository.ExpenseFilterParams{
		Pagination: pageParams(c),
		Category:   c.Query("category"),
		Search:     c.Query("search"),
		StartDate:  start,
		EndDate:    end,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Expenses retrieved successfully", result)
}

// Get handles fetching a single expense
func (h *ExpenseHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	expense, err := h.expenseService.GetExpense(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Expense retrieved successfully", expense)
}

// Create handles recording an expense
func (h *ExpenseHandler) Create(c *gin.Context) {
	input, ok := bindExpense(c)
	if !ok {
		return
	}

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), GetUserID(c), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Expense created successfully", expense)
}

// Update handles updating an expense
func (h *ExpenseHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	input, ok := bindExpense(c)
	if !ok {
		return
	}

	expense, err := h.expenseService.UpdateExpense(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Expense updated successfully", expense)
}

// Delete handles deleting an expense
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.expenseService.DeleteExpense(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Expense deleted successfully", nil)
}
