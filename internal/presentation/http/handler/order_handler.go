package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/primekad/laundry-management-system-sub002/internal/application/service"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/enum"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/repository"
	"github.com/primekad/laundry-management-system-sub002/internal/presentation/http/dto/request"
	"github.com/primekad/laundry-management-system-sub002/internal/presentation/http/dto/response"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// orderFilter reads the listing filters, writing a 400 for malformed values
func orderFilter(c *gin.Context) (repository.OrderFilter, bool) {
	f := repository.OrderFilter{Search: c.Query("search")}

	if raw := c.Query("status"); raw != "" {
		status := enum.OrderStatus(raw)
		if !status.IsValid() {
			response.BadRequest(c, "Invalid order status")
			return f, false
		}
		f.Status = &status
	}
	if raw := c.Query("payment_status"); raw != "" {
		status := enum.PaymentStatus(raw)
		if !status.IsValid() {
			response.BadRequest(c, "Invalid payment status")
			return f, false
		}
		f.PaymentStatus = &status
	}

	var ok bool
	if f.CustomerID, ok = queryUUID(c, "customer_id"); !ok {
		return f, false
	}
	if f.StartDate, ok = queryDate(c, "start_date"); !ok {
		return f, false
	}
	if f.EndDate, ok = queryDate(c, "end_date"); !ok {
		return f, false
	}
	return f, true
}

// List handles listing orders (supports both page-based and cursor-based pagination)
// @Summary List orders
// @Tags orders
// @Security BearerAuth
// @Produce json
// @Param status query string false "Order status"
// @Param payment_status query string false "Payment status"
// @Param cursor query string false "Cursor for keyset pagination"
// @Success 200 {object} response.APIResponse
// @Router /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	filter, ok := orderFilter(c)
	if !ok {
		return
	}

	if useCursor(c) {
		result, err := h.orderService.ListOrdersWithCursor(c.Request.Context(), &repository.OrderCursorFilterParams{
			OrderFilter: filter,
			Cursor:      cursorParams(c),
		})
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, "Orders retrieved successfully", result)
		return
	}

	params := &repository.OrderFilterParams{
		OrderFilter: filter,
		Pagination:  pageParams(c),
		SortBy:      c.Query("sort_by"),
		SortOrder:   c.Query("sort_order"),
	}

	// Encode sorts by key so equivalent queries share a cache entry
	queryKey := c.Request.URL.Query().Encode()

	result, err := h.orderService.ListOrders(c.Request.Context(), params, queryKey)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Orders retrieved successfully", result)
}

// Get handles fetching an order with its customer, items and payments
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Order retrieved successfully", order)
}

// Create handles taking a new order
// @Summary Create order
// @Tags orders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.CreateOrderRequest true "Order"
// @Success 201 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req request.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	intent, pickup, err := req.ToIntent()
	if err != nil {
		response.Error(c, err)
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), &service.CreateOrderInput{
		CreatedBy:  GetUserID(c),
		Intent:     intent,
		PickupDate: pickup,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Order created successfully", order)
}

// Update handles an order update: item replacement, a payment, or detail
// changes, reconciled and written in one transaction.
// @Summary Update order
// @Description Replaces items and recomputes totals, records a payment, or updates details
// @Tags orders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body request.UpdateOrderRequest true "Update"
// @Success 200 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /orders/{id} [put]
func (h *OrderHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req request.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	intent, err := req.ToIntent()
	if err != nil {
		response.Error(c, err)
		return
	}

	order, err := h.orderService.UpdateOrder(c.Request.Context(), id, intent, req.ExpectedVersion, GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Order updated successfully", order)
}

// UpdateStatus moves an order through the workflow
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req request.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	order, err := h.orderService.UpdateOrderStatus(c.Request.Context(), id, enum.OrderStatus(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Order status updated successfully", order)
}

// Cancel handles cancelling an order
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.CancelOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Order cancelled successfully", order)
}

// Delete handles deleting an order
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.orderService.DeleteOrder(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Order deleted successfully", nil)
}

// Due lists open orders with a balance outstanding
func (h *OrderHandler) Due(c *gin.Context) {
	result, err := h.orderService.GetDueOrders(c.Request.Context(), pageParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Due orders retrieved successfully", result)
}

// Payments lists an order's payments
func (h *OrderHandler) Payments(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	payments, err := h.orderService.GetOrderPayments(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payments retrieved successfully", payments)
}
