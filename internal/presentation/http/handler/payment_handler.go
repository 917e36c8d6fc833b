package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/primekad/laundry-management-system-sub002/internal/application/service"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/enum"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/repository"
	"github.com/primekad/laundry-management-system-sub002/internal/presentation/http/dto/response"
)

// PaymentHandler lists payments across the branch's orders
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// List handles listing payments filtered by method, order and date
func (h *PaymentHandler) List(c *gin.Context) {
	params := &repository.PaymentFilterParams{Pagination: pageParams(c)}

	if raw := c.Query("method"); raw != "" {
		method := enum.PaymentMethod(raw)
		if !method.IsValid() {
			response.BadRequest(c, "Invalid payment method")
			return
		}
		params.Method = &method
	}

	var ok bool
	if params.OrderID, ok = queryUUID(c, "order_id"); !ok {
		return
	}
	if params.StartDate, ok = queryDate(c, "start_date"); !ok {
		return
	}
	if params.EndDate, ok = queryDate(c, "end_date"); !ok {
		return
	}

	result, err := h.paymentService.ListPayments(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payments retrieved successfully", result)
}
