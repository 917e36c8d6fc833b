package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/primekad/laundry-management-system-sub002/internal/application/service"
	"github.com/primekad/laundry-management-system-sub002/internal/presentation/http/dto/response"
)

// ReportHandler serves the dashboard and sales reports
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// dateRange reads from/to (YYYY-MM-DD), writing a 400 when malformed
func dateRange(c *gin.Context) (service.DateRange, bool) {
	var r service.DateRange
	from, ok := queryDate(c, "from")
	if !ok {
		return r, false
	}
	to, ok := queryDate(c, "to")
	if !ok {
		return r, false
	}
	if from != nil {
		r.From = *from
	}
	if to != nil {
		r.To = *to
	}
	return r, true
}

// Dashboard handles getting dashboard statistics
// @Summary Get Dashboard
// @Description Order counts, revenue, expenses and outstanding dues for the active branch
// @Tags reports
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	stats, err := h.reportService.Dashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Dashboard retrieved successfully", stats)
}

func (h *ReportHandler) DailySales(c *gin.Context) {
	r, ok := dateRange(c)
	if !ok {
		return
	}

	rows, err := h.reportService.DailySales(c.Request.Context(), r)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Daily sales retrieved successfully", rows)
}

func (h *ReportHandler) TopServices(c *gin.Context) {
	r, ok := dateRange(c)
	if !ok {
		return
	}

	rows, err := h.reportService.TopServices(c.Request.Context(), r, queryInt(c, "limit"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Top services retrieved successfully", rows)
}

func (h *ReportHandler) PaymentMethods(c *gin.Context) {
	r, ok := dateRange(c)
	if !ok {
		return
	}

	rows, err := h.reportService.PaymentMethods(c.Request.Context(), r)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment method breakdown retrieved successfully", rows)
}
