package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/primekad/laundry-management-system-sub002/internal/application/service"
	"github.com/primekad/laundry-management-system-sub002/internal/presentation/http/dto/response"
)

// ReceiptHandler renders and prints order receipts
type ReceiptHandler struct {
	receiptService *service.ReceiptService
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// Get returns the receipt as JSON, or as plain ticket text with ?format=text
func (h *ReceiptHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	receipt, err := h.receiptService.BuildReceipt(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	if c.Query("format") == "text" {
		width := h.receiptService.Status().Width
		c.Data(http.StatusOK, "text/plain; charset=utf-8", service.FormatReceipt(receipt, width))
		return
	}
	response.OK(c, "Receipt retrieved successfully", receipt)
}

// Print sends the receipt to the ticket printer. When the printer is
// unavailable the receipt is still returned alongside the error.
func (h *ReceiptHandler) Print(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	receipt, err := h.receiptService.PrintReceipt(c.Request.Context(), id)
	if err != nil {
		if receipt == nil {
			response.Error(c, err)
			return
		}
		response.ErrorWithData(c, err, receipt)
		return
	}
	response.OK(c, "Receipt sent to printer", receipt)
}

// PrinterStatus reports the configured printer
func (h *ReceiptHandler) PrinterStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved successfully", h.receiptService.Status())
}
