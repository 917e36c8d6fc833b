package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/primekad/laundry-management-system-sub002/internal/application/service"
	"github.com/primekad/laundry-management-system-sub002/internal/presentation/http/dto/request"
	"github.com/primekad/laundry-management-system-sub002/internal/presentation/http/dto/response"
)

// CatalogHandler handles service types and garment categories
type CatalogHandler struct {
	catalogService *service.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func toServiceTypeInput(req *request.ServiceTypeRequest) *service.ServiceTypeInput {
	return &service.ServiceTypeInput{
		Name:         req.Name,
		Description:  req.Description,
		DefaultPrice: req.DefaultPrice,
		PricingUnit:  req.PricingUnit,
		IsActive:     req.IsActive,
	}
}

// ListServiceTypes lists service types; ?active=true hides retired ones
func (h *CatalogHandler) ListServiceTypes(c *gin.Context) {
	types, err := h.catalogService.ListServiceTypes(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Service types retrieved successfully", types)
}

func (h *CatalogHandler) GetServiceType(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	st, err := h.catalogService.GetServiceType(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Service type retrieved successfully", st)
}

func (h *CatalogHandler) CreateServiceType(c *gin.Context) {
	var req request.ServiceTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	st, err := h.catalogService.CreateServiceType(c.Request.Context(), toServiceTypeInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Service type created successfully", st)
}

func (h *CatalogHandler) UpdateServiceType(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req request.ServiceTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	st, err := h.catalogService.UpdateServiceType(c.Request.Context(), id, toServiceTypeInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Service type updated successfully", st)
}

func (h *CatalogHandler) DeleteServiceType(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteServiceType(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Service type deleted successfully", nil)
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Categories retrieved successfully", categories)
}

func (h *CatalogHandler) GetCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	category, err := h.catalogService.GetCategory(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Category retrieved successfully", category)
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req request.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	category, err := h.catalogService.CreateCategory(c.Request.Context(), &service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Category created successfully", category)
}

func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req request.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	category, err := h.catalogService.UpdateCategory(c.Request.Context(), id, &service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Category updated successfully", category)
}

func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteCategory(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Category deleted successfully", nil)
}
