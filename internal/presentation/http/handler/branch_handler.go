package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/primekad/laundry-management-system-sub002/internal/application/service"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/entity"
	"github.com/primekad/laundry-management-system-sub002/internal/presentation/http/dto/request"
	"github.com/primekad/laundry-management-system-sub002/internal/presentation/http/dto/response"
)

// branchCookieMaxAge keeps the selected branch for 30 days
const branchCookieMaxAge = 30 * 24 * 60 * 60

// BranchHandler handles branch administration and branch switching
type BranchHandler struct {
	branchService *service.BranchService
}

// NewBranchHandler creates a new branch handler
func NewBranchHandler(branchService *service.BranchService) *BranchHandler {
	return &BranchHandler{branchService: branchService}
}

func toBranchInput(req *request.BranchRequest) *service.BranchInput {
	return &service.BranchInput{
		Name:     req.Name,
		Code:     req.Code,
		Address:  req.Address,
		Phone:    req.Phone,
		Email:    req.Email,
		Settings: req.Settings,
		IsActive: req.IsActive,
	}
}

// List handles listing all branches
func (h *BranchHandler) List(c *gin.Context) {
	result, err := h.branchService.ListBranches(c.Request.Context(), pageParams(c), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Branches retrieved successfully", result)
}

// Mine lists the branches the current user belongs to
func (h *BranchHandler) Mine(c *gin.Context) {
	branches, err := h.branchService.GetUserBranches(c.Request.Context(), GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	if branches == nil {
		branches = []entity.Branch{}
	}
	response.OK(c, "Branches retrieved successfully", branches)
}

// Get handles fetching a single branch
func (h *BranchHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	branch, err := h.branchService.GetBranch(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Branch retrieved successfully", branch)
}

// Create handles creating a branch
func (h *BranchHandler) Create(c *gin.Context) {
	var req request.BranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	branch, err := h.branchService.CreateBranch(c.Request.Context(), toBranchInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Branch created successfully", branch)
}

// Update handles updating a branch. Settings are merged, not replaced.
func (h *BranchHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req request.BranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	branch, err := h.branchService.UpdateBranch(c.Request.Context(), id, toBranchInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Branch updated successfully", branch)
}

// Delete handles deleting a branch
func (h *BranchHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.branchService.DeleteBranch(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Branch deleted successfully", nil)
}

// Members lists a branch's members
func (h *BranchHandler) Members(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	members, err := h.branchService.GetMembers(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Members retrieved successfully", members)
}

// AddMember grants a user access to a branch
func (h *BranchHandler) AddMember(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req request.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	if err := h.branchService.AddMember(c.Request.Context(), id, uuid.MustParse(req.UserID), req.Role); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Member added successfully", nil)
}

// RemoveMember revokes a user's access to a branch
func (h *BranchHandler) RemoveMember(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, ok := parseID(c, "user_id")
	if !ok {
		return
	}

	if err := h.branchService.RemoveMember(c.Request.Context(), id, userID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Member removed successfully", nil)
}

// Switch checks the user may act on the branch and remembers it in a cookie
func (h *BranchHandler) Switch(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	branch, err := h.branchService.ResolveBranch(c.Request.Context(), GetUserID(c), id, IsSuperAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(BranchCookieName, branch.ID.String(), branchCookieMaxAge, "/", "", c.Request.TLS != nil, true)
	response.OK(c, "Branch switched successfully", branch)
}
