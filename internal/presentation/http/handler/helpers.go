package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/entity"
	"github.com/primekad/laundry-management-system-sub002/internal/presentation/http/dto/response"
	"github.com/primekad/laundry-management-system-sub002/internal/presentation/http/middleware"
	"github.com/primekad/laundry-management-system-sub002/pkg/pagination"
)

// Gin context keys set by the auth middleware
const (
	CtxUserID = middleware.CtxUserID
	CtxRoles  = middleware.CtxRoles
)

// BranchCookieName is the cookie the branch switcher writes
const BranchCookieName = middleware.BranchCookie

const dateLayout = "2006-01-02"

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(CtxUserID); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// GetUserRoles extracts the user roles from the Gin context
func GetUserRoles(c *gin.Context) []string {
	if v, ok := c.Get(CtxRoles); ok {
		if roles, ok := v.([]string); ok {
			return roles
		}
	}
	return nil
}

// IsSuperAdmin checks if the user has the super-admin role
func IsSuperAdmin(c *gin.Context) bool {
	for _, role := range GetUserRoles(c) {
		if role == entity.RoleSuperAdmin {
			return true
		}
	}
	return false
}

// parseID reads a uuid path parameter, writing a 400 when it is malformed
func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		response.BadRequest(c, "Invalid "+strings.ReplaceAll(param, "_", " "))
		return uuid.Nil, false
	}
	return id, true
}

func pageParams(c *gin.Context) *pagination.PaginationParams {
	p := &pagination.PaginationParams{
		Page:    queryInt(c, "page"),
		PerPage: queryInt(c, "per_page"),
	}
	p.Validate()
	return p
}

func cursorParams(c *gin.Context) *pagination.CursorParams {
	p := &pagination.CursorParams{
		Cursor: c.Query("cursor"),
		Limit:  queryInt(c, "limit"),
	}
	p.Validate()
	return p
}

// useCursor reports whether the caller asked for cursor pagination
func useCursor(c *gin.Context) bool {
	_, hasCursor := c.GetQuery("cursor")
	return hasCursor || c.Query("pagination") == "cursor"
}

func queryInt(c *gin.Context, key string) int {
	n, _ := strconv.Atoi(c.Query(key))
	return n
}

// queryDate parses a YYYY-MM-DD query value, writing a 400 when malformed
func queryDate(c *gin.Context, key string) (*time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		response.BadRequest(c, key+" must be a date in YYYY-MM-DD format")
		return nil, false
	}
	return &t, true
}

func queryUUID(c *gin.Context, key string) (*uuid.UUID, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		response.BadRequest(c, "Invalid "+key)
		return nil, false
	}
	return &id, true
}
