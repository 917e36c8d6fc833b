package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Gin context keys set by the middleware chain
const (
	CtxRequestID   = "request_id"
	CtxUserID      = "user_id"
	CtxUserEmail   = "user_email"
	CtxRoles       = "user_roles"
	CtxPermissions = "user_permissions"
	CtxBranchID    = "branch_id"
)

// BranchCookie remembers the branch a user last switched to
const BranchCookie = "branch_id"

// BranchHeader selects the active branch per request
const BranchHeader = "X-Branch-ID"

func userID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(CtxUserID); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

func stringsFrom(c *gin.Context, key string) []string {
	if v, ok := c.Get(key); ok {
		if s, ok := v.([]string); ok {
			return s
		}
	}
	return nil
}

func contains(list []string, want ...string) bool {
	for _, have := range list {
		for _, w := range want {
			if have == w {
				return true
			}
		}
	}
	return false
}
