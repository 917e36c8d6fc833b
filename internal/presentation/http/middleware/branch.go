package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/entity"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/repository"
	"github.com/primekad/laundry-management-system-sub002/internal/presentation/http/dto/response"
	"github.com/rs/zerolog/log"
)

// BranchResolver decides which branch a user may act on
type BranchResolver interface {
	ResolveBranch(ctx context.Context, userID, requested uuid.UUID, superAdmin bool) (*entity.Branch, error)
}

// allBranches is the X-Branch-ID value super admins use for cross-branch reads
const allBranches = "all"

// BranchMiddleware resolves the active branch from the X-Branch-ID header,
// then the branch cookie, then the user's first branch, and scopes the
// request context to it. Must run after AuthMiddleware.
func BranchMiddleware(resolver BranchResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		superAdmin := contains(stringsFrom(c, CtxRoles), entity.RoleSuperAdmin)

		raw := strings.TrimSpace(c.GetHeader(BranchHeader))
		if raw == "" {
			raw, _ = c.Cookie(BranchCookie)
		}

		if raw == allBranches {
			if !superAdmin {
				response.Forbidden(c, "Only super admins may act on all branches")
				c.Abort()
				return
			}
			c.Request = c.Request.WithContext(repository.WithAllBranches(c.Request.Context(), true))
			c.Next()
			return
		}

		requested := uuid.Nil
		if raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				response.BadRequest(c, "Invalid branch id")
				c.Abort()
				return
			}
			requested = id
		}

		branch, err := resolver.ResolveBranch(c.Request.Context(), userID(c), requested, superAdmin)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if branch == nil {
			response.Forbidden(c, "You are not assigned to any branch")
			c.Abort()
			return
		}

		c.Set(CtxBranchID, branch.ID)
		ctx := repository.WithBranch(c.Request.Context(), branch.ID)
		ctx = log.Ctx(ctx).With().Str("branch_id", branch.ID.String()).Logger().WithContext(ctx)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
