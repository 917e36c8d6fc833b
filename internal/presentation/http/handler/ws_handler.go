package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/primekad/laundry-management-system-sub002/internal/application/service"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/entity"
	"github.com/primekad/laundry-management-system-sub002/internal/infrastructure/realtime"
	"github.com/primekad/laundry-management-system-sub002/internal/presentation/http/dto/response"
	"github.com/primekad/laundry-management-system-sub002/pkg/utils"
	"github.com/rs/zerolog/log"
)

// WSHandler upgrades authenticated clients onto the branch event stream
type WSHandler struct {
	hub           *realtime.Hub
	jwtManager    *utils.JWTManager
	branchService *service.BranchService
	upgrader      websocket.Upgrader
}

// NewWSHandler creates the websocket handler. An empty allowedOrigins list
// only accepts same-host origins.
func NewWSHandler(hub *realtime.Hub, jwtManager *utils.JWTManager, branchService *service.BranchService, allowedOrigins []string) *WSHandler {
	h := &WSHandler{hub: hub, jwtManager: jwtManager, branchService: branchService}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	wildcard := false
	for _, o := range allowed {
		if o == "*" {
			wildcard = true
		}
		set[strings.TrimRight(o, "/")] = struct{}{}
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || wildcard {
			return true
		}
		if len(set) == 0 {
			u, err := url.Parse(origin)
			return err == nil && strings.EqualFold(u.Host, r.Host)
		}
		_, ok := set[origin]
		return ok
	}
}

// Connect handles GET /ws?token=<access token>&branch_id=<id>. Browsers
// cannot set headers on the handshake, so the token travels in the query.
func (h *WSHandler) Connect(c *gin.Context) {
	claims, err := h.jwtManager.ValidateAccessToken(c.Query("token"))
	if err != nil {
		response.Unauthorized(c, "Invalid or expired token")
		return
	}

	requested := uuid.Nil
	if raw := c.Query("branch_id"); raw != "" {
		if requested, err = uuid.Parse(raw); err != nil {
			response.BadRequest(c, "Invalid branch id")
			return
		}
	}

	superAdmin := false
	for _, r := range claims.Roles {
		if r == entity.RoleSuperAdmin {
			superAdmin = true
		}
	}

	branch, err := h.branchService.ResolveBranch(c.Request.Context(), claims.UserID, requested, superAdmin)
	if err != nil {
		response.Error(c, err)
		return
	}
	if branch == nil {
		response.Forbidden(c, "You are not assigned to any branch")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		log.Ctx(c.Request.Context()).Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	h.hub.Attach(conn, branch.ID, claims.UserID)
}
