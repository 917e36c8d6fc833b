package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/entity"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/repository"
	"github.com/primekad/laundry-management-system-sub002/pkg/apperror"
	"github.com/primekad/laundry-management-system-sub002/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// withUser stands in for AuthMiddleware
func withUser(id uuid.UUID, roles, perms []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(CtxUserID, id)
		c.Set(CtxRoles, roles)
		c.Set(CtxPermissions, perms)
		c.Next()
	}
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	jwt := utils.NewJWTManager("secret", time.Minute, time.Hour)
	id := uuid.New()
	token, _ := jwt.GenerateAccessToken(id, "kofi@example.com", []string{entity.RoleStaff}, []string{"manage-orders"})

	r := gin.New()
	r.GET("/me", AuthMiddleware(jwt), func(c *gin.Context) {
		c.String(http.StatusOK, userID(c).String())
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
		{"lowercase scheme", "bearer " + token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := serve(r, req)
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
			if tt.want == http.StatusOK && w.Body.String() != id.String() {
				t.Fatalf("user id not set, got %q", w.Body.String())
			}
		})
	}
}

func TestRequirePermission(t *testing.T) {
	tests := []struct {
		name  string
		roles []string
		perms []string
		want  int
	}{
		{"holds permission", []string{entity.RoleStaff}, []string{"manage-orders"}, http.StatusOK},
		{"lacks permission", []string{entity.RoleStaff}, []string{"view-reports"}, http.StatusForbidden},
		{"super admin", []string{entity.RoleSuperAdmin}, nil, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/x", withUser(uuid.New(), tt.roles, tt.perms), RequirePermission("manage-orders"), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})
			if w := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil)); w.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}

type stubResolver struct {
	branch    *entity.Branch
	err       error
	requested uuid.UUID
}

func (s *stubResolver) ResolveBranch(ctx context.Context, userID, requested uuid.UUID, superAdmin bool) (*entity.Branch, error) {
	s.requested = requested
	return s.branch, s.err
}

func branchRouter(res BranchResolver, roles []string) *gin.Engine {
	r := gin.New()
	r.GET("/orders", withUser(uuid.New(), roles, nil), BranchMiddleware(res), func(c *gin.Context) {
		ctx := c.Request.Context()
		if repository.AllBranches(ctx) {
			c.String(http.StatusOK, "all")
			return
		}
		id, _ := repository.BranchFromContext(ctx)
		c.String(http.StatusOK, id.String())
	})
	return r
}

func TestBranchMiddleware_ScopesContext(t *testing.T) {
	branch := &entity.Branch{ID: uuid.New()}
	res := &stubResolver{branch: branch}
	r := branchRouter(res, []string{entity.RoleStaff})

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set(BranchHeader, branch.ID.String())
	w := serve(r, req)

	if w.Code != http.StatusOK || w.Body.String() != branch.ID.String() {
		t.Fatalf("expected branch %s in context, got %d %q", branch.ID, w.Code, w.Body.String())
	}
	if res.requested != branch.ID {
		t.Fatalf("header not passed to resolver: %s", res.requested)
	}
}

func TestBranchMiddleware_FallsBackToCookie(t *testing.T) {
	branch := &entity.Branch{ID: uuid.New()}
	res := &stubResolver{branch: branch}
	r := branchRouter(res, []string{entity.RoleStaff})

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.AddCookie(&http.Cookie{Name: BranchCookie, Value: branch.ID.String()})
	serve(r, req)

	if res.requested != branch.ID {
		t.Fatalf("cookie not passed to resolver: %s", res.requested)
	}
}

func TestBranchMiddleware_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		header string
		roles  []string
		res    *stubResolver
		want   int
	}{
		{"malformed id", "not-a-uuid", []string{entity.RoleStaff}, &stubResolver{}, http.StatusBadRequest},
		{"no branch assigned", "", []string{entity.RoleStaff}, &stubResolver{}, http.StatusForbidden},
		{"not a member", uuid.NewString(), []string{entity.RoleStaff}, &stubResolver{err: apperror.ErrForbidden}, http.StatusForbidden},
		{"all branches needs super admin", "all", []string{entity.RoleAdmin}, &stubResolver{}, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/orders", nil)
			if tt.header != "" {
				req.Header.Set(BranchHeader, tt.header)
			}
			if w := serve(branchRouter(tt.res, tt.roles), req); w.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}

func TestBranchMiddleware_SuperAdminAllBranches(t *testing.T) {
	r := branchRouter(&stubResolver{}, []string{entity.RoleSuperAdmin})

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set(BranchHeader, "all")
	w := serve(r, req)

	if w.Code != http.StatusOK || w.Body.String() != "all" {
		t.Fatalf("expected unscoped context, got %d %q", w.Code, w.Body.String())
	}
}

type memIdempotencyRepo struct {
	mu   sync.Mutex
	keys map[string]*entity.IdempotencyKey
}

func (m *memIdempotencyRepo) GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.keys[userID.String()+key], nil
}

func (m *memIdempotencyRepo) Upsert(ctx context.Context, k *entity.IdempotencyKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[k.UserID.String()+k.Key] = k
	return nil
}

func (m *memIdempotencyRepo) DeleteExpired(ctx context.Context) (int64, error) { return 0, nil }

func TestIdempotency(t *testing.T) {
	repo := &memIdempotencyRepo{keys: map[string]*entity.IdempotencyKey{}}
	calls := 0

	r := gin.New()
	r.POST("/orders", withUser(uuid.New(), nil, nil), Idempotency(IdempotencyConfig{Repo: repo, Required: true}), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"call": calls})
	})

	post := func(key, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
		if key != "" {
			req.Header.Set(IdempotencyKeyHeader, key)
		}
		return serve(r, req)
	}

	if w := post("", `{}`); w.Code != http.StatusBadRequest {
		t.Fatalf("missing key: expected 400, got %d", w.Code)
	}

	first := post("k1", `{"items":[]}`)
	if first.Code != http.StatusCreated {
		t.Fatalf("first: expected 201, got %d", first.Code)
	}

	replay := post("k1", `{"items":[]}`)
	if replay.Code != http.StatusCreated || replay.Header().Get("X-Idempotency-Replayed") != "true" {
		t.Fatalf("expected replayed 201, got %d", replay.Code)
	}
	if replay.Body.String() != first.Body.String() {
		t.Fatalf("replayed body differs: %s vs %s", replay.Body.String(), first.Body.String())
	}
	if calls != 1 {
		t.Fatalf("handler ran %d times", calls)
	}

	if w := post("k1", `{"items":[{}]}`); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("reused key with new body: expected 422, got %d", w.Code)
	}
}

func TestIdempotency_ExpiredKeyRestored(t *testing.T) {
	repo := &memIdempotencyRepo{keys: map[string]*entity.IdempotencyKey{}}
	user := uuid.New()
	repo.keys[user.String()+"k1"] = &entity.IdempotencyKey{
		Key:          "k1",
		UserID:       user,
		Endpoint:     "POST /orders",
		ResponseCode: http.StatusCreated,
		ResponseBody: `{"call":0}`,
		ExpiresAt:    time.Now().Add(-time.Hour),
	}
	calls := 0

	r := gin.New()
	r.POST("/orders", withUser(user, nil, nil), Idempotency(IdempotencyConfig{Repo: repo}), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"call": calls})
	})

	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"items":[]}`))
		req.Header.Set(IdempotencyKeyHeader, "k1")
		return serve(r, req)
	}

	if w := post(); w.Code != http.StatusCreated || w.Header().Get("X-Idempotency-Replayed") != "" {
		t.Fatalf("expired key should run the handler, got %d", w.Code)
	}
	stored := repo.keys[user.String()+"k1"]
	if stored.IsExpired() || stored.ResponseBody != `{"call":1}` {
		t.Fatalf("expired row not replaced: %+v", stored)
	}

	if w := post(); w.Header().Get("X-Idempotency-Replayed") != "true" {
		t.Fatal("retry after re-storing should replay")
	}
	if calls != 1 {
		t.Fatalf("handler ran %d times", calls)
	}
}

func TestBranchRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := NewBranchRateLimiter(ctx, RateLimiterConfig{Requests: 2, Window: time.Hour})
	busy, quiet := uuid.New(), uuid.New()

	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		id, _ := uuid.Parse(c.Query("b"))
		c.Set(CtxBranchID, id)
		c.Next()
	}, rl.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	hit := func(branch uuid.UUID) int {
		return serve(r, httptest.NewRequest(http.MethodGet, "/x?b="+branch.String(), nil)).Code
	}

	hit(busy)
	hit(busy)
	if code := hit(busy); code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 once burst is spent, got %d", code)
	}
	if code := hit(quiet); code != http.StatusOK {
		t.Fatalf("other branch throttled: %d", code)
	}
}
