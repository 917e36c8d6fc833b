package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/entity"
)

func newBranchFixture() (*BranchService, *memBranchRepo, *memUserRepo) {
	branches := &memBranchRepo{branches: map[uuid.UUID]entity.Branch{}}
	users := newMemUserRepo()
	return NewBranchService(branches, users), branches, users
}

func TestCreateBranch(t *testing.T) {
	svc, _, _ := newBranchFixture()
	ctx := context.Background()

	b, err := svc.CreateBranch(ctx, &BranchInput{Name: "East Legon", Settings: map[string]interface{}{entity.SettingCurrency: "NGN"}})
	if err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}
	if b.Code == "" {
		t.Error("code not generated")
	}
	if b.SettingString(entity.SettingCurrency, "") != "NGN" {
		t.Error("settings override lost")
	}
	if b.SettingString(entity.SettingReceiptFooter, "") == "" {
		t.Error("default settings not merged")
	}

	_, err = svc.CreateBranch(ctx, &BranchInput{Name: "Other", Code: b.Code})
	assertCode(t, err, http.StatusConflict)
}

func TestResolveBranch(t *testing.T) {
	svc, branches, _ := newBranchFixture()
	ctx := context.Background()

	userID := uuid.New()
	mine := entity.Branch{ID: uuid.New(), Name: "A Mine", IsActive: true}
	other := entity.Branch{ID: uuid.New(), Name: "B Other", IsActive: true}
	closed := entity.Branch{ID: uuid.New(), Name: "C Closed"}
	for _, b := range []entity.Branch{mine, other, closed} {
		branches.branches[b.ID] = b
	}
	_ = branches.AddMember(ctx, &entity.BranchMembership{BranchID: mine.ID, UserID: userID})

	got, err := svc.ResolveBranch(ctx, userID, uuid.Nil, false)
	if err != nil || got == nil || got.ID != mine.ID {
		t.Fatalf("default branch = %v, %v", got, err)
	}

	_, err = svc.ResolveBranch(ctx, userID, other.ID, false)
	assertCode(t, err, http.StatusForbidden)

	got, err = svc.ResolveBranch(ctx, userID, other.ID, true)
	if err != nil || got.ID != other.ID {
		t.Fatalf("super admin should reach any branch: %v", err)
	}

	_, err = svc.ResolveBranch(ctx, userID, closed.ID, true)
	assertCode(t, err, http.StatusNotFound)

	got, err = svc.ResolveBranch(ctx, uuid.New(), uuid.Nil, false)
	if err != nil || got != nil {
		t.Errorf("user without branches should resolve to nil, got %v, %v", got, err)
	}
}

func TestAddMember(t *testing.T) {
	svc, branches, users := newBranchFixture()
	ctx := context.Background()

	branch := entity.Branch{ID: uuid.New(), Name: "Main", IsActive: true}
	branches.branches[branch.ID] = branch
	user := entity.User{ID: uuid.New(), Email: "kwame@example.com"}
	users.users[user.ID] = user

	if err := svc.AddMember(ctx, branch.ID, user.ID, ""); err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if role := branches.members[branch.ID][user.ID]; role != entity.RoleStaff {
		t.Errorf("role = %q, want staff", role)
	}

	assertCode(t, svc.AddMember(ctx, branch.ID, user.ID, ""), http.StatusConflict)
	assertCode(t, svc.AddMember(ctx, branch.ID, uuid.New(), ""), http.StatusNotFound)
}
