package cache

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestViewCache_InvalidateOrder(t *testing.T) {
	c := NewViewCache(time.Minute)
	branch, order := uuid.New(), uuid.New()

	c.SetDetail(order, c.Token(), "detail")
	c.SetList(branch, "page=1", c.Token(), "list")

	if _, ok := c.GetDetail(order); !ok {
		t.Fatal("expected detail hit")
	}
	if _, ok := c.GetList(branch, "page=1"); !ok {
		t.Fatal("expected list hit")
	}

	c.InvalidateOrder(branch, order)

	if _, ok := c.GetDetail(order); ok {
		t.Fatal("detail should be evicted")
	}
	if _, ok := c.GetList(branch, "page=1"); ok {
		t.Fatal("list should be evicted")
	}
}

func TestViewCache_SetAfterInvalidationDropped(t *testing.T) {
	c := NewViewCache(time.Minute)
	branch, order := uuid.New(), uuid.New()

	// reader takes its token and loads, then a write commits before it stores
	token := c.Token()
	c.InvalidateOrder(branch, order)
	c.SetDetail(order, token, "stale")
	c.SetList(branch, "page=1", token, "stale")

	if _, ok := c.GetDetail(order); ok {
		t.Fatal("stale detail was cached")
	}
	if _, ok := c.GetList(branch, "page=1"); ok {
		t.Fatal("stale list was cached")
	}

	// a load that started after the invalidation is stored
	token = c.Token()
	c.SetDetail(order, token, "fresh")
	c.SetList(branch, "page=1", token, "fresh")
	if v, ok := c.GetDetail(order); !ok || v != "fresh" {
		t.Fatalf("expected fresh detail, got %v %v", v, ok)
	}
	if v, ok := c.GetList(branch, "page=1"); !ok || v != "fresh" {
		t.Fatalf("expected fresh list, got %v %v", v, ok)
	}
}

func TestViewCache_UnrelatedInvalidationKeepsSet(t *testing.T) {
	c := NewViewCache(time.Minute)
	a, b := uuid.New(), uuid.New()
	order := uuid.New()

	token := c.Token()
	c.InvalidateOrder(a, uuid.New())
	c.SetDetail(order, token, "detail")
	c.SetList(b, "", token, "list")

	if _, ok := c.GetDetail(order); !ok {
		t.Fatal("detail of another order should be stored")
	}
	if _, ok := c.GetList(b, ""); !ok {
		t.Fatal("list of another branch should be stored")
	}
}

func TestViewCache_OtherBranchUntouched(t *testing.T) {
	c := NewViewCache(time.Minute)
	a, b := uuid.New(), uuid.New()

	c.SetList(a, "", c.Token(), "a")
	c.SetList(b, "", c.Token(), "b")
	c.InvalidateBranch(a)

	if v, ok := c.GetList(b, ""); !ok || v != "b" {
		t.Fatal("branch b list should survive")
	}
}

func TestViewCache_Expiry(t *testing.T) {
	c := NewViewCache(time.Second)
	now := time.Now()
	c.now = func() time.Time { return now }

	id := uuid.New()
	c.SetDetail(id, c.Token(), 1)

	c.now = func() time.Time { return now.Add(2 * time.Second) }
	if _, ok := c.GetDetail(id); ok {
		t.Fatal("entry should have expired")
	}
	if n := c.Sweep(); n != 1 {
		t.Fatalf("expected 1 swept entry, got %d", n)
	}
}

func TestViewCache_SweepForgetsOldMarks(t *testing.T) {
	c := NewViewCache(time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }

	c.InvalidateOrder(uuid.New(), uuid.New())
	c.now = func() time.Time { return now.Add(markRetention + time.Second) }
	c.Sweep()

	if len(c.marks) != 0 {
		t.Fatalf("expected marks to be forgotten, got %d", len(c.marks))
	}
}

func TestViewCache_ZeroTTLDisables(t *testing.T) {
	c := NewViewCache(0)
	id := uuid.New()
	c.SetDetail(id, c.Token(), "x")
	if _, ok := c.GetDetail(id); ok {
		t.Fatal("zero ttl should not cache")
	}
}
