package cache

import (
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// markRetention bounds how long an order's last invalidation is remembered.
// A load that outlives it may still store a view it read before the write.
const markRetention = 10 * time.Minute

type entry struct {
	value     interface{}
	expiresAt time.Time
}

type mark struct {
	at   uint64
	when time.Time
}

// ViewCache holds rendered order views for a short TTL. Detail entries are
// keyed by order id; list entries are keyed by branch, the branch's last
// invalidation, and the query string, so one invalidation evicts every list
// view of that branch at once.
//
// Writers take a Token before loading and pass it back on Set. Every
// invalidation advances a clock, and a Set whose token predates the last
// invalidation of its order or branch is dropped.
type ViewCache struct {
	mu          sync.RWMutex
	ttl         time.Duration
	clock       uint64
	details     map[uuid.UUID]entry
	lists       map[string]entry
	generations map[uuid.UUID]uint64
	marks       map[uuid.UUID]mark
	now         func() time.Time
}

// NewViewCache creates a cache; a zero ttl disables caching
func NewViewCache(ttl time.Duration) *ViewCache {
	return &ViewCache{
		ttl:         ttl,
		details:     make(map[uuid.UUID]entry),
		lists:       make(map[string]entry),
		generations: make(map[uuid.UUID]uint64),
		marks:       make(map[uuid.UUID]mark),
		now:         time.Now,
	}
}

// Token returns the invalidation clock. Read it before loading the view.
func (c *ViewCache) Token() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.clock
}

func (c *ViewCache) GetDetail(orderID uuid.UUID) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fresh(c.details[orderID])
}

func (c *ViewCache) SetDetail(orderID uuid.UUID, token uint64, v interface{}) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.marks[orderID]; ok && m.at > token {
		return
	}
	c.details[orderID] = entry{value: v, expiresAt: c.now().Add(c.ttl)}
}

func (c *ViewCache) GetList(branchID uuid.UUID, query string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fresh(c.lists[c.listKey(branchID, query)])
}

func (c *ViewCache) SetList(branchID uuid.UUID, query string, token uint64, v interface{}) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[branchID] > token {
		return
	}
	c.lists[c.listKey(branchID, query)] = entry{value: v, expiresAt: c.now().Add(c.ttl)}
}

// InvalidateOrder drops the order's detail view and every list view of its branch
func (c *ViewCache) InvalidateOrder(branchID, orderID uuid.UUID) {
	c.mu.Lock()
	c.clock++
	delete(c.details, orderID)
	c.marks[orderID] = mark{at: c.clock, when: c.now()}
	c.generations[branchID] = c.clock
	c.mu.Unlock()
}

// InvalidateBranch drops every list view of the branch
func (c *ViewCache) InvalidateBranch(branchID uuid.UUID) {
	c.mu.Lock()
	c.clock++
	c.generations[branchID] = c.clock
	c.mu.Unlock()
}

// Sweep removes expired entries and returns how many were removed
func (c *ViewCache) Sweep() int {
	now := c.now()
	removed := 0

	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.details {
		if now.After(e.expiresAt) {
			delete(c.details, k)
			removed++
		}
	}
	for k, e := range c.lists {
		if now.After(e.expiresAt) {
			delete(c.lists, k)
			removed++
		}
	}
	for k, m := range c.marks {
		if now.Sub(m.when) > markRetention {
			delete(c.marks, k)
		}
	}
	return removed
}

// listKey must be called with c.mu held
func (c *ViewCache) listKey(branchID uuid.UUID, query string) string {
	return branchID.String() + ":" + strconv.FormatUint(c.generations[branchID], 10) + ":" + query
}

func (c *ViewCache) fresh(e entry) (interface{}, bool) {
	if e.value == nil || c.now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}
