package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/entity"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/enum"
	"github.com/primekad/laundry-management-system-sub002/internal/domain/repository"
	"github.com/primekad/laundry-management-system-sub002/pkg/pagination"
)

var errInjected = errors.New("injected failure")

// memStore is an in-memory stand-in for the order tables. The fake unit of
// work runs against a clone and swaps it in only when fn succeeds.
type memStore struct {
	orders       map[uuid.UUID]entity.Order
	items        map[uuid.UUID][]entity.OrderItem
	payments     map[uuid.UUID][]entity.Payment
	customers    map[uuid.UUID]entity.Customer
	serviceTypes map[uuid.UUID]entity.ServiceType
	categories   map[uuid.UUID]entity.ServiceCategory

	// failOn makes the named write fail: "order", "items", "payment", "customer"
	failOn string
}

func newMemStore() *memStore {
	return &memStore{
		orders:       map[uuid.UUID]entity.Order{},
		items:        map[uuid.UUID][]entity.OrderItem{},
		payments:     map[uuid.UUID][]entity.Payment{},
		customers:    map[uuid.UUID]entity.Customer{},
		serviceTypes: map[uuid.UUID]entity.ServiceType{},
		categories:   map[uuid.UUID]entity.ServiceCategory{},
	}
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	c.failOn = s.failOn
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.items {
		c.items[k] = append([]entity.OrderItem(nil), v...)
	}
	for k, v := range s.payments {
		c.payments[k] = append([]entity.Payment(nil), v...)
	}
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.serviceTypes {
		c.serviceTypes[k] = v
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	return c
}

func inBranch(ctx context.Context, branchID uuid.UUID) bool {
	if id, ok := repository.BranchFromContext(ctx); ok {
		return id == branchID
	}
	return repository.AllBranches(ctx)
}

// --- unit of work ---

type memUoW struct {
	mu    sync.Mutex
	store **memStore
	// beforeFn runs against the staged store, letting tests simulate
	// a concurrent writer
	beforeFn func(staged *memStore)
	calls    int
}

func (u *memUoW) Do(ctx context.Context, fn func(ctx context.Context, repos *repository.TxRepositories) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls++

	staged := (*u.store).clone()
	if u.beforeFn != nil {
		u.beforeFn(staged)
	}
	if err := fn(ctx, reposFor(&staged)); err != nil {
		return err
	}
	*u.store = staged
	return nil
}

func reposFor(store **memStore) *repository.TxRepositories {
	return &repository.TxRepositories{
		Orders:     &memOrderRepo{store: store},
		OrderItems: &memItemRepo{store: store},
		Payments:   &memPaymentRepo{store: store},
		Customers:  &memCustomerRepo{store: store},
	}
}

// --- orders ---

type memOrderRepo struct {
	store **memStore

	// afterRead runs once a read has copied its rows, before it returns
	afterRead func()
}

func (r *memOrderRepo) readDone() {
	if hook := r.afterRead; hook != nil {
		r.afterRead = nil
		hook()
	}
}

func (r *memOrderRepo) Create(_ context.Context, order *entity.Order) error {
	s := *r.store
	if s.failOn == "order" {
		return errInjected
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	s.orders[order.ID] = *order
	return nil
}

func (r *memOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	o, ok := (*r.store).orders[id]
	if !ok || !inBranch(ctx, o.BranchID) || o.DeletedAt.Valid {
		return nil, nil
	}
	return &o, nil
}

func (r *memOrderRepo) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	o, err := r.GetByID(ctx, id)
	if o == nil || err != nil {
		return o, err
	}
	s := *r.store
	o.Items = append([]entity.OrderItem(nil), s.items[id]...)
	o.Payments = append([]entity.Payment(nil), s.payments[id]...)
	if o.CustomerID != nil {
		if c, ok := s.customers[*o.CustomerID]; ok {
			o.Customer = &c
		}
	}
	r.readDone()
	return o, nil
}

func (r *memOrderRepo) UpdateVersioned(_ context.Context, order *entity.Order, expectedVersion int) (bool, error) {
	s := *r.store
	if s.failOn == "order" {
		return false, errInjected
	}
	current, ok := s.orders[order.ID]
	if !ok || current.Version != expectedVersion {
		return false, nil
	}
	updated := *order
	updated.Items, updated.Payments, updated.Customer = nil, nil, nil
	updated.Version = expectedVersion + 1
	s.orders[order.ID] = updated
	order.Version = expectedVersion + 1
	return true, nil
}

func (r *memOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status enum.OrderStatus) error {
	s := *r.store
	o := s.orders[id]
	o.Status = status
	o.Version++
	s.orders[id] = o
	return nil
}

func (r *memOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	s := *r.store
	o := s.orders[id]
	o.DeletedAt.Valid = true
	s.orders[id] = o
	return nil
}

func (r *memOrderRepo) list(ctx context.Context) []entity.Order {
	var out []entity.Order
	for _, o := range (*r.store).orders {
		if inBranch(ctx, o.BranchID) && !o.DeletedAt.Valid {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderNumber < out[j].OrderNumber })
	return out
}

func (r *memOrderRepo) List(ctx context.Context, _ *repository.OrderFilterParams) ([]entity.Order, int64, error) {
	out := r.list(ctx)
	r.readDone()
	return out, int64(len(out)), nil
}

func (r *memOrderRepo) ListWithCursor(ctx context.Context, p *repository.OrderCursorFilterParams) ([]entity.Order, error) {
	p.Cursor.Validate()
	if _, err := p.Cursor.Decode(); err != nil {
		return nil, err
	}
	return r.list(ctx), nil
}

func (r *memOrderRepo) GetDueOrders(ctx context.Context, _ *pagination.PaginationParams) ([]entity.Order, int64, error) {
	var out []entity.Order
	for _, o := range r.list(ctx) {
		if o.AmountDue.IsPositive() {
			out = append(out, o)
		}
	}
	return out, int64(len(out)), nil
}

// --- items ---

type memItemRepo struct {
	store **memStore
}

func (r *memItemRepo) CreateBatch(_ context.Context, items []entity.OrderItem) error {
	s := *r.store
	if s.failOn == "items" {
		return errInjected
	}
	for _, it := range items {
		if it.ID == uuid.Nil {
			it.ID = uuid.New()
		}
		s.items[it.OrderID] = append(s.items[it.OrderID], it)
	}
	return nil
}

func (r *memItemRepo) GetByOrderID(_ context.Context, orderID uuid.UUID) ([]entity.OrderItem, error) {
	return (*r.store).items[orderID], nil
}

func (r *memItemRepo) DeleteByOrderID(_ context.Context, orderID uuid.UUID) error {
	delete((*r.store).items, orderID)
	return nil
}

// --- payments ---

type memPaymentRepo struct {
	store **memStore
}

func (r *memPaymentRepo) Create(_ context.Context, p *entity.Payment) error {
	s := *r.store
	if s.failOn == "payment" {
		return errInjected
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	s.payments[p.OrderID] = append(s.payments[p.OrderID], *p)
	return nil
}

func (r *memPaymentRepo) GetByOrderID(_ context.Context, orderID uuid.UUID) ([]entity.Payment, error) {
	return (*r.store).payments[orderID], nil
}

func (r *memPaymentRepo) List(_ context.Context, _ *repository.PaymentFilterParams) ([]entity.Payment, int64, error) {
	var out []entity.Payment
	for _, ps := range (*r.store).payments {
		out = append(out, ps...)
	}
	return out, int64(len(out)), nil
}

// --- customers ---

type memCustomerRepo struct {
	store **memStore
}

func (r *memCustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	s := *r.store
	if s.failOn == "customer" {
		return errInjected
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	s.customers[c.ID] = *c
	return nil
}

func (r *memCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	c, ok := (*r.store).customers[id]
	if !ok || !inBranch(ctx, c.BranchID) {
		return nil, nil
	}
	return &c, nil
}

func (r *memCustomerRepo) GetByPhone(ctx context.Context, phone string) (*entity.Customer, error) {
	for _, c := range (*r.store).customers {
		if c.Phone != nil && *c.Phone == phone && inBranch(ctx, c.BranchID) {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memCustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	(*r.store).customers[c.ID] = *c
	return nil
}

func (r *memCustomerRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete((*r.store).customers, id)
	return nil
}

func (r *memCustomerRepo) List(ctx context.Context, _ *pagination.PaginationParams, _ string) ([]entity.Customer, int64, error) {
	var out []entity.Customer
	for _, c := range (*r.store).customers {
		if inBranch(ctx, c.BranchID) {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memCustomerRepo) ListWithCursor(ctx context.Context, _ *pagination.CursorParams, search string) ([]entity.Customer, error) {
	out, _, err := r.List(ctx, nil, search)
	return out, err
}

// --- service types ---

type memServiceTypeRepo struct {
	store **memStore
}

func (r *memServiceTypeRepo) Create(_ context.Context, st *entity.ServiceType) error {
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	(*r.store).serviceTypes[st.ID] = *st
	return nil
}

func (r *memServiceTypeRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.ServiceType, error) {
	st, ok := (*r.store).serviceTypes[id]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (r *memServiceTypeRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]entity.ServiceType, error) {
	var out []entity.ServiceType
	for _, id := range ids {
		if st, ok := (*r.store).serviceTypes[id]; ok {
			out = append(out, st)
		}
	}
	return out, nil
}

func (r *memServiceTypeRepo) Update(_ context.Context, st *entity.ServiceType) error {
	(*r.store).serviceTypes[st.ID] = *st
	return nil
}

func (r *memServiceTypeRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete((*r.store).serviceTypes, id)
	return nil
}

func (r *memServiceTypeRepo) List(_ context.Context, _ bool) ([]entity.ServiceType, error) {
	var out []entity.ServiceType
	for _, st := range (*r.store).serviceTypes {
		out = append(out, st)
	}
	return out, nil
}

// --- categories ---

type memCategoryRepo struct {
	store **memStore
}

func (r *memCategoryRepo) Create(_ context.Context, c *entity.ServiceCategory) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	(*r.store).categories[c.ID] = *c
	return nil
}

func (r *memCategoryRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.ServiceCategory, error) {
	c, ok := (*r.store).categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *memCategoryRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]entity.ServiceCategory, error) {
	var out []entity.ServiceCategory
	for _, id := range ids {
		if c, ok := (*r.store).categories[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memCategoryRepo) Update(_ context.Context, c *entity.ServiceCategory) error {
	(*r.store).categories[c.ID] = *c
	return nil
}

func (r *memCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete((*r.store).categories, id)
	return nil
}

func (r *memCategoryRepo) List(_ context.Context) ([]entity.ServiceCategory, error) {
	var out []entity.ServiceCategory
	for _, c := range (*r.store).categories {
		out = append(out, c)
	}
	return out, nil
}

// --- events ---

type recordedEvent struct {
	branchID  uuid.UUID
	eventType string
}

type fakePublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *fakePublisher) Publish(branchID uuid.UUID, eventType string, _ interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{branchID: branchID, eventType: eventType})
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.eventType)
	}
	return out
}

// --- branches ---

type memBranchRepo struct {
	branches map[uuid.UUID]entity.Branch
	members  map[uuid.UUID]map[uuid.UUID]string
}

func (r *memBranchRepo) Create(_ context.Context, b *entity.Branch) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	r.branches[b.ID] = *b
	return nil
}

func (r *memBranchRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Branch, error) {
	b, ok := r.branches[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *memBranchRepo) GetByCode(_ context.Context, code string) (*entity.Branch, error) {
	for _, b := range r.branches {
		if b.Code == code {
			b := b
			return &b, nil
		}
	}
	return nil, nil
}

func (r *memBranchRepo) Update(_ context.Context, b *entity.Branch) error {
	r.branches[b.ID] = *b
	return nil
}

func (r *memBranchRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.branches, id)
	return nil
}

func (r *memBranchRepo) List(_ context.Context, _ *pagination.PaginationParams, _ string) ([]entity.Branch, int64, error) {
	var out []entity.Branch
	for _, b := range r.branches {
		out = append(out, b)
	}
	return out, int64(len(out)), nil
}

func (r *memBranchRepo) GetUserBranches(_ context.Context, userID uuid.UUID) ([]entity.Branch, error) {
	var out []entity.Branch
	for branchID, users := range r.members {
		if _, ok := users[userID]; ok {
			out = append(out, r.branches[branchID])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memBranchRepo) AddMember(_ context.Context, m *entity.BranchMembership) error {
	if r.members == nil {
		r.members = map[uuid.UUID]map[uuid.UUID]string{}
	}
	if r.members[m.BranchID] == nil {
		r.members[m.BranchID] = map[uuid.UUID]string{}
	}
	r.members[m.BranchID][m.UserID] = m.Role
	return nil
}

func (r *memBranchRepo) RemoveMember(_ context.Context, branchID, userID uuid.UUID) error {
	delete(r.members[branchID], userID)
	return nil
}

func (r *memBranchRepo) GetMembers(_ context.Context, branchID uuid.UUID) ([]entity.BranchMembership, error) {
	var out []entity.BranchMembership
	for userID, role := range r.members[branchID] {
		out = append(out, entity.BranchMembership{BranchID: branchID, UserID: userID, Role: role})
	}
	return out, nil
}

func (r *memBranchRepo) IsMember(_ context.Context, branchID, userID uuid.UUID) (bool, error) {
	_, ok := r.members[branchID][userID]
	return ok, nil
}

// --- users ---

type memUserRepo struct {
	users map[uuid.UUID]entity.User
	roles map[uuid.UUID][]uint
	// catalog of known roles by id
	catalog map[uint]entity.Role
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		users: map[uuid.UUID]entity.User{},
		roles: map[uuid.UUID][]uint{},
		catalog: map[uint]entity.Role{
			1: {ID: 1, Name: entity.RoleSuperAdmin},
			2: {ID: 2, Name: entity.RoleAdmin, Permissions: []entity.Permission{{ID: 1, Name: "manage-users"}}},
			3: {ID: 3, Name: entity.RoleStaff, Permissions: []entity.Permission{{ID: 2, Name: "manage-orders"}}},
		},
	}
}

func (r *memUserRepo) Create(_ context.Context, u *entity.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = *u
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Update(_ context.Context, u *entity.User) error {
	stored := *u
	stored.Roles = nil
	r.users[u.ID] = stored
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.users, id)
	return nil
}

func (r *memUserRepo) List(_ context.Context, _ *pagination.PaginationParams, _ string) ([]entity.User, int64, error) {
	var out []entity.User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (r *memUserRepo) GetWithRoles(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	u, err := r.GetByID(ctx, id)
	if u == nil || err != nil {
		return u, err
	}
	for _, roleID := range r.roles[id] {
		u.Roles = append(u.Roles, r.catalog[roleID])
	}
	return u, nil
}

func (r *memUserRepo) SyncRoles(_ context.Context, userID uuid.UUID, roleIDs []uint) error {
	r.roles[userID] = append([]uint(nil), roleIDs...)
	return nil
}

// memRoleRepo reads the role catalog of a memUserRepo
type memRoleRepo struct {
	users *memUserRepo
}

func (r *memRoleRepo) GetByName(_ context.Context, name string) (*entity.Role, error) {
	for _, role := range r.users.catalog {
		if role.Name == name {
			role := role
			return &role, nil
		}
	}
	return nil, nil
}

func (r *memRoleRepo) GetByNames(ctx context.Context, names []string) ([]entity.Role, error) {
	var out []entity.Role
	for _, n := range names {
		role, _ := r.GetByName(ctx, n)
		if role != nil {
			out = append(out, *role)
		}
	}
	return out, nil
}

func (r *memRoleRepo) List(_ context.Context) ([]entity.Role, error) {
	var out []entity.Role
	for _, role := range r.users.catalog {
		out = append(out, role)
	}
	return out, nil
}
