package repository

import (
	"context"
	"sync"

	"fsanano/marketplace/internal/model"
)

// MemoryRepository keeps the three tables in process memory. Rows are kept in
// insertion order and each table has its own lock, so writes to a table are
// serialized while reads share it.
type MemoryRepository struct {
	users  *table[model.User]
	orders *table[model.Order]
	offers *table[model.Offer]
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:  newTable(func(u *model.User) *int { return &u.ID }),
		orders: newTable(func(o *model.Order) *int { return &o.ID }),
		offers: newTable(func(o *model.Offer) *int { return &o.ID }),
	}
}

func (r *MemoryRepository) ListUsers(ctx context.Context) ([]model.User, error) {
	return r.users.list(), nil
}

func (r *MemoryRepository) GetUser(ctx context.Context, id int) (model.User, error) {
	return r.users.get(id)
}

func (r *MemoryRepository) CreateUser(ctx context.Context, u model.User) (model.User, error) {
	return r.users.insert(u), nil
}

func (r *MemoryRepository) UpdateUser(ctx context.Context, id int, fn func(*model.User)) (model.User, error) {
	return r.users.update(id, fn)
}

func (r *MemoryRepository) DeleteUser(ctx context.Context, id int) error {
	return r.users.delete(id)
}

func (r *MemoryRepository) ListOrders(ctx context.Context) ([]model.Order, error) {
	return r.orders.list(), nil
}

func (r *MemoryRepository) GetOrder(ctx context.Context, id int) (model.Order, error) {
	return r.orders.get(id)
}

func (r *MemoryRepository) CreateOrder(ctx context.Context, o model.Order) (model.Order, error) {
	return r.orders.insert(o), nil
}

func (r *MemoryRepository) UpdateOrder(ctx context.Context, id int, fn func(*model.Order)) (model.Order, error) {
	return r.orders.update(id, fn)
}

func (r *MemoryRepository) DeleteOrder(ctx context.Context, id int) error {
	return r.orders.delete(id)
}

func (r *MemoryRepository) ListOffers(ctx context.Context) ([]model.Offer, error) {
	return r.offers.list(), nil
}

func (r *MemoryRepository) GetOffer(ctx context.Context, id int) (model.Offer, error) {
	return r.offers.get(id)
}

func (r *MemoryRepository) CreateOffer(ctx context.Context, o model.Offer) (model.Offer, error) {
	return r.offers.insert(o), nil
}

func (r *MemoryRepository) UpdateOffer(ctx context.Context, id int, fn func(*model.Offer)) (model.Offer, error) {
	return r.offers.update(id, fn)
}

func (r *MemoryRepository) DeleteOffer(ctx context.Context, id int) error {
	return r.offers.delete(id)
}

type table[T any] struct {
	mu   sync.RWMutex
	rows []T
	id   func(*T) *int
}

func newTable[T any](id func(*T) *int) *table[T] {
	return &table[T]{id: id}
}

func (t *table[T]) list() []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]T, len(t.rows))
	copy(out, t.rows)
	return out
}

func (t *table[T]) get(id int) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if i := t.indexOf(id); i >= 0 {
		return t.rows[i], nil
	}
	var zero T
	return zero, model.ErrNotFound
}

// insert stores row, assigning the next free id when its id is zero. A row
// with an id already in use replaces the previous occupant in place.
func (t *table[T]) insert(row T) T {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.id(&row)
	if *id == 0 {
		*id = t.nextID()
	}
	if i := t.indexOf(*id); i >= 0 {
		t.rows[i] = row
		return row
	}
	t.rows = append(t.rows, row)
	return row
}

// update applies fn to a copy of the row and stores the result. If fn moves
// the row to an id held by another row, that row is dropped.
func (t *table[T]) update(id int, fn func(*T)) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.indexOf(id)
	if i < 0 {
		var zero T
		return zero, model.ErrNotFound
	}
	row := t.rows[i]
	fn(&row)
	t.rows[i] = row
	if newID := *t.id(&row); newID != id {
		for j := range t.rows {
			if j != i && *t.id(&t.rows[j]) == newID {
				t.rows = append(t.rows[:j], t.rows[j+1:]...)
				break
			}
		}
	}
	return row, nil
}

func (t *table[T]) delete(id int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.indexOf(id)
	if i < 0 {
		return model.ErrNotFound
	}
	t.rows = append(t.rows[:i], t.rows[i+1:]...)
	return nil
}

func (t *table[T]) indexOf(id int) int {
	for i := range t.rows {
		if *t.id(&t.rows[i]) == id {
			return i
		}
	}
	return -1
}

func (t *table[T]) nextID() int {
	next := 1
	for i := range t.rows {
		if id := *t.id(&t.rows[i]); id >= next {
			next = id + 1
		}
	}
	return next
}
