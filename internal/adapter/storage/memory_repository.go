package storage

import (
	"sync"

	"github.com/rl1809/order-desk/internal/core/domain"
	"github.com/rl1809/order-desk/internal/port"
)

// KeyFunc derives the key of an entity. ok is false when the entity has no
// usable id yet.
type KeyFunc[E any, K comparable] func(entity *E) (key K, ok bool)

var _ port.Repository[domain.Order, string] = (*MemoryRepository[domain.Order, string])(nil)

// MemoryRepository keeps entities in a map keyed by KeyFunc.
type MemoryRepository[E any, K comparable] struct {
	mu    sync.RWMutex
	data  map[K]*E
	keyOf KeyFunc[E, K]
}

func NewMemoryRepository[E any, K comparable](keyOf KeyFunc[E, K]) (*MemoryRepository[E, K], error) {
	if keyOf == nil {
		return nil, domain.NewInvalidArgument("repository: key function is nil")
	}
	return &MemoryRepository[E, K]{
		data:  make(map[K]*E),
		keyOf: keyOf,
	}, nil
}

// NewOrderRepository stores orders under their order id.
func NewOrderRepository() *MemoryRepository[domain.Order, string] {
	repo, _ := NewMemoryRepository[domain.Order, string](func(o *domain.Order) (string, bool) {
		return o.ID(), o.ID() != ""
	})
	return repo
}

// NewArticleRepository stores articles under their article id.
func NewArticleRepository() *MemoryRepository[domain.Article, string] {
	repo, _ := NewMemoryRepository[domain.Article, string](func(a *domain.Article) (string, bool) {
		return a.ID(), a.ID() != ""
	})
	return repo
}

// NewCustomerRepository stores customers under their numeric id.
func NewCustomerRepository() *MemoryRepository[domain.Customer, int64] {
	repo, _ := NewMemoryRepository[domain.Customer, int64](func(c *domain.Customer) (int64, bool) {
		return c.ID()
	})
	return repo
}

func (r *MemoryRepository[E, K]) key(entity *E) (K, error) {
	var zero K
	if entity == nil {
		return zero, domain.NewInvalidArgument("repository: entity is nil")
	}
	k, ok := r.keyOf(entity)
	if !ok {
		return zero, domain.NewInvalidArgument("repository: entity has no id")
	}
	return k, nil
}

func (r *MemoryRepository[E, K]) Save(entity *E) (*E, error) {
	k, err := r.key(entity)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[k] = entity
	return entity, nil
}

func (r *MemoryRepository[E, K]) SaveAll(entities []*E) ([]*E, error) {
	keys := make([]K, len(entities))
	for i, e := range entities {
		k, err := r.key(e)
		if err != nil {
			return nil, err
		}
		keys[i] = k
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := make([]*E, 0, len(entities))
	for i, e := range entities {
		r.data[keys[i]] = e
		saved = append(saved, e)
	}
	return saved, nil
}

func (r *MemoryRepository[E, K]) FindByID(id K) (*E, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.data[id]
	return e, ok
}

func (r *MemoryRepository[E, K]) ExistsByID(id K) bool {
	_, ok := r.FindByID(id)
	return ok
}

func (r *MemoryRepository[E, K]) FindAll() []*E {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*E, 0, len(r.data))
	for _, e := range r.data {
		out = append(out, e)
	}
	return out
}

func (r *MemoryRepository[E, K]) FindAllByID(ids []K) []*E {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var found []*E
	for _, id := range ids {
		if e, ok := r.data[id]; ok {
			found = append(found, e)
		}
	}
	return found
}

func (r *MemoryRepository[E, K]) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}

func (r *MemoryRepository[E, K]) DeleteByID(id K) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, id)
}

func (r *MemoryRepository[E, K]) Delete(entity *E) error {
	k, err := r.key(entity)
	if err != nil {
		return err
	}
	r.DeleteByID(k)
	return nil
}

func (r *MemoryRepository[E, K]) DeleteAllByID(ids []K) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		delete(r.data, id)
	}
}

// DeleteAll stops at the first entity without id; entities before it are removed.
func (r *MemoryRepository[E, K]) DeleteAll(entities []*E) error {
	for _, e := range entities {
		if err := r.Delete(e); err != nil {
			return err
		}
	}
	return nil
}

func (r *MemoryRepository[E, K]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.data)
}
