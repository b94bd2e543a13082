package usecase_test

import (
	"context"
	"errors"
	"slices"
	"sync"

	"shop_backend/internal/feature/cart/domain/entity"
	"shop_backend/internal/feature/cart/usecase"
	catalogentity "shop_backend/internal/feature/catalog/domain/entity"
	"shop_backend/internal/platform/txn"
)

// memStore is an in-memory cart and product store whose transactions are serialized
// and rolled back on error.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	carts    map[string]*entity.Cart
	products map[string]catalogentity.Product

	// conflicts is the number of upcoming transactions that fail with a conflict after running.
	conflicts int
	txCount   int
	findErr   error
}

var (
	_ usecase.CartRepository = (*memStore)(nil)
	_ usecase.ProductStore   = (*memStore)(nil)
	_ txn.Runner             = (*memStore)(nil)
)

func newMemStore(products ...catalogentity.Product) *memStore {
	s := &memStore{
		carts:    map[string]*entity.Cart{},
		products: map[string]catalogentity.Product{},
	}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *memStore) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	s.txCount++
	carts, products := s.snapshot()
	inject := s.conflicts > 0
	if inject {
		s.conflicts--
	}
	s.mu.Unlock()

	err := fn(ctx)
	if err == nil && inject {
		err = txn.Conflict(errors.New("write conflict"))
	}
	if err != nil {
		s.mu.Lock()
		s.carts, s.products = carts, products
		s.mu.Unlock()
	}
	return err
}

func (s *memStore) snapshot() (map[string]*entity.Cart, map[string]catalogentity.Product) {
	carts := make(map[string]*entity.Cart, len(s.carts))
	for k, c := range s.carts {
		carts[k] = cloneCart(c)
	}
	products := make(map[string]catalogentity.Product, len(s.products))
	for k, p := range s.products {
		products[k] = p
	}
	return carts, products
}

func cloneCart(c *entity.Cart) *entity.Cart {
	cp := *c
	cp.Items = slices.Clone(c.Items)
	return &cp
}

func (s *memStore) FindByUserID(_ context.Context, userID string) (*entity.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	c, ok := s.carts[userID]
	if !ok {
		return nil, nil
	}
	return cloneCart(c), nil
}

func (s *memStore) LockByUserID(_ context.Context, userID string) (*entity.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[userID]
	if !ok {
		c = &entity.Cart{UserID: userID}
		s.carts[userID] = c
	}
	return cloneCart(c), nil
}

func (s *memStore) Save(_ context.Context, c *entity.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[c.UserID] = cloneCart(c)
	return nil
}

func (s *memStore) FindByIDs(_ context.Context, ids []string) (map[string]catalogentity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]catalogentity.Product, len(ids))
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (s *memStore) DecrementStock(_ context.Context, id string, qty int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok || p.Stock < qty {
		return false, nil
	}
	p.Stock -= qty
	s.products[id] = p
	return true, nil
}

func (s *memStore) stock(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id].Stock
}

func (s *memStore) items(userID string) []entity.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[userID]
	if !ok {
		return nil
	}
	return slices.Clone(c.Items)
}

func (s *memStore) hasCart(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.carts[userID]
	return ok
}

func (s *memStore) transactions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txCount
}

type recordingCache struct {
	mu  sync.Mutex
	ids []string
	err error
}

func (c *recordingCache) InvalidateProducts(_ context.Context, ids ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ids = append(c.ids, ids...)
	return c.err
}

// racingStore changes one product just before its guarded decrement, the way a
// concurrent checkout committing between the read and the write would.
// race edits the product in place and returns false to delete it instead.
type racingStore struct {
	*memStore
	target string
	race   func(p *catalogentity.Product) bool

	fired       bool
	decremented []string
}

func (r *racingStore) DecrementStock(ctx context.Context, id string, qty int) (bool, error) {
	if id == r.target && !r.fired {
		r.fired = true
		r.mu.Lock()
		p := r.products[id]
		if r.race(&p) {
			r.products[id] = p
		} else {
			delete(r.products, id)
		}
		r.mu.Unlock()
	}
	ok, err := r.memStore.DecrementStock(ctx, id, qty)
	if ok {
		r.decremented = append(r.decremented, id)
	}
	return ok, err
}
