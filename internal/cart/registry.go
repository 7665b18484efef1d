package cart

import (
	"errors"
	"sync"
)

var ErrCartNotFound = errors.New("cart not found")

// Registry keeps the open carts of the HTTP front end by id
type Registry struct {
	mu    sync.RWMutex
	carts map[string]*Cart
	stock StockReader
}

func NewRegistry(stock StockReader) *Registry {
	return &Registry{
		carts: make(map[string]*Cart),
		stock: stock,
	}
}

func (r *Registry) Create(userID string) *Cart {
	c := New(userID, r.stock)

	r.mu.Lock()
	r.carts[c.ID] = c
	r.mu.Unlock()

	return c
}

func (r *Registry) Get(cartID string) (*Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.carts[cartID]
	if !ok {
		return nil, ErrCartNotFound
	}
	return c, nil
}

func (r *Registry) Delete(cartID string) {
	r.mu.Lock()
	delete(r.carts, cartID)
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.carts)
}
