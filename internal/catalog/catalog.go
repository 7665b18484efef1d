package catalog

import (
	"errors"
	"fmt"

	"github.com/fjod/go_cart/internal/domain"
)

var (
	ErrDuplicateProduct = errors.New("duplicate product id")
	ErrNegativePrice    = errors.New("product price cannot be negative")
)

// Catalog is the read-only product list. It has no mutation path after New,
// so any number of goroutines may read it without locking.
type Catalog struct {
	products []domain.Product
	index    map[int64]int // productID -> position in products
}

// New builds a catalog that keeps the given insertion order
func New(products ...domain.Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]domain.Product, 0, len(products)),
		index:    make(map[int64]int, len(products)),
	}
	for _, p := range products {
		if _, exists := c.index[p.ID]; exists {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateProduct, p.ID)
		}
		if p.Price.IsNegative() {
			return nil, fmt.Errorf("%w: product %d", ErrNegativePrice, p.ID)
		}
		c.index[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c, nil
}

// List returns all products in insertion order
func (c *Catalog) List() []domain.Product {
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Get returns a product by id
func (c *Catalog) Get(productID int64) (domain.Product, error) {
	i, exists := c.index[productID]
	if !exists {
		return domain.Product{}, fmt.Errorf("%w: %d", domain.ErrUnknownProduct, productID)
	}
	return c.products[i], nil
}

// IDs returns the product ids in insertion order
func (c *Catalog) IDs() []int64 {
	ids := make([]int64, len(c.products))
	for i, p := range c.products {
		ids[i] = p.ID
	}
	return ids
}
