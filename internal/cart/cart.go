package cart

import (
	"fmt"
	"sync"
	"time"

	"github.com/fjod/go_cart/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockReader is the read-only view of the ledger a cart needs for its advisory check
type StockReader interface {
	Available(productID int64) (int32, error)
}

// ProductLookup resolves a product id to its catalog entry
type ProductLookup interface {
	Get(productID int64) (domain.Product, error)
}

// Cart is one shopping session. Lines are keyed by product id and keep the
// order in which products were first added.
//
// The availability check on AddLine is advisory only. Nothing is reserved until
// checkout, so a line accepted here may still fail to commit.
type Cart struct {
	ID        string
	UserID    string
	CreatedAt time.Time

	stock StockReader

	mu         sync.Mutex
	quantities map[int64]int32
	order      []int64
	checkedOut bool
	updatedAt  time.Time
}

func New(userID string, stock StockReader) *Cart {
	now := time.Now()
	return &Cart{
		ID:         uuid.NewString(),
		UserID:     userID,
		CreatedAt:  now,
		stock:      stock,
		quantities: make(map[int64]int32),
		updatedAt:  now,
	}
}

// AddLine adds qty to the product's line, creating it if needed.
func (c *Cart) AddLine(productID int64, qty int32) error {
	if qty <= 0 {
		return domain.ErrInvalidQuantity
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.checkedOut {
		return domain.ErrCartCheckedOut
	}

	want := int64(c.quantities[productID]) + int64(qty)
	if err := c.checkAvailable(productID, want); err != nil {
		return err
	}

	if _, ok := c.quantities[productID]; !ok {
		c.order = append(c.order, productID)
	}
	// want <= available, so it fits in int32
	c.quantities[productID] = int32(want)
	c.updatedAt = time.Now()
	return nil
}

// SetQuantity replaces the quantity of a line. Zero removes the line.
func (c *Cart) SetQuantity(productID int64, qty int32) error {
	if qty < 0 {
		return domain.ErrInvalidQuantity
	}
	if qty == 0 {
		return c.RemoveLine(productID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.checkedOut {
		return domain.ErrCartCheckedOut
	}
	if err := c.checkAvailable(productID, int64(qty)); err != nil {
		return err
	}

	if _, ok := c.quantities[productID]; !ok {
		c.order = append(c.order, productID)
	}
	c.quantities[productID] = qty
	c.updatedAt = time.Now()
	return nil
}

// RemoveLine drops a product from the cart. Removing a missing line is a no-op.
func (c *Cart) RemoveLine(productID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.checkedOut {
		return domain.ErrCartCheckedOut
	}
	if _, ok := c.quantities[productID]; !ok {
		return nil
	}

	delete(c.quantities, productID)
	for i, id := range c.order {
		if id == productID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.updatedAt = time.Now()
	return nil
}

// Lines returns a snapshot of the cart lines
func (c *Cart) Lines() []domain.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Total prices the current lines at catalog prices.
func (c *Cart) Total(products ProductLookup) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, line := range c.Lines() {
		p, err := products.Get(line.ProductID)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(p.Price.Mul(decimal.NewFromInt32(line.Quantity)))
	}
	return total, nil
}

// CheckedOut reports whether the cart has been consumed by a checkout
func (c *Cart) CheckedOut() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.checkedOut
}

func (c *Cart) UpdatedAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updatedAt
}

// Consume hands the lines to fn while holding the cart lock. The cart is closed
// only if fn returns nil; afterwards every mutation and Consume fail with
// ErrCartCheckedOut.
func (c *Cart) Consume(fn func(lines []domain.CartLine) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.checkedOut {
		return domain.ErrCartCheckedOut
	}
	if err := fn(c.snapshot()); err != nil {
		return err
	}
	c.checkedOut = true
	c.updatedAt = time.Now()
	return nil
}

func (c *Cart) snapshot() []domain.CartLine {
	lines := make([]domain.CartLine, 0, len(c.order))
	for _, id := range c.order {
		lines = append(lines, domain.CartLine{ProductID: id, Quantity: c.quantities[id]})
	}
	return lines
}

// caller holds c.mu
func (c *Cart) checkAvailable(productID int64, want int64) error {
	available, err := c.stock.Available(productID)
	if err != nil {
		return err
	}
	if want > int64(available) {
		return fmt.Errorf("%w: product %d requested %d, available %d",
			domain.ErrInsufficientStock, productID, want, available)
	}
	return nil
}
