package store

import "github.com/fjod/go_cart/internal/domain"

// StockLedger owns the authoritative available quantity of every product.
// Stock is only ever changed through TryReserve after initialization.
type StockLedger interface {
	// Available returns the current stock of a product
	Available(productID int64) (int32, error)

	// TryReserve atomically decrements stock by qty if enough is available.
	// A shortage is reported as false with a nil error.
	TryReserve(productID int64, qty int32) (bool, error)

	// GetStock returns stock information for the given product IDs, skipping unknown ones
	GetStock(productIDs []int64) []domain.StockInfo

	// SetStock sets the stock level for a product (used for initialization)
	SetStock(productID int64, quantity int32) error
}
