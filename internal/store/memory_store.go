package store

import (
	"fmt"
	"sync"

	"github.com/fjod/go_cart/internal/domain"
)

type stockEntry struct {
	mu        sync.Mutex
	available int32
}

// MemoryStore implements StockLedger with one lock per product, so reservations
// on different products never contend.
type MemoryStore struct {
	mu     sync.RWMutex // guards the map, not the entries
	stocks map[int64]*stockEntry
}

// NewMemoryStore creates a new in-memory stock ledger
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		stocks: make(map[int64]*stockEntry),
	}
}

func (s *MemoryStore) entry(productID int64) (*stockEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.stocks[productID]
	if !exists {
		return nil, fmt.Errorf("%w: %d", domain.ErrUnknownProduct, productID)
	}
	return e, nil
}

// Available returns the current stock of a product
func (s *MemoryStore) Available(productID int64) (int32, error) {
	e, err := s.entry(productID)
	if err != nil {
		return 0, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.available, nil
}

// TryReserve decrements stock by qty when qty <= available, otherwise leaves it unchanged
func (s *MemoryStore) TryReserve(productID int64, qty int32) (bool, error) {
	if qty <= 0 {
		return false, fmt.Errorf("%w: got %d", domain.ErrInvalidQuantity, qty)
	}
	e, err := s.entry(productID)
	if err != nil {
		return false, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if qty > e.available {
		return false, nil
	}
	e.available -= qty
	return true, nil
}

// GetStock returns stock information for the given product IDs
func (s *MemoryStore) GetStock(productIDs []int64) []domain.StockInfo {
	result := make([]domain.StockInfo, 0, len(productIDs))
	for _, id := range productIDs {
		available, err := s.Available(id)
		if err != nil {
			continue
		}
		result = append(result, domain.StockInfo{ProductID: id, Available: available})
	}
	return result
}

// SetStock sets the stock level for a product
func (s *MemoryStore) SetStock(productID int64, quantity int32) error {
	if quantity < 0 {
		return fmt.Errorf("%w: stock for product %d cannot be %d", domain.ErrInvalidQuantity, productID, quantity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, exists := s.stocks[productID]; exists {
		e.mu.Lock()
		e.available = quantity
		e.mu.Unlock()
		return nil
	}
	s.stocks[productID] = &stockEntry{available: quantity}
	return nil
}
