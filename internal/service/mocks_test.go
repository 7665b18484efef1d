package service

import (
	"context"
	"sync"

	"github.com/fjod/go_cart/internal/domain"
	"github.com/fjod/go_cart/internal/store"
)

// MockPublisher records published receipts and returns Err
type MockPublisher struct {
	mu        sync.Mutex
	Published []*domain.Receipt
	Err       error
}

func (m *MockPublisher) Publish(_ context.Context, receipt *domain.Receipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Published = append(m.Published, receipt)
	return m.Err
}

func (m *MockPublisher) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Published)
}

// CountingLedger wraps a real ledger and counts TryReserve calls
type CountingLedger struct {
	store.StockLedger
	mu       sync.Mutex
	Reserves int
}

func (l *CountingLedger) TryReserve(productID int64, qty int32) (bool, error) {
	l.mu.Lock()
	l.Reserves++
	l.mu.Unlock()
	return l.StockLedger.TryReserve(productID, qty)
}

func (l *CountingLedger) ReserveCalls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.Reserves
}
