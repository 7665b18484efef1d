package store

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/fjod/go_cart/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func setupStore(t *testing.T, stock map[int64]int32) *MemoryStore {
	t.Helper()
	s := NewMemoryStore()
	for id, qty := range stock {
		require.NoError(t, s.SetStock(id, qty))
	}
	return s
}

func TestMemoryStore_SetStock_And_GetStock(t *testing.T) {
	s := setupStore(t, map[int64]int32{1: 100, 2: 200})

	stocks := s.GetStock([]int64{1, 2, 3})

	// Should return only existing products
	require.Len(t, stocks, 2)
	assert.Equal(t, domain.StockInfo{ProductID: 1, Available: 100}, stocks[0])
	assert.Equal(t, domain.StockInfo{ProductID: 2, Available: 200}, stocks[1])
}

func TestMemoryStore_SetStock_Negative(t *testing.T) {
	s := NewMemoryStore()

	err := s.SetStock(1, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = s.Available(1)
	assert.ErrorIs(t, err, domain.ErrUnknownProduct)
}

func TestMemoryStore_SetStock_Overwrites(t *testing.T) {
	s := setupStore(t, map[int64]int32{1: 5})
	require.NoError(t, s.SetStock(1, 9))

	available, err := s.Available(1)
	require.NoError(t, err)
	assert.Equal(t, int32(9), available)
}

func TestMemoryStore_Available_UnknownProduct(t *testing.T) {
	s := setupStore(t, nil)

	_, err := s.Available(999)
	assert.ErrorIs(t, err, domain.ErrUnknownProduct)
}

func TestMemoryStore_TryReserve_Success(t *testing.T) {
	s := setupStore(t, map[int64]int32{1: 5})

	ok, err := s.TryReserve(1, 5)
	require.NoError(t, err)
	assert.True(t, ok)

	available, err := s.Available(1)
	require.NoError(t, err)
	assert.Equal(t, int32(0), available)
}

func TestMemoryStore_TryReserve_InsufficientStock(t *testing.T) {
	s := setupStore(t, map[int64]int32{1: 10})

	ok, err := s.TryReserve(1, 20)
	require.NoError(t, err)
	assert.False(t, ok)

	// Stock should be unchanged
	available, _ := s.Available(1)
	assert.Equal(t, int32(10), available)
}

func TestMemoryStore_TryReserve_InvalidQuantity(t *testing.T) {
	s := setupStore(t, map[int64]int32{1: 10})

	for _, qty := range []int32{0, -1} {
		ok, err := s.TryReserve(1, qty)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
		assert.False(t, ok)
	}

	available, _ := s.Available(1)
	assert.Equal(t, int32(10), available)
}

func TestMemoryStore_TryReserve_UnknownProduct(t *testing.T) {
	s := setupStore(t, nil)

	ok, err := s.TryReserve(999, 1)
	assert.ErrorIs(t, err, domain.ErrUnknownProduct)
	assert.False(t, ok)
}

func TestMemoryStore_ConcurrentReservations(t *testing.T) {
	s := setupStore(t, map[int64]int32{1: 100})

	var wg sync.WaitGroup
	var successCount atomic.Int32

	// Try to reserve 20 units each, 10 times concurrently
	// Only 5 should succeed (100 / 20 = 5)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := s.TryReserve(1, 20)
			if err == nil && ok {
				successCount.Add(1)
			}
		}()
	}

	wg.Wait()
	assert.Equal(t, int32(5), successCount.Load())

	available, _ := s.Available(1)
	assert.Equal(t, int32(0), available)
}

func TestMemoryStore_ConcurrentReservations_NeverNegative(t *testing.T) {
	const initial = 37
	s := setupStore(t, map[int64]int32{1: initial, 2: initial})

	var wg sync.WaitGroup
	var reserved [3]atomic.Int32
	stop := make(chan struct{})
	observerDone := make(chan struct{})

	// Observer checks the invariant while writers run
	go func() {
		defer close(observerDone)
		for {
			select {
			case <-stop:
				return
			default:
			}
			for _, id := range []int64{1, 2} {
				available, err := s.Available(id)
				if err != nil || available < 0 {
					t.Errorf("product %d observed available=%d err=%v", id, available, err)
					return
				}
			}
		}
	}()

	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := int64(i%2 + 1)
			qty := int32(i%4 + 1)
			if ok, err := s.TryReserve(id, qty); err == nil && ok {
				reserved[id].Add(qty)
			}
		}(i)
	}
	wg.Wait()
	close(stop)
	<-observerDone

	for _, id := range []int64{1, 2} {
		available, err := s.Available(id)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, available, int32(0))
		assert.LessOrEqual(t, reserved[id].Load(), int32(initial))
		assert.Equal(t, int32(initial), available+reserved[id].Load())
	}
}
