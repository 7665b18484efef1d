package cart

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/fjod/go_cart/internal/catalog"
	"github.com/fjod/go_cart/internal/domain"
	"github.com/fjod/go_cart/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStock(t *testing.T, stock map[int64]int32) *store.MemoryStore {
	t.Helper()
	s := store.NewMemoryStore()
	for id, qty := range stock {
		require.NoError(t, s.SetStock(id, qty))
	}
	return s
}

func setupCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(
		domain.Product{ID: 1, Name: "Coffee Maker", Price: decimal.RequireFromString("79.99")},
		domain.Product{ID: 2, Name: "Toaster", Price: decimal.RequireFromString("49.99")},
		domain.Product{ID: 3, Name: "Electric Kettle", Price: decimal.RequireFromString("39.99")},
	)
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	c := New("user-1", setupStock(t, nil))

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "user-1", c.UserID)
	assert.Empty(t, c.Lines())
	assert.False(t, c.CheckedOut())
	assert.NotEqual(t, c.ID, New("user-1", setupStock(t, nil)).ID)
}

func TestAddLine_CumulativeAdvisoryCheck(t *testing.T) {
	c := New("user-1", setupStock(t, map[int64]int32{1: 5}))

	require.NoError(t, c.AddLine(1, 3))

	err := c.AddLine(1, 3)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, []domain.CartLine{{ProductID: 1, Quantity: 3}}, c.Lines())

	require.NoError(t, c.AddLine(1, 2))
	assert.Equal(t, []domain.CartLine{{ProductID: 1, Quantity: 5}}, c.Lines())
}

func TestAddLine_HugeQuantityRejected(t *testing.T) {
	c := New("user-1", setupStock(t, map[int64]int32{1: 5}))
	require.NoError(t, c.AddLine(1, 3))

	err := c.AddLine(1, math.MaxInt32)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, []domain.CartLine{{ProductID: 1, Quantity: 3}}, c.Lines())

	err = c.SetQuantity(1, math.MaxInt32)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, []domain.CartLine{{ProductID: 1, Quantity: 3}}, c.Lines())
}

func TestAddLine_InvalidQuantity(t *testing.T) {
	c := New("user-1", setupStock(t, map[int64]int32{1: 5}))

	for _, qty := range []int32{-1, 0} {
		err := c.AddLine(1, qty)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	}
	assert.Empty(t, c.Lines())

	require.NoError(t, c.AddLine(1, 2))
	assert.ErrorIs(t, c.AddLine(1, -1), domain.ErrInvalidQuantity)
	assert.Equal(t, []domain.CartLine{{ProductID: 1, Quantity: 2}}, c.Lines())
}

func TestAddLine_UnknownProduct(t *testing.T) {
	c := New("user-1", setupStock(t, map[int64]int32{1: 5}))

	err := c.AddLine(42, 1)
	assert.ErrorIs(t, err, domain.ErrUnknownProduct)
	assert.Empty(t, c.Lines())
}

func TestAddLine_DoesNotReserve(t *testing.T) {
	s := setupStock(t, map[int64]int32{1: 5})
	c := New("user-1", s)

	require.NoError(t, c.AddLine(1, 5))

	available, err := s.Available(1)
	require.NoError(t, err)
	assert.Equal(t, int32(5), available)
}

func TestLines_FirstAddOrder(t *testing.T) {
	c := New("user-1", setupStock(t, map[int64]int32{1: 10, 2: 10, 3: 10}))

	require.NoError(t, c.AddLine(3, 1))
	require.NoError(t, c.AddLine(1, 1))
	require.NoError(t, c.AddLine(3, 1))
	require.NoError(t, c.AddLine(2, 4))

	assert.Equal(t, []domain.CartLine{
		{ProductID: 3, Quantity: 2},
		{ProductID: 1, Quantity: 1},
		{ProductID: 2, Quantity: 4},
	}, c.Lines())
}

func TestSetQuantity(t *testing.T) {
	c := New("user-1", setupStock(t, map[int64]int32{1: 5, 2: 5}))
	require.NoError(t, c.AddLine(1, 1))
	require.NoError(t, c.AddLine(2, 1))

	require.NoError(t, c.SetQuantity(1, 4))
	assert.ErrorIs(t, c.SetQuantity(1, 6), domain.ErrInsufficientStock)
	assert.ErrorIs(t, c.SetQuantity(1, -2), domain.ErrInvalidQuantity)

	require.NoError(t, c.SetQuantity(2, 0))
	assert.Equal(t, []domain.CartLine{{ProductID: 1, Quantity: 4}}, c.Lines())
}

func TestRemoveLine(t *testing.T) {
	c := New("user-1", setupStock(t, map[int64]int32{1: 5, 2: 5}))
	require.NoError(t, c.AddLine(1, 1))
	require.NoError(t, c.AddLine(2, 1))

	require.NoError(t, c.RemoveLine(1))
	require.NoError(t, c.RemoveLine(99))
	assert.Equal(t, []domain.CartLine{{ProductID: 2, Quantity: 1}}, c.Lines())

	// re-added lines go to the end
	require.NoError(t, c.AddLine(1, 2))
	assert.Equal(t, []domain.CartLine{
		{ProductID: 2, Quantity: 1},
		{ProductID: 1, Quantity: 2},
	}, c.Lines())
}

func TestTotal(t *testing.T) {
	products := setupCatalog(t)
	c := New("user-1", setupStock(t, map[int64]int32{1: 10, 2: 5, 3: 8}))

	total, err := c.Total(products)
	require.NoError(t, err)
	assert.True(t, decimal.Zero.Equal(total))

	require.NoError(t, c.AddLine(1, 2))
	require.NoError(t, c.AddLine(3, 1))

	total, err = c.Total(products)
	require.NoError(t, err)
	assert.Equal(t, "199.97", total.StringFixed(2))
}

func TestTotal_OrderIndependent(t *testing.T) {
	products := setupCatalog(t)
	stock := setupStock(t, map[int64]int32{1: 10, 2: 5, 3: 8})

	a := New("a", stock)
	require.NoError(t, a.AddLine(1, 1))
	require.NoError(t, a.AddLine(2, 3))
	require.NoError(t, a.AddLine(3, 2))

	b := New("b", stock)
	require.NoError(t, b.AddLine(3, 2))
	require.NoError(t, b.AddLine(1, 1))
	require.NoError(t, b.AddLine(2, 3))

	totalA, err := a.Total(products)
	require.NoError(t, err)
	totalB, err := b.Total(products)
	require.NoError(t, err)
	assert.True(t, totalA.Equal(totalB))
}

func TestTotal_UnknownProduct(t *testing.T) {
	c := New("user-1", setupStock(t, map[int64]int32{7: 1}))
	require.NoError(t, c.AddLine(7, 1))

	_, err := c.Total(setupCatalog(t))
	assert.ErrorIs(t, err, domain.ErrUnknownProduct)
}

func TestConsume_ClosesCartOnSuccess(t *testing.T) {
	c := New("user-1", setupStock(t, map[int64]int32{1: 5}))
	require.NoError(t, c.AddLine(1, 2))

	var seen []domain.CartLine
	err := c.Consume(func(lines []domain.CartLine) error {
		seen = lines
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []domain.CartLine{{ProductID: 1, Quantity: 2}}, seen)
	assert.True(t, c.CheckedOut())

	called := false
	err = c.Consume(func([]domain.CartLine) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, domain.ErrCartCheckedOut)
	assert.False(t, called)

	assert.ErrorIs(t, c.AddLine(1, 1), domain.ErrCartCheckedOut)
	assert.ErrorIs(t, c.SetQuantity(1, 1), domain.ErrCartCheckedOut)
	assert.ErrorIs(t, c.RemoveLine(1), domain.ErrCartCheckedOut)
}

func TestConsume_StaysOpenOnError(t *testing.T) {
	c := New("user-1", setupStock(t, map[int64]int32{1: 5}))
	require.NoError(t, c.AddLine(1, 2))

	boom := errors.New("boom")
	err := c.Consume(func([]domain.CartLine) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, c.CheckedOut())

	require.NoError(t, c.AddLine(1, 1))
}

func TestConcurrentAddLine(t *testing.T) {
	c := New("user-1", setupStock(t, map[int64]int32{1: 100}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.AddLine(1, 3)
		}()
	}
	wg.Wait()

	// 33 adds of 3 fit in 100, the 34th would need 102
	assert.Equal(t, []domain.CartLine{{ProductID: 1, Quantity: 99}}, c.Lines())
}
