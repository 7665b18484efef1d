package cache

import (
	"context"
	"errors"

	"github.com/fjod/go_cart/internal/domain"
)

type ReceiptCache interface {
	Get(ctx context.Context, receiptID string) (*domain.Receipt, error)
	Set(ctx context.Context, receipt *domain.Receipt) error
	Delete(ctx context.Context, receiptID string) error
}

var ErrCacheMiss = errors.New("cache miss")
