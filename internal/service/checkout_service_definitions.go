package service

import (
	"context"
	"time"

	"github.com/fjod/go_cart/internal/domain"
	"github.com/fjod/go_cart/internal/store"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductLookup resolves catalog prices at checkout
type ProductLookup interface {
	Get(productID int64) (domain.Product, error)
}

// RatePolicy maps a tier to its discount rate
type RatePolicy interface {
	RateFor(tier domain.Tier) (decimal.Decimal, error)
}

// ReceiptPublisher receives every completed receipt. Failures never fail a checkout.
type ReceiptPublisher interface {
	Publish(ctx context.Context, receipt *domain.Receipt) error
}

type CheckoutEngine struct {
	catalog   ProductLookup
	ledger    store.StockLedger
	policy    RatePolicy
	publisher ReceiptPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewCheckoutEngine wires the engine. publisher may be nil.
func NewCheckoutEngine(
	catalog ProductLookup,
	ledger store.StockLedger,
	policy RatePolicy,
	publisher ReceiptPublisher,
	logger *zap.Logger) *CheckoutEngine {

	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutEngine{
		catalog:   catalog,
		ledger:    ledger,
		policy:    policy,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}
