package service

import (
	"context"

	"github.com/fjod/go_cart/internal/cart"
	"github.com/fjod/go_cart/internal/domain"
	"github.com/fjod/go_cart/internal/logger"
	"go.uber.org/zap"
)

// Checkout converts the cart into a receipt.
//
// Each line is reserved on its own, in cart order. A line that cannot be reserved
// is recorded as not committed and the remaining lines are still attempted; lines
// already reserved are kept. The subtotal prices every requested line, committed
// or not.
//
// The tier and every product price are resolved before any stock moves, so a
// failed checkout leaves both the ledger and the cart untouched. A cart can be
// checked out once; later calls fail with domain.ErrCartCheckedOut.
func (e *CheckoutEngine) Checkout(ctx context.Context, c *cart.Cart, tier domain.Tier) (*domain.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := logger.WithTrace(ctx, e.logger).With(
		zap.String("cart_id", c.ID),
		zap.String("tier", tier.String()),
	)

	rate, err := e.policy.RateFor(tier)
	if err != nil {
		log.Warn("checkout rejected", zap.Error(err))
		return nil, err
	}

	var results []domain.CheckoutLineResult
	err = c.Consume(func(lines []domain.CartLine) error {
		priced, err := e.priceLines(lines)
		if err != nil {
			return err
		}
		e.reserveLines(log, priced)
		results = priced
		return nil
	})
	if err != nil {
		log.Warn("checkout rejected", zap.Error(err))
		return nil, err
	}

	receipt := e.completeCheckout(c, tier, rate, results)
	log.Info("checkout completed",
		zap.String("receipt_id", receipt.ID),
		zap.Int("lines", len(receipt.Lines)),
		zap.Int("unfulfilled", len(receipt.Unfulfilled())),
		zap.String("total_due", receipt.TotalDue.String()),
	)

	e.publish(ctx, log, receipt)
	return receipt, nil
}
