package service

import (
	"context"

	"github.com/fjod/go_cart/internal/cart"
	"github.com/fjod/go_cart/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func (e *CheckoutEngine) completeCheckout(
	c *cart.Cart,
	tier domain.Tier,
	rate decimal.Decimal,
	lines []domain.CheckoutLineResult) *domain.Receipt {

	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.LineTotal())
	}
	discount := subtotal.Mul(rate)

	return &domain.Receipt{
		ID:             uuid.NewString(),
		CartID:         c.ID,
		UserID:         c.UserID,
		Tier:           tier,
		Subtotal:       subtotal,
		DiscountRate:   rate,
		DiscountAmount: discount,
		TotalDue:       subtotal.Sub(discount),
		Lines:          lines,
		CreatedAt:      e.now().UTC(),
	}
}

func (e *CheckoutEngine) publish(ctx context.Context, log *zap.Logger, receipt *domain.Receipt) {
	if e.publisher == nil {
		return
	}
	if err := e.publisher.Publish(ctx, receipt); err != nil {
		log.Error("failed to publish receipt", zap.String("receipt_id", receipt.ID), zap.Error(err))
	}
}
