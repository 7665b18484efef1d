package service

import (
	"github.com/fjod/go_cart/internal/domain"
	"go.uber.org/zap"
)

// reserveLines sets Committed on every line. It never rolls back.
func (e *CheckoutEngine) reserveLines(log *zap.Logger, lines []domain.CheckoutLineResult) {
	for i := range lines {
		line := &lines[i]
		ok, err := e.ledger.TryReserve(line.ProductID, line.Quantity)
		if err != nil {
			log.Error("reservation failed",
				zap.Int64("product_id", line.ProductID),
				zap.Int32("quantity", line.Quantity),
				zap.Error(err))
			continue
		}
		if !ok {
			log.Info("insufficient stock, line not committed",
				zap.Int64("product_id", line.ProductID),
				zap.Int32("quantity", line.Quantity))
			continue
		}
		line.Committed = true
	}
}
