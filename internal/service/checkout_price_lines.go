package service

import (
	"fmt"

	"github.com/fjod/go_cart/internal/domain"
)

func (e *CheckoutEngine) priceLines(lines []domain.CartLine) ([]domain.CheckoutLineResult, error) {
	results := make([]domain.CheckoutLineResult, len(lines))
	for i, line := range lines {
		p, err := e.catalog.Get(line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("pricing line %d: %w", i, err)
		}
		results[i] = domain.CheckoutLineResult{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    line.Quantity,
			UnitPrice:   p.Price,
		}
	}
	return results, nil
}
