package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CheckoutLineResult is the outcome of committing one cart line at checkout
type CheckoutLineResult struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int32           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Committed   bool            `json:"committed"`
}

// LineTotal is the requested quantity priced at the unit price.
func (l CheckoutLineResult) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt32(l.Quantity))
}

// Receipt is the immutable result of a checkout.
//
// Subtotal prices every requested line, including lines whose stock could not be
// committed. Callers find those lines through Unfulfilled.
type Receipt struct {
	ID             string               `json:"id"`
	CartID         string               `json:"cart_id"`
	UserID         string               `json:"user_id"`
	Tier           Tier                 `json:"tier"`
	Subtotal       decimal.Decimal      `json:"subtotal"`
	DiscountRate   decimal.Decimal      `json:"discount_rate"`
	DiscountAmount decimal.Decimal      `json:"discount_amount"`
	TotalDue       decimal.Decimal      `json:"total_due"`
	Lines          []CheckoutLineResult `json:"lines"`
	CreatedAt      time.Time            `json:"created_at"`
}

// Unfulfilled returns the lines whose stock reservation failed.
func (r *Receipt) Unfulfilled() []CheckoutLineResult {
	var out []CheckoutLineResult
	for _, l := range r.Lines {
		if !l.Committed {
			out = append(out, l)
		}
	}
	return out
}

// FullyCommitted reports whether every line was reserved.
func (r *Receipt) FullyCommitted() bool {
	return len(r.Unfulfilled()) == 0
}
