package discount

import (
	"fmt"

	"github.com/fjod/go_cart/internal/domain"
	"github.com/shopspring/decimal"
)

var rates = map[domain.Tier]decimal.Decimal{
	domain.TierRegular: decimal.Zero,
	domain.TierPremium: decimal.RequireFromString("0.10"),
	domain.TierVIP:     decimal.RequireFromString("0.20"),
}

// RateFor returns the fraction of the subtotal taken off for a tier.
func RateFor(tier domain.Tier) (decimal.Decimal, error) {
	rate, ok := rates[tier]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q", domain.ErrUnknownTier, string(tier))
	}
	return rate, nil
}

// Policy is the injectable form of RateFor
type Policy struct{}

func (Policy) RateFor(tier domain.Tier) (decimal.Decimal, error) {
	return RateFor(tier)
}
