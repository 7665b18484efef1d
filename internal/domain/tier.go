package domain

import "fmt"

// Tier is the discount class of a user
type Tier string

const (
	TierRegular Tier = "Regular"
	TierPremium Tier = "Premium"
	TierVIP     Tier = "VIP"
)

// ParseTier converts caller input into a Tier.
func ParseTier(s string) (Tier, error) {
	switch t := Tier(s); t {
	case TierRegular, TierPremium, TierVIP:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTier, s)
	}
}

// String representation (for logging)
func (t Tier) String() string {
	return string(t)
}
