package pricing

import "fmt"

// Premium pricing policy: base price is marked up by the multiplier, then a
// flat priority fee is added on top.
const (
	DefaultPremiumMultiplier = 1.5
	DefaultPriorityFee       = 25.0
)

// Calculator derives the customer-facing price for a dispatch. Pure and total;
// the only rejected input is a negative base price.
type Calculator struct {
	PremiumMultiplier float64
	PriorityFee       float64
}

// NewCalculator returns a Calculator with the given policy values, falling
// back to defaults for non-positive ones.
func NewCalculator(multiplier, priorityFee float64) *Calculator {
	if multiplier <= 0 {
		multiplier = DefaultPremiumMultiplier
	}
	if priorityFee < 0 {
		priorityFee = DefaultPriorityFee
	}
	return &Calculator{PremiumMultiplier: multiplier, PriorityFee: priorityFee}
}

// Price returns the final price for a booking with the given base price.
func (c *Calculator) Price(basePrice float64, isPremium bool) (float64, error) {
	if basePrice < 0 {
		return 0, fmt.Errorf("invalid base price %.2f: must be non-negative", basePrice)
	}
	if !isPremium {
		return basePrice, nil
	}
	return basePrice*c.PremiumMultiplier + c.PriorityFee, nil
}
