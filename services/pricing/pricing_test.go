package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPricePremium(t *testing.T) {
	calc := NewCalculator(1.5, 25.0)

	price, err := calc.Price(100, true)
	require.NoError(t, err)
	assert.Equal(t, 175.0, price)
}

func TestPriceStandardPassesThrough(t *testing.T) {
	calc := NewCalculator(1.5, 25.0)

	price, err := calc.Price(100, false)
	require.NoError(t, err)
	assert.Equal(t, 100.0, price)
}

func TestPriceZeroBase(t *testing.T) {
	calc := NewCalculator(1.5, 25.0)

	price, err := calc.Price(0, true)
	require.NoError(t, err)
	assert.Equal(t, 25.0, price)
}

func TestPriceRejectsNegativeBase(t *testing.T) {
	calc := NewCalculator(1.5, 25.0)

	_, err := calc.Price(-1, false)
	assert.Error(t, err)
	_, err = calc.Price(-1, true)
	assert.Error(t, err)
}

func TestNewCalculatorDefaults(t *testing.T) {
	calc := NewCalculator(0, -1)
	assert.Equal(t, DefaultPremiumMultiplier, calc.PremiumMultiplier)
	assert.Equal(t, DefaultPriorityFee, calc.PriorityFee)
}

func TestBasePriceFor(t *testing.T) {
	base, err := BasePriceFor("Cleaning")
	require.NoError(t, err)
	assert.Equal(t, 30.0, base)

	_, err = BasePriceFor("Astronautics")
	assert.Error(t, err)
}

func TestGetServicesMapCoversCatalog(t *testing.T) {
	services := GetServicesMap()
	require.NotEmpty(t, services)
	for id, details := range services {
		assert.Equal(t, id, details.ID)
		assert.Greater(t, details.BasePrice, 0.0)
	}
}
