package cost

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/smustafa75/aws-calc/pkg/models/domain"
)

func TestCompute(t *testing.T) {
	// Given
	unit := decimal.RequireFromString("0.2006")

	// When
	c := Compute(unit, 2)

	// Then
	assert.True(t, c.Hourly.Equal(unit))
	assert.Equal(t, "144.432", c.Monthly.String())
	assert.Equal(t, "288.864", c.Total.String())
	assert.Equal(t, "144.43", c.Monthly.StringFixed(2))
	assert.Equal(t, "288.86", c.Total.StringFixed(2))
}

func TestCompute_ZeroPrice(t *testing.T) {
	c := Compute(decimal.Zero, 5)

	assert.True(t, c.Monthly.IsZero())
	assert.True(t, c.Total.IsZero())
}

func TestPrice_UsesRequestCount(t *testing.T) {
	req := domain.PricingRequest{Row: 1, InstanceType: "t3.micro", Count: 3}

	row := Price(req, decimal.RequireFromString("0.0104"))

	assert.Equal(t, req, row.Request)
	assert.Equal(t, "7.488", row.Cost.Monthly.String())
	assert.Equal(t, "22.464", row.Cost.Total.String())
}
