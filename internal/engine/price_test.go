package engine

import (
	"math/rand"
	"testing"

	"tradezone/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPressureChange(t *testing.T) {
	assert.Equal(t, 0.02, pressureChange(100, 0, 0.02), "all buys hits the full step up")
	assert.Equal(t, -0.02, pressureChange(0, 100, 0.02), "all sells hits the full step down")
	assert.Equal(t, 0.0, pressureChange(50, 50, 0.02), "balanced flow moves nothing")
	assert.Equal(t, 0.0, pressureChange(0, 0, 0.02), "no volume moves nothing")
	assert.InDelta(t, 0.01, pressureChange(300, 100, 0.02), 1e-12)
}

func TestIdleChangeRange(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		c := idleChange(rng)
		require.GreaterOrEqual(t, c, -0.005)
		require.Less(t, c, 0.005)
	}
}

func TestDriftPriceRoundsAndReportsChange(t *testing.T) {
	st := model.Stock{CurrentPrice: decimal.RequireFromString("100.00")}
	next, realized := driftPrice(st, 0.02)
	assert.True(t, next.Equal(decimal.RequireFromString("102.00")), "got %s", next)
	assert.True(t, realized.Equal(decimal.RequireFromString("2.00")), "got %s", realized)
}

func TestDriftPriceClampsToBounds(t *testing.T) {
	min := decimal.RequireFromString("95.00")
	max := decimal.RequireFromString("105.00")
	st := model.Stock{CurrentPrice: decimal.RequireFromString("100.00"), MinPrice: &min, MaxPrice: &max}

	next, _ := driftPrice(st, 0.10)
	assert.True(t, next.Equal(max), "ceiling: got %s", next)

	next, _ = driftPrice(st, -0.10)
	assert.True(t, next.Equal(min), "floor: got %s", next)
}

func TestDriftPriceNeverBelowGlobalFloor(t *testing.T) {
	st := model.Stock{CurrentPrice: decimal.RequireFromString("0.01")}
	next, _ := driftPrice(st, -0.5)
	assert.True(t, next.Equal(decimal.RequireFromString("0.01")), "got %s", next)
}

func TestClearingPrice(t *testing.T) {
	cur := decimal.RequireFromString("100.00")

	// 300 bought vs 100 sold: delta = 0.01 * 200 / 1000 = +0.2%.
	price, pct := clearingPrice(cur, 300, 100)
	assert.True(t, price.Equal(decimal.RequireFromString("100.20")), "got %s", price)
	assert.True(t, pct.Equal(decimal.RequireFromString("0.20")), "got %s", pct)

	// Balanced batch clears at the unchanged price.
	price, pct = clearingPrice(cur, 500, 500)
	assert.True(t, price.Equal(decimal.RequireFromString("100.00")), "got %s", price)
	assert.True(t, pct.IsZero(), "got %s", pct)

	// Sell pressure.
	price, _ = clearingPrice(cur, 100, 300)
	assert.True(t, price.Equal(decimal.RequireFromString("99.80")), "got %s", price)
}

func TestClearingPriceFloor(t *testing.T) {
	price, _ := clearingPrice(decimal.RequireFromString("1.05"), 0, 100000)
	assert.True(t, price.Equal(decimal.NewFromInt(1)), "got %s", price)
}
