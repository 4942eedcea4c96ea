package engine

import (
	"context"
	"testing"
	"time"

	"tradezone/internal/types"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeOrder(t *testing.T, f *fakeLedger, userID, stockID string, side types.OrderSide, qty int64) {
	t.Helper()
	o := f.addOrder(userID, stockID, side, qty, time.Now())
	_, err := f.CompleteOrder(context.Background(), o.ID, decimal.RequireFromString("100.00"), time.Now().UTC())
	require.NoError(t, err)
}

func TestDriftFollowsTradePressure(t *testing.T) {
	f := newFakeLedger()
	e := newTestEngine(f)
	st := f.addStock("ACME", "100.00")
	completeOrder(t, f, "alice", st.ID, types.OrderSideBuy, 300)
	completeOrder(t, f, "bob", st.ID, types.OrderSideSell, 100)

	require.NoError(t, e.driftStock(context.Background(), st))

	// Pressure 0.5 at the default 2% step moves the price up 1%.
	got := f.stock(st.ID)
	assert.True(t, got.CurrentPrice.Equal(decimal.RequireFromString("101.00")), "got %s", got.CurrentPrice)
	assert.True(t, got.PriceChange.Equal(decimal.RequireFromString("1.00")), "got %s", got.PriceChange)
}

func TestDriftIdleStaysWithinHalfPercent(t *testing.T) {
	f := newFakeLedger()
	e := newTestEngine(f)
	st := f.addStock("ACME", "100.00")

	require.NoError(t, e.driftStock(context.Background(), st))

	got := f.stock(st.ID).CurrentPrice
	assert.True(t, got.GreaterThanOrEqual(decimal.RequireFromString("99.50")), "got %s", got)
	assert.True(t, got.LessThanOrEqual(decimal.RequireFromString("100.50")), "got %s", got)
	assert.Equal(t, int32(-2), got.Exponent(), "price must be rounded to cents")
}

func TestDriftRespectsInstrumentBounds(t *testing.T) {
	f := newFakeLedger()
	e := newTestEngine(f)
	st := f.addStock("ACME", "100.00")
	max := decimal.RequireFromString("100.10")
	st.MaxPrice = &max
	f.mu.Lock()
	f.stocks[st.ID] = st
	f.mu.Unlock()
	completeOrder(t, f, "alice", st.ID, types.OrderSideBuy, 1000)

	require.NoError(t, e.driftStock(context.Background(), st))

	assert.True(t, f.stock(st.ID).CurrentPrice.Equal(max))
}

func TestDriftCycleIgnoresOldTrades(t *testing.T) {
	f := newFakeLedger()
	e := newTestEngine(f)
	st := f.addStock("ACME", "100.00")
	o := f.addOrder("alice", st.ID, types.OrderSideBuy, 1000, time.Now())
	old := time.Now().UTC().Add(-time.Hour)
	_, err := f.CompleteOrder(context.Background(), o.ID, decimal.RequireFromString("100.00"), old)
	require.NoError(t, err)

	require.NoError(t, e.driftStock(context.Background(), st))

	// The hour-old trade is outside the pressure window, so only the small
	// idle movement applies.
	got := f.stock(st.ID).CurrentPrice
	assert.True(t, got.GreaterThanOrEqual(decimal.RequireFromString("99.50")), "got %s", got)
	assert.True(t, got.LessThanOrEqual(decimal.RequireFromString("100.50")), "got %s", got)
}

func TestDriftGateSkipsClosedMarket(t *testing.T) {
	f := newFakeLedger()
	f.active = false
	e := New(f, nil, Config{GateDrift: true})
	st := f.addStock("ACME", "100.00")

	e.runDriftCycle(context.Background())

	assert.True(t, f.stock(st.ID).CurrentPrice.Equal(decimal.RequireFromString("100.00")))
}
