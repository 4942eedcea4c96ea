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

func TestSweepCancelsStaleOrders(t *testing.T) {
	f := newFakeLedger()
	e := newTestEngine(f)
	st := f.addStock("ACME", "100.00")
	stale := f.addOrder("alice", st.ID, types.OrderSideBuy, 10, time.Now().UTC().Add(-3*time.Minute))
	fresh := f.addOrder("bob", st.ID, types.OrderSideBuy, 10, time.Now().UTC())

	e.sweepStaleOrders(context.Background())

	got := f.order(stale.ID)
	assert.Equal(t, types.OrderStatusCancelled, got.Status)
	assert.Equal(t, "order timed out", got.Error)
	assert.Equal(t, types.OrderStatusPending, f.order(fresh.ID).Status)
}

func TestSweepLeavesTerminalOrdersAlone(t *testing.T) {
	f := newFakeLedger()
	e := newTestEngine(f)
	st := f.addStock("ACME", "100.00")
	o := f.addOrder("alice", st.ID, types.OrderSideBuy, 10, time.Now().UTC().Add(-3*time.Minute))
	_, err := f.CompleteOrder(context.Background(), o.ID, decimal.RequireFromString("100.00"), time.Now().UTC())
	require.NoError(t, err)

	e.sweepStaleOrders(context.Background())

	got := f.order(o.ID)
	assert.Equal(t, types.OrderStatusCompleted, got.Status, "a settled order is out of the sweep's reach")
	assert.Empty(t, got.Error)
}

func TestSweepGateSkipsClosedMarket(t *testing.T) {
	f := newFakeLedger()
	f.active = false
	e := New(f, nil, Config{GateExpiry: true})
	st := f.addStock("ACME", "100.00")
	stale := f.addOrder("alice", st.ID, types.OrderSideBuy, 10, time.Now().UTC().Add(-3*time.Minute))

	e.sweepStaleOrders(context.Background())

	assert.Equal(t, types.OrderStatusPending, f.order(stale.ID).Status)
}
