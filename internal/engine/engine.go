package engine

import (
	"context"
	"log"
	"math/rand"
	"time"

	"tradezone/internal/marketdata"
	"tradezone/internal/model"

	"github.com/shopspring/decimal"
)

// Ledger is the store contract the engine runs against. Reads and guarded
// single-row updates report how many rows they touched; zero means "no
// match", not an error. The two Apply methods execute a whole settlement
// group (balance, holding, order status) atomically and roll back when the
// order turns out to be terminal already, so a lost race never leaves a
// partial mutation behind.
type Ledger interface {
	ListStocks(ctx context.Context) ([]model.Stock, error)
	UpdateStockPrice(ctx context.Context, stockID string, price, changePct decimal.Decimal) (int64, error)
	MarketActive(ctx context.Context) (bool, error)

	GetOrder(ctx context.Context, orderID string) (model.Order, error)
	ListPendingOrdersByStock(ctx context.Context, stockID string) ([]model.Order, error)
	ListCompletedOrdersSince(ctx context.Context, stockID string, since time.Time) ([]model.Order, error)
	ListStalePendingOrders(ctx context.Context, before time.Time) ([]model.Order, error)
	CancelOrder(ctx context.Context, orderID, reason string) (int64, error)

	GetBalance(ctx context.Context, userID string) (decimal.Decimal, error)
	GetHolding(ctx context.Context, userID, stockID string) (model.Holding, error)
	ApplyBuyExecution(ctx context.Context, order model.Order, price, cost decimal.Decimal) (int64, error)
	ApplySellExecution(ctx context.Context, order model.Order, price, proceeds decimal.Decimal) (int64, error)
	InsertSettlement(ctx context.Context, rec model.Settlement) error
}

type Publisher interface {
	Publish(evt marketdata.Event)
}

type Config struct {
	DriftInterval  time.Duration
	PressureWindow time.Duration
	MaxDriftStep   float64

	CollectWindow time.Duration
	PassDelay     time.Duration
	Workers       int

	ExpiryInterval time.Duration
	MaxOrderAge    time.Duration

	// By default drift and expiry keep running while the market is closed;
	// only batch clearing is gated. Both stay configurable.
	GateDrift  bool
	GateExpiry bool
}

func (c Config) withDefaults() Config {
	if c.DriftInterval <= 0 {
		c.DriftInterval = 30 * time.Second
	}
	if c.PressureWindow <= 0 {
		c.PressureWindow = 30 * time.Second
	}
	if c.MaxDriftStep <= 0 {
		c.MaxDriftStep = 0.02
	}
	if c.CollectWindow <= 0 {
		c.CollectWindow = 120 * time.Second
	}
	if c.PassDelay <= 0 {
		c.PassDelay = 5 * time.Second
	}
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.ExpiryInterval <= 0 {
		c.ExpiryInterval = 60 * time.Second
	}
	if c.MaxOrderAge <= 0 {
		c.MaxOrderAge = 2 * time.Minute
	}
	return c
}

// Engine runs the three market background processes: continuous price
// drift, batch order clearing and stale-order expiry. The loops share no
// in-process state; all coordination goes through the ledger, where each
// order's status column is the only mutex-like signal.
type Engine struct {
	ledger Ledger
	pub    Publisher
	cfg    Config
	rng    *rand.Rand
}

func New(ledger Ledger, pub Publisher, cfg Config) *Engine {
	return &Engine{
		ledger: ledger,
		pub:    pub,
		cfg:    cfg.withDefaults(),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Start launches the three loops. They run until ctx is cancelled;
// cancellation stops new cycles rather than interrupting settlement of a
// batch already in flight.
func (e *Engine) Start(ctx context.Context) {
	go e.driftLoop(ctx)
	go e.clearingLoop(ctx)
	go e.expiryLoop(ctx)
}

func (e *Engine) publishPrice(symbol string, price, changePct decimal.Decimal) {
	if e.pub == nil {
		return
	}
	e.pub.Publish(marketdata.Event{Type: "price", Data: marketdata.PriceUpdate{
		Symbol:    symbol,
		Price:     price.String(),
		ChangePct: changePct.String(),
		Timestamp: time.Now().UnixMilli(),
	}})
}

// sleep waits for d or until ctx is cancelled. It reports whether the full
// wait elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func logErr(tag, what string, err error) {
	log.Printf("[%s] %s: %v", tag, what, err)
}
