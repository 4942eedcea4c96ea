package engine

import (
	"context"
	"fmt"
	"log"
	"time"

	"tradezone/internal/model"
	"tradezone/internal/types"
)

// driftLoop nudges every instrument's displayed price between clearing
// rounds: by recent completed-trade pressure when there was volume in the
// trailing window, by a small random movement otherwise.
func (e *Engine) driftLoop(ctx context.Context) {
	log.Printf("[drift] loop started (interval %s)", e.cfg.DriftInterval)
	for {
		e.runDriftCycle(ctx)
		if !sleep(ctx, e.cfg.DriftInterval) {
			log.Printf("[drift] loop stopped")
			return
		}
	}
}

func (e *Engine) runDriftCycle(ctx context.Context) {
	if e.cfg.GateDrift {
		active, err := e.ledger.MarketActive(ctx)
		if err != nil {
			logErr("drift", "market state", err)
			return
		}
		if !active {
			return
		}
	}
	stocks, err := e.ledger.ListStocks(ctx)
	if err != nil {
		logErr("drift", "list stocks", err)
		return
	}
	for _, st := range stocks {
		// One bad instrument must not abort the rest of the sweep.
		if err := e.driftStock(ctx, st); err != nil {
			logErr("drift", st.Symbol, err)
		}
	}
}

func (e *Engine) driftStock(ctx context.Context, st model.Stock) error {
	since := time.Now().UTC().Add(-e.cfg.PressureWindow)
	recent, err := e.ledger.ListCompletedOrdersSince(ctx, st.ID, since)
	if err != nil {
		return err
	}
	var change float64
	if len(recent) > 0 {
		var buyQty, sellQty int64
		for _, o := range recent {
			if o.Side == types.OrderSideBuy {
				buyQty += o.Quantity
			} else {
				sellQty += o.Quantity
			}
		}
		change = pressureChange(buyQty, sellQty, e.cfg.MaxDriftStep)
	} else {
		change = idleChange(e.rng)
	}
	next, realized := driftPrice(st, change)
	affected, err := e.ledger.UpdateStockPrice(ctx, st.ID, next, realized)
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("price update had no effect")
	}
	e.publishPrice(st.Symbol, next, realized)
	return nil
}
