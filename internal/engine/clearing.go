package engine

import (
	"context"
	"log"
	"sync"

	"tradezone/internal/model"
	"tradezone/internal/types"
)

// clearingLoop runs the batch auction. Each pass walks every instrument,
// lets pending orders accumulate over the collection window, fixes one
// clearing price per instrument from the batch imbalance and settles every
// order in the batch at that price. Instruments are cleared concurrently
// through a fixed worker pool; price fix and settlement stay scoped to one
// instrument's task, so the single-clearing-price invariant holds per batch.
func (e *Engine) clearingLoop(ctx context.Context) {
	log.Printf("[clearing] loop started (window %s, %d workers)", e.cfg.CollectWindow, e.cfg.Workers)
	for {
		e.runClearingPass(ctx)
		if !sleep(ctx, e.cfg.PassDelay) {
			log.Printf("[clearing] loop stopped")
			return
		}
	}
}

func (e *Engine) runClearingPass(ctx context.Context) {
	active, err := e.ledger.MarketActive(ctx)
	if err != nil {
		logErr("clearing", "market state", err)
		return
	}
	if !active {
		// Market closed: no collection, no settlement this pass.
		return
	}
	stocks, err := e.ledger.ListStocks(ctx)
	if err != nil {
		logErr("clearing", "list stocks", err)
		return
	}
	if len(stocks) == 0 {
		return
	}
	workers := e.cfg.Workers
	if workers > len(stocks) {
		workers = len(stocks)
	}
	jobs := make(chan model.Stock)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for st := range jobs {
				e.clearStock(ctx, st)
			}
		}()
	}
	for _, st := range stocks {
		jobs <- st
	}
	close(jobs)
	wg.Wait()
}

func (e *Engine) clearStock(ctx context.Context, st model.Stock) {
	pending, err := e.ledger.ListPendingOrdersByStock(ctx, st.ID)
	if err != nil {
		logErr("clearing", st.Symbol, err)
		return
	}
	if len(pending) == 0 {
		return
	}
	log.Printf("[clearing] %s: %d pending orders, collecting for %s", st.Symbol, len(pending), e.cfg.CollectWindow)
	if !sleep(ctx, e.cfg.CollectWindow) {
		// Shutdown during collection leaves the batch pending; nothing has
		// been priced or settled yet, so the next pass (or expiry) owns it.
		return
	}
	// Re-fetch after the window: the batch may have grown, or shrunk under
	// concurrent expiry.
	batch, err := e.ledger.ListPendingOrdersByStock(ctx, st.ID)
	if err != nil {
		logErr("clearing", st.Symbol, err)
		return
	}
	if len(batch) == 0 {
		return
	}
	var buyQty, sellQty int64
	for _, o := range batch {
		if o.Side == types.OrderSideBuy {
			buyQty += o.Quantity
		} else {
			sellQty += o.Quantity
		}
	}
	price, deltaPct := clearingPrice(st.CurrentPrice, buyQty, sellQty)
	// The price must be persisted before any order settles so that every
	// order in the batch, losing side included, executes at the same price.
	affected, err := e.ledger.UpdateStockPrice(ctx, st.ID, price, deltaPct)
	if err != nil {
		logErr("clearing", st.Symbol, err)
		return
	}
	if affected == 0 {
		log.Printf("[clearing] %s: price update had no effect, abandoning batch", st.Symbol)
		return
	}
	e.publishPrice(st.Symbol, price, deltaPct)
	for _, o := range batch {
		// Per-order failures must not block batch-mates.
		if err := e.Settle(ctx, o.ID, price); err != nil {
			log.Printf("[clearing] %s: order %s: %v", st.Symbol, o.ID, err)
		}
	}
}
