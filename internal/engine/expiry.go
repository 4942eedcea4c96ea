package engine

import (
	"context"
	"log"
	"time"
)

const expiryReason = "order timed out"

// expiryLoop cancels orders that have sat pending past the maximum age. It
// races with the clearing loop on purpose; the guarded status update in the
// ledger arbitrates, and whichever writer loses sees zero affected rows.
func (e *Engine) expiryLoop(ctx context.Context) {
	log.Printf("[expiry] loop started (interval %s, max age %s)", e.cfg.ExpiryInterval, e.cfg.MaxOrderAge)
	for {
		e.sweepStaleOrders(ctx)
		if !sleep(ctx, e.cfg.ExpiryInterval) {
			log.Printf("[expiry] loop stopped")
			return
		}
	}
}

func (e *Engine) sweepStaleOrders(ctx context.Context) {
	if e.cfg.GateExpiry {
		active, err := e.ledger.MarketActive(ctx)
		if err != nil {
			logErr("expiry", "market state", err)
			return
		}
		if !active {
			return
		}
	}
	cutoff := time.Now().UTC().Add(-e.cfg.MaxOrderAge)
	stale, err := e.ledger.ListStalePendingOrders(ctx, cutoff)
	if err != nil {
		logErr("expiry", "list stale orders", err)
		return
	}
	if len(stale) == 0 {
		return
	}
	log.Printf("[expiry] cancelling %d stale orders", len(stale))
	for _, o := range stale {
		affected, err := e.ledger.CancelOrder(ctx, o.ID, expiryReason)
		if err != nil {
			logErr("expiry", "cancel "+o.ID, err)
			continue
		}
		if affected == 0 {
			// Settled or cancelled concurrently; nothing to do.
			continue
		}
	}
}
