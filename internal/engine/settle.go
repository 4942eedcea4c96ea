package engine

import (
	"context"
	"errors"
	"fmt"
	"log"

	"tradezone/internal/market"
	"tradezone/internal/model"
	"tradezone/internal/types"

	"github.com/shopspring/decimal"
)

// Settle applies one matched order at the clearing price. The fund/share
// prechecks here choose the cancel reason; the authoritative guards live
// inside the ledger's transactional apply, so a stale precheck read can
// never overdraw anyone. The order's own row always reaches a terminal state
// before Settle returns. Terminal orders and vanished orders are benign
// no-ops, which closes the race with the expiry sweep.
func (e *Engine) Settle(ctx context.Context, orderID string, price decimal.Decimal) error {
	order, err := e.ledger.GetOrder(ctx, orderID)
	if errors.Is(err, market.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if order.Terminal() {
		return nil
	}

	balance, err := e.ledger.GetBalance(ctx, order.UserID)
	if errors.Is(err, market.ErrNotFound) {
		e.cancel(ctx, orderID, "account no longer exists")
		return fmt.Errorf("owner %s vanished", order.UserID)
	}
	if err != nil {
		e.cancel(ctx, orderID, "settlement failed: "+err.Error())
		return err
	}

	total := price.Mul(decimal.NewFromInt(order.Quantity))

	var affected int64
	if order.Side == types.OrderSideBuy {
		if balance.LessThan(total) {
			e.cancel(ctx, orderID, "insufficient funds")
			return fmt.Errorf("insufficient funds: need %s, have %s", total, balance)
		}
		affected, err = e.ledger.ApplyBuyExecution(ctx, order, price, total)
		if errors.Is(err, market.ErrInsufficientFunds) {
			e.cancel(ctx, orderID, "insufficient funds")
			return fmt.Errorf("insufficient funds for order %s", orderID)
		}
	} else {
		holding, herr := e.ledger.GetHolding(ctx, order.UserID, order.StockID)
		if errors.Is(herr, market.ErrNotFound) || (herr == nil && holding.Quantity < order.Quantity) {
			e.cancel(ctx, orderID, "insufficient shares")
			return fmt.Errorf("insufficient shares for order %s", orderID)
		}
		if herr != nil {
			e.cancel(ctx, orderID, "settlement failed: "+herr.Error())
			return herr
		}
		affected, err = e.ledger.ApplySellExecution(ctx, order, price, total)
		if errors.Is(err, market.ErrInsufficientShares) {
			e.cancel(ctx, orderID, "insufficient shares")
			return fmt.Errorf("insufficient shares for order %s", orderID)
		}
	}
	if err != nil {
		e.cancel(ctx, orderID, "settlement failed: "+err.Error())
		return err
	}
	if affected == 0 {
		// Lost the terminal-transition race; the transaction rolled the
		// mutations back, so nothing was applied.
		log.Printf("[settle] order %s reached a terminal state concurrently, skipped", orderID)
		return nil
	}

	rec := model.Settlement{
		OrderID:  orderID,
		UserID:   order.UserID,
		StockID:  order.StockID,
		Side:     order.Side,
		Quantity: order.Quantity,
		Price:    price,
		Total:    total,
	}
	if err := e.ledger.InsertSettlement(ctx, rec); err != nil {
		// Audit record only; the execution itself already committed.
		logErr("settle", "settlement record for "+orderID, err)
	}
	return nil
}

// cancel forces an order out of pending. A zero affected count means some
// other writer finished the order first; that is the expected outcome of
// the expiry/settlement race and not an error.
func (e *Engine) cancel(ctx context.Context, orderID, reason string) {
	affected, err := e.ledger.CancelOrder(ctx, orderID, reason)
	if err != nil {
		logErr("settle", "cancel "+orderID, err)
		return
	}
	if affected == 0 {
		log.Printf("[settle] order %s already terminal, cancel skipped", orderID)
	}
}
