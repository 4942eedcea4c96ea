package market

import (
	"context"
	"errors"
	"time"

	"tradezone/internal/model"

	"github.com/shopspring/decimal"
)

var (
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("insufficient shares")
)

// ApplyBuyExecution runs the whole buy settlement group in one transaction:
// debit the buyer, credit the holding and complete the order. The balance
// guard in the debit makes funds checks authoritative here, not at the
// caller's earlier read. A zero return with nil error means the order
// reached a terminal state concurrently; the transaction is rolled back and
// nothing is applied.
func (s *Store) ApplyBuyExecution(ctx context.Context, order model.Order, price, cost decimal.Decimal) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, "update profiles set balance = balance - $1 where user_id = $2 and balance >= $1", cost, order.UserID)
	if err != nil {
		return 0, err
	}
	if tag.RowsAffected() == 0 {
		return 0, ErrInsufficientFunds
	}
	if _, err := tx.Exec(ctx, "insert into user_stocks (user_id, stock_id, quantity) values ($1, $2, $3) on conflict (user_id, stock_id) do update set quantity = user_stocks.quantity + $3",
		order.UserID, order.StockID, order.Quantity); err != nil {
		return 0, err
	}
	tag, err = tx.Exec(ctx, "update orders set status = 'completed', executed_price = $1, executed_at = $2 where id = $3 and status = 'pending'",
		price, time.Now().UTC(), order.ID)
	if err != nil {
		return 0, err
	}
	if tag.RowsAffected() == 0 {
		return 0, nil
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return 1, nil
}

// ApplySellExecution is the sell counterpart: decrement the holding (guarded
// on quantity), drop the row at zero, credit the proceeds and complete the
// order, all in one transaction.
func (s *Store) ApplySellExecution(ctx context.Context, order model.Order, price, proceeds decimal.Decimal) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, "update user_stocks set quantity = quantity - $1 where user_id = $2 and stock_id = $3 and quantity >= $1",
		order.Quantity, order.UserID, order.StockID)
	if err != nil {
		return 0, err
	}
	if tag.RowsAffected() == 0 {
		return 0, ErrInsufficientShares
	}
	if _, err := tx.Exec(ctx, "delete from user_stocks where user_id = $1 and stock_id = $2 and quantity = 0", order.UserID, order.StockID); err != nil {
		return 0, err
	}
	tag, err = tx.Exec(ctx, "update profiles set balance = balance + $1 where user_id = $2", proceeds, order.UserID)
	if err != nil {
		return 0, err
	}
	if tag.RowsAffected() == 0 {
		return 0, ErrNotFound
	}
	tag, err = tx.Exec(ctx, "update orders set status = 'completed', executed_price = $1, executed_at = $2 where id = $3 and status = 'pending'",
		price, time.Now().UTC(), order.ID)
	if err != nil {
		return 0, err
	}
	if tag.RowsAffected() == 0 {
		return 0, nil
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return 1, nil
}
