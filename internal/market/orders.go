package market

import (
	"context"
	"errors"
	"time"

	"tradezone/internal/model"
	"tradezone/internal/types"

	"github.com/jackc/pgx/v5"
)

const orderColumns = "id, user_id, stock_id, side, quantity, price, status, coalesce(error, ''), executed_price, executed_at, created_at"

func (s *Store) CreateOrder(ctx context.Context, o model.Order) (string, error) {
	var id string
	err := s.pool.QueryRow(ctx, "insert into orders (user_id, stock_id, side, quantity, price, status, created_at) values ($1,$2,$3,$4,$5,$6,$7) returning id",
		o.UserID, o.StockID, string(o.Side), o.Quantity, o.Price, string(o.Status), time.Now().UTC()).Scan(&id)
	return id, err
}

func (s *Store) GetOrder(ctx context.Context, orderID string) (model.Order, error) {
	row := s.pool.QueryRow(ctx, "select "+orderColumns+" from orders where id = $1", orderID)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return o, ErrNotFound
	}
	return o, err
}

func (s *Store) ListPendingOrdersByStock(ctx context.Context, stockID string) ([]model.Order, error) {
	rows, err := s.pool.Query(ctx, "select "+orderColumns+" from orders where stock_id = $1 and status = 'pending' order by created_at asc", stockID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

// ListCompletedOrdersSince returns orders executed within the trailing
// trade-pressure window for one stock.
func (s *Store) ListCompletedOrdersSince(ctx context.Context, stockID string, since time.Time) ([]model.Order, error) {
	rows, err := s.pool.Query(ctx, "select "+orderColumns+" from orders where stock_id = $1 and status = 'completed' and executed_at > $2", stockID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (s *Store) ListStalePendingOrders(ctx context.Context, before time.Time) ([]model.Order, error) {
	rows, err := s.pool.Query(ctx, "select "+orderColumns+" from orders where status = 'pending' and created_at < $1 order by created_at asc", before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

// CancelOrder moves a pending order to cancelled with a reason. The status
// guard makes the terminal transition exactly-once: a concurrent settler
// that lands first leaves this update with zero affected rows.
func (s *Store) CancelOrder(ctx context.Context, orderID, reason string) (int64, error) {
	tag, err := s.pool.Exec(ctx, "update orders set status = 'cancelled', error = $1 where id = $2 and status = 'pending'", reason, orderID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type UserOrder struct {
	model.Order
	Symbol string `json:"stock_symbol"`
}

func (s *Store) ListOrdersByUser(ctx context.Context, userID string) ([]UserOrder, error) {
	rows, err := s.pool.Query(ctx, "select o.id, o.user_id, o.stock_id, o.side, o.quantity, o.price, o.status, coalesce(o.error, ''), o.executed_price, o.executed_at, o.created_at, st.symbol from orders o join stocks st on st.id = o.stock_id where o.user_id = $1 order by o.created_at desc", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []UserOrder
	for rows.Next() {
		var uo UserOrder
		var side, status string
		if err := rows.Scan(&uo.ID, &uo.UserID, &uo.StockID, &side, &uo.Quantity, &uo.Price, &status, &uo.Error, &uo.ExecutedPrice, &uo.ExecutedAt, &uo.CreatedAt, &uo.Symbol); err != nil {
			return nil, err
		}
		uo.Side = types.OrderSide(side)
		uo.Status = types.OrderStatus(status)
		out = append(out, uo)
	}
	return out, rows.Err()
}

func (s *Store) InsertSettlement(ctx context.Context, rec model.Settlement) error {
	_, err := s.pool.Exec(ctx, "insert into settlements (order_id, user_id, stock_id, side, quantity, price, total_amount, created_at) values ($1,$2,$3,$4,$5,$6,$7,$8)",
		rec.OrderID, rec.UserID, rec.StockID, string(rec.Side), rec.Quantity, rec.Price, rec.Total, time.Now().UTC())
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (model.Order, error) {
	var o model.Order
	var side, status string
	err := row.Scan(&o.ID, &o.UserID, &o.StockID, &side, &o.Quantity, &o.Price, &status, &o.Error, &o.ExecutedPrice, &o.ExecutedAt, &o.CreatedAt)
	if err != nil {
		return o, err
	}
	o.Side = types.OrderSide(side)
	o.Status = types.OrderStatus(status)
	return o, nil
}

func collectOrders(rows pgx.Rows) ([]model.Order, error) {
	var out []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
