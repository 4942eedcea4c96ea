package market

import (
	"context"
	"errors"
	"time"

	"tradezone/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ErrNotFound maps pgx.ErrNoRows for single-row lookups. Callers that can
// tolerate an absent row check for it with errors.Is.
var ErrNotFound = errors.New("not found")

// Store is the row-level accessor shared by the engine and the HTTP
// surfaces. Every method is a single statement; there is no cross-row
// atomicity here and callers must not assume any.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) ListStocks(ctx context.Context) ([]model.Stock, error) {
	rows, err := s.pool.Query(ctx, "select id, symbol, name, current_price, price_change, min_price, max_price, created_at from stocks order by symbol asc")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Stock
	for rows.Next() {
		var st model.Stock
		if err := rows.Scan(&st.ID, &st.Symbol, &st.Name, &st.CurrentPrice, &st.PriceChange, &st.MinPrice, &st.MaxPrice, &st.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *Store) GetStock(ctx context.Context, stockID string) (model.Stock, error) {
	var st model.Stock
	err := s.pool.QueryRow(ctx, "select id, symbol, name, current_price, price_change, min_price, max_price, created_at from stocks where id = $1", stockID).
		Scan(&st.ID, &st.Symbol, &st.Name, &st.CurrentPrice, &st.PriceChange, &st.MinPrice, &st.MaxPrice, &st.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return st, ErrNotFound
	}
	return st, err
}

func (s *Store) CreateStock(ctx context.Context, symbol, name string, price decimal.Decimal) (model.Stock, error) {
	var st model.Stock
	err := s.pool.QueryRow(ctx, "insert into stocks (symbol, name, current_price, price_change, created_at) values ($1, $2, $3, 0, $4) returning id, symbol, name, current_price, price_change, min_price, max_price, created_at",
		symbol, name, price, time.Now().UTC()).
		Scan(&st.ID, &st.Symbol, &st.Name, &st.CurrentPrice, &st.PriceChange, &st.MinPrice, &st.MaxPrice, &st.CreatedAt)
	return st, err
}

func (s *Store) DeleteStock(ctx context.Context, stockID string) error {
	_, err := s.pool.Exec(ctx, "delete from stocks where id = $1", stockID)
	return err
}

// UpdateStockPrice persists a new price and its percentage change in one
// statement. The returned count is zero when the stock no longer exists.
func (s *Store) UpdateStockPrice(ctx context.Context, stockID string, price, changePct decimal.Decimal) (int64, error) {
	tag, err := s.pool.Exec(ctx, "update stocks set current_price = $1, price_change = $2 where id = $3", price, changePct, stockID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *Store) MarketActive(ctx context.Context) (bool, error) {
	var active bool
	err := s.pool.QueryRow(ctx, "select is_active from market_state where id = 1").Scan(&active)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	return active, err
}

func (s *Store) SetMarketActive(ctx context.Context, active bool) (int64, error) {
	tag, err := s.pool.Exec(ctx, "update market_state set is_active = $1 where id = 1", active)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
