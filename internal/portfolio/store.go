package portfolio

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Summary struct {
	Balance    decimal.Decimal `json:"balance"`
	TotalValue decimal.Decimal `json:"total_portfolio_value"`
}

type HoldingDetail struct {
	StockID      string          `json:"stock_id"`
	StockName    string          `json:"stock_name"`
	StockSymbol  string          `json:"stock_symbol"`
	Quantity     int64           `json:"quantity"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	TotalValue   decimal.Decimal `json:"total_value"`
}

type LeaderboardEntry struct {
	UserID     string          `json:"user_id"`
	Email      string          `json:"email"`
	TotalValue decimal.Decimal `json:"total_value"`
}

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Summary returns cash balance plus the mark-to-market value of all
// holdings at current prices.
func (s *Store) Summary(ctx context.Context, userID string) (Summary, error) {
	var out Summary
	err := s.pool.QueryRow(ctx, `
		select p.balance,
		       p.balance + coalesce(sum(us.quantity * st.current_price), 0)
		from profiles p
		left join user_stocks us on us.user_id = p.user_id
		left join stocks st on st.id = us.stock_id
		where p.user_id = $1
		group by p.balance
	`, userID).Scan(&out.Balance, &out.TotalValue)
	return out, err
}

func (s *Store) Holdings(ctx context.Context, userID string) ([]HoldingDetail, error) {
	rows, err := s.pool.Query(ctx, `
		select st.id, st.name, st.symbol, us.quantity, st.current_price, us.quantity * st.current_price
		from user_stocks us
		join stocks st on st.id = us.stock_id
		where us.user_id = $1
		order by st.symbol asc
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []HoldingDetail
	for rows.Next() {
		var h HoldingDetail
		if err := rows.Scan(&h.StockID, &h.StockName, &h.StockSymbol, &h.Quantity, &h.CurrentPrice, &h.TotalValue); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// Leaderboard ranks all users by cash plus holdings value, highest first.
func (s *Store) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	rows, err := s.pool.Query(ctx, `
		select p.user_id, p.email,
		       p.balance + coalesce(sum(us.quantity * st.current_price), 0) as total_value
		from profiles p
		left join user_stocks us on us.user_id = p.user_id
		left join stocks st on st.id = us.stock_id
		group by p.user_id, p.email, p.balance
		order by total_value desc
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Email, &e.TotalValue); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
