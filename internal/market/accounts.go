package market

import (
	"context"
	"errors"
	"time"

	"tradezone/internal/model"
	"tradezone/internal/types"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

func (s *Store) GetProfile(ctx context.Context, userID string) (model.Profile, error) {
	var p model.Profile
	var role string
	err := s.pool.QueryRow(ctx, "select user_id, email, role, balance, created_at from profiles where user_id = $1", userID).
		Scan(&p.UserID, &p.Email, &role, &p.Balance, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return p, ErrNotFound
	}
	if err != nil {
		return p, err
	}
	p.Role = types.Role(role)
	return p, nil
}

func (s *Store) GetBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := s.pool.QueryRow(ctx, "select balance from profiles where user_id = $1", userID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return balance, ErrNotFound
	}
	return balance, err
}

func (s *Store) GetHolding(ctx context.Context, userID, stockID string) (model.Holding, error) {
	var h model.Holding
	err := s.pool.QueryRow(ctx, "select id, user_id, stock_id, quantity from user_stocks where user_id = $1 and stock_id = $2", userID, stockID).
		Scan(&h.ID, &h.UserID, &h.StockID, &h.Quantity)
	if errors.Is(err, pgx.ErrNoRows) {
		return h, ErrNotFound
	}
	return h, err
}

// UpsertHolding seeds or resets a holding row; used by admin provisioning.
func (s *Store) UpsertHolding(ctx context.Context, userID, stockID string, qty int64) error {
	_, err := s.pool.Exec(ctx, "insert into user_stocks (user_id, stock_id, quantity) values ($1, $2, $3) on conflict (user_id, stock_id) do update set quantity = $3", userID, stockID, qty)
	return err
}

// CreateProfile inserts the profile row for a new user. Credentials live on
// the same row; registration is the only writer.
func (s *Store) CreateProfile(ctx context.Context, email, passwordHash string, role types.Role, balance decimal.Decimal) (string, error) {
	var userID string
	err := s.pool.QueryRow(ctx, "insert into profiles (email, password_hash, role, balance, created_at) values ($1, $2, $3, $4, $5) returning user_id",
		email, passwordHash, string(role), balance, time.Now().UTC()).Scan(&userID)
	return userID, err
}

func (s *Store) GetCredentials(ctx context.Context, email string) (userID, passwordHash string, role types.Role, err error) {
	var roleRaw string
	err = s.pool.QueryRow(ctx, "select user_id, password_hash, role from profiles where email = $1", email).Scan(&userID, &passwordHash, &roleRaw)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", "", "", ErrNotFound
	}
	return userID, passwordHash, types.Role(roleRaw), err
}
