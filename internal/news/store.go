package news

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Item struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) List(ctx context.Context) ([]Item, error) {
	rows, err := s.pool.Query(ctx, "select id, title, content, created_at from news order by created_at desc")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Title, &it.Content, &it.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (s *Store) Create(ctx context.Context, title, content string) (Item, error) {
	var it Item
	err := s.pool.QueryRow(ctx, "insert into news (title, content, created_at) values ($1, $2, $3) returning id, title, content, created_at",
		title, content, time.Now().UTC()).Scan(&it.ID, &it.Title, &it.Content, &it.CreatedAt)
	return it, err
}
