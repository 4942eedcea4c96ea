package model

import (
	"time"

	"tradezone/internal/types"

	"github.com/shopspring/decimal"
)

type Profile struct {
	UserID    string          `json:"user_id"`
	Email     string          `json:"email"`
	Role      types.Role      `json:"role"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
}

// Settlement is the audit record appended after a successful execution.
type Settlement struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"order_id"`
	UserID    string          `json:"user_id"`
	StockID   string          `json:"stock_id"`
	Side      types.OrderSide `json:"side"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Total     decimal.Decimal `json:"total_amount"`
	CreatedAt time.Time       `json:"created_at"`
}
