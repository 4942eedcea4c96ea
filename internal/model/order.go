package model

import (
	"time"

	"tradezone/internal/types"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID            string            `json:"id"`
	UserID        string            `json:"user_id"`
	StockID       string            `json:"stock_id"`
	Side          types.OrderSide   `json:"side"`
	Quantity      int64             `json:"quantity"`
	Price         decimal.Decimal   `json:"price"`
	Status        types.OrderStatus `json:"status"`
	Error         string            `json:"error,omitempty"`
	ExecutedPrice *decimal.Decimal  `json:"executed_price,omitempty"`
	ExecutedAt    *time.Time        `json:"executed_at,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

// Terminal reports whether the order has reached a final state. Orders
// transition out of pending exactly once and are never re-opened.
func (o Order) Terminal() bool {
	return o.Status == types.OrderStatusCompleted || o.Status == types.OrderStatusCancelled
}
