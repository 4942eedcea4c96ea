package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Stock struct {
	ID           string           `json:"id"`
	Symbol       string           `json:"symbol"`
	Name         string           `json:"name"`
	CurrentPrice decimal.Decimal  `json:"current_price"`
	PriceChange  decimal.Decimal  `json:"price_change"`
	MinPrice     *decimal.Decimal `json:"min_price,omitempty"`
	MaxPrice     *decimal.Decimal `json:"max_price,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

type Holding struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	StockID  string `json:"stock_id"`
	Quantity int64  `json:"quantity"`
}

type MarketState struct {
	IsActive bool `json:"is_active"`
}
