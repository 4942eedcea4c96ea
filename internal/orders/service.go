package orders

import (
	"context"
	"errors"
	"fmt"

	"tradezone/internal/market"
	"tradezone/internal/model"
	"tradezone/internal/types"

	"github.com/shopspring/decimal"
)

// ErrMarketClosed rejects order submission while the market flag is off.
var ErrMarketClosed = errors.New("market is currently closed, orders cannot be placed")

// Executor realizes an order at a given price; the engine's settlement
// executor satisfies it.
type Executor interface {
	Settle(ctx context.Context, orderID string, price decimal.Decimal) error
}

type Service struct {
	store *market.Store
	exec  Executor
}

func NewService(store *market.Store, exec Executor) *Service {
	return &Service{store: store, exec: exec}
}

type PlaceOrderRequest struct {
	UserID   string
	StockID  string
	Side     types.OrderSide
	Quantity int64
}

// Place creates a pending order at the instrument's current price. The
// market-state flag is re-fetched on every call; external actors can flip
// it at any time.
func (s *Service) Place(ctx context.Context, req PlaceOrderRequest) (string, error) {
	if err := validate(req); err != nil {
		return "", err
	}
	active, err := s.store.MarketActive(ctx)
	if err != nil {
		return "", err
	}
	if !active {
		return "", ErrMarketClosed
	}
	stock, err := s.store.GetStock(ctx, req.StockID)
	if err != nil {
		if errors.Is(err, market.ErrNotFound) {
			return "", errors.New("stock not found")
		}
		return "", err
	}
	return s.store.CreateOrder(ctx, model.Order{
		UserID:   req.UserID,
		StockID:  req.StockID,
		Side:     req.Side,
		Quantity: req.Quantity,
		Price:    stock.CurrentPrice,
		Status:   types.OrderStatusPending,
	})
}

// BuyNow executes a purchase immediately at the current price instead of
// waiting for the next clearing round.
func (s *Service) BuyNow(ctx context.Context, userID, stockID string, qty int64) (decimal.Decimal, error) {
	if qty <= 0 {
		return decimal.Zero, errors.New("quantity must be positive")
	}
	stock, err := s.store.GetStock(ctx, stockID)
	if err != nil {
		if errors.Is(err, market.ErrNotFound) {
			return decimal.Zero, errors.New("stock not found")
		}
		return decimal.Zero, err
	}
	cost := stock.CurrentPrice.Mul(decimal.NewFromInt(qty))
	balance, err := s.store.GetBalance(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	if balance.LessThan(cost) {
		return decimal.Zero, fmt.Errorf("insufficient funds: required %s, available %s", cost, balance)
	}
	if err := s.executeNow(ctx, userID, stockID, types.OrderSideBuy, qty, stock.CurrentPrice); err != nil {
		return decimal.Zero, err
	}
	return balance.Sub(cost), nil
}

// SellNow executes a sale immediately at the current price.
func (s *Service) SellNow(ctx context.Context, userID, stockID string, qty int64) (decimal.Decimal, error) {
	if qty <= 0 {
		return decimal.Zero, errors.New("quantity must be positive")
	}
	stock, err := s.store.GetStock(ctx, stockID)
	if err != nil {
		if errors.Is(err, market.ErrNotFound) {
			return decimal.Zero, errors.New("stock not found")
		}
		return decimal.Zero, err
	}
	holding, err := s.store.GetHolding(ctx, userID, stockID)
	if errors.Is(err, market.ErrNotFound) || (err == nil && holding.Quantity < qty) {
		var available int64
		if err == nil {
			available = holding.Quantity
		}
		return decimal.Zero, fmt.Errorf("insufficient shares: requested %d, available %d", qty, available)
	}
	if err != nil {
		return decimal.Zero, err
	}
	balance, err := s.store.GetBalance(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	if err := s.executeNow(ctx, userID, stockID, types.OrderSideSell, qty, stock.CurrentPrice); err != nil {
		return decimal.Zero, err
	}
	return balance.Add(stock.CurrentPrice.Mul(decimal.NewFromInt(qty))), nil
}

// executeNow records the order and hands it straight to the settlement
// executor at the quoted price, so the instant paths and the batch path
// share one execution code path.
func (s *Service) executeNow(ctx context.Context, userID, stockID string, side types.OrderSide, qty int64, price decimal.Decimal) error {
	orderID, err := s.store.CreateOrder(ctx, model.Order{
		UserID:   userID,
		StockID:  stockID,
		Side:     side,
		Quantity: qty,
		Price:    price,
		Status:   types.OrderStatusPending,
	})
	if err != nil {
		return err
	}
	return s.exec.Settle(ctx, orderID, price)
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]market.UserOrder, error) {
	return s.store.ListOrdersByUser(ctx, userID)
}

func validate(req PlaceOrderRequest) error {
	if req.UserID == "" || req.StockID == "" {
		return errors.New("missing user or stock")
	}
	if req.Side != types.OrderSideBuy && req.Side != types.OrderSideSell {
		return errors.New("invalid order side")
	}
	if req.Quantity <= 0 {
		return errors.New("quantity must be positive")
	}
	return nil
}
