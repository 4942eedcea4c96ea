package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tradezone/internal/market"
	"tradezone/internal/model"
	"tradezone/internal/types"

	"github.com/shopspring/decimal"
)

// fakeLedger is an in-memory Ledger. It mirrors the store's guarded-update
// semantics: conditional writes report affected rows and zero means the
// precondition did not hold.
type fakeLedger struct {
	mu          sync.Mutex
	active      bool
	stocks      map[string]model.Stock
	orders      map[string]model.Order
	balances    map[string]decimal.Decimal
	holdings    map[string]model.Holding
	settlements []model.Settlement
	nextID      int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		active:   true,
		stocks:   make(map[string]model.Stock),
		orders:   make(map[string]model.Order),
		balances: make(map[string]decimal.Decimal),
		holdings: make(map[string]model.Holding),
	}
}

func (f *fakeLedger) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *fakeLedger) addStock(symbol, price string) model.Stock {
	f.mu.Lock()
	defer f.mu.Unlock()
	st := model.Stock{
		ID:           f.id("stock"),
		Symbol:       symbol,
		Name:         symbol,
		CurrentPrice: decimal.RequireFromString(price),
		CreatedAt:    time.Now().UTC(),
	}
	f.stocks[st.ID] = st
	return st
}

func (f *fakeLedger) addOrder(userID, stockID string, side types.OrderSide, qty int64, createdAt time.Time) model.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	o := model.Order{
		ID:        f.id("order"),
		UserID:    userID,
		StockID:   stockID,
		Side:      side,
		Quantity:  qty,
		Status:    types.OrderStatusPending,
		CreatedAt: createdAt,
	}
	f.orders[o.ID] = o
	return o
}

func (f *fakeLedger) addUser(userID, balance string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[userID] = decimal.RequireFromString(balance)
}

func (f *fakeLedger) addHolding(userID, stockID string, qty int64) model.Holding {
	f.mu.Lock()
	defer f.mu.Unlock()
	h := model.Holding{ID: f.id("holding"), UserID: userID, StockID: stockID, Quantity: qty}
	f.holdings[h.ID] = h
	return h
}

func (f *fakeLedger) order(id string) model.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orders[id]
}

func (f *fakeLedger) balance(userID string) decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balances[userID]
}

func (f *fakeLedger) holdingFor(userID, stockID string) (model.Holding, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, h := range f.holdings {
		if h.UserID == userID && h.StockID == stockID {
			return h, true
		}
	}
	return model.Holding{}, false
}

func (f *fakeLedger) stock(id string) model.Stock {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stocks[id]
}

func (f *fakeLedger) ListStocks(ctx context.Context) ([]model.Stock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Stock, 0, len(f.stocks))
	for _, st := range f.stocks {
		out = append(out, st)
	}
	return out, nil
}

func (f *fakeLedger) UpdateStockPrice(ctx context.Context, stockID string, price, changePct decimal.Decimal) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.stocks[stockID]
	if !ok {
		return 0, nil
	}
	st.CurrentPrice = price
	st.PriceChange = changePct
	f.stocks[stockID] = st
	return 1, nil
}

func (f *fakeLedger) MarketActive(ctx context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active, nil
}

func (f *fakeLedger) GetOrder(ctx context.Context, orderID string) (model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[orderID]
	if !ok {
		return model.Order{}, market.ErrNotFound
	}
	return o, nil
}

func (f *fakeLedger) ListPendingOrdersByStock(ctx context.Context, stockID string) ([]model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Order
	for _, o := range f.orders {
		if o.StockID == stockID && o.Status == types.OrderStatusPending {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeLedger) ListCompletedOrdersSince(ctx context.Context, stockID string, since time.Time) ([]model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Order
	for _, o := range f.orders {
		if o.StockID == stockID && o.Status == types.OrderStatusCompleted && o.ExecutedAt != nil && o.ExecutedAt.After(since) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeLedger) ListStalePendingOrders(ctx context.Context, before time.Time) ([]model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Order
	for _, o := range f.orders {
		if o.Status == types.OrderStatusPending && o.CreatedAt.Before(before) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeLedger) CompleteOrder(ctx context.Context, orderID string, execPrice decimal.Decimal, execAt time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[orderID]
	if !ok || o.Status != types.OrderStatusPending {
		return 0, nil
	}
	o.Status = types.OrderStatusCompleted
	o.ExecutedPrice = &execPrice
	o.ExecutedAt = &execAt
	f.orders[orderID] = o
	return 1, nil
}

func (f *fakeLedger) CancelOrder(ctx context.Context, orderID, reason string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[orderID]
	if !ok || o.Status != types.OrderStatusPending {
		return 0, nil
	}
	o.Status = types.OrderStatusCancelled
	o.Error = reason
	f.orders[orderID] = o
	return 1, nil
}

func (f *fakeLedger) GetBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.balances[userID]
	if !ok {
		return decimal.Zero, market.ErrNotFound
	}
	return b, nil
}

func (f *fakeLedger) GetHolding(ctx context.Context, userID, stockID string) (model.Holding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, h := range f.holdings {
		if h.UserID == userID && h.StockID == stockID {
			return h, nil
		}
	}
	return model.Holding{}, market.ErrNotFound
}

// ApplyBuyExecution mirrors the store's transactional apply: all checks
// happen before any mutation, so a failed or raced apply changes nothing.
func (f *fakeLedger) ApplyBuyExecution(ctx context.Context, order model.Order, price, cost decimal.Decimal) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.balances[order.UserID]
	if !ok || b.LessThan(cost) {
		return 0, market.ErrInsufficientFunds
	}
	o, ok := f.orders[order.ID]
	if !ok || o.Status != types.OrderStatusPending {
		return 0, nil
	}
	f.balances[order.UserID] = b.Sub(cost)
	credited := false
	for id, h := range f.holdings {
		if h.UserID == order.UserID && h.StockID == order.StockID {
			h.Quantity += order.Quantity
			f.holdings[id] = h
			credited = true
			break
		}
	}
	if !credited {
		h := model.Holding{ID: f.id("holding"), UserID: order.UserID, StockID: order.StockID, Quantity: order.Quantity}
		f.holdings[h.ID] = h
	}
	f.completeLocked(order.ID, price)
	return 1, nil
}

func (f *fakeLedger) ApplySellExecution(ctx context.Context, order model.Order, price, proceeds decimal.Decimal) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var holding model.Holding
	found := false
	for _, h := range f.holdings {
		if h.UserID == order.UserID && h.StockID == order.StockID {
			holding = h
			found = true
			break
		}
	}
	if !found || holding.Quantity < order.Quantity {
		return 0, market.ErrInsufficientShares
	}
	b, ok := f.balances[order.UserID]
	if !ok {
		return 0, market.ErrNotFound
	}
	o, ok := f.orders[order.ID]
	if !ok || o.Status != types.OrderStatusPending {
		return 0, nil
	}
	if holding.Quantity == order.Quantity {
		delete(f.holdings, holding.ID)
	} else {
		holding.Quantity -= order.Quantity
		f.holdings[holding.ID] = holding
	}
	f.balances[order.UserID] = b.Add(proceeds)
	f.completeLocked(order.ID, price)
	return 1, nil
}

func (f *fakeLedger) completeLocked(orderID string, price decimal.Decimal) {
	o := f.orders[orderID]
	now := time.Now().UTC()
	o.Status = types.OrderStatusCompleted
	o.ExecutedPrice = &price
	o.ExecutedAt = &now
	f.orders[orderID] = o
}

func (f *fakeLedger) InsertSettlement(ctx context.Context, rec model.Settlement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settlements = append(f.settlements, rec)
	return nil
}

func newTestEngine(f *fakeLedger) *Engine {
	return New(f, nil, Config{
		DriftInterval:  time.Millisecond,
		PressureWindow: 30 * time.Second,
		CollectWindow:  time.Millisecond,
		PassDelay:      time.Millisecond,
		ExpiryInterval: time.Millisecond,
		MaxOrderAge:    2 * time.Minute,
	})
}
