package admin

import (
	"context"
	"errors"
	"fmt"
	"log"

	"tradezone/internal/market"
	"tradezone/internal/model"

	"github.com/shopspring/decimal"
)

// seedQuantity is the number of shares of each instrument granted to admin
// accounts so the market has an initial seller.
const seedQuantity = 1000

type Service struct {
	store *market.Store
}

func NewService(store *market.Store) *Service {
	return &Service{store: store}
}

func (s *Service) MarketState(ctx context.Context) (model.MarketState, error) {
	active, err := s.store.MarketActive(ctx)
	if err != nil {
		return model.MarketState{}, err
	}
	return model.MarketState{IsActive: active}, nil
}

func (s *Service) SetMarketActive(ctx context.Context, active bool) error {
	affected, err := s.store.SetMarketActive(ctx, active)
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.New("market state row is missing")
	}
	return nil
}

// AddStock creates an instrument and seeds the admin's holding. The stock
// row is removed again when seeding fails, so an instrument never exists
// without an initial holder.
func (s *Service) AddStock(ctx context.Context, adminID, symbol, name string, price decimal.Decimal) (model.Stock, error) {
	if symbol == "" || name == "" {
		return model.Stock{}, errors.New("symbol and name required")
	}
	if !price.IsPositive() {
		return model.Stock{}, errors.New("price must be positive")
	}
	stock, err := s.store.CreateStock(ctx, symbol, name, price)
	if err != nil {
		return model.Stock{}, err
	}
	if err := s.store.UpsertHolding(ctx, adminID, stock.ID, seedQuantity); err != nil {
		if delErr := s.store.DeleteStock(ctx, stock.ID); delErr != nil {
			log.Printf("[admin] rollback of stock %s failed: %v", stock.ID, delErr)
		}
		return model.Stock{}, fmt.Errorf("failed to seed admin holding: %w", err)
	}
	return stock, nil
}

// SeedAdminHoldings grants the seed quantity of every instrument to a new
// admin account. Per-stock failures are logged and do not stop the rest.
func (s *Service) SeedAdminHoldings(ctx context.Context, userID string) error {
	stocks, err := s.store.ListStocks(ctx)
	if err != nil {
		return err
	}
	for _, st := range stocks {
		if err := s.store.UpsertHolding(ctx, userID, st.ID, seedQuantity); err != nil {
			log.Printf("[admin] seeding %s for %s failed: %v", st.Symbol, userID, err)
		}
	}
	return nil
}
