package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tradezone/internal/admin"
	"tradezone/internal/auth"
	"tradezone/internal/config"
	"tradezone/internal/db"
	"tradezone/internal/engine"
	"tradezone/internal/httpserver"
	"tradezone/internal/market"
	"tradezone/internal/marketdata"
	"tradezone/internal/news"
	"tradezone/internal/orders"
	"tradezone/internal/portfolio"

	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	startingBalance, err := decimal.NewFromString(cfg.StartingBalance)
	if err != nil {
		log.Fatal(err)
	}
	adminBalance, err := decimal.NewFromString(cfg.AdminStartingBalance)
	if err != nil {
		log.Fatal(err)
	}

	bus := marketdata.NewBus()
	store := market.NewStore(pool)
	eng := engine.New(store, bus, engine.Config{
		DriftInterval:  cfg.DriftInterval,
		PressureWindow: cfg.PressureWindow,
		MaxDriftStep:   cfg.MaxDriftStepPct,
		CollectWindow:  cfg.CollectWindow,
		PassDelay:      cfg.PassDelay,
		Workers:        cfg.ClearingWorkers,
		ExpiryInterval: cfg.ExpiryInterval,
		MaxOrderAge:    cfg.MaxOrderAge,
		GateDrift:      cfg.GateDrift,
		GateExpiry:     cfg.GateExpiry,
	})

	authSvc := auth.NewService(store, cfg.JWTIssuer, []byte(cfg.JWTSecret), cfg.JWTTTL, startingBalance, adminBalance)
	adminSvc := admin.NewService(store)
	authSvc.SetProvisioner(adminSvc)
	orderSvc := orders.NewService(store, eng)
	portfolioStore := portfolio.NewStore(pool)
	newsStore := news.NewStore(pool)

	router := httpserver.NewRouter(httpserver.RouterDeps{
		AuthHandler:      auth.NewHandler(authSvc),
		MarketHandler:    market.NewHandler(store),
		OrderHandler:     orders.NewHandler(orderSvc),
		PortfolioHandler: portfolio.NewHandler(portfolioStore),
		NewsHandler:      news.NewHandler(newsStore),
		AdminHandler:     admin.NewHandler(adminSvc),
		AuthService:      authSvc,
		MarketWSHandler:  marketdata.NewMarketWS(bus, cfg.WebSocketOrigin),
	})
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	eng.Start(ctx)

	log.Printf("server listening on %s", cfg.HTTPAddr)
	log.Printf("health endpoint: http://localhost%s/health", cfg.HTTPAddr)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		cancel()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
