package httpserver

import (
	"net/http"

	"tradezone/internal/admin"
	"tradezone/internal/auth"
	"tradezone/internal/httputil"
	"tradezone/internal/market"
	"tradezone/internal/news"
	"tradezone/internal/orders"
	"tradezone/internal/portfolio"

	"github.com/go-chi/chi/v5"
)

type RouterDeps struct {
	AuthHandler      *auth.Handler
	MarketHandler    *market.Handler
	OrderHandler     *orders.Handler
	PortfolioHandler *portfolio.Handler
	NewsHandler      *news.Handler
	AdminHandler     *admin.Handler
	AuthService      *auth.Service
	MarketWSHandler  http.Handler
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	// CORS middleware for development
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				origin = "*"
			}
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	// Security Middleware
	r.Use(SecurityHeaders)
	r.Use(RateLimitMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Route("/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", d.AuthHandler.Register)
			r.Post("/login", d.AuthHandler.Login)
		})
		r.Get("/market/ws", d.MarketWSHandler.ServeHTTP)
		r.Get("/market/state", d.AdminHandler.MarketState)
		r.Group(func(r chi.Router) {
			r.Use(WithAuth(d.AuthService))
			r.Get("/stocks", d.MarketHandler.ListStocks)
			r.Get("/stocks/{id}", func(w http.ResponseWriter, r *http.Request) {
				d.MarketHandler.GetStock(w, r, chi.URLParam(r, "id"))
			})
			r.Post("/stocks/buy", func(w http.ResponseWriter, r *http.Request) {
				userID, ok := UserID(r)
				if !ok {
					httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{Error: "unauthorized"})
					return
				}
				d.OrderHandler.Buy(w, r, userID)
			})
			r.Post("/stocks/sell", func(w http.ResponseWriter, r *http.Request) {
				userID, ok := UserID(r)
				if !ok {
					httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{Error: "unauthorized"})
					return
				}
				d.OrderHandler.Sell(w, r, userID)
			})
			r.Post("/orders", func(w http.ResponseWriter, r *http.Request) {
				userID, ok := UserID(r)
				if !ok {
					httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{Error: "unauthorized"})
					return
				}
				d.OrderHandler.Place(w, r, userID)
			})
			r.Get("/orders", func(w http.ResponseWriter, r *http.Request) {
				userID, ok := UserID(r)
				if !ok {
					httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{Error: "unauthorized"})
					return
				}
				d.OrderHandler.List(w, r, userID)
			})
			r.Get("/portfolio/profile", func(w http.ResponseWriter, r *http.Request) {
				userID, ok := UserID(r)
				if !ok {
					httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{Error: "unauthorized"})
					return
				}
				d.PortfolioHandler.Profile(w, r, userID)
			})
			r.Get("/portfolio/holdings", func(w http.ResponseWriter, r *http.Request) {
				userID, ok := UserID(r)
				if !ok {
					httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{Error: "unauthorized"})
					return
				}
				d.PortfolioHandler.Holdings(w, r, userID)
			})
			r.Get("/leaderboard", d.PortfolioHandler.Leaderboard)
			r.Get("/news", d.NewsHandler.List)
		})
		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(WithAuth(d.AuthService))
			r.Use(RequireAdmin(d.AuthService))
			r.Post("/market/control", d.AdminHandler.MarketControl)
			r.Post("/news", d.NewsHandler.Create)
			r.Post("/admin/stocks", func(w http.ResponseWriter, r *http.Request) {
				userID, ok := UserID(r)
				if !ok {
					httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{Error: "unauthorized"})
					return
				}
				d.AdminHandler.AddStock(w, r, userID)
			})
			r.Post("/admin/stocks/ensure", func(w http.ResponseWriter, r *http.Request) {
				userID, ok := UserID(r)
				if !ok {
					httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{Error: "unauthorized"})
					return
				}
				d.AdminHandler.EnsureStocks(w, r, userID)
			})
		})
	})
	return r
}
