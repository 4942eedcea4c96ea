package admin

import (
	"net/http"
	"strings"

	"tradezone/internal/httputil"

	"github.com/shopspring/decimal"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type marketControlRequest struct {
	IsActive *bool `json:"is_active"`
}

type addStockRequest struct {
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	CurrentPrice string `json:"current_price"`
}

func (h *Handler) MarketState(w http.ResponseWriter, r *http.Request) {
	state, err := h.svc.MarketState(r.Context())
	if err != nil {
		httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	message := "market is currently inactive"
	if state.IsActive {
		message = "market is currently active"
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"is_active": state.IsActive, "message": message})
}

func (h *Handler) MarketControl(w http.ResponseWriter, r *http.Request) {
	var req marketControlRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	if req.IsActive == nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "missing is_active field"})
		return
	}
	if err := h.svc.SetMarketActive(r.Context(), *req.IsActive); err != nil {
		httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	message := "market stopped successfully"
	if *req.IsActive {
		message = "market started successfully"
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"message": message, "is_active": *req.IsActive})
}

func (h *Handler) AddStock(w http.ResponseWriter, r *http.Request, userID string) {
	var req addStockRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	price, err := decimal.NewFromString(req.CurrentPrice)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: "invalid current_price"})
		return
	}
	stock, err := h.svc.AddStock(r.Context(), userID, strings.ToUpper(strings.TrimSpace(req.Symbol)), strings.TrimSpace(req.Name), price)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"message":          "stock added successfully",
		"stock":            stock,
		"initial_quantity": seedQuantity,
	})
}

func (h *Handler) EnsureStocks(w http.ResponseWriter, r *http.Request, userID string) {
	if err := h.svc.SeedAdminHoldings(r.Context(), userID); err != nil {
		httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"message": "admin stocks verified and updated"})
}
