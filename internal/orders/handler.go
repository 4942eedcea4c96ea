package orders

import (
	"errors"
	"net/http"

	"tradezone/internal/httputil"
	"tradezone/internal/market"
	"tradezone/internal/types"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type placeOrderRequest struct {
	StockID  string `json:"stock_id"`
	Side     string `json:"side"`
	Quantity int64  `json:"quantity"`
}

type tradeRequest struct {
	StockID  string `json:"stock_id"`
	Quantity int64  `json:"quantity"`
}

func (h *Handler) Place(w http.ResponseWriter, r *http.Request, userID string) {
	var req placeOrderRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	orderID, err := h.svc.Place(r.Context(), PlaceOrderRequest{
		UserID:   userID,
		StockID:  req.StockID,
		Side:     types.OrderSide(req.Side),
		Quantity: req.Quantity,
	})
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrMarketClosed) {
			status = http.StatusForbidden
		}
		httputil.WriteJSON(w, status, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]string{"order_id": orderID, "message": "order placed successfully"})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request, userID string) {
	out, err := h.svc.ListByUser(r.Context(), userID)
	if err != nil {
		httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	if out == nil {
		out = []market.UserOrder{}
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) Buy(w http.ResponseWriter, r *http.Request, userID string) {
	var req tradeRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	newBalance, err := h.svc.BuyNow(r.Context(), userID, req.StockID, req.Quantity)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message":     "stock purchased successfully",
		"new_balance": newBalance,
	})
}

func (h *Handler) Sell(w http.ResponseWriter, r *http.Request, userID string) {
	var req tradeRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	newBalance, err := h.svc.SellNow(r.Context(), userID, req.StockID, req.Quantity)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message":     "stock sold successfully",
		"new_balance": newBalance,
	})
}
