package market

import (
	"errors"
	"net/http"

	"tradezone/internal/httputil"
	"tradezone/internal/model"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) ListStocks(w http.ResponseWriter, r *http.Request) {
	out, err := h.store.ListStocks(r.Context())
	if err != nil {
		httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	if out == nil {
		out = []model.Stock{}
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) GetStock(w http.ResponseWriter, r *http.Request, stockID string) {
	st, err := h.store.GetStock(r.Context(), stockID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.WriteJSON(w, http.StatusNotFound, httputil.ErrorResponse{Error: "stock not found"})
			return
		}
		httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, st)
}
