package portfolio

import (
	"net/http"

	"tradezone/internal/httputil"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request, userID string) {
	out, err := h.store.Summary(r.Context(), userID)
	if err != nil {
		httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) Holdings(w http.ResponseWriter, r *http.Request, userID string) {
	out, err := h.store.Holdings(r.Context(), userID)
	if err != nil {
		httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	if out == nil {
		out = []HoldingDetail{}
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	out, err := h.store.Leaderboard(r.Context())
	if err != nil {
		httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	if out == nil {
		out = []LeaderboardEntry{}
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}
