package cartstore

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Gauhar-1/DesignsByAfreen-backend/internal/cart"
)

type CartHandler struct {
	repo Repository
}

func NewCartHandler(repo Repository) *CartHandler {
	return &CartHandler{repo: repo}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	items, err := h.repo.GetItems(ctx, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load cart")
		return
	}

	// A user with no rows still gets a cart, just an empty one.
	if items == nil {
		items = []cart.Item{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *CartHandler) PutItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
		UserID    string `json:"userId"`
	}

	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if body.UserID == "" || body.ProductID == "" {
		writeError(w, http.StatusBadRequest, "missing userId or productId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.repo.SetQuantity(ctx, body.UserID, body.ProductID, body.Quantity); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save cart item")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *CartHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	productID := r.URL.Query().Get("productId")
	if userID == "" || productID == "" {
		writeError(w, http.StatusBadRequest, "missing userId or productId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.repo.DeleteItem(ctx, userID, productID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete cart item")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{
		"error": msg,
	})
}
