package cartstore

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/Gauhar-1/DesignsByAfreen-backend/internal/middleware"
)

func NewRouter(repo Repository, logger *log.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", healthHandler)

	cartHandler := NewCartHandler(repo)

	mux.HandleFunc("GET /cart", cartHandler.GetCart)       // fetch cart lines
	mux.HandleFunc("PUT /cart", cartHandler.PutItem)       // set quantity (<=0 removes)
	mux.HandleFunc("DELETE /cart", cartHandler.DeleteItem) // remove one line

	return middleware.CorrelationID(middleware.Recover(logger)(mux))
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok", "service": "cart-store"}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
