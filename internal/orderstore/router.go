package orderstore

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/Gauhar-1/DesignsByAfreen-backend/internal/middleware"
)

func NewRouter(repo Repository, publisher EventsPublisher, logger *log.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", healthHandler)

	orderHandler := NewOrderHandler(repo, publisher, logger)

	mux.HandleFunc("POST /order", orderHandler.CreateOrder)
	mux.HandleFunc("GET /order", orderHandler.ListOrders)
	mux.HandleFunc("GET /order/order-history", orderHandler.OrderHistory)
	mux.HandleFunc("PUT /order/shipping-status", orderHandler.UpdateShippingStatus)
	mux.HandleFunc("PUT /order/payment-status", orderHandler.UpdatePaymentStatus)

	return middleware.CorrelationID(middleware.Recover(logger)(mux))
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok", "service": "order-store"}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
