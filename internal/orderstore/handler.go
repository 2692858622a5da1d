package orderstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Gauhar-1/DesignsByAfreen-backend/internal/cart"
	"github.com/Gauhar-1/DesignsByAfreen-backend/internal/order"
)

type OrderHandler struct {
	repo      Repository
	publisher EventsPublisher
	logger    *log.Logger
}

type EventsPublisher interface {
	PublishOrderCreated(ctx context.Context, o *order.Order) error
	PublishOrderStatusChanged(ctx context.Context, o *order.Order) error
}

func NewOrderHandler(repo Repository, publisher EventsPublisher, logger *log.Logger) *OrderHandler {
	return &OrderHandler{repo: repo, publisher: publisher, logger: logger}
}

type orderForm struct {
	FullName             string `json:"fullName"`
	AddressLine1         string `json:"addressLine1"`
	AddressLine2         string `json:"addressLine2"`
	City                 string `json:"city"`
	State                string `json:"state"`
	ZipCode              string `json:"zipCode"`
	Country              string `json:"country"`
	Email                string `json:"email"`
	Phone                string `json:"phone"`
	PaymentMethod        string `json:"paymentMethod"`
	UPIReferenceNumber   string `json:"upiReferenceNumber"`
	PaymentScreenshotURL string `json:"paymentScreenshotUri"`
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Data      orderForm   `json:"data"`
		CartItems []cart.Item `json:"cartItems"`
		UserID    string      `json:"userId"`
		Prices    float64     `json:"prices"`
	}

	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if body.UserID == "" {
		writeError(w, http.StatusBadRequest, "missing userId")
		return
	}
	if len(body.CartItems) == 0 {
		writeError(w, http.StatusBadRequest, "cart is empty")
		return
	}

	method, err := order.ParsePaymentMethod(body.Data.PaymentMethod)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if method == order.MethodUPI {
		if body.Data.UPIReferenceNumber == "" {
			writeError(w, http.StatusBadRequest, "upi orders require a reference number")
			return
		}
		if body.Data.PaymentScreenshotURL == "" {
			writeError(w, http.StatusBadRequest, "upi orders require a payment screenshot")
			return
		}
	}
	if msg := missingAddressField(body.Data); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	// The store prices the order itself from the submitted item snapshot.
	// A client total that disagrees is refused, not silently corrected.
	total := order.ComputeTotal(body.CartItems)
	if math.Abs(total-body.Prices) > 0.005 {
		writeError(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("submitted total %.2f does not match computed total %.2f", body.Prices, total))
		return
	}

	o := &order.Order{
		ID:            uuid.NewString(),
		UserID:        body.UserID,
		Customer:      body.Data.FullName,
		Phone:         body.Data.Phone,
		CreatedAt:     time.Now().UTC(),
		Total:         total,
		Status:        order.StatusProcessing,
		PaymentStatus: order.InitialPaymentStatus(method),
		PaymentMethod: method,
		Items:         order.ItemsFromCart(body.CartItems),
		ShippingAddress: order.Address{
			FullName:     body.Data.FullName,
			AddressLine1: body.Data.AddressLine1,
			AddressLine2: body.Data.AddressLine2,
			City:         body.Data.City,
			State:        body.Data.State,
			ZipCode:      body.Data.ZipCode,
			Country:      body.Data.Country,
			Email:        body.Data.Email,
			Phone:        body.Data.Phone,
		},
		UPIReferenceNumber:   body.Data.UPIReferenceNumber,
		PaymentScreenshotURL: body.Data.PaymentScreenshotURL,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.Create(ctx, o); err != nil {
		h.logger.Printf("create order: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create order")
		return
	}

	// The order is committed; a publish failure must not fail the request.
	if err := h.publisher.PublishOrderCreated(ctx, o); err != nil {
		h.logger.Printf("publish OrderCreated for %s: %v", o.ID, err)
	}

	writeJSON(w, http.StatusCreated, map[string]any{"order": o})
}

func missingAddressField(f orderForm) string {
	required := []struct {
		name  string
		value string
	}{
		{"fullName", f.FullName},
		{"addressLine1", f.AddressLine1},
		{"city", f.City},
		{"state", f.State},
		{"zipCode", f.ZipCode},
		{"country", f.Country},
		{"email", f.Email},
		{"phone", f.Phone},
	}
	for _, field := range required {
		if field.value == "" {
			return "missing " + field.name
		}
	}
	return ""
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orders, err := h.repo.List(ctx)
	if err != nil {
		h.logger.Printf("list orders: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load orders")
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}

	writeJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) OrderHistory(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing userId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orders, err := h.repo.ListByUser(ctx, userID)
	if err != nil {
		h.logger.Printf("order history for %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "failed to load order history")
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}

	writeJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) UpdateShippingStatus(w http.ResponseWriter, r *http.Request) {
	orderID := r.URL.Query().Get("orderId")
	if orderID == "" {
		writeResult(w, http.StatusBadRequest, false, "missing orderId", nil)
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeResult(w, http.StatusBadRequest, false, "invalid json", nil)
		return
	}

	next, err := order.ParseStatus(body.Status)
	if err != nil {
		writeResult(w, http.StatusBadRequest, false, err.Error(), nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	updated, err := h.repo.UpdateShippingStatus(ctx, orderID, next)
	if err != nil {
		h.writeMutationError(w, orderID, "shipping status", err)
		return
	}

	if err := h.publisher.PublishOrderStatusChanged(ctx, updated); err != nil {
		h.logger.Printf("publish OrderStatusChanged for %s: %v", orderID, err)
	}

	writeResult(w, http.StatusOK, true,
		fmt.Sprintf("Shipping status updated to %q", next), updated)
}

func (h *OrderHandler) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	orderID := r.URL.Query().Get("orderId")
	if orderID == "" {
		writeResult(w, http.StatusBadRequest, false, "missing orderId", nil)
		return
	}

	var body struct {
		IsApproved bool `json:"isApproved"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeResult(w, http.StatusBadRequest, false, "invalid json", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	updated, err := h.repo.UpdatePaymentStatus(ctx, orderID, body.IsApproved)
	if err != nil {
		h.writeMutationError(w, orderID, "payment status", err)
		return
	}

	if err := h.publisher.PublishOrderStatusChanged(ctx, updated); err != nil {
		h.logger.Printf("publish OrderStatusChanged for %s: %v", orderID, err)
	}

	message := "Payment rejected"
	if body.IsApproved {
		message = "Payment approved"
	}
	writeResult(w, http.StatusOK, true, message, updated)
}

func (h *OrderHandler) writeMutationError(w http.ResponseWriter, orderID, what string, err error) {
	var te *TransitionError
	switch {
	case errors.Is(err, ErrNotFound):
		writeResult(w, http.StatusNotFound, false, "order not found", nil)
	case errors.As(err, &te):
		writeResult(w, http.StatusConflict, false, te.Error(), nil)
	default:
		h.logger.Printf("update %s for %s: %v", what, orderID, err)
		writeResult(w, http.StatusInternalServerError, false, "failed to update "+what, nil)
	}
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

func writeResult(w http.ResponseWriter, status int, success bool, message string, o *order.Order) {
	resp := map[string]any{
		"success": success,
		"message": message,
	}
	if o != nil {
		resp["order"] = o
	}
	writeJSON(w, status, resp)
}
