package storeapi

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/Gauhar-1/DesignsByAfreen-backend/internal/cart"
	"github.com/Gauhar-1/DesignsByAfreen-backend/internal/order"
)

type OrderClient struct{ c *Client }

func NewOrderClient(c *Client) *OrderClient { return &OrderClient{c: c} }

// OrderForm is the address+payment block of an order creation request,
// field names matching the storefront wire format.
type OrderForm struct {
	FullName             string `json:"fullName"`
	AddressLine1         string `json:"addressLine1"`
	AddressLine2         string `json:"addressLine2,omitempty"`
	City                 string `json:"city"`
	State                string `json:"state"`
	ZipCode              string `json:"zipCode"`
	Country              string `json:"country"`
	Email                string `json:"email"`
	Phone                string `json:"phone"`
	PaymentMethod        string `json:"paymentMethod"`
	UPIReferenceNumber   string `json:"upiReferenceNumber,omitempty"`
	PaymentScreenshotURL string `json:"paymentScreenshotUri,omitempty"`
}

type CreateOrderRequest struct {
	Data      OrderForm   `json:"data"`
	CartItems []cart.Item `json:"cartItems"`
	UserID    string      `json:"userId"`
	Prices    float64     `json:"prices"`
}

// MutationResult is the order store's envelope for status mutations. The
// updated order rides along so callers can merge it without a refetch.
type MutationResult struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Order   *order.Order `json:"order,omitempty"`
}

func (oc *OrderClient) Create(ctx context.Context, req CreateOrderRequest) (*order.Order, error) {
	var resp struct {
		Order order.Order `json:"order"`
	}
	if err := oc.c.do(ctx, http.MethodPost, "/order", "", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Order, nil
}

// List fetches every order; admin-only upstream.
func (oc *OrderClient) List(ctx context.Context) ([]order.Order, error) {
	var orders []order.Order
	if err := oc.c.do(ctx, http.MethodGet, "/order", "", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (oc *OrderClient) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	var orders []order.Order
	q := url.Values{"userId": {userID}}
	if err := oc.c.do(ctx, http.MethodGet, "/order/order-history", q.Encode(), nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateShippingStatus advises a desired shipping state. The store owns the
// transition table; a refusal comes back as a *RejectionError.
func (oc *OrderClient) UpdateShippingStatus(ctx context.Context, orderID string, status order.Status) (*order.Order, error) {
	body := struct {
		Status order.Status `json:"status"`
	}{Status: status}

	return oc.mutate(ctx, "/order/shipping-status", orderID, body)
}

// UpdatePaymentStatus submits one verification decision: approved moves a
// Pending payment to Paid, rejected to Failed. Anything else the store
// refuses.
func (oc *OrderClient) UpdatePaymentStatus(ctx context.Context, orderID string, approved bool) (*order.Order, error) {
	body := struct {
		IsApproved bool `json:"isApproved"`
	}{IsApproved: approved}

	return oc.mutate(ctx, "/order/payment-status", orderID, body)
}

func (oc *OrderClient) mutate(ctx context.Context, path, orderID string, body any) (*order.Order, error) {
	var result MutationResult
	q := url.Values{"orderId": {orderID}}

	err := oc.c.do(ctx, http.MethodPut, path, q.Encode(), body, &result)
	if err != nil {
		// The store also uses conflict/not-found statuses for refusals;
		// surface those as rejections when an envelope message came back.
		var se *StatusError
		if errors.As(err, &se) && se.StatusCode < 500 && se.Message != "" {
			return nil, &RejectionError{Message: se.Message}
		}
		return nil, err
	}
	if !result.Success {
		return nil, &RejectionError{Message: result.Message}
	}
	return result.Order, nil
}
