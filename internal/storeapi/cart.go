package storeapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Gauhar-1/DesignsByAfreen-backend/internal/cart"
)

type CartClient struct{ c *Client }

func NewCartClient(c *Client) *CartClient { return &CartClient{c: c} }

// Get fetches the user's full cart.
func (cc *CartClient) Get(ctx context.Context, userID string) ([]cart.Item, error) {
	var resp struct {
		Items []cart.Item `json:"items"`
	}
	q := url.Values{"id": {userID}}
	if err := cc.c.do(ctx, http.MethodGet, "/cart", q.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// SetQuantity upserts one line. The store treats quantity <= 0 as delete,
// so this doubles as the delete-equivalent write for debounced removals.
func (cc *CartClient) SetQuantity(ctx context.Context, userID, productID string, quantity int) error {
	body := struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
		UserID    string `json:"userId"`
	}{ProductID: productID, Quantity: quantity, UserID: userID}

	return cc.c.do(ctx, http.MethodPut, "/cart", "", body, nil)
}

// Delete removes one line outright.
func (cc *CartClient) Delete(ctx context.Context, userID, productID string) error {
	q := url.Values{"productId": {productID}, "userId": {userID}}
	return cc.c.do(ctx, http.MethodDelete, "/cart", q.Encode(), nil, nil)
}
