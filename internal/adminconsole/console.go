// Package adminconsole backs the admin order screen: one full order list
// load, client-side filtering, and dispatch of shipping and payment
// verification mutations whose results are merged back by order id.
package adminconsole

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Gauhar-1/DesignsByAfreen-backend/internal/order"
)

// ErrDecisionInFlight is returned when a payment decision for the same
// order is still outstanding; the second submission is refused so the
// store never sees duplicates from one console.
var ErrDecisionInFlight = errors.New("a payment decision for this order is already in flight")

// OrderStore is the slice of the order store contract the console needs.
// *storeapi.OrderClient satisfies it.
type OrderStore interface {
	List(ctx context.Context) ([]order.Order, error)
	UpdateShippingStatus(ctx context.Context, orderID string, status order.Status) (*order.Order, error)
	UpdatePaymentStatus(ctx context.Context, orderID string, approved bool) (*order.Order, error)
}

// Filter is a set of AND-combined client-side filters. Zero values disable
// a dimension ("All"). Query matches order id, customer name, or phone,
// case-insensitively.
type Filter struct {
	Query         string
	Status        order.Status
	PaymentStatus order.PaymentStatus
}

type Console struct {
	store OrderStore

	mu       sync.Mutex
	orders   []order.Order
	inflight map[string]bool
}

func New(store OrderStore) *Console {
	return &Console{store: store, inflight: make(map[string]bool)}
}

// Load fetches the full order list once. Counts only refresh on Load;
// mutations merge single orders back without refetching.
func (c *Console) Load(ctx context.Context) error {
	orders, err := c.store.List(ctx)
	if err != nil {
		return fmt.Errorf("load orders: %w", err)
	}
	c.mu.Lock()
	c.orders = orders
	c.mu.Unlock()
	return nil
}

// Orders returns a snapshot of the cached list.
func (c *Console) Orders() []order.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]order.Order, len(c.orders))
	copy(out, c.orders)
	return out
}

// Filtered applies f to the cached list.
func (c *Console) Filtered(f Filter) []order.Order {
	c.mu.Lock()
	defer c.mu.Unlock()

	query := strings.ToLower(strings.TrimSpace(f.Query))
	var out []order.Order
	for _, o := range c.orders {
		if query != "" && !matchesQuery(o, query) {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.PaymentStatus != "" && o.PaymentStatus != f.PaymentStatus {
			continue
		}
		out = append(out, o)
	}
	return out
}

func matchesQuery(o order.Order, query string) bool {
	return strings.Contains(strings.ToLower(o.ID), query) ||
		strings.Contains(strings.ToLower(o.Customer), query) ||
		strings.Contains(strings.ToLower(o.Phone), query)
}

// PendingVerifications returns the orders awaiting a manual payment
// decision: upi method with payment still Pending.
func (c *Console) PendingVerifications() []order.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []order.Order
	for _, o := range c.orders {
		if o.PaymentMethod == order.MethodUPI && o.PaymentStatus == order.PaymentPending {
			out = append(out, o)
		}
	}
	return out
}

// UpdateShipping advises the store of a desired shipping state and merges
// the returned order into the cache. The transition table is the store's
// to enforce; refusals come back unchanged as errors and nothing local is
// mutated.
func (c *Console) UpdateShipping(ctx context.Context, orderID string, status order.Status) (*order.Order, error) {
	updated, err := c.store.UpdateShippingStatus(ctx, orderID, status)
	if err != nil {
		return nil, err
	}
	c.merge(updated)
	return updated, nil
}

// VerifyPayment submits one approve/reject decision. While a decision for
// the order is outstanding, further decisions for it are refused.
func (c *Console) VerifyPayment(ctx context.Context, orderID string, approved bool) (*order.Order, error) {
	c.mu.Lock()
	if c.inflight[orderID] {
		c.mu.Unlock()
		return nil, ErrDecisionInFlight
	}
	c.inflight[orderID] = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.inflight, orderID)
		c.mu.Unlock()
	}()

	updated, err := c.store.UpdatePaymentStatus(ctx, orderID, approved)
	if err != nil {
		return nil, err
	}
	c.merge(updated)
	return updated, nil
}

// merge replaces the cached entry with the same id, appending when the
// order was not cached (e.g. created after the last Load).
func (c *Console) merge(updated *order.Order) {
	if updated == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.orders {
		if c.orders[i].ID == updated.ID {
			c.orders[i] = *updated
			return
		}
	}
	c.orders = append(c.orders, *updated)
}
