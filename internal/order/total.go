package order

import "github.com/Gauhar-1/DesignsByAfreen-backend/internal/cart"

// ShippingFee is a flat fee charged on any non-empty cart.
const ShippingFee = 15.0

// ComputeTotal computes the order total from a cart snapshot. The store
// recomputes this server-side at creation time; a client-submitted figure
// is validated against it, never trusted.
func ComputeTotal(items []cart.Item) float64 {
	if len(items) == 0 {
		return 0
	}
	return cart.Subtotal(items) + ShippingFee
}

// ItemsFromCart freezes a cart snapshot into order lines.
func ItemsFromCart(items []cart.Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		out = append(out, Item{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     it.Price,
			ImageURL:  it.ImageURL,
		})
	}
	return out
}
