package cart

// Item is one line of a user's cart. The authoritative copy lives in the
// cart store keyed by (userId, productId); clients hold a mirror of it.
// Quantity is always >= 1: removing the last unit removes the line.
type Item struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	ImageURL  string  `json:"imageUrl,omitempty"`
	Category  string  `json:"category,omitempty"`
}

// Subtotal sums price*quantity over the given lines.
func Subtotal(items []Item) float64 {
	total := 0.0
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}
