package events

import "time"

type OrderLine struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type OrderCreated struct {
	EventType     string      `json:"eventType"`
	OrderID       string      `json:"orderId"`
	UserID        string      `json:"userId"`
	Total         float64     `json:"total"`
	PaymentMethod string      `json:"paymentMethod"`
	CustomerEmail string      `json:"customerEmail"`
	Items         []OrderLine `json:"items"`
	Timestamp     time.Time   `json:"timestamp"`
}

type OrderStatusChanged struct {
	EventType     string    `json:"eventType"`
	OrderID       string    `json:"orderId"`
	UserID        string    `json:"userId"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus"`
	Timestamp     time.Time `json:"timestamp"`
}
