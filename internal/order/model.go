package order

import "time"

// Item is a frozen copy of a cart line at order time. Prices here never
// change, even if the catalog price does later.
type Item struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	ImageURL  string  `json:"imageUrl,omitempty"`
}

// Address is immutable once attached to an order.
type Address struct {
	FullName     string `json:"fullName"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zipCode"`
	Country      string `json:"country"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
}

type Order struct {
	ID              string        `json:"orderId"`
	UserID          string        `json:"userId"`
	Customer        string        `json:"customer"`
	Phone           string        `json:"phone"`
	CreatedAt       time.Time     `json:"createdAt"`
	Total           float64       `json:"total"`
	Status          Status        `json:"status"`
	PaymentStatus   PaymentStatus `json:"paymentStatus"`
	PaymentMethod   PaymentMethod `json:"paymentMethod"`
	Items           []Item        `json:"items"`
	ShippingAddress Address       `json:"shippingAddress"`

	// Set only for upi orders.
	UPIReferenceNumber   string `json:"upiReferenceNumber,omitempty"`
	PaymentScreenshotURL string `json:"paymentScreenshotUri,omitempty"`
}
