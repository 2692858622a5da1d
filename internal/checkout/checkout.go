// Package checkout turns a validated address + payment selection + cart
// snapshot into an order store creation call.
package checkout

import (
	"context"
	"fmt"
	"io"
	"net/mail"
	"sort"
	"strings"

	"github.com/Gauhar-1/DesignsByAfreen-backend/internal/cart"
	"github.com/Gauhar-1/DesignsByAfreen-backend/internal/order"
	"github.com/Gauhar-1/DesignsByAfreen-backend/internal/storeapi"
)

// Form holds the checkout inputs as the user fills them in. A failed
// submission leaves the form populated; a successful one resets it.
type Form struct {
	FullName     string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	ZipCode      string
	Country      string
	Email        string
	Phone        string

	PaymentMethod order.PaymentMethod
	// Required for upi: the transfer reference number and the hosted
	// screenshot URL resolved by AttachScreenshot.
	UPIReferenceNumber   string
	PaymentScreenshotURL string
}

// Reset clears the form back to its defaults (cod selected).
func (f *Form) Reset() {
	*f = Form{PaymentMethod: order.MethodCOD}
}

// FieldErrors maps field names to validation messages. Submission is
// blocked while any are present; no network call is issued.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for k := range fe {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return "invalid fields: " + strings.Join(fields, ", ")
}

// Validate applies the address and payment format rules.
func (f *Form) Validate() error {
	fe := FieldErrors{}

	if len(strings.TrimSpace(f.FullName)) < 2 {
		fe["fullName"] = "Full name is required."
	}
	if len(strings.TrimSpace(f.AddressLine1)) < 5 {
		fe["addressLine1"] = "Address is required."
	}
	if len(strings.TrimSpace(f.City)) < 2 {
		fe["city"] = "City is required."
	}
	if len(strings.TrimSpace(f.State)) < 2 {
		fe["state"] = "State/Province is required."
	}
	if len(strings.TrimSpace(f.ZipCode)) < 5 {
		fe["zipCode"] = "ZIP/Postal code is required."
	}
	if len(strings.TrimSpace(f.Country)) < 2 {
		fe["country"] = "Country is required."
	}
	if _, err := mail.ParseAddress(f.Email); err != nil {
		fe["email"] = "Invalid email address."
	}
	if len(strings.TrimSpace(f.Phone)) < 7 {
		fe["phone"] = "Phone number is required."
	}

	switch f.PaymentMethod {
	case order.MethodCOD:
		// Nothing further required.
	case order.MethodUPI:
		if strings.TrimSpace(f.UPIReferenceNumber) == "" {
			fe["upiReferenceNumber"] = "Transaction reference number is required for UPI/QR payments."
		}
		if f.PaymentScreenshotURL == "" {
			fe["paymentScreenshotUri"] = "Payment screenshot is required for UPI/QR payments."
		}
	default:
		fe["paymentMethod"] = "Select a payment method."
	}

	if len(fe) > 0 {
		return fe
	}
	return nil
}

// OrderCreator is the slice of the order store contract the orchestrator
// needs. *storeapi.OrderClient satisfies it.
type OrderCreator interface {
	Create(ctx context.Context, req storeapi.CreateOrderRequest) (*order.Order, error)
}

// ScreenshotUploader resolves a local file into a hosted URL.
// *storeapi.ImageHost satisfies it.
type ScreenshotUploader interface {
	Upload(ctx context.Context, file io.Reader, filename string) (string, error)
}

type Orchestrator struct {
	orders OrderCreator
	images ScreenshotUploader
}

func New(orders OrderCreator, images ScreenshotUploader) *Orchestrator {
	return &Orchestrator{orders: orders, images: images}
}

// AttachScreenshot uploads the payment screenshot and records the hosted
// URL on the form. Submission of a upi order is blocked until this has
// succeeded.
func (o *Orchestrator) AttachScreenshot(ctx context.Context, f *Form, file io.Reader, filename string) error {
	url, err := o.images.Upload(ctx, file, filename)
	if err != nil {
		f.PaymentScreenshotURL = ""
		return fmt.Errorf("upload payment screenshot: %w", err)
	}
	f.PaymentScreenshotURL = url
	return nil
}

// PlaceOrder validates the form, computes the total from the cart snapshot
// currently loaded, and submits one creation request. On success the form
// is reset and the created order returned. On failure the form keeps its
// values and no partial order is considered committed.
func (o *Orchestrator) PlaceOrder(ctx context.Context, f *Form, items []cart.Item, userID string) (*order.Order, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, FieldErrors{"cart": "Your cart is empty."}
	}

	req := storeapi.CreateOrderRequest{
		Data: storeapi.OrderForm{
			FullName:             f.FullName,
			AddressLine1:         f.AddressLine1,
			AddressLine2:         f.AddressLine2,
			City:                 f.City,
			State:                f.State,
			ZipCode:              f.ZipCode,
			Country:              f.Country,
			Email:                f.Email,
			Phone:                f.Phone,
			PaymentMethod:        string(f.PaymentMethod),
			UPIReferenceNumber:   f.UPIReferenceNumber,
			PaymentScreenshotURL: f.PaymentScreenshotURL,
		},
		CartItems: items,
		UserID:    userID,
		Prices:    order.ComputeTotal(items),
	}

	created, err := o.orders.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}
	f.Reset()
	return created, nil
}
