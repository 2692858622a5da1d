package checkout

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gauhar-1/DesignsByAfreen-backend/internal/cart"
	"github.com/Gauhar-1/DesignsByAfreen-backend/internal/order"
	"github.com/Gauhar-1/DesignsByAfreen-backend/internal/storeapi"
)

type fakeOrders struct {
	createFunc func(ctx context.Context, req storeapi.CreateOrderRequest) (*order.Order, error)
	calls      []storeapi.CreateOrderRequest
}

func (f *fakeOrders) Create(ctx context.Context, req storeapi.CreateOrderRequest) (*order.Order, error) {
	f.calls = append(f.calls, req)
	if f.createFunc != nil {
		return f.createFunc(ctx, req)
	}
	return &order.Order{ID: "ord-1", Status: order.StatusProcessing}, nil
}

type fakeUploader struct {
	url string
	err error
}

func (f *fakeUploader) Upload(ctx context.Context, file io.Reader, filename string) (string, error) {
	return f.url, f.err
}

func validForm() Form {
	return Form{
		FullName:      "Sophia Lorenza",
		AddressLine1:  "123 Luxury Lane",
		City:          "Paris",
		State:         "Ile-de-France",
		ZipCode:       "75001",
		Country:       "France",
		Email:         "sophia@example.com",
		Phone:         "5550001234",
		PaymentMethod: order.MethodCOD,
	}
}

func testItems() []cart.Item {
	return []cart.Item{
		{ProductID: "p1", Name: "Elegant Evening Gown", Price: 100, Quantity: 2},
		{ProductID: "p2", Name: "Chic Casual Blazer", Price: 50, Quantity: 1},
	}
}

func TestPlaceOrderComputesTotal(t *testing.T) {
	orders := &fakeOrders{}
	orch := New(orders, &fakeUploader{})
	form := validForm()

	created, err := orch.PlaceOrder(context.Background(), &form, testItems(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, created)

	require.Len(t, orders.calls, 1)
	// 2x100 + 1x50 + 15 shipping
	assert.Equal(t, 265.0, orders.calls[0].Prices)
	assert.Equal(t, "user-1", orders.calls[0].UserID)
	assert.Len(t, orders.calls[0].CartItems, 2)
}

func TestPlaceOrderResetsFormOnSuccess(t *testing.T) {
	orch := New(&fakeOrders{}, &fakeUploader{})
	form := validForm()

	_, err := orch.PlaceOrder(context.Background(), &form, testItems(), "user-1")
	require.NoError(t, err)

	assert.Empty(t, form.FullName)
	assert.Equal(t, order.MethodCOD, form.PaymentMethod)
}

func TestPlaceOrderKeepsFormOnFailure(t *testing.T) {
	orders := &fakeOrders{createFunc: func(ctx context.Context, req storeapi.CreateOrderRequest) (*order.Order, error) {
		return nil, errors.New("store unavailable")
	}}
	orch := New(orders, &fakeUploader{})
	form := validForm()

	_, err := orch.PlaceOrder(context.Background(), &form, testItems(), "user-1")
	require.Error(t, err)
	assert.Equal(t, "Sophia Lorenza", form.FullName, "failed submission must leave the form populated")
}

func TestPlaceOrderUPIWithoutReferenceIsBlocked(t *testing.T) {
	orders := &fakeOrders{}
	orch := New(orders, &fakeUploader{})

	form := validForm()
	form.PaymentMethod = order.MethodUPI
	form.PaymentScreenshotURL = "https://img.example/shot.png"

	_, err := orch.PlaceOrder(context.Background(), &form, testItems(), "user-1")

	var fe FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, "upiReferenceNumber")
	assert.Empty(t, orders.calls, "no creation request may be sent")
}

func TestPlaceOrderUPIWithoutScreenshotIsBlocked(t *testing.T) {
	orders := &fakeOrders{}
	orch := New(orders, &fakeUploader{})

	form := validForm()
	form.PaymentMethod = order.MethodUPI
	form.UPIReferenceNumber = "TXN-1234"

	_, err := orch.PlaceOrder(context.Background(), &form, testItems(), "user-1")

	var fe FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, "paymentScreenshotUri")
	assert.Empty(t, orders.calls)
}

func TestPlaceOrderUPIComplete(t *testing.T) {
	orders := &fakeOrders{}
	orch := New(orders, &fakeUploader{})

	form := validForm()
	form.PaymentMethod = order.MethodUPI
	form.UPIReferenceNumber = "TXN-1234"
	form.PaymentScreenshotURL = "https://img.example/shot.png"

	_, err := orch.PlaceOrder(context.Background(), &form, testItems(), "user-1")
	require.NoError(t, err)

	require.Len(t, orders.calls, 1)
	assert.Equal(t, "upi", orders.calls[0].Data.PaymentMethod)
	assert.Equal(t, "TXN-1234", orders.calls[0].Data.UPIReferenceNumber)
}

func TestValidateFlagsBadFields(t *testing.T) {
	form := Form{PaymentMethod: order.MethodCOD, Email: "not-an-email"}
	err := form.Validate()

	var fe FieldErrors
	require.ErrorAs(t, err, &fe)
	for _, field := range []string{"fullName", "addressLine1", "city", "state", "zipCode", "country", "email", "phone"} {
		assert.Contains(t, fe, field)
	}
}

func TestPlaceOrderEmptyCartIsBlocked(t *testing.T) {
	orders := &fakeOrders{}
	orch := New(orders, &fakeUploader{})
	form := validForm()

	_, err := orch.PlaceOrder(context.Background(), &form, nil, "user-1")
	require.Error(t, err)
	assert.Empty(t, orders.calls)
}

func TestAttachScreenshot(t *testing.T) {
	t.Run("success records url", func(t *testing.T) {
		orch := New(&fakeOrders{}, &fakeUploader{url: "https://img.example/shot.png"})
		form := validForm()

		err := orch.AttachScreenshot(context.Background(), &form, strings.NewReader("png-bytes"), "shot.png")
		require.NoError(t, err)
		assert.Equal(t, "https://img.example/shot.png", form.PaymentScreenshotURL)
	})

	t.Run("failure clears url", func(t *testing.T) {
		orch := New(&fakeOrders{}, &fakeUploader{err: errors.New("upload failed")})
		form := validForm()
		form.PaymentScreenshotURL = "https://img.example/old.png"

		err := orch.AttachScreenshot(context.Background(), &form, strings.NewReader("png-bytes"), "shot.png")
		require.Error(t, err)
		assert.Empty(t, form.PaymentScreenshotURL)
	})
}
