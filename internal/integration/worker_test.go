package integration

import (
	"context"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Gauhar-1/DesignsByAfreen-backend/internal/cart"
	"github.com/Gauhar-1/DesignsByAfreen-backend/internal/events"
	"github.com/Gauhar-1/DesignsByAfreen-backend/internal/order"
	"github.com/Gauhar-1/DesignsByAfreen-backend/internal/orderworker"
	"github.com/Gauhar-1/DesignsByAfreen-backend/internal/testutil"
)

type recordingCartStore struct {
	mu      sync.Mutex
	items   map[string][]cart.Item
	deletes []string
}

func (r *recordingCartStore) Get(ctx context.Context, userID string) ([]cart.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[userID], nil
}

func (r *recordingCartStore) Delete(ctx context.Context, userID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletes = append(r.deletes, userID+"/"+productID)
	return nil
}

func (r *recordingCartStore) deleteCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.deletes)
}

func TestOrderCreatedWorker_ClearsCart(t *testing.T) {
	t.Parallel()

	conn, _ := testutil.StartRabbitMQ(t)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	carts := &recordingCartStore{items: map[string][]cart.Item{
		"u1": {
			{ProductID: "p1", Quantity: 2},
			{ProductID: "p2", Quantity: 1},
		},
	}}

	logger := log.New(io.Discard, "", log.LstdFlags)
	require.NoError(t, orderworker.StartOrderCreatedConsumer(ctx, conn, carts, logger))

	publisher, err := events.NewPublisher(conn)
	require.NoError(t, err)
	defer publisher.Close()

	o := &order.Order{
		ID:            "order-1",
		UserID:        "u1",
		Total:         265,
		PaymentMethod: order.MethodCOD,
		Items: []order.Item{
			{ProductID: "p1", Name: "Silk Scarf", Quantity: 2, Price: 100},
			{ProductID: "p2", Name: "Clutch", Quantity: 1, Price: 50},
		},
		ShippingAddress: order.Address{Email: "afreen@example.com"},
	}
	require.NoError(t, publisher.PublishOrderCreated(ctx, o))

	require.Eventually(t, func() bool {
		return carts.deleteCount() == 2
	}, 20*time.Second, 200*time.Millisecond, "worker should clear both cart lines")
}
