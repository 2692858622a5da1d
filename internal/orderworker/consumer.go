package orderworker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Gauhar-1/DesignsByAfreen-backend/internal/cart"
	"github.com/Gauhar-1/DesignsByAfreen-backend/internal/events"
)

const consumerName = "order-worker"

// CartStore is the slice of the cart store contract the worker needs to
// empty a cart after checkout.
type CartStore interface {
	Get(ctx context.Context, userID string) ([]cart.Item, error)
	Delete(ctx context.Context, userID, productID string) error
}

// StartOrderCreatedConsumer binds a durable queue to the events exchange
// and processes OrderCreated messages until ctx is cancelled. Failed
// messages are nacked without requeue; the order itself is already safe
// in the order store.
func StartOrderCreatedConsumer(ctx context.Context, conn *amqp.Connection, carts CartStore, logger *log.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}

	if err := events.DeclareEventsExchange(ch); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	queueName := consumerName + "." + events.OrderCreatedRoutingKey
	q, err := ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	if err := ch.QueueBind(q.Name, events.OrderCreatedRoutingKey, events.EventsExchange, false, nil); err != nil {
		return fmt.Errorf("queue bind: %w", err)
	}

	msgs, err := ch.Consume(
		q.Name,
		consumerName,
		false, // autoAck
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				logger.Println("stopping order.created consumer")
				return
			case msg, ok := <-msgs:
				if !ok {
					logger.Println("messages channel closed")
					return
				}

				if err := HandleOrderCreated(ctx, carts, msg.Body, logger); err != nil {
					logger.Printf("handle message error: %v", err)
					_ = msg.Nack(false, false)
					continue
				}
				_ = msg.Ack(false)
			}
		}
	}()

	return nil
}

// HandleOrderCreated empties the buyer's cart now that its content lives
// on as the order's item snapshot, then queues the confirmation mail.
func HandleOrderCreated(ctx context.Context, carts CartStore, body []byte, logger *log.Logger) error {
	var ev events.OrderCreated
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.OrderID == "" || ev.UserID == "" {
		return fmt.Errorf("invalid payload: missing orderId or userId")
	}

	items, err := carts.Get(ctx, ev.UserID)
	if err != nil {
		return fmt.Errorf("load cart for %s: %w", ev.UserID, err)
	}

	for _, it := range items {
		if err := carts.Delete(ctx, ev.UserID, it.ProductID); err != nil {
			return fmt.Errorf("remove %s from cart of %s: %w", it.ProductID, ev.UserID, err)
		}
	}

	logger.Printf("cleared %d cart lines for user %s after order %s", len(items), ev.UserID, ev.OrderID)

	// TODO hook up a real mail sender for order confirmations
	if ev.CustomerEmail != "" {
		logger.Printf("order confirmation queued for %s (order %s)", ev.CustomerEmail, ev.OrderID)
	}

	return nil
}
