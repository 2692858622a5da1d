package cartstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Gauhar-1/DesignsByAfreen-backend/internal/cart"
)

type Repository interface {
	GetItems(ctx context.Context, userID string) ([]cart.Item, error)
	SetQuantity(ctx context.Context, userID, productID string, quantity int) error
	DeleteItem(ctx context.Context, userID, productID string) error
	ClearUser(ctx context.Context, userID string) error
}

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

func (r *repo) GetItems(ctx context.Context, userID string) ([]cart.Item, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT product_id, name, price, quantity, image_url, category
		 FROM cart_items
		 WHERE user_id = $1
		 ORDER BY updated_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("query cart items: %w", err)
	}
	defer rows.Close()

	var items []cart.Item
	for rows.Next() {
		var it cart.Item
		if err := rows.Scan(&it.ProductID, &it.Name, &it.Price, &it.Quantity, &it.ImageURL, &it.Category); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// SetQuantity replaces the stored quantity for one line. A quantity of
// zero or less removes the line instead, so repeated writes stay
// idempotent for the caller.
func (r *repo) SetQuantity(ctx context.Context, userID, productID string, quantity int) error {
	if quantity <= 0 {
		return r.DeleteItem(ctx, userID, productID)
	}

	const upsertSQL = `
INSERT INTO cart_items (user_id, product_id, quantity, updated_at)
VALUES ($1, $2, $3, NOW())
ON CONFLICT (user_id, product_id) DO UPDATE
SET quantity = EXCLUDED.quantity, updated_at = NOW()
`
	if _, err := r.db.ExecContext(ctx, upsertSQL, userID, productID, quantity); err != nil {
		return fmt.Errorf("upsert cart item: %w", err)
	}
	return nil
}

func (r *repo) DeleteItem(ctx context.Context, userID, productID string) error {
	// Deleting an absent line is fine; the caller only cares that it is gone.
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`, userID, productID); err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	return nil
}

func (r *repo) ClearUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
