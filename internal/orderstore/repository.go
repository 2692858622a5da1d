package orderstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Gauhar-1/DesignsByAfreen-backend/internal/order"
)

var ErrNotFound = errors.New("order not found")

// TransitionError reports a lifecycle move the transition tables forbid.
// Handlers turn it into a 409 so callers can tell a refusal from a crash.
type TransitionError struct {
	Axis string
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move %s from %q to %q", e.Axis, e.From, e.To)
}

type Repository interface {
	Create(ctx context.Context, o *order.Order) error
	GetByID(ctx context.Context, id string) (*order.Order, error)
	List(ctx context.Context) ([]order.Order, error)
	ListByUser(ctx context.Context, userID string) ([]order.Order, error)
	UpdateShippingStatus(ctx context.Context, orderID string, next order.Status) (*order.Order, error)
	UpdatePaymentStatus(ctx context.Context, orderID string, approved bool) (*order.Order, error)
}

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

const orderColumns = `id, user_id, customer, phone, created_at, total,
	status, payment_status, payment_method,
	full_name, address_line1, address_line2, city, state, zip_code, country, email,
	upi_reference_number, payment_screenshot_url`

func (r *repo) Create(ctx context.Context, o *order.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertOrderSQL = `
INSERT INTO orders (` + orderColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
`
	_, err = tx.ExecContext(ctx, insertOrderSQL,
		o.ID, o.UserID, o.Customer, o.Phone, o.CreatedAt, o.Total,
		string(o.Status), string(o.PaymentStatus), string(o.PaymentMethod),
		o.ShippingAddress.FullName, o.ShippingAddress.AddressLine1, o.ShippingAddress.AddressLine2,
		o.ShippingAddress.City, o.ShippingAddress.State, o.ShippingAddress.ZipCode,
		o.ShippingAddress.Country, o.ShippingAddress.Email,
		o.UPIReferenceNumber, o.PaymentScreenshotURL,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	const insertItemSQL = `
INSERT INTO order_items (id, order_id, product_id, name, quantity, price, image_url)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`
	for _, it := range o.Items {
		if _, err = tx.ExecContext(ctx, insertItemSQL,
			uuid.NewString(), o.ID, it.ProductID, it.Name, it.Quantity, it.Price, it.ImageURL,
		); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *repo) GetByID(ctx context.Context, id string) (*order.Order, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)

	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// caller (handler) can turn this into 404
			return nil, nil
		}
		return nil, err
	}

	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repo) List(ctx context.Context) ([]order.Order, error) {
	return r.queryOrders(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

func (r *repo) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	return r.queryOrders(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (r *repo) queryOrders(ctx context.Context, query string, args ...any) ([]order.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []order.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		if err := r.loadItems(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *repo) loadItems(ctx context.Context, o *order.Order) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT product_id, name, quantity, price, image_url FROM order_items WHERE order_id = $1`, o.ID)
	if err != nil {
		return fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it order.Item
		if err := rows.Scan(&it.ProductID, &it.Name, &it.Quantity, &it.Price, &it.ImageURL); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		o.Items = append(o.Items, it)
	}
	return rows.Err()
}

// UpdateShippingStatus locks the row, checks the shipping transition
// table, and applies the move. Payment status is never touched here.
func (r *repo) UpdateShippingStatus(ctx context.Context, orderID string, next order.Status) (*order.Order, error) {
	err := r.transition(ctx, orderID, "status",
		func(current string) (string, error) {
			from := order.Status(current)
			if !from.CanTransitionTo(next) {
				return "", &TransitionError{Axis: "shipping status", From: current, To: string(next)}
			}
			return string(next), nil
		})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, orderID)
}

// UpdatePaymentStatus settles a payment decision: approval moves the
// order to Paid, rejection to Failed. The payment transition table
// decides whether the move is legal from the current state.
func (r *repo) UpdatePaymentStatus(ctx context.Context, orderID string, approved bool) (*order.Order, error) {
	next := order.PaymentFailed
	if approved {
		next = order.PaymentPaid
	}

	err := r.transition(ctx, orderID, "payment_status",
		func(current string) (string, error) {
			from := order.PaymentStatus(current)
			if !from.CanTransitionTo(next) {
				return "", &TransitionError{Axis: "payment status", From: current, To: string(next)}
			}
			return string(next), nil
		})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, orderID)
}

// transition runs a guarded single-column update under FOR UPDATE so
// concurrent decisions on the same order serialize instead of racing.
func (r *repo) transition(ctx context.Context, orderID, column string, decide func(current string) (string, error)) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var current string
	err = tx.QueryRowContext(ctx,
		`SELECT `+column+` FROM orders WHERE id = $1 FOR UPDATE`, orderID).Scan(&current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrNotFound
		}
		return err
	}

	next, err := decide(current)
	if err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx,
		`UPDATE orders SET `+column+` = $1 WHERE id = $2`, next, orderID); err != nil {
		return fmt.Errorf("update %s: %w", column, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*order.Order, error) {
	var o order.Order
	var status, paymentStatus, paymentMethod string
	err := row.Scan(
		&o.ID, &o.UserID, &o.Customer, &o.Phone, &o.CreatedAt, &o.Total,
		&status, &paymentStatus, &paymentMethod,
		&o.ShippingAddress.FullName, &o.ShippingAddress.AddressLine1, &o.ShippingAddress.AddressLine2,
		&o.ShippingAddress.City, &o.ShippingAddress.State, &o.ShippingAddress.ZipCode,
		&o.ShippingAddress.Country, &o.ShippingAddress.Email,
		&o.UPIReferenceNumber, &o.PaymentScreenshotURL,
	)
	if err != nil {
		return nil, err
	}
	o.Status = order.Status(status)
	o.PaymentStatus = order.PaymentStatus(paymentStatus)
	o.PaymentMethod = order.PaymentMethod(paymentMethod)
	o.ShippingAddress.Phone = o.Phone
	return &o, nil
}
