package orderstore

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gauhar-1/DesignsByAfreen-backend/internal/order"
)

var orderColumnNames = []string{
	"id", "user_id", "customer", "phone", "created_at", "total",
	"status", "payment_status", "payment_method",
	"full_name", "address_line1", "address_line2", "city", "state", "zip_code", "country", "email",
	"upi_reference_number", "payment_screenshot_url",
}

func orderRow(id string, status order.Status, paymentStatus order.PaymentStatus) *sqlmock.Rows {
	return sqlmock.NewRows(orderColumnNames).AddRow(
		id, "u1", "Afreen K", "9876543210", time.Unix(0, 0), 115.0,
		string(status), string(paymentStatus), "upi",
		"Afreen K", "12 Rose Lane", "", "Hyderabad", "Telangana", "500001", "India", "afreen@example.com",
		"UPI123", "https://img.example/shot.png",
	)
}

func TestRepositoryCreate_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	now := time.Now()

	o := &order.Order{
		ID:            "order-1",
		UserID:        "u1",
		Customer:      "Afreen K",
		Phone:         "9876543210",
		CreatedAt:     now,
		Total:         265,
		Status:        order.StatusProcessing,
		PaymentStatus: order.PaymentUnsettled,
		PaymentMethod: order.MethodCOD,
		Items: []order.Item{
			{ProductID: "p1", Name: "Silk Scarf", Quantity: 2, Price: 100},
			{ProductID: "p2", Name: "Clutch", Quantity: 1, Price: 50},
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs(sqlmock.AnyArg(), o.ID, "p1", "Silk Scarf", 2, 100.0, "").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs(sqlmock.AnyArg(), o.ID, "p2", "Clutch", 1, 50.0, "").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), o))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCreate_ItemInsertError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	o := &order.Order{
		ID:    "order-err",
		Items: []order.Item{{ProductID: "p1", Name: "Silk Scarf", Quantity: 1, Price: 100}},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO order_items").
		WillReturnError(errors.New("item insert failed"))
	mock.ExpectRollback()

	require.Error(t, repo.Create(context.Background(), o))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryUpdateShippingStatus_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM orders WHERE id = (.+) FOR UPDATE").
		WithArgs("order-1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("Processing"))
	mock.ExpectExec("UPDATE orders SET status").
		WithArgs("Shipped", "order-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery("(?s)SELECT (.+) FROM orders WHERE id").
		WithArgs("order-1").
		WillReturnRows(orderRow("order-1", order.StatusShipped, order.PaymentPending))
	mock.ExpectQuery("SELECT (.+) FROM order_items WHERE order_id").
		WithArgs("order-1").
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "name", "quantity", "price", "image_url"}).
			AddRow("p1", "Silk Scarf", 1, 100.0, ""))

	updated, err := repo.UpdateShippingStatus(context.Background(), "order-1", order.StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, order.StatusShipped, updated.Status)
	assert.Equal(t, order.PaymentPending, updated.PaymentStatus, "shipping moves never touch the payment axis")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryUpdateShippingStatus_ForbiddenTransition(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM orders WHERE id = (.+) FOR UPDATE").
		WithArgs("order-1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("Delivered"))
	mock.ExpectRollback()

	_, err = repo.UpdateShippingStatus(context.Background(), "order-1", order.StatusShipped)

	var te *TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "Delivered", te.From)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryUpdatePaymentStatus_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT payment_status FROM orders WHERE id = (.+) FOR UPDATE").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err = repo.UpdatePaymentStatus(context.Background(), "missing", true)
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryUpdatePaymentStatus_AlreadySettled(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT payment_status FROM orders WHERE id = (.+) FOR UPDATE").
		WithArgs("order-1").
		WillReturnRows(sqlmock.NewRows([]string{"payment_status"}).AddRow("Paid"))
	mock.ExpectRollback()

	_, err = repo.UpdatePaymentStatus(context.Background(), "order-1", true)

	var te *TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "Paid", te.From)
	require.NoError(t, mock.ExpectationsWereMet())
}
