package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingOrder() *Order {
	userID := "user-1"
	email := "buyer@example.com"
	return &Order{
		ID:                    "order-1",
		UserID:                &userID,
		StripePaymentIntentID: "pi_123",
		Status:                StatusPending,
		TotalAmount:           19.99,
		Currency:              "usd",
		CustomerEmail:         &email,
		Items: []OrderItem{
			{
				ID:          "item-1",
				OrderID:     "order-1",
				ProductID:   "prod-1",
				Quantity:    1,
				PriceAtTime: 19.99,
				ProductName: "Game Card",
			},
		},
	}
}

func TestRepository_CreateOrderTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		o := pendingOrder()

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO orders`).
			WithArgs(o.ID, "user-1", o.StripePaymentIntentID, string(o.Status), o.TotalAmount, o.Currency, "buyer@example.com").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO order_items`).
			WithArgs("item-1", "order-1", "prod-1", 1, 19.99, "Game Card", nil).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.CreateOrderTx(ctx, o)
		assert.NoError(t, err)
	})

	t.Run("RollbackOnItemFailure", func(t *testing.T) {
		o := pendingOrder()

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO orders`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO order_items`).
			WillReturnError(errors.New("constraint violation"))
		mock.ExpectRollback()

		err := repo.CreateOrderTx(ctx, o)
		assert.Error(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByPaymentIntentID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{
			"id", "user_id", "stripe_payment_intent_id", "status",
			"total_amount", "currency", "customer_email", "created_at", "updated_at",
		}).AddRow(
			"order-1", nil, "pi_123", "pending",
			19.99, "usd", nil, time.Now(), time.Now(),
		)

		mock.ExpectQuery(`SELECT .* FROM orders WHERE stripe_payment_intent_id = \$1`).
			WithArgs("pi_123").
			WillReturnRows(rows)

		o, err := repo.GetByPaymentIntentID(ctx, "pi_123")
		require.NoError(t, err)
		assert.Equal(t, "order-1", o.ID)
		assert.Equal(t, StatusPending, o.Status)
		assert.Nil(t, o.UserID)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM orders WHERE stripe_payment_intent_id = \$1`).
			WithArgs("pi_missing").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.GetByPaymentIntentID(ctx, "pi_missing")
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestRepository_BindItemCode(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`UPDATE order_items SET digital_code = \$2 WHERE id = \$1 AND digital_code IS NULL`).
			WithArgs("item-1", "AAAA-1111").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.BindItemCode(ctx, "item-1", "AAAA-1111")
		assert.NoError(t, err)
	})

	t.Run("AlreadyBound", func(t *testing.T) {
		// The bind field transitions exactly once; a second attempt
		// matches zero rows.
		mock.ExpectExec(`UPDATE order_items SET digital_code = \$2`).
			WithArgs("item-1", "BBBB-2222").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.BindItemCode(ctx, "item-1", "BBBB-2222")
		assert.ErrorIs(t, err, ErrAlreadyBound)
	})
}

func TestRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`UPDATE orders SET status = \$1`).
			WithArgs(StatusCompleted, "order-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateStatus(ctx, "order-1", StatusCompleted)
		assert.NoError(t, err)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectExec(`UPDATE orders SET status = \$1`).
			WithArgs(StatusCompleted, "order-?").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateStatus(ctx, "order-?", StatusCompleted)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestRepository_MarkFailedByPaymentIntentID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("PendingOrderFails", func(t *testing.T) {
		mock.ExpectExec(`UPDATE orders SET status = \$1, updated_at = NOW\(\) WHERE stripe_payment_intent_id = \$2 AND status = \$3`).
			WithArgs(StatusFailed, "pi_dead", StatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))

		changed, err := repo.MarkFailedByPaymentIntentID(ctx, "pi_dead")
		require.NoError(t, err)
		assert.True(t, changed)
	})

	t.Run("FinalizedOrderUntouched", func(t *testing.T) {
		// A completed order no longer matches the pending predicate, so
		// a late failure event for the same intent changes nothing.
		mock.ExpectExec(`UPDATE orders SET status = \$1, updated_at = NOW\(\) WHERE stripe_payment_intent_id = \$2 AND status = \$3`).
			WithArgs(StatusFailed, "pi_done", StatusPending).
			WillReturnResult(sqlmock.NewResult(0, 0))

		changed, err := repo.MarkFailedByPaymentIntentID(ctx, "pi_done")
		require.NoError(t, err)
		assert.False(t, changed)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FetchItems(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "order_id", "product_id", "quantity", "price_at_time",
		"product_name", "product_image_url", "digital_code", "created_at",
	}).AddRow(
		"item-1", "order-1", "prod-1", 2, 9.99,
		"Game Card", nil, nil, time.Now(),
	)

	mock.ExpectQuery(`SELECT .* FROM order_items WHERE order_id = \$1`).
		WithArgs("order-1").
		WillReturnRows(rows)

	items, err := repo.FetchItems(context.Background(), "order-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Nil(t, items[0].DigitalCode)
}
