package order

import (
	"context"
	"database/sql"
	"errors"

	"digistore-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	CreateOrderTx(ctx context.Context, o *Order) error
	GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*Order, error)
	FetchItems(ctx context.Context, orderID string) ([]OrderItem, error)
	BindItemCode(ctx context.Context, itemID string, code string) error
	UpdateStatus(ctx context.Context, orderID string, status OrderStatus) error
	MarkFailedByPaymentIntentID(ctx context.Context, paymentIntentID string) (bool, error)
	FetchOrdersByUser(ctx context.Context, userID string) ([]*Order, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// CreateOrderTx inserts the order and all of its lines in one transaction.
func (r *repository) CreateOrderTx(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateOrderTx"),
		zap.String("order_id", o.ID),
		zap.Int("item_count", len(o.Items)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, user_id, stripe_payment_intent_id,
			status, total_amount, currency, customer_email
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		o.ID,
		o.UserID,
		o.StripePaymentIntentID,
		o.Status,
		o.TotalAmount,
		o.Currency,
		o.CustomerEmail,
	)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return err
	}

	for i, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (
				id, order_id, product_id, quantity,
				price_at_time, product_name, product_image_url
			) VALUES ($1,$2,$3,$4,$5,$6,$7)
		`,
			item.ID,
			o.ID,
			item.ProductID,
			item.Quantity,
			item.PriceAtTime,
			item.ProductName,
			item.ProductImageURL,
		)
		if err != nil {
			log.Error("failed to insert order item",
				zap.Int("item_index", i),
				zap.String("product_id", item.ProductID),
				zap.Error(err),
			)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit order transaction", zap.Error(err))
		return err
	}

	committed = true
	log.Info("order persisted", zap.String("status", string(o.Status)))
	return nil
}

func (r *repository) GetByPaymentIntentID(ctx context.Context, paymentIntentID string) (*Order, error) {
	var o Order
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, stripe_payment_intent_id, status,
		       total_amount, currency, customer_email, created_at, updated_at
		FROM orders
		WHERE stripe_payment_intent_id = $1
	`, paymentIntentID).Scan(
		&o.ID, &o.UserID, &o.StripePaymentIntentID, &o.Status,
		&o.TotalAmount, &o.Currency, &o.CustomerEmail, &o.CreatedAt, &o.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	return &o, nil
}

func (r *repository) FetchItems(ctx context.Context, orderID string) ([]OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, quantity, price_at_time,
		       product_name, product_image_url, digital_code, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.Quantity,
			&item.PriceAtTime, &item.ProductName, &item.ProductImageURL,
			&item.DigitalCode, &item.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// BindItemCode sets the line's code exactly once. A second bind attempt
// finds zero rows and reports ErrAlreadyBound.
func (r *repository) BindItemCode(ctx context.Context, itemID string, code string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE order_items
		SET digital_code = $2
		WHERE id = $1
		  AND digital_code IS NULL
	`, itemID, code)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrAlreadyBound
	}
	return nil
}

func (r *repository) UpdateStatus(ctx context.Context, orderID string, status OrderStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2
	`, status, orderID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// MarkFailedByPaymentIntentID closes out a pending order whose payment
// died. Only pending orders match: provider events can arrive out of
// order, and a stale failure event must never downgrade an order that
// already fulfilled. Reports whether a row changed; zero rows is a
// no-op, not an error.
func (r *repository) MarkFailedByPaymentIntentID(ctx context.Context, paymentIntentID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = NOW()
		WHERE stripe_payment_intent_id = $2
		  AND status = $3
	`, StatusFailed, paymentIntentID, StatusPending)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// FetchOrdersByUser returns the user's orders, newest first, with lines.
func (r *repository) FetchOrdersByUser(ctx context.Context, userID string) ([]*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "FetchOrdersByUser"),
	)

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, stripe_payment_intent_id, status,
		       total_amount, currency, customer_email, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		log.Error("failed to query orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(
			&o.ID, &o.UserID, &o.StripePaymentIntentID, &o.Status,
			&o.TotalAmount, &o.Currency, &o.CustomerEmail, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			log.Error("failed to scan order row", zap.Error(err))
			return nil, err
		}
		orders = append(orders, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, o := range orders {
		items, err := r.FetchItems(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		o.Items = items
	}

	return orders, nil
}
