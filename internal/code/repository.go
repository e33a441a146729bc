package code

import (
	"context"
	"database/sql"

	"digistore-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	ListAvailable(ctx context.Context, productID string, limit int) ([]DigitalCode, error)
	Claim(ctx context.Context, codeID, orderID, orderItemID string, userID *string) (bool, error)
	ListClaimedByOrder(ctx context.Context, orderID string) ([]ClaimedCode, error)
	CountClaimedByItem(ctx context.Context, orderItemID string) (int, error)
	ListClaimedByItem(ctx context.Context, orderItemID string) ([]string, error)
	Provision(ctx context.Context, productID string, codes []string) (int, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListAvailable(ctx context.Context, productID string, limit int) ([]DigitalCode, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, code, is_used, created_at
		FROM product_codes
		WHERE product_id = $1
		  AND is_used = FALSE
		ORDER BY created_at
		LIMIT $2
	`, productID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []DigitalCode
	for rows.Next() {
		var c DigitalCode
		if err := rows.Scan(&c.ID, &c.ProductID, &c.Code, &c.IsUsed, &c.CreatedAt); err != nil {
			return nil, err
		}
		codes = append(codes, c)
	}

	return codes, rows.Err()
}

// Claim marks one code consumed. The is_used guard makes the store the
// arbiter under concurrent fulfillment: zero rows affected means another
// request won the code and the caller must try a different one. A
// read-then-write pair here would reopen the double-issue window.
func (r *repository) Claim(ctx context.Context, codeID, orderID, orderItemID string, userID *string) (bool, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Claim"),
		zap.String("code_id", codeID),
		zap.String("order_id", orderID),
	)

	res, err := r.db.ExecContext(ctx, `
		UPDATE product_codes
		SET is_used = TRUE,
		    order_id = $2,
		    order_item_id = $3,
		    used_by_user_id = $4,
		    used_at = NOW()
		WHERE id = $1
		  AND is_used = FALSE
	`, codeID, orderID, orderItemID, userID)
	if err != nil {
		log.Error("claim update failed", zap.Error(err))
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		log.Debug("claim lost race, code already used")
		return false, nil
	}

	return true, nil
}

func (r *repository) ListClaimedByOrder(ctx context.Context, orderID string) ([]ClaimedCode, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT order_item_id, code
		FROM product_codes
		WHERE order_id = $1
		ORDER BY used_at
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var claimed []ClaimedCode
	for rows.Next() {
		var c ClaimedCode
		if err := rows.Scan(&c.OrderItemID, &c.Code); err != nil {
			return nil, err
		}
		claimed = append(claimed, c)
	}

	return claimed, rows.Err()
}

func (r *repository) CountClaimedByItem(ctx context.Context, orderItemID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM product_codes WHERE order_item_id = $1
	`, orderItemID).Scan(&n)
	return n, err
}

func (r *repository) ListClaimedByItem(ctx context.Context, orderItemID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT code FROM product_codes
		WHERE order_item_id = $1
		ORDER BY used_at
	`, orderItemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		codes = append(codes, c)
	}

	return codes, rows.Err()
}

// Provision bulk-inserts unused codes for a product, skipping duplicates.
func (r *repository) Provision(ctx context.Context, productID string, codes []string) (int, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Provision"),
		zap.String("product_id", productID),
		zap.Int("code_count", len(codes)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return 0, err
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	inserted := 0
	for _, c := range codes {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO product_codes (id, product_id, code)
			VALUES ($1, $2, $3)
			ON CONFLICT (product_id, code) DO NOTHING
		`, uuid.New().String(), productID, c)
		if err != nil {
			log.Error("failed to insert code", zap.Error(err))
			return 0, err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit provisioning", zap.Error(err))
		return 0, err
	}

	committed = true
	log.Info("codes provisioned", zap.Int("inserted", inserted))
	return inserted, nil
}
