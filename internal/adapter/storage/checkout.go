package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Hampton-Black/solana-pay-tutorial/internal/core/domain"
)

type CheckoutRepository struct {
	Db *pgxpool.Pool
}

func NewCheckoutRepository(db *pgxpool.Pool) *CheckoutRepository {
	return &CheckoutRepository{Db: db}
}

// Record stores the built checkout and, if a webhook URL is configured,
// queues the checkout.created notification in the same database transaction
// so the worker never sees a job without its record.
func (r *CheckoutRepository) Record(ctx context.Context, co *domain.Checkout, webhookURL string) error {
	tx, err := r.Db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO checkouts (reference, account, amount, discounted, status)
		VALUES ($1, $2, $3, $4, 'CREATED')
		RETURNING id, created_at`,
		co.Reference, co.Account, co.Amount.String(), co.Discounted,
	).Scan(&co.ID, &co.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert checkout: %w", err)
	}
	co.Status = "CREATED"

	if webhookURL != "" {
		payload, err := json.Marshal(map[string]interface{}{
			"event": "checkout.created",
			"data": map[string]interface{}{
				"reference":  co.Reference,
				"account":    co.Account,
				"amount":     co.Amount.String(),
				"discounted": co.Discounted,
				"timestamp":  time.Now(),
			},
		})
		if err != nil {
			return fmt.Errorf("marshal webhook payload: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO webhook_jobs (url, payload, status, next_run_at)
			VALUES ($1, $2, 'PENDING', NOW())`,
			webhookURL, payload)
		if err != nil {
			return fmt.Errorf("enqueue webhook job: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// GetByReference finds one checkout by its tracking reference.
func (r *CheckoutRepository) GetByReference(ctx context.Context, reference string) (*domain.Checkout, error) {
	var co domain.Checkout
	var amount string

	err := r.Db.QueryRow(ctx, `
		SELECT id, reference, account, amount, discounted, status, created_at
		FROM checkouts WHERE reference = $1`,
		reference,
	).Scan(&co.ID, &co.Reference, &co.Account, &amount, &co.Discounted, &co.Status, &co.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("checkout not found")
	}
	if err != nil {
		return nil, err
	}

	co.Amount, err = domain.ParseAmount(amount)
	if err != nil {
		return nil, fmt.Errorf("stored amount %q is not a valid decimal: %w", amount, err)
	}
	return &co, nil
}

// ListRecent fetches the latest checkouts for the dashboard.
func (r *CheckoutRepository) ListRecent(ctx context.Context, limit int) ([]domain.Checkout, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.Db.Query(ctx, `
		SELECT id, reference, account, amount, discounted, status, created_at
		FROM checkouts
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var checkouts []domain.Checkout
	for rows.Next() {
		var co domain.Checkout
		var amount string
		if err := rows.Scan(&co.ID, &co.Reference, &co.Account, &amount, &co.Discounted, &co.Status, &co.CreatedAt); err != nil {
			return nil, err
		}
		if co.Amount, err = domain.ParseAmount(amount); err != nil {
			return nil, fmt.Errorf("stored amount %q is not a valid decimal: %w", amount, err)
		}
		checkouts = append(checkouts, co)
	}
	return checkouts, rows.Err()
}

// SaveAPIKey stores the hashed dashboard key. We never store the real key.
func (r *CheckoutRepository) SaveAPIKey(ctx context.Context, keyHash string, keyPrefix string) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.Db.QueryRow(ctx, `
		INSERT INTO api_keys (key_hash, key_prefix) VALUES ($1, $2) RETURNING id`,
		keyHash, keyPrefix,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save api key: %w", err)
	}
	return id, nil
}
