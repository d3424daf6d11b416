package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Hampton-Black/solana-pay-tutorial/internal/core/notifications"
)

const maxAttempts = 5

// StartWebhookWorker polls the webhook_jobs queue and delivers
// checkout.created notifications with retry and backoff.
func StartWebhookWorker(db *pgxpool.Pool, secret string) {
	go func() {
		slog.Info("👷 Webhook Worker started")
		for {
			processJob(db, secret)
			time.Sleep(5 * time.Second)
		}
	}()
}

func processJob(db *pgxpool.Pool, secret string) {
	ctx := context.Background()

	// SKIP LOCKED lets several instances share the queue without stepping
	// on each other.
	query := `
		SELECT id, url, payload, attempts
		FROM webhook_jobs
		WHERE status = 'PENDING' AND next_run_at <= NOW()
		ORDER BY created_at ASC
		LIMIT 1
		FOR UPDATE SKIP LOCKED
	`

	var id string
	var url string
	var payloadBytes []byte
	var attempts int

	err := db.QueryRow(ctx, query).Scan(&id, &url, &payloadBytes, &attempts)
	if err != nil {
		// Nothing pending
		return
	}

	var payload interface{}
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		slog.Error("Worker: Failed to parse payload", "error", err, "job_id", id)
		db.Exec(ctx, "UPDATE webhook_jobs SET status = 'FAILED' WHERE id = $1", id)
		return
	}

	slog.Info("Worker: Delivering webhook", "url", url, "job_id", id)

	sendErr := notifications.SendWebhook(url, payload, secret)
	if sendErr != nil {
		slog.Error("Worker: Webhook failed", "error", sendErr, "attempts", attempts)
		nextRun := time.Now().Add(time.Duration(attempts*10+10) * time.Second)

		if attempts >= maxAttempts {
			db.Exec(ctx, "UPDATE webhook_jobs SET status = 'FAILED' WHERE id = $1", id)
			slog.Error("Worker: Job marked as FAILED (max attempts reached)", "job_id", id)
		} else {
			db.Exec(ctx, "UPDATE webhook_jobs SET status = 'PENDING', attempts = attempts + 1, next_run_at = $2 WHERE id = $1", id, nextRun)
			slog.Info("Worker: Scheduled retry", "next_run", nextRun)
		}
		return
	}

	slog.Info("✅ Worker: Webhook delivered", "job_id", id)
	db.Exec(ctx, "UPDATE webhook_jobs SET status = 'COMPLETED' WHERE id = $1", id)
}
