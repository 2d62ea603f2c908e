package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"memomate-server/internal/domain"
)

type SubscriptionRepository interface {
	Upsert(ctx context.Context, sub *domain.PushSubscription) error
	ListByUsers(ctx context.Context, userIDs []string) ([]*domain.PushSubscription, error)
	DeleteByEndpoint(ctx context.Context, endpoint string) error
}

type subscriptionRepository struct {
	db *sql.DB
}

func NewSubscriptionRepository(db *sql.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// Upsert keys on the endpoint so re-subscribing from the same browser never
// produces a duplicate row; the keys and owner are refreshed instead.
func (r *subscriptionRepository) Upsert(ctx context.Context, sub *domain.PushSubscription) error {
	query := `INSERT INTO push_subscriptions (endpoint, user_id, p256dh, auth, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (endpoint)
		 DO UPDATE SET user_id = EXCLUDED.user_id, p256dh = EXCLUDED.p256dh, auth = EXCLUDED.auth`

	_, err := r.db.ExecContext(ctx, query,
		sub.Endpoint, sub.UserID, sub.P256dh, sub.Auth, sub.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save subscription: %w", err)
	}

	return nil
}

func (r *subscriptionRepository) ListByUsers(ctx context.Context, userIDs []string) ([]*domain.PushSubscription, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(userIDs))
	args := make([]any, len(userIDs))
	for i, id := range userIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := `SELECT endpoint, user_id, p256dh, auth, created_at
		 FROM push_subscriptions WHERE user_id IN (` + strings.Join(placeholders, ", ") + `)`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []*domain.PushSubscription
	for rows.Next() {
		var sub domain.PushSubscription
		if err := rows.Scan(&sub.Endpoint, &sub.UserID, &sub.P256dh, &sub.Auth, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		subs = append(subs, &sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read subscriptions: %w", err)
	}

	return subs, nil
}

func (r *subscriptionRepository) DeleteByEndpoint(ctx context.Context, endpoint string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM push_subscriptions WHERE endpoint = $1`, endpoint); err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	return nil
}
