package service

import (
	"context"
	"time"

	"memomate-server/internal/domain"
	"memomate-server/internal/repository"
)

type SubscriptionService struct {
	repo repository.SubscriptionRepository
}

func NewSubscriptionService(repo repository.SubscriptionRepository) *SubscriptionService {
	return &SubscriptionService{repo: repo}
}

// Register binds a browser subscription to its owner. Keyed on the endpoint,
// so repeated registration from the same device is idempotent.
func (s *SubscriptionService) Register(ctx context.Context, userID string, web *domain.WebSubscription) error {
	sub := &domain.PushSubscription{
		Endpoint:  web.Endpoint,
		UserID:    userID,
		P256dh:    web.Keys.P256dh,
		Auth:      web.Keys.Auth,
		CreatedAt: time.Now(),
	}
	return s.repo.Upsert(ctx, sub)
}

// Unregister removes one device's subscription. Other devices of the same
// user keep theirs.
func (s *SubscriptionService) Unregister(ctx context.Context, endpoint string) error {
	return s.repo.DeleteByEndpoint(ctx, endpoint)
}
