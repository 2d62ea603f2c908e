package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
	"unicode/utf8"

	"memomate-server/internal/domain"
	"memomate-server/internal/push"
	"memomate-server/internal/repository"
)

const reminderTitle = "Memomate reminder"

type ReminderService struct {
	notes  repository.NoteRepository
	subs   repository.SubscriptionRepository
	sender push.Sender
}

func NewReminderService(notes repository.NoteRepository, subs repository.SubscriptionRepository, sender push.Sender) *ReminderService {
	return &ReminderService{
		notes:  notes,
		subs:   subs,
		sender: sender,
	}
}

// SendDue sweeps notes whose reminder is due and not done, pushes one
// notification per subscription of each owner, and marks the dispatched
// notes done in a single batch afterwards. The batch is deliberately not
// atomic with the sends: a crash in between re-delivers on the next sweep,
// which is the accepted at-least-once contract.
//
// Send failures are logged and never abort the sweep; an endpoint reported
// gone gets its subscription pruned.
func (s *ReminderService) SendDue(ctx context.Context, now time.Time) (int, error) {
	due, err := s.notes.ListDueReminders(ctx, now)
	if err != nil {
		return 0, err
	}
	if len(due) == 0 {
		return 0, nil
	}

	seen := make(map[string]struct{})
	var userIDs []string
	for _, note := range due {
		if _, ok := seen[note.UserID]; !ok {
			seen[note.UserID] = struct{}{}
			userIDs = append(userIDs, note.UserID)
		}
	}

	subs, err := s.subs.ListByUsers(ctx, userIDs)
	if err != nil {
		return 0, err
	}

	subsByUser := make(map[string][]*domain.PushSubscription)
	for _, sub := range subs {
		subsByUser[sub.UserID] = append(subsByUser[sub.UserID], sub)
	}

	var wg sync.WaitGroup
	var dispatched []string

	for _, note := range due {
		userSubs := subsByUser[note.UserID]
		if len(userSubs) == 0 {
			continue
		}

		payload := domain.PushPayload{
			Title: reminderTitle,
			Body:  truncateBody(note.Content),
			Data:  domain.PushPayloadData{URL: "/"},
		}.Encode()

		for _, sub := range userSubs {
			wg.Add(1)
			go func(sub *domain.PushSubscription) {
				defer wg.Done()
				if err := s.sender.Send(ctx, sub, payload); err != nil {
					log.Printf("Push send failed for %s: %v", sub.Endpoint, err)
					if errors.Is(err, push.ErrEndpointGone) {
						if derr := s.subs.DeleteByEndpoint(ctx, sub.Endpoint); derr != nil {
							log.Printf("Failed to prune subscription %s: %v", sub.Endpoint, derr)
						}
					}
				}
			}(sub)
		}

		dispatched = append(dispatched, note.ID)
	}

	wg.Wait()

	if err := s.notes.MarkRemindersDone(ctx, dispatched); err != nil {
		return 0, err
	}

	return len(dispatched), nil
}

// truncateBody keeps notification bodies at 80 characters, replacing the
// tail with an ellipsis.
func truncateBody(content string) string {
	if utf8.RuneCountInString(content) <= 80 {
		return content
	}
	runes := []rune(content)
	return string(runes[:77]) + "…"
}
