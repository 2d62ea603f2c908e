// Package push delivers Web Push notifications to subscribed browsers.
package push

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"memomate-server/internal/domain"

	webpush "github.com/SherClockHolmes/webpush-go"
)

// ErrEndpointGone marks a subscription the delivery provider reports as
// permanently dead (HTTP 404/410). Callers prune the subscription.
var ErrEndpointGone = errors.New("push endpoint gone")

// Sender delivers an encoded payload to one subscription.
type Sender interface {
	Send(ctx context.Context, sub *domain.PushSubscription, payload []byte) error
}

type WebPushSender struct {
	vapidPublicKey  string
	vapidPrivateKey string
	subscriber      string
	ttl             int
}

func NewWebPushSender(publicKey, privateKey, subscriber string, ttl int) *WebPushSender {
	return &WebPushSender{
		vapidPublicKey:  publicKey,
		vapidPrivateKey: privateKey,
		subscriber:      subscriber,
		ttl:             ttl,
	}
}

// Configured reports whether a VAPID key pair is present. Without one, push
// is a server misconfiguration and enable attempts must fail distinctly.
func (s *WebPushSender) Configured() bool {
	return s.vapidPublicKey != "" && s.vapidPrivateKey != ""
}

func (s *WebPushSender) PublicKey() string {
	return s.vapidPublicKey
}

func (s *WebPushSender) Send(ctx context.Context, sub *domain.PushSubscription, payload []byte) error {
	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		TTL:             s.ttl,
		Subscriber:      s.subscriber,
		VAPIDPublicKey:  s.vapidPublicKey,
		VAPIDPrivateKey: s.vapidPrivateKey,
	})
	if err != nil {
		return fmt.Errorf("push delivery failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return ErrEndpointGone
	case resp.StatusCode >= 400:
		return fmt.Errorf("push delivery failed: status %d", resp.StatusCode)
	}

	return nil
}
