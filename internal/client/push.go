package client

import (
	"context"
	"errors"
	"log"

	"memomate-server/internal/domain"
)

var errPushUnavailable = errors.New("push unavailable")

// Permission mirrors the platform notification permission states.
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// Notifier is the platform notification capability: permission prompts
// and the push subscription itself. A nil Notifier means the platform
// has no push support at all.
type Notifier interface {
	Permission() Permission
	RequestPermission(ctx context.Context) (Permission, error)
	// Subscribe creates or returns the existing push subscription for
	// the given VAPID public key.
	Subscribe(ctx context.Context, vapidPublicKey string) (*domain.WebSubscription, error)
	// Existing returns the current subscription without prompting, or
	// nil when there is none.
	Existing(ctx context.Context) (*domain.WebSubscription, error)
	Unsubscribe(ctx context.Context) error
}

// Registrar records subscriptions with the reminder sender.
type Registrar interface {
	Register(ctx context.Context, sub *domain.WebSubscription, userID string) error
	Unregister(ctx context.Context, endpoint string) error
}

// PushManager drives the reminder-notification toggle. Enabled reflects
// what the user sees, so Disable always flips it off even when cleanup
// fails halfway.
type PushManager struct {
	notifier       Notifier
	registrar      Registrar
	session        Session
	vapidPublicKey string

	enabled bool
	errMsg  string
}

func NewPushManager(notifier Notifier, registrar Registrar, session Session, vapidPublicKey string) *PushManager {
	return &PushManager{
		notifier:       notifier,
		registrar:      registrar,
		session:        session,
		vapidPublicKey: vapidPublicKey,
	}
}

func (m *PushManager) Enabled() bool { return m.enabled }

func (m *PushManager) Err() string { return m.errMsg }

// Enable walks the full opt-in flow: permission prompt, subscription,
// server registration. Any failure leaves the toggle off with a message
// saying which step refused.
func (m *PushManager) Enable(ctx context.Context) error {
	m.errMsg = ""

	if m.session == nil || m.session.UserID() == "" {
		m.errMsg = "Sign in to enable reminders."
		return errPushUnavailable
	}
	if m.notifier == nil {
		m.errMsg = "Notifications are not supported in this browser."
		return errPushUnavailable
	}
	if m.vapidPublicKey == "" {
		m.errMsg = "Push is not configured on the server."
		return errPushUnavailable
	}

	perm := m.notifier.Permission()
	if perm == PermissionDefault {
		var err error
		perm, err = m.notifier.RequestPermission(ctx)
		if err != nil {
			log.Printf("Permission request failed: %v", err)
			m.errMsg = "Notifications are blocked. Check your browser settings."
			return err
		}
	}
	if perm != PermissionGranted {
		m.errMsg = "Notifications are blocked. Check your browser settings."
		return errPushUnavailable
	}

	sub, err := m.notifier.Subscribe(ctx, m.vapidPublicKey)
	if err != nil {
		log.Printf("Push subscribe failed: %v", err)
		m.errMsg = "Could not enable reminders."
		return err
	}

	if err := m.registrar.Register(ctx, sub, m.session.UserID()); err != nil {
		log.Printf("Push registration failed: %v", err)
		m.errMsg = "Could not enable reminders."
		return err
	}

	m.enabled = true
	return nil
}

// Disable tears the subscription down. The toggle flips off first, so a
// failed unsubscribe or server call never leaves the switch stuck on.
func (m *PushManager) Disable(ctx context.Context) error {
	m.enabled = false
	m.errMsg = ""

	if m.notifier == nil {
		return nil
	}

	sub, err := m.notifier.Existing(ctx)
	if err != nil {
		log.Printf("Push lookup failed: %v", err)
		return err
	}
	if sub == nil {
		return nil
	}

	if err := m.notifier.Unsubscribe(ctx); err != nil {
		log.Printf("Push unsubscribe failed: %v", err)
		return err
	}
	if err := m.registrar.Unregister(ctx, sub.Endpoint); err != nil {
		log.Printf("Push unregistration failed: %v", err)
		return err
	}
	return nil
}

// DetectOnLoad reports whether an existing granted subscription is
// present, without ever prompting for permission.
func (m *PushManager) DetectOnLoad(ctx context.Context) {
	m.enabled = false
	if m.notifier == nil || m.session == nil || m.session.UserID() == "" {
		return
	}
	if m.notifier.Permission() != PermissionGranted {
		return
	}

	sub, err := m.notifier.Existing(ctx)
	if err != nil {
		log.Printf("Push lookup failed: %v", err)
		return
	}
	m.enabled = sub != nil
}
