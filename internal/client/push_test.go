package client

import (
	"context"
	"errors"
	"testing"

	"memomate-server/internal/domain"
)

type mockNotifier struct {
	permission Permission
	granted    Permission
	requestErr error

	sub            *domain.WebSubscription
	subscribeErr   error
	unsubscribeErr error

	unsubscribed bool
}

func (m *mockNotifier) Permission() Permission { return m.permission }

func (m *mockNotifier) RequestPermission(ctx context.Context) (Permission, error) {
	if m.requestErr != nil {
		return PermissionDefault, m.requestErr
	}
	m.permission = m.granted
	return m.granted, nil
}

func (m *mockNotifier) Subscribe(ctx context.Context, vapidPublicKey string) (*domain.WebSubscription, error) {
	if m.subscribeErr != nil {
		return nil, m.subscribeErr
	}
	return m.sub, nil
}

func (m *mockNotifier) Existing(ctx context.Context) (*domain.WebSubscription, error) {
	return m.sub, nil
}

func (m *mockNotifier) Unsubscribe(ctx context.Context) error {
	if m.unsubscribeErr != nil {
		return m.unsubscribeErr
	}
	m.unsubscribed = true
	m.sub = nil
	return nil
}

type mockRegistrar struct {
	registerErr   error
	unregisterErr error

	registered   *domain.WebSubscription
	registeredAs string
	unregistered string
}

func (m *mockRegistrar) Register(ctx context.Context, sub *domain.WebSubscription, userID string) error {
	if m.registerErr != nil {
		return m.registerErr
	}
	m.registered = sub
	m.registeredAs = userID
	return nil
}

func (m *mockRegistrar) Unregister(ctx context.Context, endpoint string) error {
	if m.unregisterErr != nil {
		return m.unregisterErr
	}
	m.unregistered = endpoint
	return nil
}

type mockSession struct {
	userID string
}

func (m *mockSession) UserID() string { return m.userID }

func testSubscription() *domain.WebSubscription {
	return &domain.WebSubscription{
		Endpoint: "https://push.example/abc",
		Keys: domain.SubscriptionKeys{
			P256dh: "p256dh-key",
			Auth:   "auth-secret",
		},
	}
}

func TestPushEnable(t *testing.T) {
	notifier := &mockNotifier{
		permission: PermissionDefault,
		granted:    PermissionGranted,
		sub:        testSubscription(),
	}
	registrar := &mockRegistrar{}
	mgr := NewPushManager(notifier, registrar, &mockSession{userID: "user-1"}, "vapid-public")

	if err := mgr.Enable(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !mgr.Enabled() {
		t.Error("expected manager enabled")
	}
	if registrar.registered == nil || registrar.registered.Endpoint != "https://push.example/abc" {
		t.Error("subscription must reach the registrar")
	}
	if registrar.registeredAs != "user-1" {
		t.Errorf("unexpected user: %q", registrar.registeredAs)
	}
}

func TestPushEnableRequiresSession(t *testing.T) {
	mgr := NewPushManager(&mockNotifier{}, &mockRegistrar{}, &mockSession{}, "vapid-public")

	if err := mgr.Enable(context.Background()); err == nil {
		t.Fatal("expected error without a session")
	}
	if mgr.Err() != "Sign in to enable reminders." {
		t.Errorf("unexpected message: %q", mgr.Err())
	}
	if mgr.Enabled() {
		t.Error("manager must stay disabled")
	}
}

func TestPushEnableUnsupported(t *testing.T) {
	mgr := NewPushManager(nil, &mockRegistrar{}, &mockSession{userID: "user-1"}, "vapid-public")

	if err := mgr.Enable(context.Background()); err == nil {
		t.Fatal("expected error without notification support")
	}
	if mgr.Err() != "Notifications are not supported in this browser." {
		t.Errorf("unexpected message: %q", mgr.Err())
	}
}

func TestPushEnableMissingServerKey(t *testing.T) {
	notifier := &mockNotifier{permission: PermissionGranted, sub: testSubscription()}
	mgr := NewPushManager(notifier, &mockRegistrar{}, &mockSession{userID: "user-1"}, "")

	if err := mgr.Enable(context.Background()); err == nil {
		t.Fatal("expected error without a VAPID key")
	}
	if mgr.Err() != "Push is not configured on the server." {
		t.Errorf("unexpected message: %q", mgr.Err())
	}
}

func TestPushEnableDenied(t *testing.T) {
	notifier := &mockNotifier{permission: PermissionDefault, granted: PermissionDenied}
	mgr := NewPushManager(notifier, &mockRegistrar{}, &mockSession{userID: "user-1"}, "vapid-public")

	if err := mgr.Enable(context.Background()); err == nil {
		t.Fatal("expected error when permission is denied")
	}
	if mgr.Err() != "Notifications are blocked. Check your browser settings." {
		t.Errorf("unexpected message: %q", mgr.Err())
	}
	if mgr.Enabled() {
		t.Error("manager must stay disabled")
	}
}

func TestPushEnableAlreadyDeniedSkipsPrompt(t *testing.T) {
	// A pre-denied permission must fail without prompting again.
	notifier := &mockNotifier{permission: PermissionDenied, requestErr: errors.New("must not prompt")}
	mgr := NewPushManager(notifier, &mockRegistrar{}, &mockSession{userID: "user-1"}, "vapid-public")

	if err := mgr.Enable(context.Background()); err == nil {
		t.Fatal("expected error for denied permission")
	}
	if mgr.Err() != "Notifications are blocked. Check your browser settings." {
		t.Errorf("unexpected message: %q", mgr.Err())
	}
}

func TestPushDisableAlwaysFlipsOff(t *testing.T) {
	notifier := &mockNotifier{permission: PermissionGranted, sub: testSubscription()}
	registrar := &mockRegistrar{unregisterErr: errors.New("server down")}
	mgr := NewPushManager(notifier, registrar, &mockSession{userID: "user-1"}, "vapid-public")
	mgr.enabled = true

	if err := mgr.Disable(context.Background()); err == nil {
		t.Fatal("expected error from registrar")
	}
	if mgr.Enabled() {
		t.Error("toggle must flip off even when cleanup fails")
	}
}

func TestPushDisable(t *testing.T) {
	notifier := &mockNotifier{permission: PermissionGranted, sub: testSubscription()}
	registrar := &mockRegistrar{}
	mgr := NewPushManager(notifier, registrar, &mockSession{userID: "user-1"}, "vapid-public")
	mgr.enabled = true

	if err := mgr.Disable(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !notifier.unsubscribed {
		t.Error("expected platform unsubscribe")
	}
	if registrar.unregistered != "https://push.example/abc" {
		t.Errorf("unexpected endpoint removed: %q", registrar.unregistered)
	}
}

func TestPushDetectOnLoad(t *testing.T) {
	notifier := &mockNotifier{permission: PermissionGranted, sub: testSubscription()}
	mgr := NewPushManager(notifier, &mockRegistrar{}, &mockSession{userID: "user-1"}, "vapid-public")

	mgr.DetectOnLoad(context.Background())
	if !mgr.Enabled() {
		t.Error("existing granted subscription must show as enabled")
	}
}

func TestPushDetectOnLoadNeverPrompts(t *testing.T) {
	notifier := &mockNotifier{permission: PermissionDefault, requestErr: errors.New("must not prompt")}
	mgr := NewPushManager(notifier, &mockRegistrar{}, &mockSession{userID: "user-1"}, "vapid-public")

	mgr.DetectOnLoad(context.Background())
	if mgr.Enabled() {
		t.Error("default permission must not show as enabled")
	}
}
