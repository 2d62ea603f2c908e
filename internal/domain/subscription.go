package domain

import (
	"encoding/json"
	"time"
)

// PushSubscription is one browser endpoint registered for reminders.
// A user holds one row per device; the endpoint is the unique key.
type PushSubscription struct {
	Endpoint  string    `json:"endpoint"`
	UserID    string    `json:"user_id"`
	P256dh    string    `json:"p256dh"`
	Auth      string    `json:"auth"`
	CreatedAt time.Time `json:"created_at"`
}

// SubscriptionKeys carries the browser-generated encryption material.
type SubscriptionKeys struct {
	P256dh string `json:"p256dh" validate:"required"`
	Auth   string `json:"auth" validate:"required"`
}

// WebSubscription is the subscription JSON as the browser's push API hands
// it out, before it is bound to a user.
type WebSubscription struct {
	Endpoint string           `json:"endpoint" validate:"required"`
	Keys     SubscriptionKeys `json:"keys" validate:"required"`
}

type SubscribeRequest struct {
	Subscription WebSubscription `json:"subscription" validate:"required"`
	UserID       string          `json:"userId"`
}

type UnsubscribeRequest struct {
	Endpoint string `json:"endpoint" validate:"required"`
}

// PushPayload is the notification body delivered to the service worker.
type PushPayload struct {
	Title string          `json:"title"`
	Body  string          `json:"body"`
	Data  PushPayloadData `json:"data"`
}

type PushPayloadData struct {
	URL string `json:"url"`
}

func (p PushPayload) Encode() []byte {
	b, _ := json.Marshal(p)
	return b
}
