package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"memomate-server/internal/domain"
)

// Remote talks to the memomate server API. It implements NoteStore,
// AnswerClient and Registrar over the same authenticated HTTP client.
type Remote struct {
	baseURL    string
	httpClient *http.Client
	token      func() string
}

// NewRemote builds a Remote for the given API base URL. token supplies
// the current access token per request and may return "" before login.
func NewRemote(baseURL string, token func() string) *Remote {
	return &Remote{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		token:      token,
	}
}

func (r *Remote) List(ctx context.Context) ([]domain.Note, error) {
	var notes []domain.Note
	if err := r.call(ctx, http.MethodGet, "/notes", nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *Remote) Create(ctx context.Context, req *domain.CreateNoteRequest) (*domain.Note, error) {
	var note domain.Note
	if err := r.call(ctx, http.MethodPost, "/notes", req, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *Remote) Update(ctx context.Context, id string, req *domain.UpdateNoteRequest) (*domain.Note, error) {
	var note domain.Note
	if err := r.call(ctx, http.MethodPut, "/notes/"+id, req, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *Remote) Delete(ctx context.Context, id string) error {
	return r.call(ctx, http.MethodDelete, "/notes/"+id, nil, nil)
}

func (r *Remote) TogglePinned(ctx context.Context, id string) (*domain.Note, error) {
	return r.toggle(ctx, id, "pin")
}

func (r *Remote) ToggleFavorite(ctx context.Context, id string) (*domain.Note, error) {
	return r.toggle(ctx, id, "favorite")
}

func (r *Remote) MarkReminderDone(ctx context.Context, id string) (*domain.Note, error) {
	return r.toggle(ctx, id, "reminder-done")
}

func (r *Remote) toggle(ctx context.Context, id, action string) (*domain.Note, error) {
	var note domain.Note
	if err := r.call(ctx, http.MethodPost, "/notes/"+id+"/"+action, nil, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *Remote) Answer(ctx context.Context, question string, notes []domain.AskNote) (string, error) {
	body, err := r.rawCall(ctx, http.MethodPost, "/ask", domain.AskRequest{
		Question: question,
		Notes:    notes,
	})
	if err != nil {
		return "", err
	}

	var resp domain.AskResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to decode answer: %w", err)
	}
	return resp.Answer, nil
}

func (r *Remote) Register(ctx context.Context, sub *domain.WebSubscription, userID string) error {
	_, err := r.rawCall(ctx, http.MethodPost, "/subscribe", domain.SubscribeRequest{
		Subscription: *sub,
		UserID:       userID,
	})
	return err
}

func (r *Remote) Unregister(ctx context.Context, endpoint string) error {
	_, err := r.rawCall(ctx, http.MethodDelete, "/subscribe", domain.UnsubscribeRequest{
		Endpoint: endpoint,
	})
	return err
}

// call hits an enveloped endpoint and unmarshals the data field into out.
func (r *Remote) call(ctx context.Context, method, path string, payload, out any) error {
	body, err := r.do(ctx, method, path, payload)
	if err != nil {
		return err
	}

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !envelope.Success {
		return fmt.Errorf("request failed: %s", envelope.Error)
	}
	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// rawCall hits an endpoint that speaks plain JSON with an error field
// instead of the envelope.
func (r *Remote) rawCall(ctx context.Context, method, path string, payload any) ([]byte, error) {
	body, err := r.do(ctx, method, path, payload)
	if err != nil {
		return nil, err
	}

	var probe struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &probe); err == nil && probe.Error != "" {
		return nil, fmt.Errorf("request failed: %s", probe.Error)
	}
	return body, nil
}

func (r *Remote) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.token != nil {
		if token := r.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return body, remoteError(resp.StatusCode, body)
	}
	return body, nil
}

func remoteError(status int, body []byte) error {
	var probe struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &probe); err == nil && probe.Error != "" {
		return fmt.Errorf("request failed with status %d: %s", status, probe.Error)
	}
	return fmt.Errorf("request failed with status %d", status)
}
