package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"memomate-server/internal/domain"
)

func TestAskService_Answer(t *testing.T) {
	var gotPath string
	var gotBody geminiRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": "  It is in the blue file. \n"}}}},
			},
		})
	}))
	defer srv.Close()

	service := NewAskService("test-key", "gemini-1.5-flash", srv.URL)

	notes := []domain.AskNote{
		{Content: "PAN card in blue file", Tags: []string{"documents"}, CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
	}

	answer, err := service.Answer(context.Background(), "where is my pan card", notes)
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if answer != "It is in the blue file." {
		t.Errorf("Answer() = %q", answer)
	}

	if gotPath != "/models/gemini-1.5-flash:generateContent" {
		t.Errorf("request path = %q", gotPath)
	}

	prompt := gotBody.Contents[0].Parts[0].Text
	if !strings.Contains(prompt, "where is my pan card") {
		t.Error("prompt missing the question")
	}
	if !strings.Contains(prompt, "PAN card in blue file") {
		t.Error("prompt missing note content")
	}
	if !strings.Contains(prompt, "[tags: documents]") {
		t.Error("prompt missing tags")
	}
}

func TestAskService_MissingKey(t *testing.T) {
	service := NewAskService("", "gemini-1.5-flash", "https://example.invalid")

	if _, err := service.Answer(context.Background(), "anything", nil); !errors.Is(err, ErrAskNotConfigured) {
		t.Errorf("Answer() error = %v, want ErrAskNotConfigured", err)
	}
}

func TestAskService_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	service := NewAskService("test-key", "gemini-1.5-flash", srv.URL)

	if _, err := service.Answer(context.Background(), "q", nil); err == nil {
		t.Error("Answer() expected error on upstream failure")
	}
}

func TestAskService_EmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	service := NewAskService("test-key", "gemini-1.5-flash", srv.URL)

	answer, err := service.Answer(context.Background(), "q", nil)
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if answer != "" {
		t.Errorf("Answer() = %q, want empty", answer)
	}
}

func TestBuildPromptWithoutNotes(t *testing.T) {
	prompt := buildPrompt("where is it", nil)
	if !strings.Contains(prompt, "(no notes given)") {
		t.Error("expected placeholder for empty note context")
	}
}
