package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"memomate-server/internal/domain"
)

// ErrAskNotConfigured marks a missing answer-generation API key: a server
// misconfiguration, surfaced distinctly and never retried.
var ErrAskNotConfigured = errors.New("answer generation API key not configured")

type AskService struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewAskService(apiKey, model, baseURL string) *AskService {
	return &AskService{
		apiKey:     apiKey,
		model:      model,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Answer forwards the question and note excerpts to the generation model
// and returns its free-text answer.
func (s *AskService) Answer(ctx context.Context, question string, notes []domain.AskNote) (string, error) {
	if s.apiKey == "" {
		return "", ErrAskNotConfigured
	}

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: buildPrompt(question, notes)}}}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", s.baseURL, s.model, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call generation API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("generation API returned status %d: %s", resp.StatusCode, msg)
	}

	var parsed geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}

	return strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text), nil
}

func buildPrompt(question string, notes []domain.AskNote) string {
	var context strings.Builder
	for _, n := range notes {
		context.WriteString("- ")
		context.WriteString(n.Content)
		if len(n.Tags) > 0 {
			context.WriteString(" [tags: ")
			context.WriteString(strings.Join(n.Tags, ", "))
			context.WriteString("]")
		}
		if !n.CreatedAt.IsZero() {
			context.WriteString(" [saved on: ")
			context.WriteString(n.CreatedAt.Format(time.RFC3339))
			context.WriteString("]")
		}
		context.WriteString("\n")
	}

	contextText := strings.TrimRight(context.String(), "\n")
	if contextText == "" {
		contextText = "(no notes given)"
	}

	return strings.TrimSpace(fmt.Sprintf(`
You are Memomate, a personal memory assistant.
The user is asking a question based only on THEIR OWN NOTES.

User question:
%q

Here are some of their relevant notes:
%s

Answer clearly and briefly, using only information that can be reasonably inferred from the notes.
If you are not sure, say you are not completely sure and suggest what they could check.
`, question, contextText))
}
