package client

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"memomate-server/internal/domain"
	"memomate-server/internal/keyword"
)

var errEmptyContent = errors.New("empty content")

const (
	// Matches shown in the result panel.
	askMatchLimit = 5
	// Matches forwarded to the answer generator.
	askForwardLimit = 10
)

// AskResult is everything the ask panel needs to render. Matches are
// available immediately; Answer delivers at most one generated answer
// later and is closed either way.
type AskResult struct {
	Message string
	Matches []domain.Note
	Answer  <-chan string
}

// Ask extracts keywords from the question and finds notes containing all
// of them, in content or tags. The matched notes are shown right away;
// answer generation runs detached so a slow or failing generator never
// blocks the matches.
func (c *Controller) Ask(ctx context.Context, question string) AskResult {
	question = strings.TrimSpace(question)
	if question == "" {
		return AskResult{Message: "Type a question first."}
	}
	if len(c.notes) == 0 {
		return AskResult{Message: "You don't have any notes yet."}
	}

	keywords := keyword.Extract(question)
	if len(keywords) == 0 {
		return AskResult{Message: `Try using keywords like "PAN", "bill", "headphones".`}
	}

	var matches []domain.Note
	for _, n := range c.notes {
		if matchAll(&n, keywords) {
			matches = append(matches, n)
		}
	}
	if len(matches) == 0 {
		return AskResult{Message: "Nothing found in your notes for that."}
	}

	result := AskResult{
		Message: matchMessage(len(matches)),
		Matches: matches,
	}
	if len(result.Matches) > askMatchLimit {
		result.Matches = result.Matches[:askMatchLimit]
	}

	if c.answers != nil {
		forward := matches
		if len(forward) > askForwardLimit {
			forward = forward[:askForwardLimit]
		}
		result.Answer = c.generate(ctx, question, forward)
	}
	return result
}

// generate runs the answer call in the background. Failures are logged
// and the channel closes empty, leaving the matches on screen untouched.
func (c *Controller) generate(ctx context.Context, question string, matches []domain.Note) <-chan string {
	ask := make([]domain.AskNote, len(matches))
	for i := range matches {
		ask[i] = matches[i].ForAsk()
	}

	ch := make(chan string, 1)
	go func() {
		defer close(ch)
		answer, err := c.answers.Answer(ctx, question, ask)
		if err != nil {
			log.Printf("Failed to generate answer: %v", err)
			return
		}
		if answer != "" {
			ch <- answer
		}
	}()
	return ch
}

// matchAll requires every keyword to appear somewhere in the note.
func matchAll(n *domain.Note, keywords []string) bool {
	content := strings.ToLower(n.Content)
	for _, kw := range keywords {
		if strings.Contains(content, kw) {
			continue
		}
		found := false
		for _, tag := range n.Tags {
			if strings.Contains(strings.ToLower(tag), kw) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func matchMessage(count int) string {
	if count == 1 {
		return "Found 1 related entry in your notes."
	}
	return fmt.Sprintf("Found %d related entries in your notes.", count)
}
