package domain

import "time"

// AskNote is the note slice forwarded to the answer generator. Only content,
// tags and creation time leave the client; ids and flags never do.
type AskNote struct {
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
}

type AskRequest struct {
	Question string    `json:"question" validate:"required"`
	Notes    []AskNote `json:"notes"`
}

type AskResponse struct {
	Answer string `json:"answer"`
}

// ForAsk strips a note down to the fields the answer generator may see.
func (n *Note) ForAsk() AskNote {
	return AskNote{
		Content:   n.Content,
		Tags:      n.Tags,
		CreatedAt: n.CreatedAt,
	}
}
