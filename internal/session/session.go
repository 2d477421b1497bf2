package session

import (
	"github.com/google/uuid"

	"github.com/alan-mat/sway/internal/api"
)

// HistoryLimit caps retained conversation turns; only the most recent
// ones inform the next completion.
const HistoryLimit = 5

// Session is the per-user chat context: conversation history and the
// vector collection of the currently uploaded document, if any. It is
// mutated only by its own requests and lives for the session's lifetime.
type Session struct {
	ID           string             `json:"id"`
	History      []*api.ChatMessage `json:"history"`
	Collection   string             `json:"collection,omitempty"`
	DocumentName string             `json:"document_name,omitempty"`
}

func New() *Session {
	return &Session{
		ID: uuid.NewString(),
	}
}

// Append records a conversation turn, discarding the oldest once the
// history limit is exceeded.
func (s *Session) Append(role api.ChatMessageRole, content string) {
	s.History = append(s.History, &api.ChatMessage{
		Role:    role,
		Content: content,
	})
	if len(s.History) > HistoryLimit {
		s.History = s.History[len(s.History)-HistoryLimit:]
	}
}
