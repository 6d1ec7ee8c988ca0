package entity

import (
	"context"
	"time"
)

// ChatMessage is one turn of the conversation owned by the chat subsystem.
// Read-only input here: the follow-up generator consumes the transcript, it
// never writes it.
type ChatMessage struct {
	Role      string    `json:"role"` // "user" | "assistant"
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatTranscriptInterface interface {
	ListBySession(ctx context.Context, sessionID string) ([]ChatMessage, error)
}
