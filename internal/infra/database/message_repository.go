package database

import (
	"context"
	"database/sql"

	"github.com/lloydpilapil/pixelmojo-leads/internal/entity"
)

// MessageRepository reads the chat transcript the chat subsystem owns. This
// engine never writes messages.
type MessageRepository struct {
	DB *sql.DB
}

func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{DB: db}
}

func (r *MessageRepository) ListBySession(ctx context.Context, sessionID string) ([]entity.ChatMessage, error) {
	query := `
		SELECT role, content, created_at
		FROM chat_messages
		WHERE session_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.DB.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []entity.ChatMessage{}
	for rows.Next() {
		var m entity.ChatMessage
		if err := rows.Scan(&m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
