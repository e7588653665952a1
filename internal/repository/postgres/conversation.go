package postgres

import (
	"context"
	"errors"
	"fmt"

	"parcelpeer/internal/entities"

	"github.com/jackc/pgx/v5"
)

const (
	insertConversationQuery = `
INSERT INTO conversations (id, parcel_id, participant1_id, participant2_id)
VALUES ($1, $2, $3, $4)
ON CONFLICT DO NOTHING`
	selectConversationByPairQuery = `
SELECT id, parcel_id, participant1_id, participant2_id, created_at
FROM conversations
WHERE participant1_id = $1 AND participant2_id = $2 AND COALESCE(parcel_id, '') = COALESCE($3, '')`
	selectConversationQuery = `SELECT id, parcel_id, participant1_id, participant2_id, created_at FROM conversations WHERE id = $1`
	listConversationsQuery  = `
SELECT c.id, c.parcel_id, c.participant1_id, c.participant2_id, c.created_at,
       o.name, COALESCE(lm.text, ''), lm.created_at
FROM conversations c
JOIN users o ON o.id = CASE WHEN c.participant1_id = $1 THEN c.participant2_id ELSE c.participant1_id END
LEFT JOIN LATERAL (
    SELECT m.text, m.created_at
    FROM messages m
    WHERE m.conversation_id = c.id
    ORDER BY m.created_at DESC, m.id DESC
    LIMIT 1
) lm ON true
WHERE c.participant1_id = $1 OR c.participant2_id = $1
ORDER BY COALESCE(lm.created_at, c.created_at) DESC`
	insertMessageQuery = `
INSERT INTO messages (id, conversation_id, sender_id, text)
VALUES ($1, $2, $3, $4)
RETURNING created_at`
	listMessagesQuery = `
SELECT id, conversation_id, sender_id, text, created_at
FROM (
    SELECT id, conversation_id, sender_id, text, created_at
    FROM messages
    WHERE conversation_id = $1
    ORDER BY created_at DESC, id DESC
    LIMIT $2
) recent
ORDER BY created_at, id`
)

func scanConversation(row scanner) (*entities.Conversation, error) {
	var c entities.Conversation
	if err := row.Scan(&c.ID, &c.ParcelID, &c.Participant1ID, &c.Participant2ID, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetOrCreateConversation returns the conversation for the participant pair, creating it once.
// Participants must already be in sorted order.
func (p *Postgres) GetOrCreateConversation(ctx context.Context, c entities.Conversation) (*entities.Conversation, error) {
	if _, err := p.db.Exec(ctx, insertConversationQuery,
		orNewID(c.ID), c.ParcelID, c.Participant1ID, c.Participant2ID); err != nil {
		p.log.Errorw("failed to insert conversation", "error", err)
		return nil, fmt.Errorf("insert conversation: %w", err)
	}

	conv, err := scanConversation(p.db.QueryRow(ctx, selectConversationByPairQuery,
		c.Participant1ID, c.Participant2ID, c.ParcelID))
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}
	return conv, nil
}

// GetConversation loads a conversation.
func (p *Postgres) GetConversation(ctx context.Context, id string) (*entities.Conversation, error) {
	conv, err := scanConversation(p.db.QueryRow(ctx, selectConversationQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrConversationNotFound
		}
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	return conv, nil
}

// ListConversations returns the user's conversations with the latest message first.
func (p *Postgres) ListConversations(ctx context.Context, userID string) ([]entities.Conversation, error) {
	rows, err := p.db.Query(ctx, listConversationsQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	convs := make([]entities.Conversation, 0)
	for rows.Next() {
		var c entities.Conversation
		if err := rows.Scan(&c.ID, &c.ParcelID, &c.Participant1ID, &c.Participant2ID, &c.CreatedAt,
			&c.OtherUserName, &c.LastMessage, &c.LastMessageTime); err != nil {
			p.log.Errorw("failed to scan conversation", "error", err, "user_id", userID)
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		convs = append(convs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversations: %w", err)
	}
	return convs, nil
}

// CreateMessage stores a chat message.
func (p *Postgres) CreateMessage(ctx context.Context, m entities.Message) (*entities.Message, error) {
	m.ID = orNewID(m.ID)
	if err := p.db.QueryRow(ctx, insertMessageQuery, m.ID, m.ConversationID, m.SenderID, m.Text).Scan(&m.CreatedAt); err != nil {
		p.log.Errorw("failed to insert message", "error", err, "conversation_id", m.ConversationID)
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return &m, nil
}

// ListMessages returns the latest limit messages oldest first.
func (p *Postgres) ListMessages(ctx context.Context, conversationID string, limit int) ([]entities.Message, error) {
	rows, err := p.db.Query(ctx, listMessagesQuery, conversationID, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	msgs := make([]entities.Message, 0, limit)
	for rows.Next() {
		var m entities.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Text, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return msgs, nil
}
