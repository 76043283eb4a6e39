package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageRepo struct {
	pool *pgxpool.Pool
}

type MessageRecord struct {
	ID         int64
	SenderID   int64
	ReceiverID int64
	Content    string
	IsRead     bool
	CreatedAt  time.Time
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

func (r *MessageRepo) Create(ctx context.Context, tx pgx.Tx, senderID, receiverID int64, content string) (int64, error) {
	if tx == nil {
		return 0, fmt.Errorf("transaction is required")
	}
	if senderID <= 0 || receiverID <= 0 || strings.TrimSpace(content) == "" {
		return 0, fmt.Errorf("invalid message payload")
	}

	var id int64
	err := tx.QueryRow(ctx, `
INSERT INTO messages (sender_id, receiver_id, content, is_read, created_at)
VALUES ($1, $2, $3, FALSE, NOW())
RETURNING id
`, senderID, receiverID, content).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create message: %w", err)
	}

	return id, nil
}

func (r *MessageRepo) ListConversation(ctx context.Context, tx pgx.Tx, userID, otherID int64) ([]MessageRecord, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction is required")
	}
	if userID <= 0 || otherID <= 0 {
		return nil, fmt.Errorf("invalid conversation pair")
	}

	rows, err := tx.Query(ctx, `
SELECT id, sender_id, receiver_id, content, is_read, created_at
FROM messages
WHERE (sender_id = $1 AND receiver_id = $2)
	OR (sender_id = $2 AND receiver_id = $1)
ORDER BY created_at ASC, id ASC
`, userID, otherID)
	if err != nil {
		return nil, fmt.Errorf("list conversation: %w", err)
	}
	defer rows.Close()

	var items []MessageRecord
	for rows.Next() {
		var rec MessageRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.SenderID,
			&rec.ReceiverID,
			&rec.Content,
			&rec.IsRead,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		items = append(items, rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate messages: %w", rows.Err())
	}

	return items, nil
}

// MarkRead flips every unread message from otherID to userID; called in the
// same transaction as the conversation read.
func (r *MessageRepo) MarkRead(ctx context.Context, tx pgx.Tx, userID, otherID int64) error {
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}
	if userID <= 0 || otherID <= 0 {
		return fmt.Errorf("invalid conversation pair")
	}

	if _, err := tx.Exec(ctx, `
UPDATE messages SET is_read = TRUE
WHERE sender_id = $2 AND receiver_id = $1 AND NOT is_read
`, userID, otherID); err != nil {
		return fmt.Errorf("mark messages read: %w", err)
	}

	return nil
}

func (r *MessageRepo) CountUnread(ctx context.Context, userID int64) (int64, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return 0, fmt.Errorf("invalid user id")
	}

	var count int64
	if err := r.pool.QueryRow(ctx, `
SELECT COUNT(*) FROM messages WHERE receiver_id = $1 AND NOT is_read
`, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count unread messages: %w", err)
	}

	return count, nil
}
