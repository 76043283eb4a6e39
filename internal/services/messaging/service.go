package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	pgrepo "github.com/jack-boyd5/geartrade/internal/repo/postgres"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotMatched = errors.New("users are not matched")
)

type MatchStore interface {
	ExistsForPair(ctx context.Context, userID, otherID int64) (bool, error)
}

type MessageStore interface {
	Create(ctx context.Context, tx pgx.Tx, senderID, receiverID int64, content string) (int64, error)
	ListConversation(ctx context.Context, tx pgx.Tx, userID, otherID int64) ([]pgrepo.MessageRecord, error)
	MarkRead(ctx context.Context, tx pgx.Tx, userID, otherID int64) error
	CountUnread(ctx context.Context, userID int64) (int64, error)
}

type Message struct {
	ID         int64
	SenderID   int64
	ReceiverID int64
	Content    string
	IsRead     bool
	CreatedAt  time.Time
}

type Service struct {
	pool       *pgxpool.Pool
	matches    MatchStore
	messages   MessageStore
	maxContent int
	runTx      func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error
}

type Dependencies struct {
	Pool     *pgxpool.Pool
	Matches  MatchStore
	Messages MessageStore
}

func NewService(deps Dependencies, maxContent int) *Service {
	if maxContent <= 0 {
		maxContent = 4000
	}
	s := &Service{
		pool:       deps.Pool,
		matches:    deps.Matches,
		messages:   deps.Messages,
		maxContent: maxContent,
	}
	s.runTx = func(ctx context.Context, fn func(context.Context, pgx.Tx) error) error {
		return pgrepo.WithTx(ctx, s.pool, fn)
	}
	return s
}

// CanMessage is a pure predicate over match existence for the canonical pair.
func (s *Service) CanMessage(ctx context.Context, senderID, receiverID int64) (bool, error) {
	if senderID <= 0 || receiverID <= 0 || senderID == receiverID {
		return false, ErrValidation
	}
	if s.matches == nil {
		return false, fmt.Errorf("match store is nil")
	}
	return s.matches.ExistsForPair(ctx, senderID, receiverID)
}

func (s *Service) SendMessage(ctx context.Context, senderID, receiverID int64, content string) (int64, error) {
	content = strings.TrimSpace(content)
	if senderID <= 0 || receiverID <= 0 || senderID == receiverID {
		return 0, ErrValidation
	}
	if content == "" || len(content) > s.maxContent {
		return 0, ErrValidation
	}
	if s.matches == nil || s.messages == nil {
		return 0, fmt.Errorf("messaging dependencies are not configured")
	}

	// Matches are immutable once created, so the gate check does not need
	// to share the insert transaction to stay correct.
	allowed, err := s.matches.ExistsForPair(ctx, senderID, receiverID)
	if err != nil {
		return 0, err
	}
	if !allowed {
		return 0, ErrNotMatched
	}

	var messageID int64
	if err := s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		id, err := s.messages.Create(txCtx, tx, senderID, receiverID, content)
		if err != nil {
			return err
		}
		messageID = id
		return nil
	}); err != nil {
		return 0, err
	}

	return messageID, nil
}

// ListConversation returns the full history oldest-first and marks the
// counterpart's unread messages read as a side effect of the same
// transaction.
func (s *Service) ListConversation(ctx context.Context, userID, otherID int64) ([]Message, error) {
	if userID <= 0 || otherID <= 0 || userID == otherID {
		return nil, ErrValidation
	}
	if s.messages == nil {
		return nil, fmt.Errorf("message store is nil")
	}

	var records []pgrepo.MessageRecord
	if err := s.runTx(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		rows, err := s.messages.ListConversation(txCtx, tx, userID, otherID)
		if err != nil {
			return err
		}
		records = rows
		return s.messages.MarkRead(txCtx, tx, userID, otherID)
	}); err != nil {
		return nil, err
	}

	items := make([]Message, 0, len(records))
	for _, rec := range records {
		items = append(items, Message{
			ID:         rec.ID,
			SenderID:   rec.SenderID,
			ReceiverID: rec.ReceiverID,
			Content:    rec.Content,
			IsRead:     rec.IsRead,
			CreatedAt:  rec.CreatedAt,
		})
	}
	return items, nil
}

func (s *Service) UnreadTotal(ctx context.Context, userID int64) (int64, error) {
	if userID <= 0 {
		return 0, ErrValidation
	}
	if s.messages == nil {
		return 0, fmt.Errorf("message store is nil")
	}
	return s.messages.CountUnread(ctx, userID)
}
