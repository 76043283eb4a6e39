package matches

import (
	"context"
	"errors"
	"fmt"
	"time"

	pgrepo "github.com/jack-boyd5/geartrade/internal/repo/postgres"
)

var ErrValidation = errors.New("validation error")

type MatchStore interface {
	ListForUser(ctx context.Context, userID int64, limit int) ([]pgrepo.MatchViewRecord, error)
}

// MatchView is one directory entry, already resolved to "my side" and
// "their side" for the requesting user.
type MatchView struct {
	CounterpartUserID   int64
	CounterpartUsername string
	CounterpartLocation string
	MyListingID         int64
	TheirListingID      int64
	TheirListingLabel   string
	TheirListingEmoji   string
	UnreadCount         int64
	MatchedAt           time.Time
}

type Service struct {
	matchStore MatchStore
	limit      int
}

func NewService(matchStore MatchStore, limit int) *Service {
	if limit <= 0 {
		limit = 100
	}
	return &Service{
		matchStore: matchStore,
		limit:      limit,
	}
}

// List is a pure read projection, safe to poll.
func (s *Service) List(ctx context.Context, userID int64) ([]MatchView, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if s.matchStore == nil {
		return nil, fmt.Errorf("match store is nil")
	}

	rows, err := s.matchStore.ListForUser(ctx, userID, s.limit)
	if err != nil {
		return nil, err
	}

	items := make([]MatchView, 0, len(rows))
	for _, row := range rows {
		items = append(items, MatchView{
			CounterpartUserID:   row.CounterpartUserID,
			CounterpartUsername: row.CounterpartUsername,
			CounterpartLocation: row.CounterpartLocation,
			MyListingID:         row.MyListingID,
			TheirListingID:      row.TheirListingID,
			TheirListingLabel:   row.TheirListingLabel,
			TheirListingEmoji:   row.TheirListingEmoji,
			UnreadCount:         row.UnreadCount,
			MatchedAt:           row.MatchedAt,
		})
	}
	return items, nil
}
