package stats

import (
	"context"
	"errors"
	"fmt"

	pgrepo "github.com/jack-boyd5/geartrade/internal/repo/postgres"
)

var ErrValidation = errors.New("validation error")

type StatsStore interface {
	ForUser(ctx context.Context, userID int64) (pgrepo.UserStatsRecord, error)
}

type UserStats struct {
	Matches       int64
	LikesGiven    int64
	LikesReceived int64
	Listings      int64
	TotalViews    int64
}

type Service struct {
	store StatsStore
}

func NewService(store StatsStore) *Service {
	return &Service{store: store}
}

func (s *Service) ForUser(ctx context.Context, userID int64) (UserStats, error) {
	if userID <= 0 {
		return UserStats{}, ErrValidation
	}
	if s.store == nil {
		return UserStats{}, fmt.Errorf("stats store is nil")
	}

	rec, err := s.store.ForUser(ctx, userID)
	if err != nil {
		return UserStats{}, err
	}

	return UserStats{
		Matches:       rec.Matches,
		LikesGiven:    rec.LikesGiven,
		LikesReceived: rec.LikesReceived,
		Listings:      rec.Listings,
		TotalViews:    rec.TotalViews,
	}, nil
}
