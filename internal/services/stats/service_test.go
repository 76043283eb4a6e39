package stats

import (
	"context"
	"errors"
	"testing"

	pgrepo "github.com/jack-boyd5/geartrade/internal/repo/postgres"
)

type statsStoreStub struct {
	rec      pgrepo.UserStatsRecord
	lastUser int64
}

func (s *statsStoreStub) ForUser(_ context.Context, userID int64) (pgrepo.UserStatsRecord, error) {
	s.lastUser = userID
	return s.rec, nil
}

func TestForUser(t *testing.T) {
	store := &statsStoreStub{rec: pgrepo.UserStatsRecord{
		Matches:       2,
		LikesGiven:    5,
		LikesReceived: 3,
		Listings:      1,
		TotalViews:    40,
	}}
	svc := NewService(store)

	stats, err := svc.ForUser(context.Background(), 7)
	if err != nil {
		t.Fatalf("for user: %v", err)
	}
	if store.lastUser != 7 {
		t.Fatalf("unexpected store call: %d", store.lastUser)
	}
	if stats.Matches != 2 || stats.LikesGiven != 5 || stats.LikesReceived != 3 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.Listings != 1 || stats.TotalViews != 40 {
		t.Fatalf("unexpected listing stats: %+v", stats)
	}
}

func TestForUserValidation(t *testing.T) {
	svc := NewService(&statsStoreStub{})

	if _, err := svc.ForUser(context.Background(), 0); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
