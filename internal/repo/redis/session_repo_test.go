package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	authsvc "github.com/jack-boyd5/geartrade/internal/services/auth"
)

func newTestRepo(t *testing.T) (*SessionRepo, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewSessionRepo(client), mr
}

func TestSessionRoundTrip(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	expiresAt := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	if err := repo.Create(ctx, authsvc.SessionRecord{SID: "sid-1", UserID: 42, ExpiresAt: expiresAt}); err != nil {
		t.Fatalf("create: %v", err)
	}

	session, err := repo.Get(ctx, "sid-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if session.UserID != 42 {
		t.Fatalf("unexpected user id: %d", session.UserID)
	}
	if !session.ExpiresAt.Equal(expiresAt) {
		t.Fatalf("unexpected expiry: got %v want %v", session.ExpiresAt, expiresAt)
	}
}

func TestGetMissingSession(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.Get(context.Background(), "nope")
	if !errors.Is(err, authsvc.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestDeleteRemovesSessionAndSetMembership(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Create(ctx, authsvc.SessionRecord{SID: "sid-1", UserID: 42, ExpiresAt: time.Now().Add(time.Hour)}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Delete(ctx, "sid-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := repo.Get(ctx, "sid-1"); !errors.Is(err, authsvc.ErrSessionNotFound) {
		t.Fatalf("expected deleted session to be gone, got %v", err)
	}
	if mr.Exists("sessions:sid-1") {
		t.Fatalf("session key still present after delete")
	}

	// deleting an absent session is a no-op
	if err := repo.Delete(ctx, "sid-1"); err != nil {
		t.Fatalf("delete absent: %v", err)
	}
}

func TestDeleteAllForUser(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	for _, sid := range []string{"sid-1", "sid-2"} {
		if err := repo.Create(ctx, authsvc.SessionRecord{SID: sid, UserID: 42, ExpiresAt: time.Now().Add(time.Hour)}); err != nil {
			t.Fatalf("create %s: %v", sid, err)
		}
	}
	if err := repo.Create(ctx, authsvc.SessionRecord{SID: "sid-other", UserID: 7, ExpiresAt: time.Now().Add(time.Hour)}); err != nil {
		t.Fatalf("create other: %v", err)
	}

	if err := repo.DeleteAllForUser(ctx, 42); err != nil {
		t.Fatalf("delete all: %v", err)
	}

	for _, sid := range []string{"sid-1", "sid-2"} {
		if _, err := repo.Get(ctx, sid); !errors.Is(err, authsvc.ErrSessionNotFound) {
			t.Fatalf("expected %s to be gone, got %v", sid, err)
		}
	}
	if _, err := repo.Get(ctx, "sid-other"); err != nil {
		t.Fatalf("other user's session must survive: %v", err)
	}
}

func TestSessionExpiresWithTTL(t *testing.T) {
	repo, mr := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Create(ctx, authsvc.SessionRecord{SID: "sid-1", UserID: 42, ExpiresAt: time.Now().Add(time.Minute)}); err != nil {
		t.Fatalf("create: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := repo.Get(ctx, "sid-1"); !errors.Is(err, authsvc.ErrSessionNotFound) {
		t.Fatalf("expected expired session to be gone, got %v", err)
	}
}
