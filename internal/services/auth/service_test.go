package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	pgrepo "github.com/jack-boyd5/geartrade/internal/repo/postgres"
	redrepo "github.com/jack-boyd5/geartrade/internal/repo/redis"
	"github.com/jack-boyd5/geartrade/internal/services/auth"
)

type userStoreStub struct {
	users     map[string]pgrepo.UserRecord
	nextID    int64
	createErr error
}

func (s *userStoreStub) Create(_ context.Context, username, email, passwordHash, location, bio string) (pgrepo.UserRecord, error) {
	if s.createErr != nil {
		return pgrepo.UserRecord{}, s.createErr
	}
	if _, exists := s.users[username]; exists {
		return pgrepo.UserRecord{}, pgrepo.ErrUserExists
	}
	s.nextID++
	user := pgrepo.UserRecord{
		ID:           s.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Location:     location,
		Bio:          bio,
		CreatedAt:    time.Now().UTC(),
	}
	if s.users == nil {
		s.users = map[string]pgrepo.UserRecord{}
	}
	s.users[username] = user
	return user, nil
}

func (s *userStoreStub) FindByUsername(_ context.Context, username string) (pgrepo.UserRecord, error) {
	user, ok := s.users[username]
	if !ok {
		return pgrepo.UserRecord{}, pgrepo.ErrUserNotFound
	}
	return user, nil
}

func (s *userStoreStub) FindByID(_ context.Context, userID int64) (pgrepo.UserRecord, error) {
	for _, user := range s.users {
		if user.ID == userID {
			return user, nil
		}
	}
	return pgrepo.UserRecord{}, pgrepo.ErrUserNotFound
}

func newRedisSessions(t *testing.T) *redrepo.SessionRepo {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return redrepo.NewSessionRepo(client)
}

func newTestService(t *testing.T, users *userStoreStub) *auth.Service {
	t.Helper()
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	return auth.NewService(jwtManager, users, newRedisSessions(t), time.Hour)
}

func TestSignupIssuesUsableToken(t *testing.T) {
	svc := newTestService(t, &userStoreStub{})

	res, err := svc.Signup(context.Background(), auth.SignupInput{
		Username: "jack",
		Email:    "jack@example.com",
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if res.UserID != 1 || res.Username != "jack" {
		t.Fatalf("unexpected auth result: %+v", res)
	}
	if res.Token == "" {
		t.Fatalf("expected an access token")
	}

	identity, err := svc.ValidateAccessToken(context.Background(), res.Token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if identity.UserID != 1 {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestSignupDuplicateUsername(t *testing.T) {
	svc := newTestService(t, &userStoreStub{})

	if _, err := svc.Signup(context.Background(), auth.SignupInput{Username: "jack", Email: "a@b.c", Password: "secret1"}); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	_, err := svc.Signup(context.Background(), auth.SignupInput{Username: "jack", Email: "d@e.f", Password: "secret2"})
	if !errors.Is(err, auth.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestSignupValidation(t *testing.T) {
	svc := newTestService(t, &userStoreStub{})

	cases := []auth.SignupInput{
		{Username: "", Email: "a@b.c", Password: "secret1"},
		{Username: "jack", Email: "", Password: "secret1"},
		{Username: "jack", Email: "a@b.c", Password: "short"},
	}
	for _, input := range cases {
		if _, err := svc.Signup(context.Background(), input); !errors.Is(err, auth.ErrInvalidInput) {
			t.Fatalf("input %+v: expected ErrInvalidInput, got %v", input, err)
		}
	}
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	users := &userStoreStub{users: map[string]pgrepo.UserRecord{
		"jack": {ID: 1, Username: "jack", PasswordHash: string(hash)},
	}}
	svc := newTestService(t, users)

	if _, err := svc.Login(context.Background(), "jack", "wrong"); !errors.Is(err, auth.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for wrong password, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "nobody", "secret1"); !errors.Is(err, auth.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for unknown user, got %v", err)
	}

	res, err := svc.Login(context.Background(), "jack", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.UserID != 1 {
		t.Fatalf("unexpected user id: %d", res.UserID)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	svc := newTestService(t, &userStoreStub{})

	res, err := svc.Signup(context.Background(), auth.SignupInput{Username: "jack", Email: "a@b.c", Password: "secret1"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	if err := svc.Logout(context.Background(), res.UserID); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if _, err := svc.ValidateAccessToken(context.Background(), res.Token); !errors.Is(err, auth.ErrUnauthorized) {
		t.Fatalf("expected revoked token to be rejected, got %v", err)
	}
}

func TestValidateAccessTokenRejectsGarbage(t *testing.T) {
	svc := newTestService(t, &userStoreStub{})

	if _, err := svc.ValidateAccessToken(context.Background(), "not-a-jwt"); !errors.Is(err, auth.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
