package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	goredis "github.com/redis/go-redis/v9"

	pgrepo "github.com/jack-boyd5/geartrade/internal/repo/postgres"
	redrepo "github.com/jack-boyd5/geartrade/internal/repo/redis"
	authsvc "github.com/jack-boyd5/geartrade/internal/services/auth"
	"github.com/jack-boyd5/geartrade/internal/transport/http/dto"
	httperrors "github.com/jack-boyd5/geartrade/internal/transport/http/errors"
)

type authUserStoreStub struct {
	users  map[string]pgrepo.UserRecord
	nextID int64
}

func (s *authUserStoreStub) Create(_ context.Context, username, email, passwordHash, location, bio string) (pgrepo.UserRecord, error) {
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

func (s *authUserStoreStub) FindByUsername(_ context.Context, username string) (pgrepo.UserRecord, error) {
	user, ok := s.users[username]
	if !ok {
		return pgrepo.UserRecord{}, pgrepo.ErrUserNotFound
	}
	return user, nil
}

func (s *authUserStoreStub) FindByID(_ context.Context, userID int64) (pgrepo.UserRecord, error) {
	for _, user := range s.users {
		if user.ID == userID {
			return user, nil
		}
	}
	return pgrepo.UserRecord{}, pgrepo.ErrUserNotFound
}

func newAuthService(t *testing.T) *authsvc.Service {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	jwtManager := authsvc.NewJWTManager("test-secret", time.Hour)
	return authsvc.NewService(jwtManager, &authUserStoreStub{}, redrepo.NewSessionRepo(client), time.Hour)
}

func withURLParam(ctx context.Context, key, value string) context.Context {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
}

func TestSignupThenLoginRoundTrip(t *testing.T) {
	handler := NewAuthHandler(newAuthService(t))

	body := `{"username":"jack","email":"jack@example.com","password":"secret1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler.Signup(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("signup status: got %d want %d, body %s", rr.Code, http.StatusCreated, rr.Body.String())
	}

	var signupResp dto.AuthTokenResponse
	if err := json.NewDecoder(rr.Body).Decode(&signupResp); err != nil {
		t.Fatalf("decode signup response: %v", err)
	}
	if signupResp.AccessToken == "" || signupResp.Username != "jack" {
		t.Fatalf("unexpected signup response: %+v", signupResp)
	}
	if signupResp.ExpiresInSec <= 0 {
		t.Fatalf("expected a positive expiry, got %d", signupResp.ExpiresInSec)
	}
}

func TestSignupDuplicateReturns409(t *testing.T) {
	handler := NewAuthHandler(newAuthService(t))

	body := `{"username":"jack","email":"jack@example.com","password":"secret1"}`
	first := httptest.NewRecorder()
	handler.Signup(first, httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(body)))
	if first.Code != http.StatusCreated {
		t.Fatalf("first signup status: %d", first.Code)
	}

	second := httptest.NewRecorder()
	handler.Signup(second, httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(body)))
	if second.Code != http.StatusConflict {
		t.Fatalf("duplicate signup status: got %d want %d", second.Code, http.StatusConflict)
	}

	var apiErr httperrors.APIError
	if err := json.NewDecoder(second.Body).Decode(&apiErr); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if apiErr.Code != "USER_EXISTS" {
		t.Fatalf("unexpected error code: %q", apiErr.Code)
	}
}

func TestLoginBadCredentialsReturns401(t *testing.T) {
	handler := NewAuthHandler(newAuthService(t))

	body := `{"username":"nobody","password":"whatever"}`
	rr := httptest.NewRecorder()
	handler.Login(rr, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body)))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("login status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestSignupRejectsMalformedBody(t *testing.T) {
	handler := NewAuthHandler(newAuthService(t))

	rr := httptest.NewRecorder()
	handler.Signup(rr, httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader("{not json")))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("signup status: got %d want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestMeRequiresIdentity(t *testing.T) {
	handler := NewAuthHandler(newAuthService(t))

	rr := httptest.NewRecorder()
	handler.Me(rr, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("me status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}
