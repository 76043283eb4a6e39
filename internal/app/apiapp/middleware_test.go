package apiapp

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	redrepo "github.com/jack-boyd5/geartrade/internal/repo/redis"
	authsvc "github.com/jack-boyd5/geartrade/internal/services/auth"
)

func newMiddlewareAuthService(t *testing.T) *authsvc.Service {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	jwtManager := authsvc.NewJWTManager("test-secret", time.Hour)
	return authsvc.NewService(jwtManager, nil, redrepo.NewSessionRepo(client), time.Hour)
}

func TestAuthMiddlewareRejectsMissingBearer(t *testing.T) {
	mw := AuthMiddleware(newMiddlewareAuthService(t), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/matches", nil)
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatalf("handler must not be called without a bearer token")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddlewareRejectsInvalidToken(t *testing.T) {
	mw := AuthMiddleware(newMiddlewareAuthService(t), zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/matches", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatalf("handler must not be called with an invalid token")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestExtractBearerToken(t *testing.T) {
	cases := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc123", "abc123", true},
		{"bearer abc123", "abc123", true},
		{"Bearer ", "", false},
		{"Basic abc123", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := extractBearerToken(tc.header)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("header %q: got (%q, %v) want (%q, %v)", tc.header, got, ok, tc.want, tc.ok)
		}
	}
}
