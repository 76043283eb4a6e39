package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	pgrepo "github.com/jack-boyd5/geartrade/internal/repo/postgres"
)

type UserStore interface {
	Create(ctx context.Context, username, email, passwordHash, location, bio string) (pgrepo.UserRecord, error)
	FindByUsername(ctx context.Context, username string) (pgrepo.UserRecord, error)
	FindByID(ctx context.Context, userID int64) (pgrepo.UserRecord, error)
}

type SessionStore interface {
	Create(ctx context.Context, session SessionRecord) error
	Get(ctx context.Context, sid string) (SessionRecord, error)
	Delete(ctx context.Context, sid string) error
	DeleteAllForUser(ctx context.Context, userID int64) error
}

type SignupInput struct {
	Username string
	Email    string
	Password string
	Location string
	Bio      string
}

type Service struct {
	jwt        *JWTManager
	users      UserStore
	sessions   SessionStore
	sessionTTL time.Duration
	now        func() time.Time
}

func NewService(jwtManager *JWTManager, users UserStore, sessions SessionStore, sessionTTL time.Duration) *Service {
	if sessionTTL <= 0 {
		sessionTTL = 7 * 24 * time.Hour
	}

	return &Service{
		jwt:        jwtManager,
		users:      users,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

func (s *Service) Signup(ctx context.Context, input SignupInput) (AuthResult, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	if username == "" || email == "" || len(input.Password) < 6 {
		return AuthResult{}, ErrInvalidInput
	}
	if s.users == nil || s.sessions == nil || s.jwt == nil {
		return AuthResult{}, fmt.Errorf("auth dependencies are not configured")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, username, email, string(hash), strings.TrimSpace(input.Location), strings.TrimSpace(input.Bio))
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserExists) {
			return AuthResult{}, ErrUserExists
		}
		return AuthResult{}, fmt.Errorf("create user: %w", err)
	}

	return s.issueForUser(ctx, user.ID, user.Username)
}

func (s *Service) Login(ctx context.Context, username, password string) (AuthResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return AuthResult{}, ErrInvalidInput
	}
	if s.users == nil || s.sessions == nil || s.jwt == nil {
		return AuthResult{}, fmt.Errorf("auth dependencies are not configured")
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return AuthResult{}, ErrUnauthorized
		}
		return AuthResult{}, fmt.Errorf("find user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return AuthResult{}, ErrUnauthorized
	}

	return s.issueForUser(ctx, user.ID, user.Username)
}

// Logout drops every live session for the user, mirroring the
// delete-all-sessions behavior of the logout endpoint.
func (s *Service) Logout(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return ErrInvalidInput
	}
	if err := s.sessions.DeleteAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("delete sessions: %w", err)
	}
	return nil
}

func (s *Service) Me(ctx context.Context, userID int64) (Me, error) {
	if userID <= 0 {
		return Me{}, ErrInvalidInput
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return Me{}, ErrUnauthorized
		}
		return Me{}, fmt.Errorf("load user: %w", err)
	}

	return Me{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		Location:     user.Location,
		Bio:          user.Bio,
		ProfilePhoto: user.ProfilePhoto,
		CreatedAt:    user.CreatedAt,
	}, nil
}

// ValidateAccessToken checks the JWT signature and that the session it names
// is still alive in the session store, so logout revokes tokens immediately.
func (s *Service) ValidateAccessToken(ctx context.Context, token string) (Identity, error) {
	if s.jwt == nil || s.sessions == nil {
		return Identity{}, fmt.Errorf("auth dependencies are not configured")
	}

	claims, err := s.jwt.ParseAccessToken(token)
	if err != nil {
		return Identity{}, ErrUnauthorized
	}

	session, err := s.sessions.Get(ctx, claims.SID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return Identity{}, ErrUnauthorized
		}
		return Identity{}, fmt.Errorf("load session: %w", err)
	}
	if session.UserID != claims.UserID || s.now().After(session.ExpiresAt) {
		return Identity{}, ErrUnauthorized
	}

	return Identity{UserID: claims.UserID, SID: claims.SID}, nil
}

func (s *Service) issueForUser(ctx context.Context, userID int64, username string) (AuthResult, error) {
	sid := uuid.NewString()
	expiresAt := s.now().UTC().Add(s.sessionTTL)

	if err := s.sessions.Create(ctx, SessionRecord{
		SID:       sid,
		UserID:    userID,
		ExpiresAt: expiresAt,
	}); err != nil {
		return AuthResult{}, fmt.Errorf("create session: %w", err)
	}

	token, tokenExpires, err := s.jwt.GenerateAccessToken(userID, sid)
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate access token: %w", err)
	}

	return AuthResult{
		UserID:    userID,
		Username:  username,
		Token:     token,
		ExpiresAt: tokenExpires,
	}, nil
}
