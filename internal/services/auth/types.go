package auth

import (
	"errors"
	"time"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrUserExists      = errors.New("user already exists")
	ErrSessionNotFound = errors.New("session not found")
)

type SessionRecord struct {
	SID       string
	UserID    int64
	ExpiresAt time.Time
}

type Identity struct {
	UserID int64
	SID    string
}

type AccessClaims struct {
	UserID    int64
	SID       string
	ExpiresAt time.Time
}

type Me struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Location     string    `json:"location"`
	Bio          string    `json:"bio"`
	ProfilePhoto string    `json:"profile_photo"`
	CreatedAt    time.Time `json:"created_at"`
}

type AuthResult struct {
	UserID    int64
	Username  string
	Token     string
	ExpiresAt time.Time
}
