package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

type UserRepo struct {
	pool *pgxpool.Pool
}

type UserRecord struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Location     string
	Bio          string
	ProfilePhoto string
	CreatedAt    time.Time
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, username, email, passwordHash, location, bio string) (UserRecord, error) {
	if r.pool == nil {
		return UserRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" || passwordHash == "" {
		return UserRecord{}, fmt.Errorf("invalid user payload")
	}

	var user UserRecord
	err := r.pool.QueryRow(ctx, `
INSERT INTO users (username, email, password_hash, location, bio, created_at)
VALUES ($1, $2, $3, $4, $5, NOW())
RETURNING id, username, email, password_hash, location, bio, profile_photo, created_at
`, username, email, passwordHash, location, bio).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Location,
		&user.Bio,
		&user.ProfilePhoto,
		&user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return UserRecord{}, ErrUserExists
		}
		return UserRecord{}, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (UserRecord, error) {
	if r.pool == nil {
		return UserRecord{}, fmt.Errorf("postgres pool is nil")
	}

	var user UserRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, username, email, password_hash, location, bio, profile_photo, created_at
FROM users
WHERE username = $1
`, username).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Location,
		&user.Bio,
		&user.ProfilePhoto,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserRecord{}, ErrUserNotFound
		}
		return UserRecord{}, fmt.Errorf("find user by username: %w", err)
	}

	return user, nil
}

func (r *UserRepo) FindByID(ctx context.Context, userID int64) (UserRecord, error) {
	if r.pool == nil {
		return UserRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return UserRecord{}, fmt.Errorf("invalid user id")
	}

	var user UserRecord
	err := r.pool.QueryRow(ctx, `
SELECT id, username, email, password_hash, location, bio, profile_photo, created_at
FROM users
WHERE id = $1
`, userID).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Location,
		&user.Bio,
		&user.ProfilePhoto,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserRecord{}, ErrUserNotFound
		}
		return UserRecord{}, fmt.Errorf("find user by id: %w", err)
	}

	return user, nil
}

func (r *UserRepo) UpdateProfilePhoto(ctx context.Context, userID int64, objectKey string) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 || strings.TrimSpace(objectKey) == "" {
		return fmt.Errorf("invalid profile photo payload")
	}

	result, err := r.pool.Exec(ctx, `
UPDATE users SET profile_photo = $2 WHERE id = $1
`, userID, objectKey)
	if err != nil {
		return fmt.Errorf("update profile photo: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}
