package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrMatchNotFound = errors.New("match not found")

type MatchRepo struct {
	pool *pgxpool.Pool
}

type MatchRecord struct {
	ID         int64
	UserAID    int64
	UserBID    int64
	ListingAID int64
	ListingBID int64
	CreatedAt  time.Time
}

// MatchViewRecord is one row of the per-user match directory: the pair
// already de-referenced to "mine" vs "theirs" relative to the querying user.
type MatchViewRecord struct {
	MatchID             int64
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

func NewMatchRepo(pool *pgxpool.Pool) *MatchRepo {
	return &MatchRepo{pool: pool}
}

func canonicalPair(userID, otherID int64) (int64, int64) {
	if userID > otherID {
		return otherID, userID
	}
	return userID, otherID
}

// Create inserts the canonical match row. The caller passes users and their
// contributed listings in any order; slots are aligned so listing_a always
// belongs to the lower user id. The unique constraint on the pair is the only
// duplicate guard: created=false means another writer got there first, which
// callers treat as success.
func (r *MatchRepo) Create(ctx context.Context, tx pgx.Tx, userID, otherID, userListingID, otherListingID int64) (bool, error) {
	if tx == nil {
		return false, fmt.Errorf("transaction is required")
	}
	if userID <= 0 || otherID <= 0 || userID == otherID {
		return false, fmt.Errorf("invalid match pair")
	}
	if userListingID <= 0 || otherListingID <= 0 {
		return false, fmt.Errorf("invalid match listings")
	}

	userA, userB := canonicalPair(userID, otherID)
	listingA, listingB := userListingID, otherListingID
	if userA != userID {
		listingA, listingB = otherListingID, userListingID
	}

	var matchID int64
	err := tx.QueryRow(ctx, `
INSERT INTO matches (user_a_id, user_b_id, listing_a_id, listing_b_id, created_at)
VALUES ($1, $2, $3, $4, NOW())
ON CONFLICT (user_a_id, user_b_id) DO NOTHING
RETURNING id
`, userA, userB, listingA, listingB).Scan(&matchID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("create match: %w", err)
	}

	return matchID > 0, nil
}

func (r *MatchRepo) GetByPair(ctx context.Context, tx pgx.Tx, userID, otherID int64) (MatchRecord, error) {
	if tx == nil {
		return MatchRecord{}, fmt.Errorf("transaction is required")
	}
	if userID <= 0 || otherID <= 0 {
		return MatchRecord{}, fmt.Errorf("invalid match pair")
	}

	userA, userB := canonicalPair(userID, otherID)

	var rec MatchRecord
	err := tx.QueryRow(ctx, `
SELECT id, user_a_id, user_b_id, listing_a_id, listing_b_id, created_at
FROM matches
WHERE user_a_id = $1 AND user_b_id = $2
`, userA, userB).Scan(
		&rec.ID,
		&rec.UserAID,
		&rec.UserBID,
		&rec.ListingAID,
		&rec.ListingBID,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return MatchRecord{}, ErrMatchNotFound
		}
		return MatchRecord{}, fmt.Errorf("get match by pair: %w", err)
	}

	return rec, nil
}

// ExistsForPair is the messaging gate predicate.
func (r *MatchRepo) ExistsForPair(ctx context.Context, userID, otherID int64) (bool, error) {
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 || otherID <= 0 {
		return false, fmt.Errorf("invalid match pair")
	}

	userA, userB := canonicalPair(userID, otherID)

	var one int
	err := r.pool.QueryRow(ctx, `
SELECT 1 FROM matches WHERE user_a_id = $1 AND user_b_id = $2
`, userA, userB).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("lookup match pair: %w", err)
	}

	return true, nil
}

func (r *MatchRepo) ListForUser(ctx context.Context, userID int64, limit int) ([]MatchViewRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	base.id,
	base.counterpart_user_id,
	u.username,
	u.location,
	base.my_listing_id,
	base.their_listing_id,
	l.make || ' ' || l.model,
	l.emoji,
	(SELECT COUNT(*) FROM messages msg
	 WHERE msg.sender_id = base.counterpart_user_id
		AND msg.receiver_id = $1
		AND NOT msg.is_read),
	base.matched_at
FROM (
	SELECT
		m.id,
		CASE WHEN m.user_a_id = $1 THEN m.user_b_id ELSE m.user_a_id END AS counterpart_user_id,
		CASE WHEN m.user_a_id = $1 THEN m.listing_a_id ELSE m.listing_b_id END AS my_listing_id,
		CASE WHEN m.user_a_id = $1 THEN m.listing_b_id ELSE m.listing_a_id END AS their_listing_id,
		m.created_at AS matched_at
	FROM matches m
	WHERE $1 IN (m.user_a_id, m.user_b_id)
) AS base
JOIN users u ON u.id = base.counterpart_user_id
JOIN listings l ON l.id = base.their_listing_id
ORDER BY base.matched_at DESC, base.id DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	items := make([]MatchViewRecord, 0, limit)
	for rows.Next() {
		var item MatchViewRecord
		if err := rows.Scan(
			&item.MatchID,
			&item.CounterpartUserID,
			&item.CounterpartUsername,
			&item.CounterpartLocation,
			&item.MyListingID,
			&item.TheirListingID,
			&item.TheirListingLabel,
			&item.TheirListingEmoji,
			&item.UnreadCount,
			&item.MatchedAt,
		); err != nil {
			return nil, fmt.Errorf("scan match view: %w", err)
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate match views: %w", rows.Err())
	}

	return items, nil
}
