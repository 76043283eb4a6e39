package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jack-boyd5/geartrade/internal/domain/enums"
)

type InterestRepo struct {
	pool *pgxpool.Pool
}

func NewInterestRepo(pool *pgxpool.Pool) *InterestRepo {
	return &InterestRepo{pool: pool}
}

// Record appends one ledger row for (actor, listing). The unique constraint
// makes re-swipes no-ops: created=false means a row for this pair already
// existed, and the returned polarity is whatever that first row recorded,
// which may differ from the requested one.
func (r *InterestRepo) Record(ctx context.Context, tx pgx.Tx, actorUserID, listingID int64, polarity enums.SwipeAction) (bool, enums.SwipeAction, error) {
	if tx == nil {
		return false, "", fmt.Errorf("transaction is required")
	}
	if actorUserID <= 0 || listingID <= 0 {
		return false, "", fmt.Errorf("invalid interest payload")
	}

	var stored string
	err := tx.QueryRow(ctx, `
INSERT INTO interests (actor_user_id, listing_id, polarity, created_at)
VALUES ($1, $2, $3, NOW())
ON CONFLICT (actor_user_id, listing_id) DO NOTHING
RETURNING polarity
`, actorUserID, listingID, string(polarity)).Scan(&stored)
	if err == nil {
		return true, enums.SwipeAction(stored), nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return false, "", fmt.Errorf("record interest: %w", err)
	}

	// The insert lost to an existing row; report what that row says.
	err = tx.QueryRow(ctx, `
SELECT polarity
FROM interests
WHERE actor_user_id = $1 AND listing_id = $2
`, actorUserID, listingID).Scan(&stored)
	if err != nil {
		return false, "", fmt.Errorf("read recorded interest: %w", err)
	}

	return false, enums.SwipeAction(stored), nil
}

// FindReciprocalLike returns the earliest listing owned by ownerUserID that
// likerUserID has liked. The fixed ordering keeps resolution deterministic
// when the liker liked several of the owner's listings.
func (r *InterestRepo) FindReciprocalLike(ctx context.Context, tx pgx.Tx, likerUserID, ownerUserID int64) (int64, bool, error) {
	if tx == nil {
		return 0, false, fmt.Errorf("transaction is required")
	}
	if likerUserID <= 0 || ownerUserID <= 0 {
		return 0, false, fmt.Errorf("invalid reciprocal lookup payload")
	}

	var listingID int64
	err := tx.QueryRow(ctx, `
SELECT i.listing_id
FROM interests i
JOIN listings l ON l.id = i.listing_id
WHERE i.actor_user_id = $1
	AND i.polarity = 'like'
	AND l.owner_id = $2
ORDER BY i.created_at ASC, i.id ASC
LIMIT 1
`, likerUserID, ownerUserID).Scan(&listingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("lookup reciprocal like: %w", err)
	}

	return listingID, true, nil
}
