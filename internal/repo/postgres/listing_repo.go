package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrListingNotFound = errors.New("listing not found")

type ListingRepo struct {
	pool *pgxpool.Pool
}

type ListingRecord struct {
	ID          int64
	OwnerID     int64
	Make        string
	Model       string
	Year        int
	Price       int64
	Mileage     int64
	Condition   string
	ListingType string
	Description string
	Emoji       string
	IsActive    bool
	ViewCount   int64
	CreatedAt   time.Time
}

type MarketplaceRecord struct {
	Listing       ListingRecord
	OwnerUsername string
	OwnerLocation string
}

type GarageRecord struct {
	Listing   ListingRecord
	LikeCount int64
}

type ListingUpdate struct {
	Price       *int64
	Mileage     *int64
	Condition   *string
	Description *string
	IsActive    *bool
}

func NewListingRepo(pool *pgxpool.Pool) *ListingRepo {
	return &ListingRepo{pool: pool}
}

func (r *ListingRepo) Create(ctx context.Context, listing ListingRecord) (int64, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}
	if listing.OwnerID <= 0 {
		return 0, fmt.Errorf("invalid listing payload")
	}

	var id int64
	err := r.pool.QueryRow(ctx, `
INSERT INTO listings (
	owner_id, make, model, year, price, mileage,
	condition, listing_type, description, emoji, is_active, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, TRUE, NOW())
RETURNING id
`, listing.OwnerID, listing.Make, listing.Model, listing.Year, listing.Price,
		listing.Mileage, listing.Condition, listing.ListingType, listing.Description,
		listing.Emoji).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create listing: %w", err)
	}

	return id, nil
}

// GetForSwipe reads the ownership and active flag inside the swipe
// transaction, so the owner seen here is the owner at like-time.
func (r *ListingRepo) GetForSwipe(ctx context.Context, tx pgx.Tx, listingID int64) (ListingRecord, error) {
	if tx == nil {
		return ListingRecord{}, fmt.Errorf("transaction is required")
	}
	if listingID <= 0 {
		return ListingRecord{}, fmt.Errorf("invalid listing id")
	}

	var rec ListingRecord
	err := tx.QueryRow(ctx, `
SELECT id, owner_id, is_active
FROM listings
WHERE id = $1
`, listingID).Scan(&rec.ID, &rec.OwnerID, &rec.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ListingRecord{}, ErrListingNotFound
		}
		return ListingRecord{}, fmt.Errorf("get listing for swipe: %w", err)
	}

	return rec, nil
}

func (r *ListingRepo) OwnerOf(ctx context.Context, listingID int64) (int64, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}
	if listingID <= 0 {
		return 0, fmt.Errorf("invalid listing id")
	}

	var ownerID int64
	err := r.pool.QueryRow(ctx, `
SELECT owner_id FROM listings WHERE id = $1
`, listingID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrListingNotFound
		}
		return 0, fmt.Errorf("get listing owner: %w", err)
	}

	return ownerID, nil
}

// Marketplace returns active listings the viewer does not own and has not
// swiped on yet, newest first.
func (r *ListingRepo) Marketplace(ctx context.Context, viewerID int64, limit int) ([]MarketplaceRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if viewerID <= 0 {
		return nil, fmt.Errorf("invalid viewer id")
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	l.id, l.owner_id, l.make, l.model, l.year, l.price, l.mileage,
	l.condition, l.listing_type, l.description, l.emoji, l.is_active,
	l.view_count, l.created_at,
	u.username, u.location
FROM listings l
JOIN users u ON u.id = l.owner_id
WHERE
	l.is_active
	AND l.owner_id <> $1
	AND NOT EXISTS (
		SELECT 1 FROM interests i
		WHERE i.actor_user_id = $1 AND i.listing_id = l.id
	)
ORDER BY l.created_at DESC, l.id DESC
LIMIT $2
`, viewerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list marketplace: %w", err)
	}
	defer rows.Close()

	items := make([]MarketplaceRecord, 0, limit)
	for rows.Next() {
		var item MarketplaceRecord
		if err := rows.Scan(
			&item.Listing.ID,
			&item.Listing.OwnerID,
			&item.Listing.Make,
			&item.Listing.Model,
			&item.Listing.Year,
			&item.Listing.Price,
			&item.Listing.Mileage,
			&item.Listing.Condition,
			&item.Listing.ListingType,
			&item.Listing.Description,
			&item.Listing.Emoji,
			&item.Listing.IsActive,
			&item.Listing.ViewCount,
			&item.Listing.CreatedAt,
			&item.OwnerUsername,
			&item.OwnerLocation,
		); err != nil {
			return nil, fmt.Errorf("scan marketplace listing: %w", err)
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate marketplace listings: %w", rows.Err())
	}

	return items, nil
}

func (r *ListingRepo) ListByOwner(ctx context.Context, ownerID int64) ([]GarageRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if ownerID <= 0 {
		return nil, fmt.Errorf("invalid owner id")
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	l.id, l.owner_id, l.make, l.model, l.year, l.price, l.mileage,
	l.condition, l.listing_type, l.description, l.emoji, l.is_active,
	l.view_count, l.created_at,
	(SELECT COUNT(*) FROM interests i WHERE i.listing_id = l.id AND i.polarity = 'like')
FROM listings l
WHERE l.owner_id = $1 AND l.is_active
ORDER BY l.created_at DESC, l.id DESC
`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list garage: %w", err)
	}
	defer rows.Close()

	var items []GarageRecord
	for rows.Next() {
		var item GarageRecord
		if err := rows.Scan(
			&item.Listing.ID,
			&item.Listing.OwnerID,
			&item.Listing.Make,
			&item.Listing.Model,
			&item.Listing.Year,
			&item.Listing.Price,
			&item.Listing.Mileage,
			&item.Listing.Condition,
			&item.Listing.ListingType,
			&item.Listing.Description,
			&item.Listing.Emoji,
			&item.Listing.IsActive,
			&item.Listing.ViewCount,
			&item.Listing.CreatedAt,
			&item.LikeCount,
		); err != nil {
			return nil, fmt.Errorf("scan garage listing: %w", err)
		}
		items = append(items, item)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate garage listings: %w", rows.Err())
	}

	return items, nil
}

func (r *ListingRepo) Update(ctx context.Context, listingID, ownerID int64, update ListingUpdate) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if listingID <= 0 || ownerID <= 0 {
		return fmt.Errorf("invalid listing update payload")
	}

	result, err := r.pool.Exec(ctx, `
UPDATE listings SET
	price = COALESCE($3, price),
	mileage = COALESCE($4, mileage),
	condition = COALESCE($5, condition),
	description = COALESCE($6, description),
	is_active = COALESCE($7, is_active)
WHERE id = $1 AND owner_id = $2
`, listingID, ownerID, update.Price, update.Mileage, update.Condition,
		update.Description, update.IsActive)
	if err != nil {
		return fmt.Errorf("update listing: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrListingNotFound
	}

	return nil
}

func (r *ListingRepo) SoftDelete(ctx context.Context, listingID, ownerID int64) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if listingID <= 0 || ownerID <= 0 {
		return fmt.Errorf("invalid listing delete payload")
	}

	result, err := r.pool.Exec(ctx, `
UPDATE listings SET is_active = FALSE WHERE id = $1 AND owner_id = $2
`, listingID, ownerID)
	if err != nil {
		return fmt.Errorf("soft delete listing: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrListingNotFound
	}

	return nil
}

func (r *ListingRepo) IncrementViewCount(ctx context.Context, listingID int64) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if listingID <= 0 {
		return fmt.Errorf("invalid listing id")
	}

	if _, err := r.pool.Exec(ctx, `
UPDATE listings SET view_count = view_count + 1 WHERE id = $1
`, listingID); err != nil {
		return fmt.Errorf("increment view count: %w", err)
	}

	return nil
}
