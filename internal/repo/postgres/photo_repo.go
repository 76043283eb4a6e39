package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PhotoRepo struct {
	pool *pgxpool.Pool
}

type PhotoRecord struct {
	ID        int64
	ListingID int64
	ObjectKey string
	IsPrimary bool
	CreatedAt time.Time
}

func NewPhotoRepo(pool *pgxpool.Pool) *PhotoRepo {
	return &PhotoRepo{pool: pool}
}

func (r *PhotoRepo) Add(ctx context.Context, listingID int64, objectKey string, isPrimary bool) (int64, error) {
	if r.pool == nil {
		return 0, fmt.Errorf("postgres pool is nil")
	}
	if listingID <= 0 || strings.TrimSpace(objectKey) == "" {
		return 0, fmt.Errorf("invalid photo payload")
	}

	if isPrimary {
		if _, err := r.pool.Exec(ctx, `
UPDATE listing_photos SET is_primary = FALSE WHERE listing_id = $1
`, listingID); err != nil {
			return 0, fmt.Errorf("unset primary photos: %w", err)
		}
	}

	var id int64
	err := r.pool.QueryRow(ctx, `
INSERT INTO listing_photos (listing_id, object_key, is_primary, created_at)
VALUES ($1, $2, $3, NOW())
RETURNING id
`, listingID, objectKey, isPrimary).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("add listing photo: %w", err)
	}

	return id, nil
}

func (r *PhotoRepo) ListByListing(ctx context.Context, listingID int64) ([]PhotoRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	if listingID <= 0 {
		return nil, fmt.Errorf("invalid listing id")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, listing_id, object_key, is_primary, created_at
FROM listing_photos
WHERE listing_id = $1
ORDER BY is_primary DESC, id ASC
`, listingID)
	if err != nil {
		return nil, fmt.Errorf("list listing photos: %w", err)
	}
	defer rows.Close()

	var items []PhotoRecord
	for rows.Next() {
		var rec PhotoRecord
		if err := rows.Scan(&rec.ID, &rec.ListingID, &rec.ObjectKey, &rec.IsPrimary, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan listing photo: %w", err)
		}
		items = append(items, rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate listing photos: %w", rows.Err())
	}

	return items, nil
}
