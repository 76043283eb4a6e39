package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type StatsRepo struct {
	pool *pgxpool.Pool
}

type UserStatsRecord struct {
	Matches       int64
	LikesGiven    int64
	LikesReceived int64
	Listings      int64
	TotalViews    int64
}

func NewStatsRepo(pool *pgxpool.Pool) *StatsRepo {
	return &StatsRepo{pool: pool}
}

func (r *StatsRepo) ForUser(ctx context.Context, userID int64) (UserStatsRecord, error) {
	if r.pool == nil {
		return UserStatsRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if userID <= 0 {
		return UserStatsRecord{}, fmt.Errorf("invalid user id")
	}

	var stats UserStatsRecord
	err := r.pool.QueryRow(ctx, `
SELECT
	(SELECT COUNT(*) FROM matches m WHERE $1 IN (m.user_a_id, m.user_b_id)),
	(SELECT COUNT(*) FROM interests i WHERE i.actor_user_id = $1 AND i.polarity = 'like'),
	(SELECT COUNT(*) FROM interests i
		JOIN listings l ON l.id = i.listing_id
		WHERE l.owner_id = $1 AND i.polarity = 'like'),
	(SELECT COUNT(*) FROM listings l WHERE l.owner_id = $1 AND l.is_active),
	(SELECT COALESCE(SUM(l.view_count), 0) FROM listings l WHERE l.owner_id = $1)
`, userID).Scan(
		&stats.Matches,
		&stats.LikesGiven,
		&stats.LikesReceived,
		&stats.Listings,
		&stats.TotalViews,
	)
	if err != nil {
		return UserStatsRecord{}, fmt.Errorf("load user stats: %w", err)
	}

	return stats, nil
}
