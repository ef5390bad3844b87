package database

import (
	"context"

	"creature-server/internal/interfaces"
	"creature-server/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ interfaces.DailyActivityRepository = (*pgDailyActivityRepository)(nil)

type pgDailyActivityRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgDailyActivityRepository creates a new repository instance.
func NewPgDailyActivityRepository(pool *pgxpool.Pool, logger *zap.Logger) interfaces.DailyActivityRepository {
	return &pgDailyActivityRepository{
		pool:   pool,
		logger: logger.Named("PgDailyActivityRepo"),
	}
}

const incrementDailyActivityQuery = `
INSERT INTO daily_activity (user_id, day, searches, map_experience, platinum_coins)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (user_id, day) DO UPDATE SET
    searches = daily_activity.searches + EXCLUDED.searches,
    map_experience = daily_activity.map_experience + EXCLUDED.map_experience,
    platinum_coins = daily_activity.platinum_coins + EXCLUDED.platinum_coins`

func (r *pgDailyActivityRepository) Increment(ctx context.Context, userID uuid.UUID, day string, delta models.DailyActivity) error {
	// Negative deltas would corrupt the aggregates; clamp them out.
	searches := max(0, delta.Searches)
	mapExp := max(0, delta.MapExperience)
	coins := max(0, delta.PlatinumCoins)

	_, err := r.pool.Exec(ctx, incrementDailyActivityQuery, userID, day, searches, mapExp, coins)
	if err != nil {
		r.logger.Error("Failed to increment daily activity",
			zap.Stringer("userID", userID), zap.String("day", day), zap.Error(err))
		return err
	}
	return nil
}
