package database

import (
	"context"
	"fmt"

	"creature-server/internal/interfaces"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ interfaces.LeaderboardRepository = (*redisLeaderboardRepository)(nil)

type redisLeaderboardRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisLeaderboardRepository creates a redis-backed daily leaderboard.
// Scores live in a per-day sorted set (`daily_exp:<YYYY-MM-DD>`) so
// ranking queries stay off the primary database.
func NewRedisLeaderboardRepository(client *redis.Client, logger *zap.Logger) interfaces.LeaderboardRepository {
	return &redisLeaderboardRepository{
		client: client,
		logger: logger.Named("RedisLeaderboardRepo"),
	}
}

func (r *redisLeaderboardRepository) AddExperience(ctx context.Context, day string, userID uuid.UUID, exp int) error {
	if exp <= 0 {
		return nil
	}
	key := fmt.Sprintf("daily_exp:%s", day)
	if err := r.client.ZIncrBy(ctx, key, float64(exp), userID.String()).Err(); err != nil {
		r.logger.Error("Failed to increment daily leaderboard",
			zap.String("day", day), zap.Stringer("userID", userID), zap.Error(err))
		return err
	}
	return nil
}
