package service

import (
	"context"
	"time"

	"creature-server/internal/interfaces"
	"creature-server/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const dayFormat = "2006-01-02"

// ActivityService accumulates per-(player, day) aggregates for
// downstream reporting and mirrors experience gains to the daily redis
// leaderboard. Recording is best-effort: failures are logged and
// swallowed so they never roll back the action that produced them.
type ActivityService struct {
	activity    interfaces.DailyActivityRepository
	leaderboard interfaces.LeaderboardRepository
	now         func() time.Time
	logger      *zap.Logger
}

// NewActivityService creates a new ActivityService.
func NewActivityService(
	activity interfaces.DailyActivityRepository,
	leaderboard interfaces.LeaderboardRepository,
	logger *zap.Logger,
) *ActivityService {
	return &ActivityService{
		activity:    activity,
		leaderboard: leaderboard,
		now:         time.Now,
		logger:      logger.Named("ActivityService"),
	}
}

// RecordSearch counts one search and its map experience against the
// server-local calendar day.
func (s *ActivityService) RecordSearch(ctx context.Context, userID uuid.UUID, mapExp int) {
	day := s.now().Format(dayFormat)
	err := s.activity.Increment(ctx, userID, day, models.DailyActivity{
		Searches:      1,
		MapExperience: mapExp,
	})
	if err != nil {
		s.logger.Warn("Failed to record daily search activity",
			zap.Stringer("userID", userID), zap.Error(err))
	}
	if err := s.leaderboard.AddExperience(ctx, day, userID, mapExp); err != nil {
		s.logger.Warn("Failed to update daily leaderboard",
			zap.Stringer("userID", userID), zap.Error(err))
	}
}

// RecordBattle counts a battle's currency and experience payout against
// the server-local calendar day.
func (s *ActivityService) RecordBattle(ctx context.Context, userID uuid.UUID, platinumCoins, exp int) {
	day := s.now().Format(dayFormat)
	err := s.activity.Increment(ctx, userID, day, models.DailyActivity{
		PlatinumCoins: platinumCoins,
	})
	if err != nil {
		s.logger.Warn("Failed to record daily battle activity",
			zap.Stringer("userID", userID), zap.Error(err))
	}
	if err := s.leaderboard.AddExperience(ctx, day, userID, exp); err != nil {
		s.logger.Warn("Failed to update daily leaderboard",
			zap.Stringer("userID", userID), zap.Error(err))
	}
}
