package database

import (
	"context"
	"errors"
	"time"

	"creature-server/internal/interfaces"
	"creature-server/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ interfaces.PlayerRepository = (*pgPlayerRepository)(nil)

type pgPlayerRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgPlayerRepository creates a new repository instance.
func NewPgPlayerRepository(pool *pgxpool.Pool, logger *zap.Logger) interfaces.PlayerRepository {
	return &pgPlayerRepository{
		pool:   pool,
		logger: logger.Named("PgPlayerRepo"),
	}
}

const getPlayerQuery = `
SELECT user_id, level, experience, gold, platinum_coins,
       current_hp, max_hp, current_mp, max_mp, wins, losses, updated_at
FROM player_progress
WHERE user_id = $1`

const getOrCreatePlayerQuery = `
INSERT INTO player_progress (user_id)
VALUES ($1)
ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
RETURNING user_id, level, experience, gold, platinum_coins,
          current_hp, max_hp, current_mp, max_mp, wins, losses, updated_at`

const updatePlayerQuery = `
UPDATE player_progress SET
    level = $2, experience = $3, gold = $4, platinum_coins = $5,
    current_hp = $6, max_hp = $7, current_mp = $8, max_mp = $9,
    wins = $10, losses = $11, updated_at = $12
WHERE user_id = $1`

func (r *pgPlayerRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.PlayerProgress, error) {
	p := &models.PlayerProgress{}
	err := r.pool.QueryRow(ctx, getPlayerQuery, userID).Scan(
		&p.UserID, &p.Level, &p.Experience, &p.Gold, &p.PlatinumCoins,
		&p.CurrentHP, &p.MaxHP, &p.CurrentMP, &p.MaxMP, &p.Wins, &p.Losses, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrPlayerNotFound
		}
		r.logger.Error("Failed to get player progress", zap.Stringer("userID", userID), zap.Error(err))
		return nil, err
	}
	return p, nil
}

func (r *pgPlayerRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.PlayerProgress, error) {
	p := &models.PlayerProgress{}
	err := r.pool.QueryRow(ctx, getOrCreatePlayerQuery, userID).Scan(
		&p.UserID, &p.Level, &p.Experience, &p.Gold, &p.PlatinumCoins,
		&p.CurrentHP, &p.MaxHP, &p.CurrentMP, &p.MaxMP, &p.Wins, &p.Losses, &p.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to get-or-create player progress", zap.Stringer("userID", userID), zap.Error(err))
		return nil, err
	}
	r.logger.Debug("Loaded player progress", zap.Stringer("userID", userID), zap.Int("level", p.Level))
	return p, nil
}

func (r *pgPlayerRepository) Update(ctx context.Context, progress *models.PlayerProgress) error {
	progress.UpdatedAt = time.Now()
	cmdTag, err := r.pool.Exec(ctx, updatePlayerQuery,
		progress.UserID, progress.Level, progress.Experience, progress.Gold, progress.PlatinumCoins,
		progress.CurrentHP, progress.MaxHP, progress.CurrentMP, progress.MaxMP,
		progress.Wins, progress.Losses, progress.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to update player progress", zap.Stringer("userID", progress.UserID), zap.Error(err))
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrPlayerNotFound
	}
	return nil
}
