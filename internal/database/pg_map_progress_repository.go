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
var _ interfaces.MapProgressRepository = (*pgMapProgressRepository)(nil)

type pgMapProgressRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgMapProgressRepository creates a new repository instance.
func NewPgMapProgressRepository(pool *pgxpool.Pool, logger *zap.Logger) interfaces.MapProgressRepository {
	return &pgMapProgressRepository{
		pool:   pool,
		logger: logger.Named("PgMapProgressRepo"),
	}
}

const getMapProgressQuery = `
SELECT user_id, map_id, total_searches, level, experience, is_unlocked, unlocked_at, updated_at
FROM map_progress
WHERE user_id = $1 AND map_id = $2`

const getOrCreateMapProgressQuery = `
INSERT INTO map_progress (user_id, map_id)
VALUES ($1, $2)
ON CONFLICT (user_id, map_id) DO UPDATE SET user_id = EXCLUDED.user_id
RETURNING user_id, map_id, total_searches, level, experience, is_unlocked, unlocked_at, updated_at`

const updateMapProgressQuery = `
UPDATE map_progress SET
    total_searches = $3, level = $4, experience = $5, updated_at = $6
WHERE user_id = $1 AND map_id = $2`

// ensureUnlockedQuery sets unlocked_at only when the row was not unlocked
// before, which keeps the first unlock timestamp stable across repeated
// calls.
const ensureUnlockedQuery = `
INSERT INTO map_progress (user_id, map_id, is_unlocked, unlocked_at)
VALUES ($1, $2, TRUE, now())
ON CONFLICT (user_id, map_id) DO UPDATE SET
    is_unlocked = TRUE,
    unlocked_at = COALESCE(map_progress.unlocked_at, now()),
    updated_at = now()`

func (r *pgMapProgressRepository) Get(ctx context.Context, userID, mapID uuid.UUID) (*models.MapProgress, error) {
	p := &models.MapProgress{}
	err := r.pool.QueryRow(ctx, getMapProgressQuery, userID, mapID).Scan(
		&p.UserID, &p.MapID, &p.TotalSearches, &p.Level, &p.Experience,
		&p.IsUnlocked, &p.UnlockedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get map progress",
			zap.Stringer("userID", userID), zap.Stringer("mapID", mapID), zap.Error(err))
		return nil, err
	}
	return p, nil
}

func (r *pgMapProgressRepository) GetOrCreate(ctx context.Context, userID, mapID uuid.UUID) (*models.MapProgress, error) {
	p := &models.MapProgress{}
	err := r.pool.QueryRow(ctx, getOrCreateMapProgressQuery, userID, mapID).Scan(
		&p.UserID, &p.MapID, &p.TotalSearches, &p.Level, &p.Experience,
		&p.IsUnlocked, &p.UnlockedAt, &p.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to get-or-create map progress",
			zap.Stringer("userID", userID), zap.Stringer("mapID", mapID), zap.Error(err))
		return nil, err
	}
	return p, nil
}

func (r *pgMapProgressRepository) Update(ctx context.Context, progress *models.MapProgress) error {
	progress.UpdatedAt = time.Now()
	cmdTag, err := r.pool.Exec(ctx, updateMapProgressQuery,
		progress.UserID, progress.MapID,
		progress.TotalSearches, progress.Level, progress.Experience, progress.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to update map progress",
			zap.Stringer("userID", progress.UserID), zap.Stringer("mapID", progress.MapID), zap.Error(err))
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *pgMapProgressRepository) EnsureUnlocked(ctx context.Context, userID, mapID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, ensureUnlockedQuery, userID, mapID)
	if err != nil {
		r.logger.Error("Failed to ensure map unlocked",
			zap.Stringer("userID", userID), zap.Stringer("mapID", mapID), zap.Error(err))
		return err
	}
	r.logger.Debug("Map unlocked for player", zap.Stringer("userID", userID), zap.Stringer("mapID", mapID))
	return nil
}
