package database

import (
	"context"
	"errors"

	"creature-server/internal/interfaces"
	"creature-server/internal/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ interfaces.TrainerRepository = (*pgTrainerRepository)(nil)

type pgTrainerRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgTrainerRepository creates a new repository instance for scripted
// PvE opponents.
func NewPgTrainerRepository(pool *pgxpool.Pool, logger *zap.Logger) interfaces.TrainerRepository {
	return &pgTrainerRepository{
		pool:   pool,
		logger: logger.Named("PgTrainerRepo"),
	}
}

const getTrainerQuery = `
SELECT id, name, platinum_coins_reward, exp_reward, prize_species_id, prize_level
FROM trainers
WHERE id = $1`

const getTrainerTeamQuery = `
SELECT species_id, level, variant_id, position
FROM trainer_team_members
WHERE trainer_id = $1
ORDER BY position`

const hasClaimedPrizeQuery = `
SELECT EXISTS (SELECT 1 FROM trainer_prizes_claimed WHERE user_id = $1 AND trainer_id = $2)`

const markPrizeClaimedQuery = `
INSERT INTO trainer_prizes_claimed (user_id, trainer_id)
VALUES ($1, $2)
ON CONFLICT (user_id, trainer_id) DO NOTHING`

type trainerTeamRow struct {
	SpeciesID uuid.UUID `db:"species_id"`
	Level     int       `db:"level"`
	VariantID *int      `db:"variant_id"`
	Position  int       `db:"position"`
}

func (r *pgTrainerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.TrainerDefinition, error) {
	t := &models.TrainerDefinition{}
	err := r.pool.QueryRow(ctx, getTrainerQuery, id).Scan(
		&t.ID, &t.Name, &t.PlatinumCoinsReward, &t.ExpReward, &t.PrizeSpeciesID, &t.PrizeLevel,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrTrainerNotFound
		}
		r.logger.Error("Failed to get trainer", zap.Stringer("trainerID", id), zap.Error(err))
		return nil, err
	}

	var teamRows []trainerTeamRow
	if err := pgxscan.Select(ctx, r.pool, &teamRows, getTrainerTeamQuery, id); err != nil {
		r.logger.Error("Failed to load trainer team", zap.Stringer("trainerID", id), zap.Error(err))
		return nil, err
	}
	t.Team = make([]models.TrainerTeamMember, 0, len(teamRows))
	for _, row := range teamRows {
		t.Team = append(t.Team, models.TrainerTeamMember{
			SpeciesID: row.SpeciesID,
			Level:     row.Level,
			VariantID: row.VariantID,
			Position:  row.Position,
		})
	}

	return t, nil
}

func (r *pgTrainerRepository) HasClaimedPrize(ctx context.Context, userID, trainerID uuid.UUID) (bool, error) {
	var claimed bool
	err := r.pool.QueryRow(ctx, hasClaimedPrizeQuery, userID, trainerID).Scan(&claimed)
	if err != nil {
		r.logger.Error("Failed to check trainer prize claim",
			zap.Stringer("userID", userID), zap.Stringer("trainerID", trainerID), zap.Error(err))
		return false, err
	}
	return claimed, nil
}

func (r *pgTrainerRepository) MarkPrizeClaimed(ctx context.Context, userID, trainerID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, markPrizeClaimedQuery, userID, trainerID)
	if err != nil {
		r.logger.Error("Failed to mark trainer prize claimed",
			zap.Stringer("userID", userID), zap.Stringer("trainerID", trainerID), zap.Error(err))
		return err
	}
	return nil
}
