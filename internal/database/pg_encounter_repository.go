package database

import (
	"context"
	"errors"
	"fmt"

	"creature-server/internal/interfaces"
	"creature-server/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ interfaces.EncounterRepository = (*pgEncounterRepository)(nil)

type pgEncounterRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgEncounterRepository creates a new repository instance.
func NewPgEncounterRepository(pool *pgxpool.Pool, logger *zap.Logger) interfaces.EncounterRepository {
	return &pgEncounterRepository{
		pool:   pool,
		logger: logger.Named("PgEncounterRepo"),
	}
}

const encounterColumns = `id, user_id, map_id, species_id, level, current_hp, max_hp, variant_id, is_active, started_at, ended_at`

const getActiveEncounterByIDQuery = `
SELECT ` + encounterColumns + `
FROM encounters
WHERE id = $1 AND user_id = $2 AND is_active`

const getActiveEncountersByPlayerQuery = `
SELECT ` + encounterColumns + `
FROM encounters
WHERE user_id = $1 AND is_active
ORDER BY started_at DESC`

const retireActiveEncountersQuery = `
UPDATE encounters SET is_active = FALSE, ended_at = now()
WHERE user_id = $1 AND is_active`

const insertEncounterQuery = `
INSERT INTO encounters (id, user_id, map_id, species_id, level, current_hp, max_hp, variant_id, is_active, started_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE, $9)`

const updateEncounterHPQuery = `
UPDATE encounters SET current_hp = $2
WHERE id = $1 AND is_active`

const finishEncounterQuery = `
UPDATE encounters SET is_active = FALSE, ended_at = now()
WHERE id = $1 AND is_active`

const retireAllButOneQuery = `
UPDATE encounters SET is_active = FALSE, ended_at = now()
WHERE user_id = $1 AND is_active AND id <> $2`

func scanEncounter(row pgx.Row) (*models.Encounter, error) {
	e := &models.Encounter{}
	err := row.Scan(
		&e.ID, &e.UserID, &e.MapID, &e.SpeciesID, &e.Level,
		&e.CurrentHP, &e.MaxHP, &e.VariantID, &e.IsActive, &e.StartedAt, &e.EndedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *pgEncounterRepository) GetActiveByID(ctx context.Context, userID, encounterID uuid.UUID) (*models.Encounter, error) {
	e, err := scanEncounter(r.pool.QueryRow(ctx, getActiveEncounterByIDQuery, encounterID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrEncounterNotFound
		}
		r.logger.Error("Failed to get active encounter",
			zap.Stringer("userID", userID), zap.Stringer("encounterID", encounterID), zap.Error(err))
		return nil, err
	}
	return e, nil
}

func (r *pgEncounterRepository) GetActiveByPlayer(ctx context.Context, userID uuid.UUID) (*models.Encounter, error) {
	rows, err := r.pool.Query(ctx, getActiveEncountersByPlayerQuery, userID)
	if err != nil {
		r.logger.Error("Failed to query active encounters", zap.Stringer("userID", userID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var active []*models.Encounter
	for rows.Next() {
		e, err := scanEncounter(rows)
		if err != nil {
			return nil, err
		}
		active = append(active, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(active) {
	case 0:
		return nil, models.ErrEncounterNotFound
	case 1:
		return active[0], nil
	}

	// Should never happen: the partial unique index guards this. Heal by
	// keeping only the most recent row and report the violation loudly.
	r.logger.Error("Invariant violation: multiple active encounters for player",
		zap.Stringer("userID", userID), zap.Int("count", len(active)))
	if _, err := r.pool.Exec(ctx, retireAllButOneQuery, userID, active[0].ID); err != nil {
		r.logger.Error("Failed to self-heal duplicate active encounters",
			zap.Stringer("userID", userID), zap.Error(err))
		return nil, err
	}
	return active[0], nil
}

// ReplaceActive retires whatever encounter is active and inserts the new
// one inside a single transaction, so two racing searches can never leave
// two active rows behind.
func (r *pgEncounterRepository) ReplaceActive(ctx context.Context, encounter *models.Encounter) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			r.logger.Error("Failed to rollback encounter transaction", zap.Error(rollbackErr))
		}
	}()

	if _, err := tx.Exec(ctx, retireActiveEncountersQuery, encounter.UserID); err != nil {
		r.logger.Error("Failed to retire prior encounters", zap.Stringer("userID", encounter.UserID), zap.Error(err))
		return err
	}

	if _, err := tx.Exec(ctx, insertEncounterQuery,
		encounter.ID, encounter.UserID, encounter.MapID, encounter.SpeciesID,
		encounter.Level, encounter.CurrentHP, encounter.MaxHP, encounter.VariantID,
		encounter.StartedAt,
	); err != nil {
		r.logger.Error("Failed to insert encounter", zap.Stringer("userID", encounter.UserID), zap.Error(err))
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit encounter transaction: %w", err)
	}

	r.logger.Debug("Replaced active encounter",
		zap.Stringer("userID", encounter.UserID), zap.Stringer("encounterID", encounter.ID))
	return nil
}

func (r *pgEncounterRepository) UpdateHP(ctx context.Context, encounterID uuid.UUID, currentHP int) error {
	cmdTag, err := r.pool.Exec(ctx, updateEncounterHPQuery, encounterID, currentHP)
	if err != nil {
		r.logger.Error("Failed to update encounter HP", zap.Stringer("encounterID", encounterID), zap.Error(err))
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrEncounterNotFound
	}
	return nil
}

func (r *pgEncounterRepository) Finish(ctx context.Context, encounterID uuid.UUID) error {
	cmdTag, err := r.pool.Exec(ctx, finishEncounterQuery, encounterID)
	if err != nil {
		r.logger.Error("Failed to finish encounter", zap.Stringer("encounterID", encounterID), zap.Error(err))
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrEncounterNotFound
	}
	return nil
}
