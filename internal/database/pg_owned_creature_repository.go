package database

import (
	"context"
	"errors"

	"creature-server/internal/interfaces"
	"creature-server/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ interfaces.OwnedCreatureRepository = (*pgOwnedCreatureRepository)(nil)

type pgOwnedCreatureRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgOwnedCreatureRepository creates a new repository instance.
func NewPgOwnedCreatureRepository(pool *pgxpool.Pool, logger *zap.Logger) interfaces.OwnedCreatureRepository {
	return &pgOwnedCreatureRepository{
		pool:   pool,
		logger: logger.Named("PgOwnedCreatureRepo"),
	}
}

const insertOwnedCreatureQuery = `
INSERT INTO owned_creatures (id, user_id, species_id, level, experience, friendship,
                             location, party_index, variant_id, moves,
                             current_hp, max_hp, current_mp, max_mp, caught_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

const getPartyLeaderQuery = `
SELECT id, user_id, species_id, level, experience, friendship,
       location, party_index, variant_id, moves,
       current_hp, max_hp, current_mp, max_mp, caught_at
FROM owned_creatures
WHERE user_id = $1 AND location = 'party'
ORDER BY party_index
LIMIT 1`

const updateOwnedCreatureQuery = `
UPDATE owned_creatures SET
    level = $2, experience = $3, friendship = $4,
    location = $5, party_index = $6, moves = $7,
    current_hp = $8, max_hp = $9, current_mp = $10, max_mp = $11
WHERE id = $1`

func (r *pgOwnedCreatureRepository) Create(ctx context.Context, creature *models.OwnedCreature) error {
	_, err := r.pool.Exec(ctx, insertOwnedCreatureQuery,
		creature.ID, creature.UserID, creature.SpeciesID,
		creature.Level, creature.Experience, creature.Friendship,
		string(creature.Location), creature.PartyIndex, creature.VariantID,
		pq.Array(creature.Moves),
		creature.CurrentHP, creature.MaxHP, creature.CurrentMP, creature.MaxMP,
		creature.CaughtAt,
	)
	if err != nil {
		r.logger.Error("Failed to create owned creature",
			zap.Stringer("userID", creature.UserID), zap.Stringer("speciesID", creature.SpeciesID), zap.Error(err))
		return err
	}
	r.logger.Debug("Created owned creature",
		zap.Stringer("userID", creature.UserID), zap.Stringer("creatureID", creature.ID))
	return nil
}

func (r *pgOwnedCreatureRepository) GetPartyLeader(ctx context.Context, userID uuid.UUID) (*models.OwnedCreature, error) {
	c := &models.OwnedCreature{}
	var location string
	var moves pq.StringArray
	err := r.pool.QueryRow(ctx, getPartyLeaderQuery, userID).Scan(
		&c.ID, &c.UserID, &c.SpeciesID, &c.Level, &c.Experience, &c.Friendship,
		&location, &c.PartyIndex, &c.VariantID, &moves,
		&c.CurrentHP, &c.MaxHP, &c.CurrentMP, &c.MaxMP, &c.CaughtAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNoActivePartyMember
		}
		r.logger.Error("Failed to get party leader", zap.Stringer("userID", userID), zap.Error(err))
		return nil, err
	}
	c.Location = models.CreatureLocation(location)
	c.Moves = []string(moves)
	return c, nil
}

func (r *pgOwnedCreatureRepository) Update(ctx context.Context, creature *models.OwnedCreature) error {
	cmdTag, err := r.pool.Exec(ctx, updateOwnedCreatureQuery,
		creature.ID, creature.Level, creature.Experience, creature.Friendship,
		string(creature.Location), creature.PartyIndex, pq.Array(creature.Moves),
		creature.CurrentHP, creature.MaxHP, creature.CurrentMP, creature.MaxMP,
	)
	if err != nil {
		r.logger.Error("Failed to update owned creature", zap.Stringer("creatureID", creature.ID), zap.Error(err))
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
