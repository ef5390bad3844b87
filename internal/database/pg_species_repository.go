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
var _ interfaces.SpeciesRepository = (*pgSpeciesRepository)(nil)

type pgSpeciesRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgSpeciesRepository creates a new repository instance for the static
// creature catalogue.
func NewPgSpeciesRepository(pool *pgxpool.Pool, logger *zap.Logger) interfaces.SpeciesRepository {
	return &pgSpeciesRepository{
		pool:   pool,
		logger: logger.Named("PgSpeciesRepo"),
	}
}

const getSpeciesQuery = `
SELECT id, name, rarity, catch_rate, hp, attack, defense, sp_attack, sp_defense, speed
FROM species
WHERE id = $1`

const getSpeciesMovesQuery = `
SELECT name, power, mp_cost, learn_level
FROM species_moves
WHERE species_id = $1
ORDER BY learn_level, name`

type speciesMoveRow struct {
	Name       string `db:"name"`
	Power      int    `db:"power"`
	MPCost     int    `db:"mp_cost"`
	LearnLevel int    `db:"learn_level"`
}

func (r *pgSpeciesRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Species, error) {
	s := &models.Species{}
	var rarityToken string
	err := r.pool.QueryRow(ctx, getSpeciesQuery, id).Scan(
		&s.ID, &s.Name, &rarityToken, &s.CatchRate,
		&s.BaseStats.HP, &s.BaseStats.Attack, &s.BaseStats.Defense,
		&s.BaseStats.SpAttack, &s.BaseStats.SpDefense, &s.BaseStats.Speed,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrSpeciesNotFound
		}
		r.logger.Error("Failed to get species", zap.Stringer("speciesID", id), zap.Error(err))
		return nil, err
	}
	// Legacy rarity tokens are normalized at the boundary so formulas
	// never see them.
	s.Rarity = models.NormalizeRarity(rarityToken)

	var moveRows []speciesMoveRow
	if err := pgxscan.Select(ctx, r.pool, &moveRows, getSpeciesMovesQuery, id); err != nil {
		r.logger.Error("Failed to load species moves", zap.Stringer("speciesID", id), zap.Error(err))
		return nil, err
	}
	s.Moves = make([]models.LevelUpMove, 0, len(moveRows))
	for _, row := range moveRows {
		s.Moves = append(s.Moves, models.LevelUpMove{
			Name:       row.Name,
			Power:      row.Power,
			MPCost:     row.MPCost,
			LearnLevel: row.LearnLevel,
		})
	}

	return s, nil
}
