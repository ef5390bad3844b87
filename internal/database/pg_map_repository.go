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
var _ interfaces.MapRepository = (*pgMapRepository)(nil)

type pgMapRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgMapRepository creates a new repository instance for the static map
// catalogue.
func NewPgMapRepository(pool *pgxpool.Pool, logger *zap.Logger) interfaces.MapRepository {
	return &pgMapRepository{
		pool:   pool,
		logger: logger.Named("PgMapRepo"),
	}
}

const getMapBySlugQuery = `
SELECT id, slug, name, order_index, level_min, level_max, required_searches, encounter_rate
FROM maps
WHERE slug = $1`

const getMapByOrderIndexQuery = `
SELECT id, slug, name, order_index, level_min, level_max, required_searches, encounter_rate
FROM maps
WHERE order_index = $1`

const getDropTableQuery = `
SELECT id, map_id, kind, target_id, variant_id, weight
FROM drop_table_entries
WHERE map_id = $1 AND kind = $2
ORDER BY position`

func (r *pgMapRepository) GetBySlug(ctx context.Context, slug string) (*models.MapDefinition, error) {
	return r.scanMap(ctx, getMapBySlugQuery, slug)
}

func (r *pgMapRepository) GetByOrderIndex(ctx context.Context, orderIndex int) (*models.MapDefinition, error) {
	return r.scanMap(ctx, getMapByOrderIndexQuery, orderIndex)
}

func (r *pgMapRepository) scanMap(ctx context.Context, query string, arg any) (*models.MapDefinition, error) {
	m := &models.MapDefinition{}
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&m.ID, &m.Slug, &m.Name, &m.OrderIndex,
		&m.LevelMin, &m.LevelMax, &m.RequiredSearches, &m.EncounterRate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrMapNotFound
		}
		r.logger.Error("Failed to get map definition", zap.Any("arg", arg), zap.Error(err))
		return nil, err
	}
	return m, nil
}

type dropTableRow struct {
	ID        uuid.UUID `db:"id"`
	MapID     uuid.UUID `db:"map_id"`
	Kind      string    `db:"kind"`
	TargetID  uuid.UUID `db:"target_id"`
	VariantID *int      `db:"variant_id"`
	Weight    float64   `db:"weight"`
}

func (r *pgMapRepository) DropTable(ctx context.Context, mapID uuid.UUID, kind models.DropKind) ([]models.DropTableEntry, error) {
	var rows []dropTableRow
	if err := pgxscan.Select(ctx, r.pool, &rows, getDropTableQuery, mapID, string(kind)); err != nil {
		r.logger.Error("Failed to load drop table", zap.Stringer("mapID", mapID), zap.String("kind", string(kind)), zap.Error(err))
		return nil, err
	}

	entries := make([]models.DropTableEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, models.DropTableEntry{
			ID:        row.ID,
			MapID:     row.MapID,
			Kind:      models.DropKind(row.Kind),
			TargetID:  row.TargetID,
			VariantID: row.VariantID,
			Weight:    row.Weight,
		})
	}
	return entries, nil
}
