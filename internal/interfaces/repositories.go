package interfaces

import (
	"context"

	"creature-server/internal/models"

	"github.com/google/uuid"
)

// PlayerRepository handles the player's global progression row.
//
//go:generate mockery --name PlayerRepository --output ./mocks --outpkg mocks --case=underscore
type PlayerRepository interface {
	// GetByUserID returns the player's progression row.
	// Returns models.ErrPlayerNotFound if the player has no row yet.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.PlayerProgress, error)

	// GetOrCreate returns the player's progression row, creating it with
	// level 1 defaults on first access.
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.PlayerProgress, error)

	// Update persists the mutable progression fields.
	Update(ctx context.Context, progress *models.PlayerProgress) error
}

// MapRepository exposes the static map catalogue and its drop tables.
// All content is authored by the admin collaborator and read-only here.
//
//go:generate mockery --name MapRepository --output ./mocks --outpkg mocks --case=underscore
type MapRepository interface {
	// GetBySlug returns a map definition by its URL slug.
	// Returns models.ErrMapNotFound if the slug is unknown.
	GetBySlug(ctx context.Context, slug string) (*models.MapDefinition, error)

	// GetByOrderIndex returns the map at the given position of the
	// unlock chain. Returns models.ErrMapNotFound when the chain ends.
	GetByOrderIndex(ctx context.Context, orderIndex int) (*models.MapDefinition, error)

	// DropTable returns the weighted drop rows of a map filtered by
	// kind, in authored order. May be empty.
	DropTable(ctx context.Context, mapID uuid.UUID, kind models.DropKind) ([]models.DropTableEntry, error)
}

// MapProgressRepository handles per-(player, map) unlock/search state.
//
//go:generate mockery --name MapProgressRepository --output ./mocks --outpkg mocks --case=underscore
type MapProgressRepository interface {
	// Get returns the progress row for a (player, map) pair.
	// Returns models.ErrNotFound if the player never touched the map.
	Get(ctx context.Context, userID, mapID uuid.UUID) (*models.MapProgress, error)

	// GetOrCreate returns the progress row, creating a locked level-1
	// row with zero searches on first interaction.
	GetOrCreate(ctx context.Context, userID, mapID uuid.UUID) (*models.MapProgress, error)

	// Update persists search counters, level and experience.
	Update(ctx context.Context, progress *models.MapProgress) error

	// EnsureUnlocked idempotently upserts the row as unlocked. UnlockedAt
	// is set on the first call and never overwritten afterwards.
	EnsureUnlocked(ctx context.Context, userID, mapID uuid.UUID) error
}

// EncounterRepository manages the single active wild encounter per
// player.
//
//go:generate mockery --name EncounterRepository --output ./mocks --outpkg mocks --case=underscore
type EncounterRepository interface {
	// GetActiveByID returns the active encounter with the given id owned
	// by the player. Returns models.ErrEncounterNotFound when the id is
	// unknown, terminal, or owned by someone else.
	GetActiveByID(ctx context.Context, userID, encounterID uuid.UUID) (*models.Encounter, error)

	// GetActiveByPlayer returns the player's active encounter, if any.
	// Finding more than one active row is an invariant violation: the
	// implementation logs it loudly and deactivates all but the most
	// recent. Returns models.ErrEncounterNotFound when none is active.
	GetActiveByPlayer(ctx context.Context, userID uuid.UUID) (*models.Encounter, error)

	// ReplaceActive retires any currently active encounter of the player
	// (isActive=false, endedAt stamped) and creates the new one as a
	// single atomic step, preserving the at-most-one invariant under
	// concurrent requests.
	ReplaceActive(ctx context.Context, encounter *models.Encounter) error

	// UpdateHP persists a new current HP value for an active encounter.
	UpdateHP(ctx context.Context, encounterID uuid.UUID, currentHP int) error

	// Finish marks the encounter terminal (isActive=false, endedAt now).
	Finish(ctx context.Context, encounterID uuid.UUID) error
}

// SpeciesRepository exposes the static creature catalogue.
//
//go:generate mockery --name SpeciesRepository --output ./mocks --outpkg mocks --case=underscore
type SpeciesRepository interface {
	// GetByID returns a species with its level-up move pool loaded.
	// Returns models.ErrSpeciesNotFound for unknown ids.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Species, error)
}

// OwnedCreatureRepository handles creatures captured by players.
//
//go:generate mockery --name OwnedCreatureRepository --output ./mocks --outpkg mocks --case=underscore
type OwnedCreatureRepository interface {
	// Create stores a newly caught or prize creature.
	Create(ctx context.Context, creature *models.OwnedCreature) error

	// GetPartyLeader returns the first populated party slot.
	// Returns models.ErrNoActivePartyMember when the party is empty.
	GetPartyLeader(ctx context.Context, userID uuid.UUID) (*models.OwnedCreature, error)

	// Update persists the mutable creature fields (level, experience,
	// friendship, HP/MP pools).
	Update(ctx context.Context, creature *models.OwnedCreature) error
}

// TrainerRepository exposes scripted PvE opponents.
//
//go:generate mockery --name TrainerRepository --output ./mocks --outpkg mocks --case=underscore
type TrainerRepository interface {
	// GetByID returns a trainer with its ordered team loaded.
	// Returns models.ErrTrainerNotFound for unknown ids.
	GetByID(ctx context.Context, id uuid.UUID) (*models.TrainerDefinition, error)

	// HasClaimedPrize reports whether the player already received the
	// trainer's one-time prize creature.
	HasClaimedPrize(ctx context.Context, userID, trainerID uuid.UUID) (bool, error)

	// MarkPrizeClaimed records the one-time prize grant. Idempotent.
	MarkPrizeClaimed(ctx context.Context, userID, trainerID uuid.UUID) error
}

// DailyActivityRepository accumulates per-(player, day) counters for
// reporting. Failures here must never roll back the originating action.
//
//go:generate mockery --name DailyActivityRepository --output ./mocks --outpkg mocks --case=underscore
type DailyActivityRepository interface {
	// Increment upserts the (player, day) row, adding the provided
	// non-negative deltas to its counters.
	Increment(ctx context.Context, userID uuid.UUID, day string, delta models.DailyActivity) error
}

// LeaderboardRepository mirrors daily experience gains into a redis
// sorted set for cheap ranking queries.
//
//go:generate mockery --name LeaderboardRepository --output ./mocks --outpkg mocks --case=underscore
type LeaderboardRepository interface {
	// AddExperience increments the player's score on the given day's
	// board.
	AddExperience(ctx context.Context, day string, userID uuid.UUID, exp int) error
}
