package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"creature-server/internal/interfaces"
	"creature-server/internal/mechanics"
	"creature-server/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MapLockedError carries the unlock requirement alongside the sentinel
// so handlers can tell the player how far they are from unlocking.
type MapLockedError struct {
	Status UnlockStatus
}

func (e *MapLockedError) Error() string {
	return fmt.Sprintf("map is locked: %d/%d searches on the preceding map",
		e.Status.CurrentSearches, e.Status.RequiredSearches)
}

func (e *MapLockedError) Unwrap() error { return models.ErrMapLocked }

// EncounterService implements the search action and the wild-encounter
// state machine. All mutating entry points take the player lock, so a
// double-submitted search cannot interleave with an attack on the same
// account.
type EncounterService struct {
	players     interfaces.PlayerRepository
	maps        interfaces.MapRepository
	encounters  interfaces.EncounterRepository
	species     interfaces.SpeciesRepository
	owned       interfaces.OwnedCreatureRepository
	progression *ProgressionService
	activity    *ActivityService
	publisher   interfaces.StatePublisher
	locks       *PlayerLocks
	rng         mechanics.Rand
	logger      *zap.Logger
}

// NewEncounterService creates a new EncounterService.
func NewEncounterService(
	players interfaces.PlayerRepository,
	maps interfaces.MapRepository,
	encounters interfaces.EncounterRepository,
	species interfaces.SpeciesRepository,
	owned interfaces.OwnedCreatureRepository,
	progression *ProgressionService,
	activity *ActivityService,
	publisher interfaces.StatePublisher,
	locks *PlayerLocks,
	rng mechanics.Rand,
	logger *zap.Logger,
) *EncounterService {
	return &EncounterService{
		players:     players,
		maps:        maps,
		encounters:  encounters,
		species:     species,
		owned:       owned,
		progression: progression,
		activity:    activity,
		publisher:   publisher,
		locks:       locks,
		rng:         rng,
		logger:      logger.Named("EncounterService"),
	}
}

// Search performs one search action on the map: unlock gate, progress
// tick, encounter or item roll. A rolled encounter replaces any
// still-active one atomically; the search never fails because an old
// encounter existed.
func (s *EncounterService) Search(ctx context.Context, userID uuid.UUID, mapSlug string, adminBypass bool) (*SearchResult, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	mapDef, err := s.maps.GetBySlug(ctx, mapSlug)
	if err != nil {
		return nil, err
	}

	status, err := s.progression.CheckAccess(ctx, userID, mapDef, adminBypass)
	if err != nil {
		if errors.Is(err, models.ErrMapLocked) {
			return nil, &MapLockedError{Status: status}
		}
		return nil, err
	}

	progress, nextUnlocked, err := s.progression.RecordSearch(ctx, userID, mapDef)
	if err != nil {
		return nil, err
	}

	player, err := s.players.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load player progress: %w", err)
	}
	player.Level, player.Experience, _ = mechanics.ApplyExperience(
		player.Level, player.Experience, mechanics.SearchPlayerExp, mechanics.PlayerExpBase)
	if err := s.players.Update(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to persist player progress: %w", err)
	}

	result := &SearchResult{
		MapProgress:     progress,
		PlayerLevel:     player.Level,
		NextMapUnlocked: nextUnlocked,
	}

	if s.rng.Float64() < mapDef.EncounterRate {
		encounter, err := s.rollEncounter(ctx, userID, mapDef)
		if err != nil {
			return nil, err
		}
		if encounter != nil {
			result.Encountered = true
			result.Encounter = encounter
		}
	}
	if !result.Encountered {
		drop, err := s.rollItemDrop(ctx, mapDef)
		if err != nil {
			return nil, err
		}
		result.ItemDrop = drop
	}

	s.activity.RecordSearch(ctx, userID, mechanics.SearchMapExp)
	s.publishState(ctx, player, result.Encounter)

	return result, nil
}

// rollEncounter picks a creature from the map's drop table and installs
// it as the player's single active encounter. Returns nil when the map
// has no creature rows.
func (s *EncounterService) rollEncounter(ctx context.Context, userID uuid.UUID, mapDef *models.MapDefinition) (*models.Encounter, error) {
	entries, err := s.maps.DropTable(ctx, mapDef.ID, models.DropKindCreature)
	if err != nil {
		return nil, fmt.Errorf("failed to load creature drop table: %w", err)
	}

	weighted := make([]mechanics.Weighted[models.DropTableEntry], 0, len(entries))
	for _, e := range entries {
		weighted = append(weighted, mechanics.Weighted[models.DropTableEntry]{Value: e, Weight: e.Weight})
	}
	entry, ok := mechanics.PickWeighted(weighted, s.rng)
	if !ok {
		return nil, nil
	}

	sp, err := s.species.GetByID(ctx, entry.TargetID)
	if err != nil {
		return nil, fmt.Errorf("drop table references species %s: %w", entry.TargetID, err)
	}

	level := mapDef.LevelMin
	if spread := mapDef.LevelMax - mapDef.LevelMin; spread > 0 {
		level += s.rng.Intn(spread + 1)
	}
	if level < 1 {
		level = 1
	}

	maxHP := mechanics.DerivedStats(sp.BaseStats, level, sp.Rarity).HP
	encounter := &models.Encounter{
		ID:        uuid.New(),
		UserID:    userID,
		MapID:     mapDef.ID,
		SpeciesID: sp.ID,
		Level:     level,
		CurrentHP: maxHP,
		MaxHP:     maxHP,
		VariantID: entry.VariantID,
		IsActive:  true,
		StartedAt: time.Now(),
	}
	if err := s.encounters.ReplaceActive(ctx, encounter); err != nil {
		return nil, fmt.Errorf("failed to create encounter: %w", err)
	}
	return encounter, nil
}

func (s *EncounterService) rollItemDrop(ctx context.Context, mapDef *models.MapDefinition) (*models.DropTableEntry, error) {
	entries, err := s.maps.DropTable(ctx, mapDef.ID, models.DropKindItem)
	if err != nil {
		return nil, fmt.Errorf("failed to load item drop table: %w", err)
	}
	weighted := make([]mechanics.Weighted[models.DropTableEntry], 0, len(entries))
	for _, e := range entries {
		weighted = append(weighted, mechanics.Weighted[models.DropTableEntry]{Value: e, Weight: e.Weight})
	}
	entry, ok := mechanics.PickWeighted(weighted, s.rng)
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

// Attack lands one skirmish hit on the player's active encounter. The
// encounter finishes when its HP reaches zero.
func (s *EncounterService) Attack(ctx context.Context, userID, encounterID uuid.UUID) (*AttackResult, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	encounter, err := s.encounters.GetActiveByID(ctx, userID, encounterID)
	if err != nil {
		return nil, err
	}

	damage := mechanics.WildDamageRoll(encounter.Level, s.rng)
	hp := encounter.CurrentHP - damage
	if hp < 0 {
		hp = 0
	}

	if hp == 0 {
		if err := s.encounters.Finish(ctx, encounterID); err != nil {
			return nil, fmt.Errorf("failed to finish encounter: %w", err)
		}
	} else {
		if err := s.encounters.UpdateHP(ctx, encounterID, hp); err != nil {
			return nil, fmt.Errorf("failed to persist encounter hp: %w", err)
		}
	}

	return &AttackResult{Damage: damage, HP: hp, Defeated: hp == 0}, nil
}

// Catch performs one catch attempt against the active encounter. A miss
// is a normal outcome: the encounter stays active and untouched. A hit
// finishes the encounter and mints an owned creature with the species'
// four strongest learnable moves and level-derived HP/MP pools.
func (s *EncounterService) Catch(ctx context.Context, userID, encounterID uuid.UUID) (*CatchResult, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	encounter, err := s.encounters.GetActiveByID(ctx, userID, encounterID)
	if err != nil {
		return nil, err
	}
	sp, err := s.species.GetByID(ctx, encounter.SpeciesID)
	if err != nil {
		return nil, fmt.Errorf("encounter references species %s: %w", encounter.SpeciesID, err)
	}

	chance := mechanics.CatchProbability(sp.CatchRate, encounter.CurrentHP, encounter.MaxHP)
	if s.rng.Float64() >= chance {
		return &CatchResult{Caught: false, HP: encounter.CurrentHP}, nil
	}

	if err := s.encounters.Finish(ctx, encounterID); err != nil {
		return nil, fmt.Errorf("failed to finish encounter: %w", err)
	}

	creature := mintCreature(userID, sp, encounter.Level, encounter.VariantID)
	if _, err := s.owned.GetPartyLeader(ctx, userID); err != nil {
		if !errors.Is(err, models.ErrNoActivePartyMember) {
			return nil, fmt.Errorf("failed to check party: %w", err)
		}
		// First creature goes straight into the party.
		idx := 0
		creature.Location = models.LocationParty
		creature.PartyIndex = &idx
	}
	if err := s.owned.Create(ctx, creature); err != nil {
		return nil, fmt.Errorf("failed to store caught creature: %w", err)
	}

	s.logger.Info("Player caught creature",
		zap.Stringer("userID", userID),
		zap.String("species", sp.Name),
		zap.Int("level", encounter.Level))

	return &CatchResult{Caught: true, HP: encounter.CurrentHP, Creature: creature}, nil
}

// mintCreature builds an owned creature for a catch or a trainer prize.
// Moves are the four highest-learn-level moves the species knows at the
// given level; a species with none learnable yet gets the default move.
func mintCreature(userID uuid.UUID, sp *models.Species, level int, variantID *int) *models.OwnedCreature {
	learnable := make([]models.LevelUpMove, 0, len(sp.Moves))
	for _, m := range sp.Moves {
		if m.LearnLevel <= level {
			learnable = append(learnable, m)
		}
	}
	sort.SliceStable(learnable, func(i, j int) bool {
		return learnable[i].LearnLevel > learnable[j].LearnLevel
	})
	if len(learnable) > 4 {
		learnable = learnable[:4]
	}
	moves := make([]string, 0, 4)
	for _, m := range learnable {
		moves = append(moves, m.Name)
	}
	if len(moves) == 0 {
		moves = append(moves, mechanics.DefaultMoveName)
	}

	stats := mechanics.DerivedStats(sp.BaseStats, level, sp.Rarity)
	return &models.OwnedCreature{
		ID:         uuid.New(),
		UserID:     userID,
		SpeciesID:  sp.ID,
		Level:      level,
		Experience: 0,
		Friendship: 0,
		Location:   models.LocationBox,
		VariantID:  variantID,
		Moves:      moves,
		CurrentHP:  stats.HP,
		MaxHP:      stats.HP,
		CurrentMP:  stats.SpAttack,
		MaxMP:      stats.SpAttack,
		CaughtAt:   time.Now(),
	}
}

// Flee abandons the active encounter.
func (s *EncounterService) Flee(ctx context.Context, userID, encounterID uuid.UUID) error {
	unlock := s.locks.Lock(userID)
	defer unlock()

	if _, err := s.encounters.GetActiveByID(ctx, userID, encounterID); err != nil {
		return err
	}
	if err := s.encounters.Finish(ctx, encounterID); err != nil {
		return fmt.Errorf("failed to finish encounter: %w", err)
	}
	return nil
}

// MapUnlockStatus reports how close the player is to unlocking a map.
func (s *EncounterService) MapUnlockStatus(ctx context.Context, userID uuid.UUID, mapSlug string) (*UnlockStatus, error) {
	mapDef, err := s.maps.GetBySlug(ctx, mapSlug)
	if err != nil {
		return nil, err
	}
	status, err := s.progression.UnlockStatus(ctx, userID, mapDef)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func (s *EncounterService) publishState(ctx context.Context, player *models.PlayerProgress, encounter *models.Encounter) {
	update := models.PlayerStateUpdate{
		UserID:          player.UserID.String(),
		Level:           player.Level,
		Experience:      player.Experience,
		Gold:            player.Gold,
		PlatinumCoins:   player.PlatinumCoins,
		ActiveEncounter: encounter,
		Timestamp:       time.Now(),
	}
	if err := s.publisher.PublishPlayerState(ctx, update); err != nil {
		s.logger.Warn("Failed to publish player state", zap.Error(err))
	}
}
