package service

import (
	"context"
	"errors"
	"fmt"

	"creature-server/internal/interfaces"
	"creature-server/internal/mechanics"
	"creature-server/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProgressionService is the map progression ledger: it gates actions by
// unlock state and advances per-map search counters, levels and the
// unlock chain.
type ProgressionService struct {
	maps        interfaces.MapRepository
	mapProgress interfaces.MapProgressRepository
	logger      *zap.Logger
}

// NewProgressionService creates a new ProgressionService.
func NewProgressionService(
	maps interfaces.MapRepository,
	mapProgress interfaces.MapProgressRepository,
	logger *zap.Logger,
) *ProgressionService {
	return &ProgressionService{
		maps:        maps,
		mapProgress: mapProgress,
		logger:      logger.Named("ProgressionService"),
	}
}

// UnlockStatus computes a player's unlock state for a map. The first map
// of the chain is always unlocked; any later map unlocks when the
// immediately preceding map has accumulated its required searches.
func (s *ProgressionService) UnlockStatus(ctx context.Context, userID uuid.UUID, mapDef *models.MapDefinition) (UnlockStatus, error) {
	if mapDef.OrderIndex <= 0 {
		return UnlockStatus{Unlocked: true}, nil
	}

	prev, err := s.maps.GetByOrderIndex(ctx, mapDef.OrderIndex-1)
	if err != nil {
		if errors.Is(err, models.ErrMapNotFound) {
			// A gap in the chain means nothing can gate this map.
			s.logger.Warn("Unlock chain has a gap before map",
				zap.String("slug", mapDef.Slug), zap.Int("orderIndex", mapDef.OrderIndex))
			return UnlockStatus{Unlocked: true}, nil
		}
		return UnlockStatus{}, fmt.Errorf("failed to load preceding map: %w", err)
	}

	current := 0
	progress, err := s.mapProgress.Get(ctx, userID, prev.ID)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return UnlockStatus{}, fmt.Errorf("failed to load preceding map progress: %w", err)
	}
	if progress != nil {
		current = progress.TotalSearches
	}

	remaining := prev.RequiredSearches - current
	if remaining < 0 {
		remaining = 0
	}
	return UnlockStatus{
		Unlocked:          current >= prev.RequiredSearches,
		RequiredSearches:  prev.RequiredSearches,
		CurrentSearches:   current,
		RemainingSearches: remaining,
	}, nil
}

// CheckAccess verifies the map is reachable for the player. Privileged
// callers bypass the unlock gate but still record progress normally.
// Returns models.ErrMapLocked (with the computed status) when gated.
func (s *ProgressionService) CheckAccess(ctx context.Context, userID uuid.UUID, mapDef *models.MapDefinition, adminBypass bool) (UnlockStatus, error) {
	status, err := s.UnlockStatus(ctx, userID, mapDef)
	if err != nil {
		return UnlockStatus{}, err
	}
	if !status.Unlocked && !adminBypass {
		return status, models.ErrMapLocked
	}
	return status, nil
}

// RecordSearch increments the map's search counter and experience,
// looping level-ups for bulk gains, and eagerly unlocks the next map of
// the chain when this search crosses the threshold. Returns the updated
// progress and the newly unlocked map, if any.
func (s *ProgressionService) RecordSearch(ctx context.Context, userID uuid.UUID, mapDef *models.MapDefinition) (*models.MapProgress, *models.MapDefinition, error) {
	progress, err := s.mapProgress.GetOrCreate(ctx, userID, mapDef.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load map progress: %w", err)
	}

	crossedBefore := progress.TotalSearches >= mapDef.RequiredSearches

	progress.TotalSearches++
	progress.Level, progress.Experience, _ = mechanics.ApplyExperience(
		progress.Level, progress.Experience, mechanics.SearchMapExp, mechanics.MapExpBase)

	if err := s.mapProgress.Update(ctx, progress); err != nil {
		return nil, nil, fmt.Errorf("failed to persist map progress: %w", err)
	}

	// Eager cascade: crossing the threshold unlocks the next map as part
	// of this same action, not lazily on the next page load.
	var unlocked *models.MapDefinition
	if !crossedBefore && progress.TotalSearches >= mapDef.RequiredSearches && mapDef.RequiredSearches > 0 {
		next, err := s.maps.GetByOrderIndex(ctx, mapDef.OrderIndex+1)
		switch {
		case err == nil:
			if err := s.mapProgress.EnsureUnlocked(ctx, userID, next.ID); err != nil {
				return nil, nil, fmt.Errorf("failed to unlock next map: %w", err)
			}
			unlocked = next
			s.logger.Info("Unlocked next map for player",
				zap.Stringer("userID", userID),
				zap.String("map", mapDef.Slug),
				zap.String("unlocked", next.Slug))
		case errors.Is(err, models.ErrMapNotFound):
			// End of the chain.
		default:
			return nil, nil, fmt.Errorf("failed to load next map: %w", err)
		}
	}

	return progress, unlocked, nil
}

// EnsureUnlocked idempotently marks the map unlocked for the player.
// UnlockedAt is stamped on the first call only.
func (s *ProgressionService) EnsureUnlocked(ctx context.Context, userID, mapID uuid.UUID) error {
	return s.mapProgress.EnsureUnlocked(ctx, userID, mapID)
}
