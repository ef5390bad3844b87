package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"creature-server/internal/interfaces"
	"creature-server/internal/mechanics"
	"creature-server/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Reward rates for ad hoc battles without a trainer definition.
const (
	adHocGoldPerLevel = 5
	adHocExpPerLevel  = 10
)

// BattleService resolves trainer battles: single move turns against a
// client-tracked opponent, and the final reward settlement when the
// opposing team is down.
type BattleService struct {
	players   interfaces.PlayerRepository
	owned     interfaces.OwnedCreatureRepository
	species   interfaces.SpeciesRepository
	trainers  interfaces.TrainerRepository
	activity  *ActivityService
	publisher interfaces.StatePublisher
	locks     *PlayerLocks
	rng       mechanics.Rand
	logger    *zap.Logger
}

// NewBattleService creates a new BattleService.
func NewBattleService(
	players interfaces.PlayerRepository,
	owned interfaces.OwnedCreatureRepository,
	species interfaces.SpeciesRepository,
	trainers interfaces.TrainerRepository,
	activity *ActivityService,
	publisher interfaces.StatePublisher,
	locks *PlayerLocks,
	rng mechanics.Rand,
	logger *zap.Logger,
) *BattleService {
	return &BattleService{
		players:   players,
		owned:     owned,
		species:   species,
		trainers:  trainers,
		activity:  activity,
		publisher: publisher,
		locks:     locks,
		rng:       rng,
		logger:    logger.Named("BattleService"),
	}
}

// Attack resolves one move of the party leader against the opponent
// snapshot the client is tracking. An unknown move, or one the leader
// cannot pay the MP cost for, falls back to the zero-cost default move.
// MP is deducted before damage and floored at zero.
func (s *BattleService) Attack(ctx context.Context, userID uuid.UUID, moveName string, opponent OpponentSnapshot) (*BattleAttackResult, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	leader, err := s.owned.GetPartyLeader(ctx, userID)
	if err != nil {
		return nil, err
	}
	sp, err := s.species.GetByID(ctx, leader.SpeciesID)
	if err != nil {
		return nil, fmt.Errorf("party leader references species %s: %w", leader.SpeciesID, err)
	}

	power, cost, used := resolveMove(leader, sp, moveName)
	if cost > leader.CurrentMP {
		power, cost, used = mechanics.DefaultMovePower, 0, mechanics.DefaultMoveName
	}
	if cost > 0 {
		leader.CurrentMP -= cost
		if leader.CurrentMP < 0 {
			leader.CurrentMP = 0
		}
		if err := s.owned.Update(ctx, leader); err != nil {
			return nil, fmt.Errorf("failed to persist party leader: %w", err)
		}
	}

	attack := mechanics.DerivedStats(sp.BaseStats, leader.Level, sp.Rarity).Attack
	damage := mechanics.MoveDamage(leader.Level, power, attack, opponent.Defense, s.rng)

	hp := opponent.CurrentHP - damage
	if hp < 0 {
		hp = 0
	}
	return &BattleAttackResult{
		Damage:    damage,
		CurrentHP: hp,
		Defeated:  hp == 0,
		MoveUsed:  used,
	}, nil
}

// resolveMove looks the requested move up in the moves the leader
// actually knows. Anything unknown resolves to the default move.
func resolveMove(leader *models.OwnedCreature, sp *models.Species, moveName string) (power, cost int, used string) {
	known := false
	for _, name := range leader.Moves {
		if name == moveName {
			known = true
			break
		}
	}
	if known {
		for _, m := range sp.Moves {
			if m.Name == moveName {
				return m.Power, m.MPCost, m.Name
			}
		}
	}
	return mechanics.DefaultMovePower, 0, mechanics.DefaultMoveName
}

// Resolve settles a won battle: currency and experience to the player,
// rarity-scaled experience and friendship to the party leader, and the
// trainer's one-time prize creature when defined and not yet claimed.
// With a trainer id the rewards come from the trainer definition;
// otherwise they are derived from the submitted opposing team.
func (s *BattleService) Resolve(ctx context.Context, userID uuid.UUID, trainerID *uuid.UUID, opponents []OpponentTeamMember) (*BattleResolveResult, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	leader, err := s.owned.GetPartyLeader(ctx, userID)
	if err != nil {
		return nil, err
	}
	sp, err := s.species.GetByID(ctx, leader.SpeciesID)
	if err != nil {
		return nil, fmt.Errorf("party leader references species %s: %w", leader.SpeciesID, err)
	}

	var (
		rewards BattleRewards
		trainer *models.TrainerDefinition
	)
	if trainerID != nil {
		trainer, err = s.trainers.GetByID(ctx, *trainerID)
		if err != nil {
			return nil, err
		}
		if len(trainer.Team) == 0 {
			return nil, models.ErrEmptyOpponentTeam
		}
		rewards.PlatinumCoins = trainer.PlatinumCoinsReward
		rewards.Experience = trainer.ExpReward
	} else {
		if len(opponents) == 0 {
			return nil, models.ErrEmptyOpponentTeam
		}
		total := 0
		for _, o := range opponents {
			total += o.Level
		}
		rewards.Gold = total * adHocGoldPerLevel
		rewards.Experience = total * adHocExpPerLevel
	}
	rewards.Friendship = mechanics.FriendshipPerBattle

	gained := int(math.Floor(float64(rewards.Experience) * sp.Rarity.ExpMultiplier()))
	var levelsGained int
	leader.Level, leader.Experience, levelsGained = mechanics.ApplyExperience(
		leader.Level, leader.Experience, gained, mechanics.CreatureExpBase)
	leader.Friendship += mechanics.FriendshipPerBattle
	if levelsGained > 0 {
		// Leveling refills the pools at the new caps.
		stats := mechanics.DerivedStats(sp.BaseStats, leader.Level, sp.Rarity)
		leader.MaxHP = stats.HP
		leader.CurrentHP = stats.HP
		leader.MaxMP = stats.SpAttack
		leader.CurrentMP = stats.SpAttack
	}
	if err := s.owned.Update(ctx, leader); err != nil {
		return nil, fmt.Errorf("failed to persist party leader: %w", err)
	}

	player, err := s.players.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load player progress: %w", err)
	}
	player.Gold += rewards.Gold
	player.PlatinumCoins += rewards.PlatinumCoins
	player.Wins++
	if err := s.players.Update(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to persist player progress: %w", err)
	}

	result := &BattleResolveResult{
		Rewards:      rewards,
		Leader:       leader,
		LevelsGained: levelsGained,
	}

	if trainer != nil && trainer.PrizeSpeciesID != nil {
		prize, err := s.grantPrize(ctx, userID, trainer)
		if err != nil {
			return nil, err
		}
		result.Prize = prize
	}

	s.activity.RecordBattle(ctx, userID, rewards.PlatinumCoins, gained)
	s.publishState(ctx, player)

	s.logger.Info("Battle resolved",
		zap.Stringer("userID", userID),
		zap.Int("gold", rewards.Gold),
		zap.Int("platinumCoins", rewards.PlatinumCoins),
		zap.Int("leaderExp", gained))

	return result, nil
}

// grantPrize mints the trainer's prize creature once per player. Repeat
// resolutions against the same trainer pay currency again but never the
// prize.
func (s *BattleService) grantPrize(ctx context.Context, userID uuid.UUID, trainer *models.TrainerDefinition) (*models.OwnedCreature, error) {
	claimed, err := s.trainers.HasClaimedPrize(ctx, userID, trainer.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check prize claim: %w", err)
	}
	if claimed {
		return nil, nil
	}

	prizeSp, err := s.species.GetByID(ctx, *trainer.PrizeSpeciesID)
	if err != nil {
		if errors.Is(err, models.ErrSpeciesNotFound) {
			s.logger.Error("Trainer prize references unknown species",
				zap.Stringer("trainerID", trainer.ID),
				zap.Stringer("speciesID", *trainer.PrizeSpeciesID))
			return nil, nil
		}
		return nil, err
	}

	level := trainer.PrizeLevel
	if level < 1 {
		level = 1
	}
	prize := mintCreature(userID, prizeSp, level, nil)
	if err := s.owned.Create(ctx, prize); err != nil {
		return nil, fmt.Errorf("failed to store prize creature: %w", err)
	}
	if err := s.trainers.MarkPrizeClaimed(ctx, userID, trainer.ID); err != nil {
		return nil, fmt.Errorf("failed to record prize claim: %w", err)
	}
	return prize, nil
}

func (s *BattleService) publishState(ctx context.Context, player *models.PlayerProgress) {
	update := models.PlayerStateUpdate{
		UserID:        player.UserID.String(),
		Level:         player.Level,
		Experience:    player.Experience,
		Gold:          player.Gold,
		PlatinumCoins: player.PlatinumCoins,
		Timestamp:     time.Now(),
	}
	if err := s.publisher.PublishPlayerState(ctx, update); err != nil {
		s.logger.Warn("Failed to publish player state", zap.Error(err))
	}
}
