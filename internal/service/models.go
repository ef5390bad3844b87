package service

import (
	"creature-server/internal/models"

	"github.com/google/uuid"
)

// SearchResult is the outcome of one map search action.
type SearchResult struct {
	Encountered bool                   `json:"encountered"`
	Encounter   *models.Encounter      `json:"encounter,omitempty"`
	ItemDrop    *models.DropTableEntry `json:"itemDrop,omitempty"`
	MapProgress *models.MapProgress    `json:"mapProgress"`
	PlayerLevel int                    `json:"playerLevel"`
	// NextMapUnlocked is set when this search crossed the source map's
	// threshold and eagerly unlocked the next map in the chain.
	NextMapUnlocked *models.MapDefinition `json:"nextMapUnlocked,omitempty"`
}

// UnlockStatus describes how close a player is to unlocking a map. The
// full requirement is returned (not just a boolean) so clients can render
// progress.
type UnlockStatus struct {
	Unlocked          bool `json:"unlocked"`
	RequiredSearches  int  `json:"requiredSearches"`
	CurrentSearches   int  `json:"currentSearches"`
	RemainingSearches int  `json:"remainingSearches"`
}

// AttackResult is the outcome of a wild-encounter attack.
type AttackResult struct {
	Damage   int  `json:"damage"`
	HP       int  `json:"hp"`
	Defeated bool `json:"defeated"`
}

// CatchResult is the outcome of a catch attempt. A missed throw is a
// normal outcome, not an error: Caught=false with the encounter still
// active.
type CatchResult struct {
	Caught   bool                  `json:"caught"`
	HP       int                   `json:"hp"`
	Creature *models.OwnedCreature `json:"creature,omitempty"`
}

// OpponentSnapshot is the client-provided view of the current trainer
// battle opponent used for one move resolution.
type OpponentSnapshot struct {
	Level     int `json:"level"`
	CurrentHP int `json:"currentHp"`
	Defense   int `json:"defense"`
}

// BattleAttackResult is the outcome of one trainer-battle move.
type BattleAttackResult struct {
	Damage    int    `json:"damage"`
	CurrentHP int    `json:"currentHp"`
	Defeated  bool   `json:"defeated"`
	MoveUsed  string `json:"moveUsed"`
}

// BattleRewards describes what a battle resolution granted.
type BattleRewards struct {
	Gold          int `json:"gold"`
	PlatinumCoins int `json:"platinumCoins"`
	Experience    int `json:"experience"`
	Friendship    int `json:"friendship"`
}

// BattleResolveResult is the outcome of resolving a finished battle.
type BattleResolveResult struct {
	Rewards      BattleRewards         `json:"rewards"`
	Leader       *models.OwnedCreature `json:"leader"`
	LevelsGained int                   `json:"levelsGained"`
	Prize        *models.OwnedCreature `json:"prize,omitempty"`
}

// OpponentTeamMember is one ad hoc opponent slot for battle resolution
// without a trainer definition.
type OpponentTeamMember struct {
	SpeciesID uuid.UUID `json:"speciesId"`
	Level     int       `json:"level"`
}
