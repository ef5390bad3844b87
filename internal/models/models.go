package models

import (
	"time"

	"github.com/google/uuid"
)

// StatBlock holds the six combat stat channels shared by species base
// stats and derived stats.
type StatBlock struct {
	HP        int `json:"hp"`
	Attack    int `json:"attack"`
	Defense   int `json:"defense"`
	SpAttack  int `json:"spAttack"`
	SpDefense int `json:"spDefense"`
	Speed     int `json:"speed"`
}

// PlayerProgress is the player's global progression state. Created at
// account creation by the auth collaborator; mutated by every search and
// battle action; never deleted.
type PlayerProgress struct {
	UserID        uuid.UUID `json:"userId"`
	Level         int       `json:"level"`
	Experience    int       `json:"experience"`
	Gold          int       `json:"gold"`
	PlatinumCoins int       `json:"platinumCoins"`
	CurrentHP     int       `json:"currentHp"`
	MaxHP         int       `json:"maxHp"`
	CurrentMP     int       `json:"currentMp"`
	MaxMP         int       `json:"maxMp"`
	Wins          int       `json:"wins"`
	Losses        int       `json:"losses"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// MapDefinition is a static area definition. Authored by the admin
// collaborator; read-only to the engine. OrderIndex defines the global
// unlock sequence.
type MapDefinition struct {
	ID               uuid.UUID `json:"id"`
	Slug             string    `json:"slug"`
	Name             string    `json:"name"`
	OrderIndex       int       `json:"orderIndex"`
	LevelMin         int       `json:"levelMin"`
	LevelMax         int       `json:"levelMax"`
	RequiredSearches int       `json:"requiredSearches"`
	EncounterRate    float64   `json:"encounterRate"`
}

// MapProgress is the per-(player, map) unlock and search state. Created
// lazily on first interaction; TotalSearches is monotonically
// non-decreasing.
type MapProgress struct {
	UserID        uuid.UUID  `json:"userId"`
	MapID         uuid.UUID  `json:"mapId"`
	TotalSearches int        `json:"totalSearches"`
	Level         int        `json:"level"`
	Experience    int        `json:"experience"`
	IsUnlocked    bool       `json:"isUnlocked"`
	UnlockedAt    *time.Time `json:"unlockedAt,omitempty"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// DropKind distinguishes creature rows from item rows in a map's drop
// table.
type DropKind string

const (
	DropKindCreature DropKind = "creature"
	DropKindItem     DropKind = "item"
)

// DropTableEntry is one weighted row of a map's drop table. Authored
// externally; read-only, consumed by the weighted selector.
type DropTableEntry struct {
	ID        uuid.UUID `json:"id"`
	MapID     uuid.UUID `json:"mapId"`
	Kind      DropKind  `json:"kind"`
	TargetID  uuid.UUID `json:"targetId"`
	VariantID *int      `json:"variantId,omitempty"`
	Weight    float64   `json:"weight"`
}

// LevelUpMove is one entry of a species' level-up move pool.
type LevelUpMove struct {
	Name       string `json:"name"`
	Power      int    `json:"power"`
	MPCost     int    `json:"mpCost"`
	LearnLevel int    `json:"learnLevel"`
}

// Species is a static creature definition. Read-only to the engine.
type Species struct {
	ID        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	Rarity    Rarity        `json:"rarity"`
	CatchRate int           `json:"catchRate"`
	BaseStats StatBlock     `json:"baseStats"`
	Moves     []LevelUpMove `json:"moves,omitempty"`
}

// ItemDefinition is a static item definition, referenced by item drop
// rows.
type ItemDefinition struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Encounter is the single currently-active wild creature for a player. At
// most one row with IsActive=true may exist per player at any time.
type Encounter struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"userId"`
	MapID     uuid.UUID  `json:"mapId"`
	SpeciesID uuid.UUID  `json:"speciesId"`
	Level     int        `json:"level"`
	CurrentHP int        `json:"currentHp"`
	MaxHP     int        `json:"maxHp"`
	VariantID *int       `json:"variantId,omitempty"`
	IsActive  bool       `json:"isActive"`
	StartedAt time.Time  `json:"startedAt"`
	EndedAt   *time.Time `json:"endedAt,omitempty"`
}

// CreatureLocation says where an owned creature currently lives.
type CreatureLocation string

const (
	LocationParty CreatureLocation = "party"
	LocationBox   CreatureLocation = "box"
)

// OwnedCreature is a captured creature with independent progression.
// Created on successful catch; leveled by battle rewards; never deleted
// automatically.
type OwnedCreature struct {
	ID         uuid.UUID        `json:"id"`
	UserID     uuid.UUID        `json:"userId"`
	SpeciesID  uuid.UUID        `json:"speciesId"`
	Level      int              `json:"level"`
	Experience int              `json:"experience"`
	Friendship int              `json:"friendship"`
	Location   CreatureLocation `json:"location"`
	PartyIndex *int             `json:"partyIndex,omitempty"`
	VariantID  *int             `json:"variantId,omitempty"`
	Moves      []string         `json:"moves"`
	CurrentHP  int              `json:"currentHp"`
	MaxHP      int              `json:"maxHp"`
	CurrentMP  int              `json:"currentMp"`
	MaxMP      int              `json:"maxMp"`
	CaughtAt   time.Time        `json:"caughtAt"`
}

// DailyActivity is the per-(player, calendar day) aggregate used for
// downstream reporting. Day is the server-local calendar date.
type DailyActivity struct {
	UserID        uuid.UUID `json:"userId"`
	Day           string    `json:"day"`
	Searches      int       `json:"searches"`
	MapExperience int       `json:"mapExperience"`
	PlatinumCoins int       `json:"platinumCoins"`
}

// TrainerTeamMember is one slot of a scripted trainer's ordered team.
type TrainerTeamMember struct {
	SpeciesID uuid.UUID `json:"speciesId"`
	Level     int       `json:"level"`
	VariantID *int      `json:"variantId,omitempty"`
	Position  int       `json:"position"`
}

// TrainerDefinition is a scripted PvE opponent. Authored by the admin
// collaborator; read-only to the engine.
type TrainerDefinition struct {
	ID                  uuid.UUID           `json:"id"`
	Name                string              `json:"name"`
	Team                []TrainerTeamMember `json:"team"`
	PlatinumCoinsReward int                 `json:"platinumCoinsReward"`
	ExpReward           int                 `json:"expReward"`
	PrizeSpeciesID      *uuid.UUID          `json:"prizeSpeciesId,omitempty"`
	PrizeLevel          int                 `json:"prizeLevel"`
}

// PlayerStateUpdate is the snapshot pushed to the client update queue
// after shared player state changes. The concrete transport consuming the
// queue is an external collaborator.
type PlayerStateUpdate struct {
	UserID          string          `json:"user_id"`
	Level           int             `json:"level"`
	Experience      int             `json:"experience"`
	Gold            int             `json:"gold"`
	PlatinumCoins   int             `json:"platinum_coins"`
	ActiveEncounter *Encounter      `json:"active_encounter,omitempty"`
	Timestamp       time.Time       `json:"timestamp"`
}
