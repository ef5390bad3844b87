package mechanics

import "creature-server/internal/models"

// Experience step bases. Player and map levels share the same curve;
// owned creatures level on a cheaper one.
const (
	PlayerExpBase   = 100
	MapExpBase      = 100
	CreatureExpBase = 50
)

// Fixed per-search experience amounts.
const (
	SearchMapExp    = 10
	SearchPlayerExp = 5
)

// FriendshipPerBattle is the fixed friendship increment granted to the
// party leader on battle resolution.
const FriendshipPerBattle = 5

// ExpToNextLevel returns the experience required to advance from the
// given level to the next one. Strictly increasing in level; base selects
// the curve (PlayerExpBase, MapExpBase or CreatureExpBase).
func ExpToNextLevel(level, base int) int {
	if level < 1 {
		level = 1
	}
	return base * level
}

// DerivedStats converts base stats into combat stats for a given level
// and rarity. Each channel grows linearly with level by the rarity's
// per-level gain and is never below 1. Deterministic: no randomness.
func DerivedStats(base models.StatBlock, level int, rarity models.Rarity) models.StatBlock {
	if level < 1 {
		level = 1
	}
	gain := rarity.StatGain()
	grow := func(b int) int {
		v := b + (level-1)*gain
		if v < 1 {
			v = 1
		}
		return v
	}
	return models.StatBlock{
		HP:        grow(base.HP),
		Attack:    grow(base.Attack),
		Defense:   grow(base.Defense),
		SpAttack:  grow(base.SpAttack),
		SpDefense: grow(base.SpDefense),
		Speed:     grow(base.Speed),
	}
}

// ApplyExperience adds gained experience to the given level/experience
// pair and consumes it into level-ups while enough is accumulated. The
// loop supports multi-level gains from bulk experience. Returns the new
// level, the remaining experience and the number of levels gained.
func ApplyExperience(level, experience, gained, base int) (int, int, int) {
	if level < 1 {
		level = 1
	}
	if gained > 0 {
		experience += gained
	}
	levelsGained := 0
	for experience >= ExpToNextLevel(level, base) {
		experience -= ExpToNextLevel(level, base)
		level++
		levelsGained++
	}
	return level, experience, levelsGained
}
