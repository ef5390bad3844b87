package models

import "strings"

// Rarity is the closed set of creature rarity tiers. The tier ordering is
// total: it drives per-level stat growth, catch weighting and battle
// experience multipliers.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// rarityAliases maps legacy tokens that still exist in authored content to
// canonical tiers. Lookup keys are lower-case.
var rarityAliases = map[string]Rarity{
	"common":     RarityCommon,
	"normal":     RarityCommon,
	"basic":      RarityCommon,
	"uncommon":   RarityUncommon,
	"rare":       RarityRare,
	"epic":       RarityEpic,
	"super rare": RarityEpic,
	"super-rare": RarityEpic,
	"ultra":      RarityEpic,
	"legendary":  RarityLegendary,
	"mythic":     RarityLegendary,
	"mythical":   RarityLegendary,
}

// NormalizeRarity maps any rarity token (including legacy aliases) to a
// canonical tier. Unrecognized tokens fall back to the weakest tier
// without error, so stale authored data never breaks a formula.
func NormalizeRarity(token string) Rarity {
	if r, ok := rarityAliases[strings.ToLower(strings.TrimSpace(token))]; ok {
		return r
	}
	return RarityCommon
}

// StatGain returns the per-level increment for each stat channel. Higher
// tiers gain less per level; scarcity is compensated at acquisition, not
// growth.
func (r Rarity) StatGain() int {
	switch r {
	case RarityLegendary:
		return 1
	case RarityEpic:
		return 2
	case RarityRare:
		return 3
	case RarityUncommon:
		return 4
	default:
		return 5
	}
}

// ExpMultiplier returns the battle experience multiplier for a creature of
// this tier.
func (r Rarity) ExpMultiplier() float64 {
	switch r {
	case RarityLegendary:
		return 2.0
	case RarityEpic:
		return 1.5
	case RarityRare:
		return 1.25
	case RarityUncommon:
		return 1.1
	default:
		return 1.0
	}
}
