package mechanics

import "math"

// Catch probability clamp bounds.
const (
	CatchChanceMin = 0.02
	CatchChanceMax = 0.95
)

// Default move used when a requested move is unknown or the attacker
// cannot pay resource costs.
const (
	DefaultMoveName  = "Tackle"
	DefaultMovePower = 40
)

// WildDamageRoll computes the damage of one skirmish hit against a wild
// encounter: max(5, floor(level*0.6)) plus a random 0..5 spread. No
// type or defense interaction for wild combat.
func WildDamageRoll(level int, rng Rand) int {
	base := int(math.Floor(float64(level) * 0.6))
	if base < 5 {
		base = 5
	}
	return base + rng.Intn(6)
}

// CatchProbability computes the chance of a successful throw from the
// species catch rate (0..255) and the encounter HP ratio. The result is
// always clamped to [CatchChanceMin, CatchChanceMax], so the function
// never fails on out-of-range inputs.
func CatchProbability(catchRate, currentHP, maxHP int) float64 {
	if maxHP <= 0 {
		maxHP = 1
	}
	if currentHP < 0 {
		currentHP = 0
	}
	if currentHP > maxHP {
		currentHP = maxHP
	}
	p := (float64(catchRate) / 255.0) * float64(3*maxHP-2*currentHP) / float64(3*maxHP)
	if p < CatchChanceMin {
		return CatchChanceMin
	}
	if p > CatchChanceMax {
		return CatchChanceMax
	}
	return p
}

// MoveDamage computes trainer-battle move damage from the attacker level,
// move power and the attack/defense interaction, with a 0.85..1.0 random
// spread factor.
func MoveDamage(level, power, attack, defense int, rng Rand) int {
	if defense < 1 {
		defense = 1
	}
	if power < 0 {
		power = 0
	}
	base := ((2.0*float64(level)/5.0+2.0)*float64(power)*(float64(attack)/float64(defense)))/50.0 + 2.0
	spread := 0.85 + rng.Float64()*0.15
	return int(math.Floor(base * spread))
}
