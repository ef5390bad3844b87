package mechanics

// Weighted pairs a value with its non-negative selection weight.
// Authored weights are bounded to 0..100000 per entry.
type Weighted[T any] struct {
	Value  T
	Weight float64
}

// PickWeighted draws one entry proportionally to its weight: a uniform
// value in [0, totalWeight) walks the list accumulating weights until the
// running sum exceeds the draw. Probability of entry i is weight_i/total
// in expectation. A zero-weight entry is never selected except through
// the floating-point drift fallback, which returns the last entry rather
// than failing. Empty input (or total weight 0) reports ok=false and the
// caller decides how to proceed.
func PickWeighted[T any](entries []Weighted[T], rng Rand) (T, bool) {
	var zero T
	if len(entries) == 0 {
		return zero, false
	}
	var total float64
	for _, e := range entries {
		if e.Weight > 0 {
			total += e.Weight
		}
	}
	if total <= 0 {
		return zero, false
	}
	draw := rng.Float64() * total
	var acc float64
	for _, e := range entries {
		if e.Weight <= 0 {
			continue
		}
		acc += e.Weight
		if draw < acc {
			return e.Value, true
		}
	}
	// Float drift left no entry selected; fall back to the last one.
	return entries[len(entries)-1].Value, true
}
