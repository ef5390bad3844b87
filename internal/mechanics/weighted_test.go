package mechanics_test

import (
	"math/rand"
	"testing"

	"creature-server/internal/mechanics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickWeightedEmptyInput(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, ok := mechanics.PickWeighted[string](nil, rng)
	assert.False(t, ok)

	_, ok = mechanics.PickWeighted([]mechanics.Weighted[string]{}, rng)
	assert.False(t, ok)
}

func TestPickWeightedAllZeroWeights(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	entries := []mechanics.Weighted[string]{
		{Value: "a", Weight: 0},
		{Value: "b", Weight: 0},
	}
	_, ok := mechanics.PickWeighted(entries, rng)
	assert.False(t, ok, "total weight 0 means no selection is possible")
}

func TestPickWeightedSingleEntry(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	entries := []mechanics.Weighted[string]{{Value: "only", Weight: 42}}
	for i := 0; i < 100; i++ {
		v, ok := mechanics.PickWeighted(entries, rng)
		require.True(t, ok)
		assert.Equal(t, "only", v)
	}
}

func TestPickWeightedZeroWeightNeverSelected(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	entries := []mechanics.Weighted[string]{
		{Value: "never", Weight: 0},
		{Value: "sometimes", Weight: 1},
		{Value: "often", Weight: 9},
	}
	for i := 0; i < 10000; i++ {
		v, ok := mechanics.PickWeighted(entries, rng)
		require.True(t, ok)
		assert.NotEqual(t, "never", v)
	}
}

func TestPickWeightedDistributionConverges(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	entries := []mechanics.Weighted[string]{
		{Value: "common", Weight: 70000},
		{Value: "uncommon", Weight: 25000},
		{Value: "rare", Weight: 5000},
	}
	const n = 200000
	counts := map[string]int{}
	for i := 0; i < n; i++ {
		v, ok := mechanics.PickWeighted(entries, rng)
		require.True(t, ok)
		counts[v]++
	}

	total := 100000.0
	for _, e := range entries {
		got := float64(counts[e.Value]) / n
		want := e.Weight / total
		assert.InDelta(t, want, got, 0.01, "entry %q should be drawn with probability %.3f", e.Value, want)
	}
}

type fixedRand struct{ f float64 }

func (r fixedRand) Intn(n int) int   { return 0 }
func (r fixedRand) Float64() float64 { return r.f }

func TestPickWeightedBoundaryDraws(t *testing.T) {
	entries := []mechanics.Weighted[int]{
		{Value: 1, Weight: 10},
		{Value: 2, Weight: 10},
	}

	// Draw of exactly 0 lands on the first entry.
	v, ok := mechanics.PickWeighted(entries, fixedRand{f: 0})
	require.True(t, ok)
	assert.Equal(t, 1, v)

	// Draw just under the total lands on the last entry.
	v, ok = mechanics.PickWeighted(entries, fixedRand{f: 0.999999})
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestPickWeightedDriftFallbackReturnsLastEntry(t *testing.T) {
	// A draw equal to the total weight (possible only through float
	// drift) walks past every entry; the documented fallback is the last
	// entry, not an error.
	entries := []mechanics.Weighted[int]{
		{Value: 1, Weight: 10},
		{Value: 2, Weight: 10},
	}
	v, ok := mechanics.PickWeighted(entries, fixedRand{f: 1.0})
	require.True(t, ok)
	assert.Equal(t, 2, v)
}
