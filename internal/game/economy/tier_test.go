package economy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/dmelnik/taxidriver/internal/game/economy"
)

// TestTierFor verifies every unlock boundary.
func TestTierFor(t *testing.T) {
	cases := []struct {
		rides int
		want  economy.Tier
	}{
		{-5, economy.TierBronze},
		{0, economy.TierBronze},
		{9, economy.TierBronze},
		{10, economy.TierSilver},
		{29, economy.TierSilver},
		{30, economy.TierGold},
		{59, economy.TierGold},
		{60, economy.TierPlatinum},
		{1000, economy.TierPlatinum},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, economy.TierFor(tc.rides), "rides=%d", tc.rides)
	}
}

// TestTierFor_Monotonic_Property verifies the postcondition: the tier never
// regresses as the lifetime ride count grows.
func TestTierFor_Monotonic_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := rapid.IntRange(0, 200).Draw(rt, "a")
		b := rapid.IntRange(0, 200).Draw(rt, "b")
		if a > b {
			a, b = b, a
		}
		assert.LessOrEqual(rt, economy.TierFor(a).Rank(), economy.TierFor(b).Rank(),
			"TierFor postcondition: monotonically non-decreasing in rides")
	})
}

// TestTierConfig verifies the multiplier ladder.
func TestTierConfig(t *testing.T) {
	assert.InDelta(t, 1.0, economy.TierBronze.Config().Multiplier, 1e-9)
	assert.InDelta(t, 1.1, economy.TierSilver.Config().Multiplier, 1e-9)
	assert.InDelta(t, 1.25, economy.TierGold.Config().Multiplier, 1e-9)
	assert.InDelta(t, 1.5, economy.TierPlatinum.Config().Multiplier, 1e-9)

	assert.Equal(t, economy.TierBronze.Config(), economy.Tier("JUNK").Config(),
		"unknown tiers must fall back to bronze")
}

// TestNextTierTarget verifies next-unlock reporting across the ladder.
func TestNextTierTarget(t *testing.T) {
	target, ok := economy.NextTierTarget(0)
	require.True(t, ok)
	assert.Equal(t, 10, target)

	target, ok = economy.NextTierTarget(10)
	require.True(t, ok)
	assert.Equal(t, 30, target)

	target, ok = economy.NextTierTarget(45)
	require.True(t, ok)
	assert.Equal(t, 60, target)

	_, ok = economy.NextTierTarget(60)
	assert.False(t, ok, "platinum has no next tier")
}
