package offer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/dmelnik/taxidriver/internal/game/economy"
	"github.com/dmelnik/taxidriver/internal/game/flavor"
	"github.com/dmelnik/taxidriver/internal/game/offer"
	"github.com/dmelnik/taxidriver/internal/game/player"
)

// fixedSource returns the same values on every call.
type fixedSource struct {
	intn    int
	float64 float64
}

func (f fixedSource) Intn(int) int     { return f.intn }
func (f fixedSource) Float64() float64 { return f.float64 }

func testFlavor() flavor.Provider {
	return flavor.NewStaticWith([]flavor.Passenger{
		{Name: "Марина", Story: "Везёт кота к ветеринару.", Destination: "Ветклиника"},
	})
}

func newGenerator(t *testing.T, src offer.Source) *offer.Generator {
	t.Helper()
	return offer.NewGenerator(src, testFlavor(), zaptest.NewLogger(t))
}

// TestGenerate_PricesDayShiftRide pins the full pricing pipeline for a
// deterministic distance draw: Float64 of 8/15 gives exactly 10.0 km.
func TestGenerate_PricesDayShiftRide(t *testing.T) {
	gen := newGenerator(t, fixedSource{float64: 8.0 / 15.0})
	st := player.Default("car_1")

	off, err := gen.Generate(context.Background(), economy.ShiftDay, st, false)
	require.NoError(t, err)

	assert.InDelta(t, 10.0, off.DistanceKm, 1e-9)
	assert.Equal(t, 300, off.BasePrice, "50 + 10*25 at multiplier 1.0")
	assert.Equal(t, 345, off.FinalPrice, "bronze tier at top rating: 300*1.15")
	assert.InDelta(t, 0.15, off.Commission, 1e-9)
	assert.InDelta(t, economy.RatingRewardNormal, off.RatingReward, 1e-9)
	assert.Equal(t, economy.ShiftDay, off.ShiftType)
	assert.NotEmpty(t, off.ID)
	assert.False(t, off.HighDemand, "day shift regular offers are not high demand")
	assert.False(t, off.Bonus)

	assert.Equal(t, "Марина", off.PassengerName)
	assert.Equal(t, "Везёт кота к ветеринару.", off.PassengerStory)
	assert.Equal(t, "Ветклиника", off.Destination)
}

// TestGenerate_DistanceBounds verifies the distance draw stays in range and
// rounds to one decimal.
func TestGenerate_DistanceBounds(t *testing.T) {
	st := player.Default("car_1")
	ctx := context.Background()

	low, err := newGenerator(t, fixedSource{float64: 0}).Generate(ctx, economy.ShiftDay, st, false)
	require.NoError(t, err)
	assert.InDelta(t, economy.MinDistanceKm, low.DistanceKm, 1e-9)

	high, err := newGenerator(t, fixedSource{float64: 0.99999}).Generate(ctx, economy.ShiftDay, st, false)
	require.NoError(t, err)
	assert.LessOrEqual(t, high.DistanceKm, economy.MaxDistanceKm)

	mid, err := newGenerator(t, fixedSource{float64: 0.531}).Generate(ctx, economy.ShiftDay, st, false)
	require.NoError(t, err)
	assert.InDelta(t, mid.DistanceKm*10, float64(int(mid.DistanceKm*10+0.5)), 1e-6,
		"distance must be rounded to one decimal")
}

// TestGenerate_RefusesExhaustedDriver verifies the energy floor for regular
// offers and the bonus bypass.
func TestGenerate_RefusesExhaustedDriver(t *testing.T) {
	gen := newGenerator(t, fixedSource{float64: 0.5})
	st := player.Default("car_1")
	st.Energy = 5
	ctx := context.Background()

	_, err := gen.Generate(ctx, economy.ShiftDay, st, false)
	require.ErrorIs(t, err, offer.ErrEnergyExhausted)

	_, err = gen.Generate(ctx, economy.ShiftDay, st, true)
	require.NoError(t, err, "bonus offers bypass the energy floor")

	st.Energy = 6
	_, err = gen.Generate(ctx, economy.ShiftDay, st, false)
	require.NoError(t, err, "energy above the floor must generate")
}

// TestGenerate_BonusOverrides verifies the hot order surcharge, story, and
// rating reward.
func TestGenerate_BonusOverrides(t *testing.T) {
	gen := newGenerator(t, fixedSource{float64: 8.0 / 15.0})
	st := player.Default("car_1")

	off, err := gen.Generate(context.Background(), economy.ShiftDay, st, true)
	require.NoError(t, err)

	assert.True(t, off.Bonus)
	assert.True(t, off.HighDemand)
	assert.Equal(t, 450, off.BasePrice, "hot order pays 1.5x the base fare")
	assert.Equal(t, 517, off.FinalPrice, "450 * 1.15 truncated")
	assert.InDelta(t, economy.RatingRewardBonus, off.RatingReward, 1e-9)
	assert.Equal(t, "🔥 Срочный заказ! Доплачу.", off.PassengerStory,
		"hot orders carry the urgent story")
	assert.Equal(t, "Марина", off.PassengerName, "name still comes from the flavor provider")
}

// TestGenerate_PeakShiftsAreHighDemand verifies the peak flag on morning and
// evening shifts.
func TestGenerate_PeakShiftsAreHighDemand(t *testing.T) {
	gen := newGenerator(t, fixedSource{float64: 0.5})
	st := player.Default("car_1")
	ctx := context.Background()

	morning, err := gen.Generate(ctx, economy.ShiftMorning, st, false)
	require.NoError(t, err)
	assert.True(t, morning.HighDemand)

	evening, err := gen.Generate(ctx, economy.ShiftEvening, st, false)
	require.NoError(t, err)
	assert.True(t, evening.HighDemand)
}

// failingFlavor always errors.
type failingFlavor struct{}

func (failingFlavor) Passenger(context.Context, string) (flavor.Passenger, error) {
	return flavor.Passenger{}, context.DeadlineExceeded
}

// TestGenerate_SubstitutesFallbackFlavor verifies a failing flavor provider
// never fails offer generation.
func TestGenerate_SubstitutesFallbackFlavor(t *testing.T) {
	gen := offer.NewGenerator(fixedSource{float64: 0.5}, failingFlavor{}, zaptest.NewLogger(t))
	st := player.Default("car_1")

	off, err := gen.Generate(context.Background(), economy.ShiftDay, st, false)
	require.NoError(t, err, "flavor failures must not fail generation")
	assert.Equal(t, flavor.Fallback.Name, off.PassengerName)
	assert.Equal(t, flavor.Fallback.Story, off.PassengerStory)
	assert.Equal(t, flavor.Fallback.Destination, off.Destination)
}

// TestGenerate_TierScalesPrice verifies the tier multiplier reaches the
// final price.
func TestGenerate_TierScalesPrice(t *testing.T) {
	gen := newGenerator(t, fixedSource{float64: 8.0 / 15.0})
	st := player.Default("car_1")
	st.TotalRides = 60

	off, err := gen.Generate(context.Background(), economy.ShiftDay, st, false)
	require.NoError(t, err)
	assert.Equal(t, 517, off.FinalPrice, "platinum tier: 300 * 1.5 * 1.15 truncated")
}
