package offer

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dmelnik/taxidriver/internal/game/economy"
	"github.com/dmelnik/taxidriver/internal/game/flavor"
	"github.com/dmelnik/taxidriver/internal/game/player"
)

// ErrEnergyExhausted is returned when the driver is too tired to take
// regular offers. The caller must end the shift instead.
var ErrEnergyExhausted = errors.New("energy exhausted")

// energyFloor is the energy level at or below which regular offer generation
// is refused. Bonus offers bypass it.
const energyFloor = 5

// bonusStory overrides the passenger story on hot orders.
const bonusStory = "🔥 Срочный заказ! Доплачу."

// Offer is a single proposed ride. It is ephemeral: consumed or discarded
// within one session cycle, never persisted.
type Offer struct {
	ID         string             `json:"id"`
	ShiftType  economy.ShiftType  `json:"shiftType"`
	DistanceKm float64            `json:"distanceKm"`
	// BasePrice is the fare before tier and rating multipliers, floored for
	// display.
	BasePrice  int     `json:"basePrice"`
	FinalPrice int     `json:"finalPrice"`
	// RatingReward is granted on completion.
	RatingReward float64 `json:"ratingReward"`
	// Commission is the platform fee rate taken from the shift config.
	Commission float64 `json:"commission"`

	PassengerName  string `json:"passengerName"`
	PassengerStory string `json:"passengerStory"`
	Destination    string `json:"destination"`

	// HighDemand marks bonus offers and peak-shift offers.
	HighDemand bool `json:"isHighDemand"`
	// Bonus marks post-shift hot orders.
	Bonus bool `json:"isBonus"`
}

// Generator produces ride offers. It has no side effects on player state.
type Generator struct {
	src    Source
	flavor flavor.Provider
	logger *zap.Logger
}

// NewGenerator creates an offer Generator.
//
// Precondition: src, flavorProvider, and logger must be non-nil. The flavor
// provider should already be wrapped with flavor.WithFallback so fetches are
// latency-bounded.
func NewGenerator(src Source, flavorProvider flavor.Provider, logger *zap.Logger) *Generator {
	return &Generator{src: src, flavor: flavorProvider, logger: logger}
}

// Generate produces one ride offer for the given shift and player snapshot.
//
// Precondition: shiftType must be valid; st is a read-only snapshot.
// Postcondition: Returns a priced, flavored offer, or ErrEnergyExhausted when
// a regular offer is requested with energy at or below the floor. Flavor
// provider failures never propagate; the fallback record is substituted.
func (g *Generator) Generate(ctx context.Context, shiftType economy.ShiftType, st player.State, bonus bool) (Offer, error) {
	if !bonus && st.Energy <= energyFloor {
		return Offer{}, ErrEnergyExhausted
	}

	cfg := economy.ConfigFor(shiftType)

	distance := economy.MinDistanceKm + g.src.Float64()*(economy.MaxDistanceKm-economy.MinDistanceKm)
	distance = math.Round(distance*10) / 10

	tier := economy.TierFor(st.TotalRides)
	base := economy.BasePrice(distance, cfg.Multiplier, bonus)
	final := economy.FinalPrice(base, tier.Config().Multiplier, st.Rating)

	passenger, err := g.flavor.Passenger(ctx, cfg.Label)
	if err != nil {
		g.logger.Debug("flavor fetch failed, substituting fallback", zap.Error(err))
		passenger = flavor.Fallback
	}

	story := passenger.Story
	reward := economy.RatingRewardNormal
	if bonus {
		story = bonusStory
		reward = economy.RatingRewardBonus
	}

	return Offer{
		ID:             uuid.NewString(),
		ShiftType:      shiftType,
		DistanceKm:     distance,
		BasePrice:      int(math.Floor(base)),
		FinalPrice:     final,
		RatingReward:   reward,
		Commission:     cfg.Commission,
		PassengerName:  passenger.Name,
		PassengerStory: story,
		Destination:    passenger.Destination,
		HighDemand:     bonus || shiftType.Peak(),
		Bonus:          bonus,
	}, nil
}
