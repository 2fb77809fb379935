package economy

// Tier is a reputation-based pricing level unlocked by lifetime ride count.
type Tier string

const (
	TierBronze   Tier = "BRONZE"
	TierSilver   Tier = "SILVER"
	TierGold     Tier = "GOLD"
	TierPlatinum Tier = "PLATINUM"
)

// TierConfig holds the static tuning of one priority tier.
type TierConfig struct {
	// Rides is the lifetime ride count at which the tier unlocks.
	Rides int
	// Label is the display label.
	Label string
	// Multiplier scales the final fare.
	Multiplier float64
}

// tierOrder is ascending by unlock threshold.
var tierOrder = []Tier{TierBronze, TierSilver, TierGold, TierPlatinum}

var tierConfigs = map[Tier]TierConfig{
	TierBronze:   {Rides: 0, Label: "Бронза", Multiplier: 1.0},
	TierSilver:   {Rides: 10, Label: "Серебро", Multiplier: 1.1},
	TierGold:     {Rides: 30, Label: "Золото", Multiplier: 1.25},
	TierPlatinum: {Rides: 60, Label: "Платина", Multiplier: 1.5},
}

// Rank returns the tier's position in ascending order, BRONZE being 0.
// Unknown tiers rank as BRONZE.
func (t Tier) Rank() int {
	for i, tier := range tierOrder {
		if tier == t {
			return i
		}
	}
	return 0
}

// Config returns the static configuration for the tier.
func (t Tier) Config() TierConfig {
	if cfg, ok := tierConfigs[t]; ok {
		return cfg
	}
	return tierConfigs[TierBronze]
}

// TierFor maps a lifetime ride count to its priority tier.
//
// Precondition: rides should be >= 0; negative values map to BRONZE.
// Postcondition: The returned tier is monotonically non-decreasing in rides,
// with boundaries at 10, 30, and 60.
func TierFor(rides int) Tier {
	switch {
	case rides >= tierConfigs[TierPlatinum].Rides:
		return TierPlatinum
	case rides >= tierConfigs[TierGold].Rides:
		return TierGold
	case rides >= tierConfigs[TierSilver].Rides:
		return TierSilver
	default:
		return TierBronze
	}
}

// NextTierTarget returns the ride count that unlocks the next tier, or false
// when the top tier is already reached.
func NextTierTarget(rides int) (int, bool) {
	for _, t := range tierOrder[1:] {
		if rides < tierConfigs[t].Rides {
			return tierConfigs[t].Rides, true
		}
	}
	return 0, false
}
