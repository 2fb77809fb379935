// Package player provides the persisted resource ledger of the driver:
// money, rating, energy, day counter, and fleet ownership.
package player

// Rating and energy bounds.
const (
	RatingMin = 1.0
	RatingMax = 5.0
	EnergyMin = 0
	EnergyMax = 100
)

// Starting resources for a fresh save.
const (
	StartingMoney  = 500
	StartingRating = 5.0
	StartingEnergy = 100
)

// State is the persisted resource ledger. It is mutated exclusively by the
// shift session; everything else receives copies.
type State struct {
	// Money may go negative after rent settlement. Debt is a valid, if
	// unfortunate, game state.
	Money int `json:"money"`
	// Rating stays within [RatingMin, RatingMax].
	Rating float64 `json:"rating"`
	// Energy stays within [EnergyMin, EnergyMax].
	Energy int `json:"energy"`
	// Day is a monotonically increasing counter starting at 1.
	Day int `json:"day"`
	// CurrentCarID references the vehicle catalog. Unresolvable IDs fall
	// back to the starter vehicle at catalog resolution.
	CurrentCarID string `json:"currentCarId"`
	// OwnedCarIDs lists vehicles purchased outright. The starter vehicle
	// is implicitly owned regardless of membership.
	OwnedCarIDs []string `json:"ownedCarIds"`
	// IsRenting marks the current vehicle as a daily rental.
	IsRenting bool `json:"isRenting"`
	// TotalRides counts lifetime completed rides. Never decreases.
	TotalRides int `json:"totalRides"`
}

// Default returns the initial state of a fresh save.
//
// Precondition: starterCarID must resolve in the vehicle catalog.
// Postcondition: money=500, rating=5.0, energy=100, day=1, renting the
// starter vehicle, no owned vehicles, no rides.
func Default(starterCarID string) State {
	return State{
		Money:        StartingMoney,
		Rating:       StartingRating,
		Energy:       StartingEnergy,
		Day:          1,
		CurrentCarID: starterCarID,
		OwnedCarIDs:  []string{},
		IsRenting:    true,
		TotalRides:   0,
	}
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	out := s
	out.OwnedCarIDs = make([]string, len(s.OwnedCarIDs))
	copy(out.OwnedCarIDs, s.OwnedCarIDs)
	return out
}

// Owns reports whether the vehicle was purchased outright. The starter
// vehicle is not tracked here; callers treat it as always owned.
func (s State) Owns(carID string) bool {
	for _, id := range s.OwnedCarIDs {
		if id == carID {
			return true
		}
	}
	return false
}

// AddRating applies a rating delta, clamped to [RatingMin, RatingMax].
func (s *State) AddRating(delta float64) {
	s.Rating += delta
	if s.Rating > RatingMax {
		s.Rating = RatingMax
	}
	if s.Rating < RatingMin {
		s.Rating = RatingMin
	}
}

// AddEnergy applies an energy delta, clamped to [EnergyMin, EnergyMax].
func (s *State) AddEnergy(delta int) {
	s.Energy += delta
	if s.Energy > EnergyMax {
		s.Energy = EnergyMax
	}
	if s.Energy < EnergyMin {
		s.Energy = EnergyMin
	}
}

// Normalize repairs a state loaded from storage so that all invariants hold.
// Out-of-range values are clamped rather than rejected: a corrupt save must
// still produce a playable session.
//
// Postcondition: Rating in [RatingMin, RatingMax]; Energy in [EnergyMin,
// EnergyMax]; Day >= 1; TotalRides >= 0; OwnedCarIDs non-nil.
func (s *State) Normalize() {
	s.AddRating(0)
	s.AddEnergy(0)
	if s.Day < 1 {
		s.Day = 1
	}
	if s.TotalRides < 0 {
		s.TotalRides = 0
	}
	if s.OwnedCarIDs == nil {
		s.OwnedCarIDs = []string{}
	}
}
