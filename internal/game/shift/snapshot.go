package shift

import (
	"github.com/dmelnik/taxidriver/internal/game/catalog"
	"github.com/dmelnik/taxidriver/internal/game/economy"
	"github.com/dmelnik/taxidriver/internal/game/offer"
	"github.com/dmelnik/taxidriver/internal/game/player"
)

// TierInfo is the presentation view of the player's priority tier.
type TierInfo struct {
	Level      economy.Tier `json:"level"`
	Label      string       `json:"label"`
	Multiplier float64      `json:"multiplier"`
	// NextAt is the lifetime ride count unlocking the next tier; zero with
	// HasNext false at the top tier.
	NextAt  int  `json:"nextAt"`
	HasNext bool `json:"hasNext"`
}

// VehicleInfo is the presentation view of the current vehicle.
type VehicleInfo struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Category        catalog.Category `json:"category"`
	Price           int              `json:"price"`
	RentPrice       int              `json:"rentPrice"`
	FuelConsumption float64          `json:"fuelConsumption"`
	SpeedFactor     float64          `json:"speedFactor"`
}

// ShiftInfo is the presentation view of the active shift configuration.
type ShiftInfo struct {
	Type        economy.ShiftType `json:"type"`
	Label       string            `json:"label"`
	Multiplier  float64           `json:"multiplier"`
	Commission  float64           `json:"commission"`
	Traffic     string            `json:"traffic"`
	Description string            `json:"description"`
}

// Snapshot is the full presentation payload: current state plus everything a
// renderer needs to draw it.
type Snapshot struct {
	State          State        `json:"state"`
	Player         player.State `json:"player"`
	Vehicle        VehicleInfo  `json:"vehicle"`
	Tier           TierInfo     `json:"tier"`
	ActiveShift    *ShiftInfo   `json:"activeShift,omitempty"`
	Offer          *offer.Offer `json:"offer,omitempty"`
	Stats          ShiftStats   `json:"shiftStats"`
	LastRide       *RideResult  `json:"lastRide,omitempty"`
	BonusAvailable bool         `json:"bonusAvailable"`
}

// Snapshot returns a consistent copy of the session's presentation state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	vehicle := s.catalog.Resolve(s.player.CurrentCarID)
	tier := economy.TierFor(s.player.TotalRides)
	tierCfg := tier.Config()
	nextAt, hasNext := economy.NextTierTarget(s.player.TotalRides)

	snap := Snapshot{
		State:  s.state,
		Player: s.player.Clone(),
		Vehicle: VehicleInfo{
			ID:              vehicle.ID,
			Name:            vehicle.Name,
			Category:        vehicle.Category,
			Price:           vehicle.Price,
			RentPrice:       vehicle.RentPrice,
			FuelConsumption: vehicle.FuelConsumption,
			SpeedFactor:     vehicle.SpeedFactor,
		},
		Tier: TierInfo{
			Level:      tier,
			Label:      tierCfg.Label,
			Multiplier: tierCfg.Multiplier,
			NextAt:     nextAt,
			HasNext:    hasNext,
		},
		Stats:          s.stats,
		BonusAvailable: s.bonusAvailable,
	}

	if s.activeShift != "" {
		cfg := economy.ConfigFor(s.activeShift)
		snap.ActiveShift = &ShiftInfo{
			Type:        s.activeShift,
			Label:       cfg.Label,
			Multiplier:  cfg.Multiplier,
			Commission:  cfg.Commission,
			Traffic:     cfg.Traffic,
			Description: cfg.Description,
		}
	}
	if s.current != nil {
		off := *s.current
		snap.Offer = &off
	}
	if s.lastRide != nil {
		last := *s.lastRide
		snap.LastRide = &last
	}
	return snap
}
