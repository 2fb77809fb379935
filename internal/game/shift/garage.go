package shift

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dmelnik/taxidriver/internal/game/economy"
)

// OpenGarage moves MENU -> GARAGE. The garage is orthogonal to shift
// progress: no shift side effects occur inside it.
func (s *Session) OpenGarage() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.state != StateMenu {
		return ErrInvalidIntent
	}
	s.state = StateGarage
	s.signalLocked()
	return nil
}

// CloseGarage moves GARAGE -> MENU.
func (s *Session) CloseGarage() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.state != StateGarage {
		return ErrInvalidIntent
	}
	s.state = StateMenu
	s.signalLocked()
	return nil
}

// BuyVehicle purchases a vehicle outright: deducts the price, adds it to the
// owned set, makes it current, and clears the renting flag.
//
// Postcondition: On any rejection the player state is unchanged.
func (s *Session) BuyVehicle(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.state != StateGarage {
		return ErrInvalidIntent
	}
	vehicle, ok := s.catalog.Get(id)
	if !ok {
		return ErrUnknownVehicle
	}
	if s.player.Owns(id) || id == s.catalog.Starter().ID {
		return ErrAlreadyOwned
	}
	if s.player.Money < vehicle.Price {
		return ErrNotEnoughMoney
	}

	s.player.Money -= vehicle.Price
	s.player.OwnedCarIDs = append(s.player.OwnedCarIDs, id)
	s.player.CurrentCarID = id
	s.player.IsRenting = false

	s.notifyLocked(NoticeSuccess, fmt.Sprintf("Куплен %s", vehicle.Name))
	s.persistLocked()
	s.signalLocked()
	return nil
}

// RentVehicle switches to a rental vehicle. There is no upfront cost; the
// daily fee is settled at sleep.
func (s *Session) RentVehicle(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.state != StateGarage {
		return ErrInvalidIntent
	}
	vehicle, ok := s.catalog.Get(id)
	if !ok {
		return ErrUnknownVehicle
	}
	if !vehicle.Rentable() {
		return ErrNotForRent
	}

	s.player.CurrentCarID = id
	s.player.IsRenting = true

	s.persistLocked()
	s.signalLocked()
	return nil
}

// SelectVehicle switches the current vehicle among already-owned vehicles
// (the starter counts as owned) and clears the renting flag.
func (s *Session) SelectVehicle(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.state != StateGarage {
		return ErrInvalidIntent
	}
	if _, ok := s.catalog.Get(id); !ok {
		return ErrUnknownVehicle
	}
	if !s.player.Owns(id) && id != s.catalog.Starter().ID {
		return ErrNotOwned
	}

	s.player.CurrentCarID = id
	s.player.IsRenting = false

	s.persistLocked()
	s.signalLocked()
	return nil
}

// WatchAd requests a rewarded ad and grants energy when the provider
// returns. The grant is applied exactly once per call, including when the
// provider reports an error (fail-open).
func (s *Session) WatchAd(ctx context.Context) error {
	s.mu.Lock()
	if s.closed || s.state != StateMenu {
		s.mu.Unlock()
		return ErrInvalidIntent
	}
	s.mu.Unlock()

	err := s.rewards.RequestReward(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrInvalidIntent
	}
	if err != nil {
		s.logger.Warn("reward provider failed, granting anyway", zap.Error(err))
	}
	s.player.AddEnergy(economy.AdEnergyReward)
	s.notifyLocked(NoticeSuccess, fmt.Sprintf("+%d Энергии", economy.AdEnergyReward))
	s.persistLocked()
	s.signalLocked()
	return nil
}

// EatMeal trades money for energy between shifts.
func (s *Session) EatMeal() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.state != StateMenu {
		return ErrInvalidIntent
	}
	if s.player.Money < economy.MealCost {
		return ErrNotEnoughMoney
	}

	s.player.Money -= economy.MealCost
	s.player.AddEnergy(economy.MealEnergy)

	s.notifyLocked(NoticeSuccess, fmt.Sprintf("+%d Энергии (-%d₽)", economy.MealEnergy, economy.MealCost))
	s.persistLocked()
	s.signalLocked()
	return nil
}
