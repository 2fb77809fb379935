package shift

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dmelnik/taxidriver/internal/game/economy"
	"github.com/dmelnik/taxidriver/internal/game/player"
)

// StartDay moves MENU -> SHIFT_SELECTING.
//
// Postcondition: On ErrTooTired the state is unchanged and a warning notice
// is emitted.
func (s *Session) StartDay() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.state != StateMenu {
		return ErrInvalidIntent
	}
	if s.player.Energy <= startDayEnergyFloor {
		s.notifyLocked(NoticeWarning, "Слишком устал! Поешь или закончи смену.")
		return ErrTooTired
	}
	s.state = StateShiftSelecting
	s.signalLocked()
	return nil
}

// SelectShift moves SHIFT_SELECTING -> SEARCHING, resets the per-shift
// accumulators, and begins asynchronous offer generation.
func (s *Session) SelectShift(t economy.ShiftType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.state != StateShiftSelecting {
		return ErrInvalidIntent
	}
	if !t.Valid() {
		return ErrUnknownShift
	}
	s.activeShift = t
	s.stats = ShiftStats{}
	s.lastRide = nil
	s.beginSearchLocked(s.cfg.SearchDelay)
	return nil
}

// StopSearching moves SEARCHING -> SHIFT_RESULT, invalidating any in-flight
// offer generation, and rolls for a post-shift hot order.
func (s *Session) StopSearching() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.state != StateSearching {
		return ErrInvalidIntent
	}
	s.searchGen++
	s.endShiftLocked("Смена завершена.")
	return nil
}

// Accept moves OFFER_PRESENTED -> DRIVING and starts the fixed ride timer.
// Earnings are deferred to completion; driving is not cancellable.
func (s *Session) Accept() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.state != StateOfferPresented || s.current == nil {
		return ErrInvalidIntent
	}
	s.state = StateDriving
	time.AfterFunc(s.cfg.DrivingDuration, s.finishRide)
	s.signalLocked()
	return nil
}

// Decline discards the presented offer. Declining a regular offer costs
// rating and re-enters searching; declining a hot order discards the bonus
// flag and ends at the result screen with no penalty.
func (s *Session) Decline() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.state != StateOfferPresented || s.current == nil {
		return ErrInvalidIntent
	}
	if s.current.Bonus {
		s.bonusAvailable = false
		s.current = nil
		s.state = StateShiftResult
		s.signalLocked()
		return nil
	}
	s.player.AddRating(-economy.DeclinePenalty)
	s.notifyLocked(NoticeError, fmt.Sprintf("Рейтинг снижен (-%.1f)", economy.DeclinePenalty))
	s.current = nil
	s.persistLocked()
	s.beginSearchLocked(s.cfg.RequeueDelay)
	return nil
}

// AcknowledgeRide leaves RIDE_COMPLETE: back to searching in the normal
// flow, or to the result screen when the ride consumed a flagged hot order.
func (s *Session) AcknowledgeRide() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.state != StateRideComplete {
		return ErrInvalidIntent
	}
	if s.bonusAvailable {
		s.bonusAvailable = false
		s.state = StateShiftResult
		s.signalLocked()
		return nil
	}
	s.beginSearchLocked(s.cfg.RequeueDelay)
	return nil
}

// ReturnToMenu moves SHIFT_RESULT -> MENU without settling the day.
func (s *Session) ReturnToMenu() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.state != StateShiftResult {
		return ErrInvalidIntent
	}
	s.searchGen++
	s.pendingBonus = false
	s.state = StateMenu
	s.signalLocked()
	return nil
}

// Sleep settles the day: rent is deducted when renting (debt allowed),
// energy resets to full, the day counter advances, and the session returns
// to MENU with the shift and bonus flag cleared.
func (s *Session) Sleep() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.state != StateShiftResult {
		return ErrInvalidIntent
	}
	rent := 0
	if s.player.IsRenting {
		rent = s.catalog.Resolve(s.player.CurrentCarID).RentPrice
	}
	s.player.Money -= rent
	s.player.Energy = player.EnergyMax
	s.player.Day++

	s.activeShift = ""
	s.bonusAvailable = false
	s.pendingBonus = false
	s.searchGen++
	s.state = StateMenu

	if s.player.Money < 0 {
		s.notifyLocked(NoticeError, fmt.Sprintf("Долг за аренду! (-%d₽)", rent))
		s.logger.Warn("player in debt after rent settlement",
			zap.Int("money", s.player.Money),
			zap.Int("rent", rent),
			zap.Int("day", s.player.Day),
		)
	} else if rent > 0 {
		s.notifyLocked(NoticeInfo, fmt.Sprintf("Аренда списана: -%d₽", rent))
	}

	s.persistLocked()
	s.signalLocked()
	return nil
}

// TakeBonusOffer generates the flagged hot order, bypassing the energy
// guard. The session stays on the result screen until the offer is ready.
func (s *Session) TakeBonusOffer() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.state != StateShiftResult || !s.bonusAvailable {
		return ErrInvalidIntent
	}
	s.pendingBonus = true
	s.searchGen++
	go s.runBonus(s.searchGen, s.activeShift)
	return nil
}

// DismissBonus discards the flagged hot order.
func (s *Session) DismissBonus() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.state != StateShiftResult || !s.bonusAvailable {
		return ErrInvalidIntent
	}
	s.bonusAvailable = false
	s.pendingBonus = false
	s.searchGen++
	s.signalLocked()
	return nil
}
