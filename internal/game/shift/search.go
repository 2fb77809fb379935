package shift

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/dmelnik/taxidriver/internal/game/economy"
	"github.com/dmelnik/taxidriver/internal/game/offer"
)

// beginSearchLocked enters SEARCHING and spawns a stamped generation
// goroutine. Caller must hold the mutex.
func (s *Session) beginSearchLocked(delay time.Duration) {
	s.state = StateSearching
	s.searchGen++
	go s.runSearch(s.searchGen, s.activeShift, delay)
	s.signalLocked()
}

// runSearch waits out the searching delay, generates an offer, and publishes
// it. The result is dropped unless the session is still in SEARCHING with an
// unchanged generation stamp at publication time.
func (s *Session) runSearch(gen uint64, shiftType economy.ShiftType, delay time.Duration) {
	if delay > 0 {
		time.Sleep(delay)
	}

	s.mu.Lock()
	if !s.searchValidLocked(gen) {
		s.mu.Unlock()
		return
	}
	view := s.player.Clone()
	s.mu.Unlock()

	off, err := s.generator.Generate(context.Background(), shiftType, view, false)
	s.publishOffer(gen, off, err)
}

// publishOffer applies a completed offer generation, subject to the
// staleness guard: the session must still be in SEARCHING with the same
// generation stamp, otherwise the result is discarded.
func (s *Session) publishOffer(gen uint64, off offer.Offer, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.searchValidLocked(gen) {
		return
	}
	if err != nil {
		if errors.Is(err, offer.ErrEnergyExhausted) {
			s.endShiftLocked("Сил больше нет! Смена окончена.")
			return
		}
		s.logger.Warn("offer generation failed, ending shift", zap.Error(err))
		s.endShiftLocked("Заказов больше нет. Смена окончена.")
		return
	}
	s.current = &off
	s.state = StateOfferPresented
	s.signalLocked()
}

func (s *Session) searchValidLocked(gen uint64) bool {
	return !s.closed && s.state == StateSearching && gen == s.searchGen
}

// runBonus generates a hot order with no searching delay and presents it,
// provided the session is still waiting on the result screen.
func (s *Session) runBonus(gen uint64, shiftType economy.ShiftType) {
	s.mu.Lock()
	if !s.bonusValidLocked(gen) {
		s.mu.Unlock()
		return
	}
	view := s.player.Clone()
	s.mu.Unlock()

	off, err := s.generator.Generate(context.Background(), shiftType, view, true)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.bonusValidLocked(gen) {
		return
	}
	s.pendingBonus = false
	if err != nil {
		// Bonus generation bypasses the energy guard, so this is
		// unexpected. Drop the flag rather than strand the screen.
		s.logger.Warn("bonus offer generation failed", zap.Error(err))
		s.bonusAvailable = false
		s.signalLocked()
		return
	}
	s.current = &off
	s.state = StateOfferPresented
	s.signalLocked()
}

func (s *Session) bonusValidLocked(gen uint64) bool {
	return !s.closed && s.state == StateShiftResult && s.pendingBonus && gen == s.searchGen
}

// endShiftLocked enters SHIFT_RESULT and rolls for a post-shift hot order.
// Caller must hold the mutex.
func (s *Session) endShiftLocked(reason string) {
	s.bonusAvailable = s.player.Energy > bonusEnergyFloor && s.src.Float64() < s.cfg.BonusChance
	s.pendingBonus = false
	s.current = nil
	s.state = StateShiftResult
	s.notifyLocked(NoticeInfo, reason)
	s.signalLocked()
}

// finishRide completes the driving timer: settles earnings, energy, rating,
// and counters, then enters RIDE_COMPLETE. Driving always completes; the
// guard only protects against a session closed mid-ride.
func (s *Session) finishRide() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.state != StateDriving || s.current == nil {
		return
	}

	vehicle := s.catalog.Resolve(s.player.CurrentCarID)
	settlement := economy.SettleRide(
		s.current.FinalPrice,
		s.current.Commission,
		s.current.DistanceKm,
		vehicle.FuelConsumption,
		s.current.RatingReward,
	)

	s.player.Money += settlement.Net
	s.player.AddRating(settlement.RatingDelta)
	s.player.AddEnergy(-settlement.EnergyCost)
	s.player.TotalRides++

	s.stats.Earnings += settlement.Net
	s.stats.Rides++
	s.lastRide = &RideResult{Offer: *s.current, Settlement: settlement}
	s.current = nil
	s.state = StateRideComplete

	s.logger.Debug("ride completed",
		zap.Int("net", settlement.Net),
		zap.Int("energy", s.player.Energy),
		zap.Float64("rating", s.player.Rating),
		zap.Int("total_rides", s.player.TotalRides),
	)

	s.persistLocked()
	s.signalLocked()
}
