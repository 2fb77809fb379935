// Package shift implements the session state machine: the screen flow from
// menu through searching, offers, driving, and shift results, plus garage
// operations. All player-state mutations in the game happen through session
// transitions.
package shift

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dmelnik/taxidriver/internal/game/catalog"
	"github.com/dmelnik/taxidriver/internal/game/economy"
	"github.com/dmelnik/taxidriver/internal/game/offer"
	"github.com/dmelnik/taxidriver/internal/game/player"
	"github.com/dmelnik/taxidriver/internal/game/reward"
)

// State names one screen of the session flow.
type State string

const (
	StateMenu           State = "MENU"
	StateShiftSelecting State = "SHIFT_SELECTING"
	StateSearching      State = "SEARCHING"
	StateOfferPresented State = "OFFER_PRESENTED"
	StateDriving        State = "DRIVING"
	StateRideComplete   State = "RIDE_COMPLETE"
	StateShiftResult    State = "SHIFT_RESULT"
	StateGarage         State = "GARAGE"
)

// Intent rejection errors. Rejected intents never change session state.
var (
	// ErrInvalidIntent is returned when an intent is dispatched in a state
	// that does not accept it.
	ErrInvalidIntent = errors.New("intent not valid in current state")
	// ErrTooTired rejects starting a day with energy at or below the floor.
	ErrTooTired = errors.New("not enough energy to start the day")
	// ErrUnknownShift rejects an unrecognized shift type.
	ErrUnknownShift = errors.New("unknown shift type")
	// ErrUnknownVehicle rejects a vehicle ID missing from the catalog.
	ErrUnknownVehicle = errors.New("unknown vehicle")
	// ErrAlreadyOwned rejects buying a vehicle twice.
	ErrAlreadyOwned = errors.New("vehicle already owned")
	// ErrNotEnoughMoney rejects a purchase the player cannot afford.
	ErrNotEnoughMoney = errors.New("not enough money")
	// ErrNotForRent rejects renting a vehicle with no rental offer.
	ErrNotForRent = errors.New("vehicle not available for rent")
	// ErrNotOwned rejects selecting a vehicle the player does not own.
	ErrNotOwned = errors.New("vehicle not owned")
)

// startDayEnergyFloor gates starting a working day.
const startDayEnergyFloor = 10

// bonusEnergyFloor gates the post-shift hot-order roll.
const bonusEnergyFloor = 15

// Config holds session pacing and tuning.
type Config struct {
	// SearchDelay is the artificial pause before a searched offer appears.
	SearchDelay time.Duration
	// RequeueDelay is the pause before re-searching after a decline or an
	// acknowledged ride.
	RequeueDelay time.Duration
	// DrivingDuration is the fixed ride timer. Not cancellable once started.
	DrivingDuration time.Duration
	// BonusChance is the probability in [0,1] of a hot order being flagged
	// when a shift ends with energy above the bonus floor.
	BonusChance float64
}

// Saver receives a cloned player state after every mutating transition.
// Enqueue must not block.
type Saver interface {
	Enqueue(st player.State)
}

// ShiftStats accumulates earnings and rides within one shift.
type ShiftStats struct {
	Earnings int `json:"earnings"`
	Rides    int `json:"rides"`
}

// RideResult is the settlement of the most recently completed ride.
type RideResult struct {
	Offer      offer.Offer        `json:"offer"`
	Settlement economy.Settlement `json:"settlement"`
}

// Session is the explicit state-machine context. Intents and timer
// completions are serialized through one mutex; asynchronous operations
// revalidate state and generation before publishing results.
type Session struct {
	logger    *zap.Logger
	catalog   *catalog.Catalog
	generator *offer.Generator
	src       offer.Source
	saver     Saver
	rewards   reward.Provider
	cfg       Config

	mu             sync.Mutex
	state          State
	player         player.State
	activeShift    economy.ShiftType
	current        *offer.Offer
	bonusAvailable bool
	pendingBonus   bool
	stats          ShiftStats
	lastRide       *RideResult
	// searchGen stamps every in-flight asynchronous generation; a bumped
	// counter invalidates stale results (cancellation by staleness).
	searchGen uint64
	closed    bool

	notices chan Notice
	changes chan struct{}
}

// NewSession creates a session in MENU with the given player state.
//
// Precondition: cat, gen, src, and logger must be non-nil. saver may be nil
// (no persistence); rewards may be nil (unconditional grants).
// Postcondition: Returns a session ready to accept intents.
func NewSession(st player.State, cat *catalog.Catalog, gen *offer.Generator, src offer.Source, saver Saver, rewards reward.Provider, cfg Config, logger *zap.Logger) *Session {
	if rewards == nil {
		rewards = reward.Unconditional{}
	}
	st.Normalize()
	return &Session{
		logger:    logger,
		catalog:   cat,
		generator: gen,
		src:       src,
		saver:     saver,
		rewards:   rewards,
		cfg:       cfg,
		state:     StateMenu,
		player:    st,
		notices:   make(chan Notice, 16),
		changes:   make(chan struct{}, 1),
	}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Close invalidates all in-flight asynchronous operations. Further intents
// are rejected with ErrInvalidIntent.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.searchGen++
}

// persistLocked hands a cloned player state to the saver.
func (s *Session) persistLocked() {
	if s.saver != nil {
		s.saver.Enqueue(s.player.Clone())
	}
}
