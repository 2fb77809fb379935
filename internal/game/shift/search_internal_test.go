package shift

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/dmelnik/taxidriver/internal/game/catalog"
	"github.com/dmelnik/taxidriver/internal/game/economy"
	"github.com/dmelnik/taxidriver/internal/game/flavor"
	"github.com/dmelnik/taxidriver/internal/game/offer"
	"github.com/dmelnik/taxidriver/internal/game/player"
)

type halfSource struct{}

func (halfSource) Intn(int) int     { return 0 }
func (halfSource) Float64() float64 { return 0.5 }

// slowSearchSession returns a session stuck in SEARCHING: the search
// goroutine sleeps far longer than any test runs.
func slowSearchSession(t *testing.T) *Session {
	t.Helper()
	logger := zaptest.NewLogger(t)
	prov := flavor.NewStaticWith([]flavor.Passenger{
		{Name: "А", Story: "б", Destination: "в"},
	})
	gen := offer.NewGenerator(halfSource{}, prov, logger)
	s := NewSession(player.Default("car_1"), catalog.Default(), gen, halfSource{}, nil, nil, Config{
		SearchDelay:     time.Hour,
		RequeueDelay:    time.Hour,
		DrivingDuration: time.Hour,
		BonusChance:     0,
	}, logger)
	t.Cleanup(s.Close)

	require.NoError(t, s.StartDay())
	require.NoError(t, s.SelectShift(economy.ShiftDay))
	require.Equal(t, StateSearching, s.State())
	return s
}

func (s *Session) generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchGen
}

// TestPublishOffer_AppliesCurrentGeneration verifies the happy path: a
// result stamped with the live generation is presented.
func TestPublishOffer_AppliesCurrentGeneration(t *testing.T) {
	s := slowSearchSession(t)

	s.publishOffer(s.generation(), offer.Offer{ID: "o1", FinalPrice: 100}, nil)

	require.Equal(t, StateOfferPresented, s.State())
	snap := s.Snapshot()
	require.NotNil(t, snap.Offer)
	assert.Equal(t, "o1", snap.Offer.ID)
}

// TestPublishOffer_DropsStaleGeneration verifies cancellation by staleness:
// a result stamped before the shift was stopped must be discarded.
func TestPublishOffer_DropsStaleGeneration(t *testing.T) {
	s := slowSearchSession(t)
	stale := s.generation()

	require.NoError(t, s.StopSearching())
	require.Equal(t, StateShiftResult, s.State())

	s.publishOffer(stale, offer.Offer{ID: "late"}, nil)

	assert.Equal(t, StateShiftResult, s.State(), "a stale offer must not reopen the shift")
	assert.Nil(t, s.Snapshot().Offer)
}

// TestPublishOffer_DropsOutdatedStampWhileSearching verifies that only the
// newest in-flight generation can publish.
func TestPublishOffer_DropsOutdatedStampWhileSearching(t *testing.T) {
	s := slowSearchSession(t)

	s.publishOffer(s.generation()-1, offer.Offer{ID: "old"}, nil)

	assert.Equal(t, StateSearching, s.State())
	assert.Nil(t, s.Snapshot().Offer)
}

// TestPublishOffer_EnergyExhaustedEndsShift verifies the exhausted-driver
// result lands on the result screen.
func TestPublishOffer_EnergyExhaustedEndsShift(t *testing.T) {
	s := slowSearchSession(t)

	s.publishOffer(s.generation(), offer.Offer{}, offer.ErrEnergyExhausted)

	assert.Equal(t, StateShiftResult, s.State())
}

// TestNotify_NeverBlocks verifies notice overflow drops instead of
// deadlocking the session.
func TestNotify_NeverBlocks(t *testing.T) {
	s := slowSearchSession(t)

	done := make(chan struct{})
	go func() {
		s.mu.Lock()
		for i := 0; i < 100; i++ {
			s.notifyLocked(NoticeInfo, "overflow")
		}
		s.mu.Unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("notifyLocked blocked on a full channel")
	}
	assert.Equal(t, cap(s.notices), len(s.notices))
}
