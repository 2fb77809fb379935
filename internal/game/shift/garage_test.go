package shift_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmelnik/taxidriver/internal/game/player"
	"github.com/dmelnik/taxidriver/internal/game/shift"
)

func garageSession(t *testing.T, st player.State) (*shift.Session, *recordingSaver) {
	t.Helper()
	s, saver := newSession(t, st, instantConfig(0), fixedSource{f: 0.5}, nil)
	require.NoError(t, s.OpenGarage())
	return s, saver
}

// TestGarage_OpenClose verifies the menu/garage toggle.
func TestGarage_OpenClose(t *testing.T) {
	s, _ := newSession(t, player.Default("car_1"), instantConfig(0), fixedSource{f: 0.5}, nil)

	require.NoError(t, s.OpenGarage())
	assert.Equal(t, shift.StateGarage, s.State())
	assert.ErrorIs(t, s.OpenGarage(), shift.ErrInvalidIntent)
	assert.ErrorIs(t, s.StartDay(), shift.ErrInvalidIntent, "no shift intents inside the garage")

	require.NoError(t, s.CloseGarage())
	assert.Equal(t, shift.StateMenu, s.State())
}

// TestBuyVehicle verifies a successful purchase and every rejection path.
func TestBuyVehicle(t *testing.T) {
	st := player.Default("car_1")
	st.Money = 6000
	s, saver := garageSession(t, st)

	require.ErrorIs(t, s.BuyVehicle("car_x"), shift.ErrUnknownVehicle)
	require.ErrorIs(t, s.BuyVehicle("car_1"), shift.ErrAlreadyOwned, "the starter is implicitly owned")
	require.ErrorIs(t, s.BuyVehicle("car_3"), shift.ErrNotEnoughMoney)

	require.NoError(t, s.BuyVehicle("car_2"))

	last := saver.last(t)
	assert.Equal(t, 1000, last.Money)
	assert.Equal(t, []string{"car_2"}, last.OwnedCarIDs)
	assert.Equal(t, "car_2", last.CurrentCarID)
	assert.False(t, last.IsRenting, "a purchased car is not a rental")

	require.ErrorIs(t, s.BuyVehicle("car_2"), shift.ErrAlreadyOwned)
	assert.True(t, hasNotice(drainNotices(s), shift.NoticeSuccess, "Куплен"))
}

// TestRentVehicle verifies switching to a rental and the purchase-only
// rejection.
func TestRentVehicle(t *testing.T) {
	s, saver := garageSession(t, player.Default("car_1"))

	require.ErrorIs(t, s.RentVehicle("car_x"), shift.ErrUnknownVehicle)
	require.ErrorIs(t, s.RentVehicle("car_4"), shift.ErrNotForRent, "luxury cars have no rental offer")

	require.NoError(t, s.RentVehicle("car_3"))
	last := saver.last(t)
	assert.Equal(t, "car_3", last.CurrentCarID)
	assert.True(t, last.IsRenting)
	assert.Equal(t, 500, last.Money, "rent is settled at sleep, not upfront")
}

// TestSelectVehicle verifies switching among owned vehicles clears the
// renting flag.
func TestSelectVehicle(t *testing.T) {
	st := player.Default("car_1")
	st.OwnedCarIDs = []string{"car_2"}
	st.CurrentCarID = "car_2"
	st.IsRenting = false
	s, saver := garageSession(t, st)

	require.ErrorIs(t, s.SelectVehicle("car_x"), shift.ErrUnknownVehicle)
	require.ErrorIs(t, s.SelectVehicle("car_3"), shift.ErrNotOwned)

	require.NoError(t, s.SelectVehicle("car_1"), "the starter is always selectable")
	last := saver.last(t)
	assert.Equal(t, "car_1", last.CurrentCarID)
	assert.False(t, last.IsRenting, "selecting an owned car ends any rental")

	require.NoError(t, s.SelectVehicle("car_2"))
	assert.Equal(t, "car_2", saver.last(t).CurrentCarID)
}
