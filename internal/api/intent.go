package api

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/dmelnik/taxidriver/internal/game/economy"
	"github.com/dmelnik/taxidriver/internal/game/shift"
)

// Intent is the inbound frame format: a type plus optional arguments.
type Intent struct {
	Type  string `json:"type"`
	Shift string `json:"shift,omitempty"`
	CarID string `json:"carId,omitempty"`
}

// Dispatcher routes client intents into the session.
type Dispatcher struct {
	session *shift.Session
	logger  *zap.Logger
}

// NewDispatcher creates a Dispatcher bound to session.
func NewDispatcher(session *shift.Session, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{session: session, logger: logger}
}

// Dispatch decodes raw and applies the intent to the session. The returned
// reply, if non-nil, is an error message for the sending client. Rejected
// intents never change state, so the caller still gets a fresh snapshot and
// can simply re-render.
func (d *Dispatcher) Dispatch(raw []byte) *Message {
	var intent Intent
	if err := json.Unmarshal(raw, &intent); err != nil {
		d.logger.Debug("malformed intent frame", zap.Error(err))
		return errorMessage("malformed intent")
	}

	if err := d.apply(intent); err != nil {
		d.logger.Debug("intent rejected",
			zap.String("intent", intent.Type),
			zap.Error(err))
		return errorMessage(err.Error())
	}
	return nil
}

func (d *Dispatcher) apply(intent Intent) error {
	switch intent.Type {
	case "start_day":
		return d.session.StartDay()
	case "select_shift":
		return d.session.SelectShift(economy.ShiftType(intent.Shift))
	case "stop_searching":
		return d.session.StopSearching()
	case "accept":
		return d.session.Accept()
	case "decline":
		return d.session.Decline()
	case "acknowledge_ride":
		return d.session.AcknowledgeRide()
	case "return_to_menu":
		return d.session.ReturnToMenu()
	case "sleep":
		return d.session.Sleep()
	case "take_bonus_offer":
		return d.session.TakeBonusOffer()
	case "dismiss_bonus":
		return d.session.DismissBonus()
	case "open_garage":
		return d.session.OpenGarage()
	case "close_garage":
		return d.session.CloseGarage()
	case "buy_vehicle":
		return d.session.BuyVehicle(intent.CarID)
	case "rent_vehicle":
		return d.session.RentVehicle(intent.CarID)
	case "select_vehicle":
		return d.session.SelectVehicle(intent.CarID)
	case "watch_ad":
		return d.session.WatchAd(context.Background())
	case "eat_meal":
		return d.session.EatMeal()
	default:
		return fmt.Errorf("unknown intent %q", intent.Type)
	}
}

func errorMessage(text string) *Message {
	return &Message{Type: "error", Payload: map[string]string{"message": text}}
}

func encodeMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
