// Package economy provides the pure pricing and settlement model for rides:
// shift configurations, priority tiers, the fare formula, and per-ride
// settlement. Nothing in this package mutates state or touches the clock.
package economy

// ShiftType identifies one of the three working shifts.
type ShiftType string

const (
	ShiftMorning ShiftType = "MORNING"
	ShiftDay     ShiftType = "DAY"
	ShiftEvening ShiftType = "EVENING"
)

// ShiftTypes lists all valid shift types in day order.
var ShiftTypes = []ShiftType{ShiftMorning, ShiftDay, ShiftEvening}

// Valid reports whether t is one of the three shift types.
func (t ShiftType) Valid() bool {
	return t == ShiftMorning || t == ShiftDay || t == ShiftEvening
}

// Peak reports whether t is a peak-demand shift. Peak shifts mark every
// generated offer as high demand.
func (t ShiftType) Peak() bool {
	return t == ShiftMorning || t == ShiftEvening
}

// ShiftConfig holds the static tuning of one shift type.
type ShiftConfig struct {
	// Label is the display label, also used as the flavor provider key.
	Label string
	// Multiplier scales the base fare.
	Multiplier float64
	// Commission is the platform fee rate in [0,1].
	Commission float64
	// Traffic is the display traffic condition.
	Traffic string
	// Description is a one-line pitch shown on the shift selector.
	Description string
}

var shiftConfigs = map[ShiftType]ShiftConfig{
	ShiftMorning: {
		Label:       "Утро (07:00 - 10:00)",
		Multiplier:  1.8,
		Commission:  0.30,
		Traffic:     "Пробки",
		Description: "Час пик! Высокий спрос, но большая комиссия.",
	},
	ShiftDay: {
		Label:       "День (10:00 - 16:00)",
		Multiplier:  1.0,
		Commission:  0.15,
		Traffic:     "Свободно",
		Description: "Спокойная работа, низкая комиссия.",
	},
	ShiftEvening: {
		Label:       "Вечер (16:00 - 20:00)",
		Multiplier:  2.0,
		Commission:  0.35,
		Traffic:     "Пробки",
		Description: "Максимальные цены, но и комиссия кусается.",
	},
}

// ConfigFor returns the static configuration of the given shift type.
// Unknown types fall back to the DAY configuration.
//
// Postcondition: Returns a ShiftConfig with Multiplier > 0.
func ConfigFor(t ShiftType) ShiftConfig {
	if cfg, ok := shiftConfigs[t]; ok {
		return cfg
	}
	return shiftConfigs[ShiftDay]
}
