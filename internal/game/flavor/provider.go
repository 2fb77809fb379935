// Package flavor provides passenger flavor text: name, story, and
// destination for ride offers. Providers may fail or be slow; callers wrap
// them with WithFallback so that offer generation never blocks on flavor and
// never sees an error.
package flavor

import "context"

// Passenger is the flavor record attached to a ride offer.
type Passenger struct {
	Name        string `json:"name"`
	Story       string `json:"story"`
	Destination string `json:"destination"`
}

// Fallback is the fixed record substituted whenever a provider fails.
var Fallback = Passenger{
	Name:        "Иван",
	Story:       "Просто еду на работу, опаздываю.",
	Destination: "Бизнес-центр",
}

// Provider produces a passenger profile for the given shift label.
type Provider interface {
	// Passenger returns a flavor record. Implementations may return an
	// error; callers substitute Fallback.
	Passenger(ctx context.Context, shiftLabel string) (Passenger, error)
}

// complete reports whether all fields of p are filled in.
func (p Passenger) complete() bool {
	return p.Name != "" && p.Story != "" && p.Destination != ""
}
