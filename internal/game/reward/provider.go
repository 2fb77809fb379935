// Package reward abstracts the rewarded-ad platform that grants energy.
package reward

import "context"

// Provider shows a rewarded ad and reports whether it was seen through.
//
// The session applies the energy grant when RequestReward returns, including
// on error: the fail-open policy favors the player over the ad platform.
type Provider interface {
	RequestReward(ctx context.Context) error
}

// Unconditional is the Provider used when no ad platform is wired: the grant
// is applied immediately.
type Unconditional struct{}

// RequestReward returns immediately with no error.
func (Unconditional) RequestReward(context.Context) error { return nil }

// Func adapts a function to the Provider interface.
type Func func(ctx context.Context) error

// RequestReward calls the underlying function.
func (f Func) RequestReward(ctx context.Context) error { return f(ctx) }
