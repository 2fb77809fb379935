package flavor

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// fallbackProvider bounds the latency of an inner provider and substitutes
// the Fallback record on any failure.
type fallbackProvider struct {
	inner   Provider
	timeout time.Duration
	logger  *zap.Logger
}

// WithFallback wraps p so that every call completes within timeout and never
// returns an error: slow or failing fetches yield the Fallback record.
//
// Precondition: p must be non-nil; timeout > 0; logger must be non-nil.
// Postcondition: The returned provider's Passenger never errors.
func WithFallback(p Provider, timeout time.Duration, logger *zap.Logger) Provider {
	return &fallbackProvider{inner: p, timeout: timeout, logger: logger}
}

func (f *fallbackProvider) Passenger(ctx context.Context, shiftLabel string) (Passenger, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	p, err := f.inner.Passenger(ctx, shiftLabel)
	if err != nil {
		f.logger.Debug("flavor provider failed, using fallback",
			zap.String("shift_label", shiftLabel),
			zap.Error(err),
		)
		return Fallback, nil
	}
	if !p.complete() {
		return Fallback, nil
	}
	return p, nil
}
