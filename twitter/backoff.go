package twitter

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// failureCategory distinguishes the three error families spec.md §7
// assigns independent backoff curves to.
type failureCategory int

const (
	failureNone failureCategory = iota
	failureHTTP
	failureOther
)

func (c failureCategory) String() string {
	switch c {
	case failureNone:
		return "none"
	case failureHTTP:
		return "http"
	case failureOther:
		return "other"
	default:
		return "unknown"
	}
}

// newCurve builds a deterministic doubling backoff curve: no jitter (so
// scenarios in spec.md §8 are exactly reproducible) and no elapsed-time
// cap (a long-lived monitor must keep retrying forever).
func newCurve(initial, max time.Duration) *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = initial
	b.MaxInterval = max
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// backoffCurves holds one independent curve per failure category, each
// with its own running index, reset only when a connect attempt in that
// category succeeds. Grounded on spec.md §7's three curves and on
// original_source's TwitterMonitor.backOffs class attribute.
type backoffCurves struct {
	curves map[failureCategory]*backoff.ExponentialBackOff
}

func newBackoffCurves() *backoffCurves {
	return &backoffCurves{
		curves: map[failureCategory]*backoff.ExponentialBackOff{
			failureNone:  newCurve(250*time.Millisecond, 16*time.Second),
			failureHTTP:  newCurve(10*time.Second, 240*time.Second),
			failureOther: newCurve(10*time.Second, 240*time.Second),
		},
	}
}

// Next advances and returns the next delay for category.
func (b *backoffCurves) Next(category failureCategory) time.Duration {
	return b.curves[category].NextBackOff()
}

// ResetOnSuccess resets only the curve for category, leaving the other
// two categories' running indices untouched.
func (b *backoffCurves) ResetOnSuccess(category failureCategory) {
	b.curves[category].Reset()
}
