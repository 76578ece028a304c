// Package backoff computes retry delays for the request executor.
package backoff

import (
	"math"
	"math/rand"
	"time"
)

// maxExponent caps the growth term so the float math cannot overflow into a
// negative duration on absurd attempt counts.
const maxExponent = 30

// Delay returns the sleep duration before retry number attempt, counting
// from 1 for the first retry.
//
// The raw delay doubles per attempt from initial and is capped at max, then
// scaled by a jitter factor drawn uniformly from [0.5, 1.0) so simultaneous
// clients spread out. The result is floored at initial, which makes the
// first retry always wait exactly the configured minimum.
//
// rng may be nil, in which case the shared package source is used.
func Delay(attempt int, initial, max time.Duration, rng *rand.Rand) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > maxExponent {
		attempt = maxExponent
	}

	d := time.Duration(float64(initial) * math.Pow(2, float64(attempt-1)))
	if d < 0 || d > max {
		d = max
	}

	jitter := 0.5 + 0.5*floatSource(rng)
	d = time.Duration(float64(d) * jitter)
	if d < initial {
		d = initial
	}
	return d
}

func floatSource(rng *rand.Rand) float64 {
	if rng != nil {
		return rng.Float64()
	}
	return rand.Float64()
}
