// Package window computes admissible random clip windows inside a video,
// keeping the clip away from the edges of the source.
package window

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/jeremym/clipsample/internal/types"
)

// ErrTooShort indicates the source cannot fit the requested clip once
// the edge buffers are excluded.
var ErrTooShort = errors.New("video is too short")

// Sample draws one [start, end) window for a source of the given total
// duration (seconds). The start is uniform over the valid region; the
// caller supplies the random source. Pure apart from the rng draw.
func Sample(total float64, spec types.ClipSpec, rng *rand.Rand) (types.TimeWindow, error) {
	if spec.Duration <= 0 {
		return types.TimeWindow{}, fmt.Errorf("clip duration must be positive, got %g", spec.Duration)
	}
	if spec.Buffer < 0 {
		return types.TimeWindow{}, fmt.Errorf("edge buffer must not be negative, got %g", spec.Buffer)
	}

	var lo, hi float64
	switch spec.Policy {
	case types.BufferAbsolute:
		lo = spec.Buffer
		hi = total - spec.Buffer - spec.Duration
	case types.BufferFraction:
		if spec.Buffer >= 0.5 {
			return types.TimeWindow{}, fmt.Errorf("buffer fraction must be below 0.5, got %g", spec.Buffer)
		}
		lo = total * spec.Buffer
		hi = total*(1-spec.Buffer) - spec.Duration
	default:
		return types.TimeWindow{}, fmt.Errorf("unknown buffer policy %d", spec.Policy)
	}

	if hi < lo {
		return types.TimeWindow{}, fmt.Errorf("%w: %.1fs leaves no room for a %.1fs clip with %g %s edge buffer",
			ErrTooShort, total, spec.Duration, spec.Buffer, spec.Policy)
	}

	start := lo + rng.Float64()*(hi-lo)
	return types.TimeWindow{Start: start, End: start + spec.Duration}, nil
}
