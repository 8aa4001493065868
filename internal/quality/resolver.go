// Package quality maps camera distance to a target texture resolution.
package quality

import (
	"errors"
	"fmt"
	"math"

	"texsqueeze/internal/mathutil"
)

// ErrInvalidRange is returned when MinDistance is not below MaxDistance.
var ErrInvalidRange = errors.New("min distance must be less than max distance")

// Range describes a linear resolution gradient between two distances.
// Near applies at or closer than MinDistance, Far at or beyond MaxDistance.
// Near may exceed Far (the usual case) or be smaller (reverse gradient).
type Range struct {
	MinDistance float64
	MaxDistance float64
	Near        int
	Far         int
}

// Validate checks the distance interval.
func (r Range) Validate() error {
	if math.IsNaN(r.MinDistance) || math.IsNaN(r.MaxDistance) || r.MinDistance >= r.MaxDistance {
		return fmt.Errorf("quality: range [%g, %g]: %w", r.MinDistance, r.MaxDistance, ErrInvalidRange)
	}
	return nil
}

// At returns the resolution for distance d. The range must already be valid.
func (r Range) At(d float64) int {
	switch {
	case d <= r.MinDistance:
		return atLeastOne(r.Near)
	case d >= r.MaxDistance:
		return atLeastOne(r.Far)
	}
	t := mathutil.Clamp01((d - r.MinDistance) / (r.MaxDistance - r.MinDistance))
	return atLeastOne(int(math.Round(mathutil.Lerp(float64(r.Near), float64(r.Far), t))))
}

// Resolve validates r and returns the resolution for distance d.
func Resolve(d float64, r Range) (int, error) {
	if err := r.Validate(); err != nil {
		return 0, err
	}
	return r.At(d), nil
}

func atLeastOne(v int) int {
	if v < 1 {
		return 1
	}
	return v
}
