// Package distance measures how far textured objects are from the camera.
package distance

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"texsqueeze/internal/scene"
	"texsqueeze/internal/texture"
)

// ErrNoImagesFound is returned when no object has a bound image.
var ErrNoImagesFound = errors.New("no images found")

// Sample is one textured object's distance from the camera.
type Sample struct {
	Object   *scene.Object
	Image    *texture.Image
	Distance float64
	Order    int // position in the scene's object enumeration
}

// Measure samples every object with a bound image, nearest first.
// Equidistant objects keep their enumeration order.
func Measure(cam *scene.Camera, objects []*scene.Object) ([]Sample, error) {
	if cam == nil {
		return nil, scene.ErrNoCamera
	}

	var samples []Sample
	for i, o := range objects {
		if o == nil || o.Image == nil {
			continue
		}
		d := cam.Position.Dist(o.Position)
		if math.IsNaN(d) || math.IsInf(d, 0) {
			return nil, fmt.Errorf("distance: object %q: %w", o.Name, scene.ErrInvalidPosition)
		}
		samples = append(samples, Sample{
			Object:   o,
			Image:    o.Image,
			Distance: d,
			Order:    i,
		})
	}
	if len(samples) == 0 {
		return nil, ErrNoImagesFound
	}

	sort.Slice(samples, func(i, j int) bool {
		if samples[i].Distance != samples[j].Distance {
			return samples[i].Distance < samples[j].Distance
		}
		return samples[i].Order < samples[j].Order
	})
	return samples, nil
}

// NearestAndFarthest returns the first and last of samples ordered by Measure.
func NearestAndFarthest(samples []Sample) (nearest, farthest Sample, err error) {
	if len(samples) == 0 {
		return Sample{}, Sample{}, ErrNoImagesFound
	}
	return samples[0], samples[len(samples)-1], nil
}

// FromScene samples s's objects from its active camera.
func FromScene(s *scene.Scene) ([]Sample, error) {
	return Measure(s.Camera, s.Objects)
}

