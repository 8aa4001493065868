package distance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"texsqueeze/internal/mathutil"
	"texsqueeze/internal/scene"
	"texsqueeze/internal/texture"
)

func obj(name string, pos mathutil.Vec3, withImage bool) *scene.Object {
	o := &scene.Object{Name: name, Position: pos}
	if withImage {
		o.Image = &texture.Image{Name: name + "_tex", Source: texture.SourceFile}
	}
	return o
}

func TestSampleOrdersByDistance(t *testing.T) {
	cam := &scene.Camera{Position: mathutil.Vec3{0, 0, 0}}
	objects := []*scene.Object{
		obj("far", mathutil.Vec3{0, 0, 10}, true),
		obj("empty", mathutil.Vec3{0, 0, 0.5}, false),
		obj("near", mathutil.Vec3{1, 0, 0}, true),
		obj("mid", mathutil.Vec3{3, 4, 0}, true),
	}

	samples, err := Measure(cam, objects)
	require.NoError(t, err)
	require.Len(t, samples, 3)

	assert.Equal(t, "near", samples[0].Object.Name)
	assert.Equal(t, "mid", samples[1].Object.Name)
	assert.Equal(t, "far", samples[2].Object.Name)
	assert.InDelta(t, 5.0, samples[1].Distance, 1e-12)

	nearest, farthest, err := NearestAndFarthest(samples)
	require.NoError(t, err)
	assert.Equal(t, "near_tex", nearest.Image.Name)
	assert.Equal(t, "far_tex", farthest.Image.Name)
}

func TestSampleTiesKeepEnumerationOrder(t *testing.T) {
	cam := &scene.Camera{}
	objects := []*scene.Object{
		obj("b", mathutil.Vec3{0, 2, 0}, true),
		obj("a", mathutil.Vec3{2, 0, 0}, true),
		obj("c", mathutil.Vec3{0, 0, -2}, true),
	}
	samples, err := Measure(cam, objects)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, names(samples))
}

func TestSampleErrors(t *testing.T) {
	_, err := Measure(nil, []*scene.Object{obj("x", mathutil.Vec3{}, true)})
	assert.ErrorIs(t, err, scene.ErrNoCamera)

	_, err = Measure(&scene.Camera{}, []*scene.Object{obj("x", mathutil.Vec3{}, false)})
	assert.ErrorIs(t, err, ErrNoImagesFound)

	_, _, err = NearestAndFarthest(nil)
	assert.ErrorIs(t, err, ErrNoImagesFound)

	_, err = Measure(&scene.Camera{}, []*scene.Object{
		obj("ok", mathutil.Vec3{1, 0, 0}, true),
		obj("bad", mathutil.Vec3{math.NaN(), 0, 0}, true),
	})
	assert.ErrorIs(t, err, scene.ErrInvalidPosition)
}

func TestSampleSortedProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 30).Draw(rt, "n")
		objects := make([]*scene.Object, n)
		for i := range objects {
			// Small integer grid so ties are common.
			p := mathutil.Vec3{
				float64(rapid.IntRange(-3, 3).Draw(rt, "x")),
				float64(rapid.IntRange(-3, 3).Draw(rt, "y")),
				float64(rapid.IntRange(-3, 3).Draw(rt, "z")),
			}
			objects[i] = obj("o", p, rapid.Bool().Draw(rt, "img") || i == 0)
		}
		samples, err := Measure(&scene.Camera{}, objects)
		require.NoError(rt, err)
		for i := 1; i < len(samples); i++ {
			prev, cur := samples[i-1], samples[i]
			require.LessOrEqual(rt, prev.Distance, cur.Distance)
			if prev.Distance == cur.Distance {
				require.Less(rt, prev.Order, cur.Order)
			}
		}
	})
}

func names(samples []Sample) []string {
	out := make([]string, len(samples))
	for i, s := range samples {
		out[i] = s.Object.Name
	}
	return out
}
