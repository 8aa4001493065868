package mathutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3Dist(t *testing.T) {
	tests := []struct {
		name string
		a, b Vec3
		want float64
	}{
		{"same point", Vec3{1, 2, 3}, Vec3{1, 2, 3}, 0},
		{"axis", Vec3{0, 0, 0}, Vec3{0, 0, 5}, 5},
		{"pythagorean", Vec3{0, 0, 0}, Vec3{3, 4, 0}, 5},
		{"negative", Vec3{-1, -2, -2}, Vec3{0, 0, 0}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.a.Dist(tt.b), 1e-12)
			assert.InDelta(t, tt.want, tt.a.Sub(tt.b).Len(), 1e-12)
		})
	}
}

func TestClamp01(t *testing.T) {
	assert.Equal(t, 0.0, Clamp01(-0.5))
	assert.Equal(t, 0.25, Clamp01(0.25))
	assert.Equal(t, 1.0, Clamp01(7))
	assert.Equal(t, 0.0, Clamp01(math.NaN()))
}

func TestLerp(t *testing.T) {
	assert.Equal(t, 4096.0, Lerp(4096, 512, 0))
	assert.Equal(t, 512.0, Lerp(4096, 512, 1))
	assert.Equal(t, 2304.0, Lerp(4096, 512, 0.5))
}

func TestVec3Finite(t *testing.T) {
	assert.True(t, Vec3{1, -2, 3}.Finite())
	assert.False(t, Vec3{math.NaN(), 0, 0}.Finite())
	assert.False(t, Vec3{0, math.Inf(1), 0}.Finite())
	assert.False(t, Vec3{0, 0, math.Inf(-1)}.Finite())
}
