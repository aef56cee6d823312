package math3d

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPitch(t *testing.T) {
	type eg struct {
		deg float64
		in  Vector3
		out Vector3
	}

	examples := []eg{
		{0, Vector3{X: 1, Y: 2, Z: 3}, Vector3{X: 1, Y: 2, Z: 3}},
		{90, Vector3{X: 0, Y: 1, Z: 0}, Vector3{X: 0, Y: 0, Z: 1}},
		{90, Vector3{X: 5, Y: 0, Z: 1}, Vector3{X: 5, Y: -1, Z: 0}},
		{-90, Vector3{X: 0, Y: 1, Z: 0}, Vector3{X: 0, Y: 0, Z: -1}},
		{30, Vector3{X: 0, Y: 2, Z: 0}, Vector3{X: 0, Y: 1.7320508, Z: 1}},
	}

	for i, x := range examples {
		act := Pitch(x.deg).Apply(x.in)
		if act.Distance(x.out) > 0.000001 {
			t.Errorf("Example #%d: got %s, expected: %s", i+1, act, x.out)
		}
	}
}

func TestIdentity(t *testing.T) {
	v := Vector3{X: -61, Y: 24, Z: 98}
	assert.Equal(t, v, Identity.Apply(v))
	assert.Equal(t, Identity, Pitch(0))
}

func TestRotationInverse(t *testing.T) {
	r := Pitch(37)
	inv := r.Inverse()

	for _, v := range []Vector3{{0, 0, 0}, {10, -20, 30}, {-61, 24, 98}} {
		back := inv.Apply(r.Apply(v))
		assert.InDelta(t, 0, back.Distance(v), 1e-9)

		// Rotations don't change lengths.
		assert.InDelta(t, v.Magnitude(), r.Apply(v).Magnitude(), 1e-9)
	}

	// undoing a pitch is the same as pitching the other way
	v := Vector3{X: 3, Y: 70, Z: -40}
	a := Pitch(12).Inverse().Apply(v)
	b := Pitch(-12).Apply(v)
	assert.InDelta(t, 0, a.Distance(b), 1e-9)
}
