package math3d

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMagnitude(t *testing.T) {
	type eg struct {
		input Vector3
		exp   float64
	}

	examples := []eg{
		{Vector3{X: 0, Y: 0, Z: 0}, 0},
		{Vector3{X: 1, Y: 1, Z: 1}, 1.732050808},
		{Vector3{X: 1, Y: 2, Z: 3}, 3.741657387},
		{Vector3{X: 4, Y: 5, Z: 6}, 8.774964387},
	}

	for _, x := range examples {
		assert.InDelta(t, x.exp, x.input.Magnitude(), 0.01)
	}
}

func TestDistance(t *testing.T) {
	type eg struct {
		recv Vector3
		arg  Vector3
		out  float64
	}

	examples := []eg{
		{Vector3{X: 1, Y: 1, Z: 1}, Vector3{X: 1, Y: 1, Z: 1}, 0},
		{Vector3{X: 1, Y: 1, Z: 1}, Vector3{X: 2, Y: 2, Z: 2}, 1.732050808},
	}

	for _, x := range examples {
		assert.InDelta(t, x.out, x.recv.Distance(x.arg), 0.01)
	}
}

func TestUnit(t *testing.T) {
	type eg struct {
		in  Vector3
		out Vector3
	}

	examples := []eg{
		{Vector3{X: 0, Y: 0, Z: 0}, ZeroVector3},
		{Vector3{X: 0, Y: 0, Z: 5}, UnitZ},
		{Vector3{X: -3, Y: 0, Z: 0}, Vector3{X: -1, Y: 0, Z: 0}},
	}

	for _, x := range examples {
		assert.Equal(t, x.out, x.in.Unit())
	}

	u := Vector3{X: 2, Y: 2, Z: 2}.Unit()
	assert.InDelta(t, 1.0, u.Magnitude(), 1e-12)
	assert.InDelta(t, 0.5773502691896258, u.X, 1e-12)
}

func TestAddSubtract(t *testing.T) {
	v1 := Vector3{X: 1, Y: 2, Z: 3}
	v2 := Vector3{X: 4, Y: 5, Z: 6}

	assert.Equal(t, Vector3{X: 3, Y: 3, Z: 3}, v2.Subtract(v1))
	assert.Equal(t, Vector3{X: 5, Y: 7, Z: 9}, v1.Add(v2))

	// value semantics: neither operand changes
	assert.Equal(t, Vector3{X: 1, Y: 2, Z: 3}, v1)
	assert.Equal(t, Vector3{X: 4, Y: 5, Z: 6}, v2)
}

func TestMultiplyByScalar(t *testing.T) {
	v := Vector3{X: 1, Y: 2, Z: 3}

	vAct := v.MultiplyByScalar(0.5)
	vExp := Vector3{X: 0.5, Y: 1, Z: 1.5}
	assert.Equal(t, vExp, vAct)

	vAct = v.MultiplyByScalar(2)
	vExp = Vector3{X: 2, Y: 4, Z: 6}
	assert.Equal(t, vExp, vAct)
}

func TestDotAndHorizontal(t *testing.T) {
	v := Vector3{X: 1, Y: 2, Z: 3}
	assert.Equal(t, 32.0, v.Dot(Vector3{X: 4, Y: 5, Z: 6}))
	assert.Equal(t, Vector3{X: 1, Y: 2, Z: 0}, v.Horizontal())
	assert.False(t, v.Zero())
	assert.True(t, ZeroVector3.Zero())
}
