package gait

import (
	"math"
	"testing"
	"time"

	"github.com/adammck/pwmhex/math3d"
	"github.com/stretchr/testify/assert"
)

func TestIdleStanceIsZero(t *testing.T) {
	g := Tripod(time.Second)

	for leg := 0; leg < numLegs; leg++ {
		for ms := 0; ms < 2000; ms += 37 {
			v := g.Offset(leg, math3d.ZeroVector3, 0, time.Duration(ms)*time.Millisecond)
			assert.True(t, v.Zero(), "leg %d at %dms: %s", leg, ms, v)
		}
	}
}

func TestOffsetAtPhase(t *testing.T) {
	type eg struct {
		phase float64
		exp   math3d.Vector3
	}

	stride := math3d.Vector3{X: 0, Y: 40}
	lift := 20.0

	examples := []eg{
		{0.0, math3d.Vector3{Y: 20, Z: 0}},   // end of stroke
		{0.05, math3d.Vector3{Y: 20, Z: 10}}, // half way up
		{0.1, math3d.Vector3{Y: 20, Z: 20}},  // top
		{0.3, math3d.Vector3{Y: 0, Z: 20}},   // mid swing
		{0.5, math3d.Vector3{Y: -20, Z: 20}}, // end of swing
		{0.55, math3d.Vector3{Y: -20, Z: 10}},
		{0.6, math3d.Vector3{Y: -20, Z: 0}}, // down
		{0.8, math3d.Vector3{Y: 0, Z: 0}},  // mid stroke
	}

	for i, x := range examples {
		act := offsetAt(x.phase, stride, lift)
		assert.InDelta(t, x.exp.X, act.X, 1e-9, "example %d: X", i+1)
		assert.InDelta(t, x.exp.Y, act.Y, 1e-9, "example %d: Y", i+1)
		assert.InDelta(t, x.exp.Z, act.Z, 1e-9, "example %d: Z", i+1)
	}
}

func TestContinuousAtBoundaries(t *testing.T) {
	stride := math3d.Vector3{X: 13, Y: -31}
	lift := 25.0
	eps := 1e-9

	for _, b := range []float64{liftEnd, swingEnd, dropEnd} {
		before := offsetAt(b-eps, stride, lift)
		after := offsetAt(b, stride, lift)
		assert.InDelta(t, 0, before.Distance(after), 1e-6, "boundary %v", b)
	}

	// wrapping from the end of one cycle to the start of the next
	end := offsetAt(1-eps, stride, lift)
	start := offsetAt(0, stride, lift)
	assert.InDelta(t, 0, end.Distance(start), 1e-6)
}

func TestTripodGroups(t *testing.T) {
	g := Tripod(800 * time.Millisecond)

	for ms := 0; ms < 3000; ms += 7 {
		now := time.Duration(ms) * time.Millisecond

		a := Airborne(g.Phase(0, now))
		assert.Equal(t, a, Airborne(g.Phase(2, now)))
		assert.Equal(t, a, Airborne(g.Phase(4, now)))
		assert.Equal(t, !a, Airborne(g.Phase(1, now)))
		assert.Equal(t, !a, Airborne(g.Phase(3, now)))
		assert.Equal(t, !a, Airborne(g.Phase(5, now)))

		// the groups are always half a cycle apart
		d := g.Phase(1, now) - g.Phase(0, now)
		d -= math.Floor(d)
		assert.InDelta(t, 0.5, d, 1e-9, "at %v", now)
	}
}

func TestPhase(t *testing.T) {
	g := Tripod(time.Second)

	assert.InDelta(t, 0.0, g.Phase(0, 0), 1e-12)
	assert.InDelta(t, 0.5, g.Phase(1, 0), 1e-12)
	assert.InDelta(t, 0.25, g.Phase(0, 1250*time.Millisecond), 1e-12)
	assert.InDelta(t, 0.75, g.Phase(3, 1250*time.Millisecond), 1e-12)

	p := g.Phase(0, -250*time.Millisecond)
	assert.InDelta(t, 0.75, p, 1e-12)
}
