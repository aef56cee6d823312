package gait

import (
	"math"
	"time"

	"github.com/adammck/pwmhex/math3d"
)

const (
	numLegs = 6

	// Boundaries of the four intervals of a single leg's cycle, as fractions
	// of the period. Each interval is a linear interpolation.
	//
	// |lift|      swing      |drop|      stroke       |
	// 0    0.1               0.5  0.6                 1
	//
	liftEnd  = 0.1
	swingEnd = 0.5
	dropEnd  = 0.6
)

// Gait is a periodic foot trajectory, offset in phase for each leg.
type Gait struct {
	Period time.Duration
	phases [numLegs]float64
}

// Tripod returns the gait which moves two groups of three legs alternately:
// legs 0, 2, 4 and then legs 1, 3, 5.
func Tripod(period time.Duration) Gait {
	return Gait{
		Period: period,
		phases: [numLegs]float64{
			0: 0.0,
			1: 0.5,
			2: 0.0,
			3: 0.5,
			4: 0.0,
			5: 0.5,
		},
	}
}

// Phase returns the position of the given leg within its cycle at time t, in
// the range [0, 1).
func (g Gait) Phase(leg int, t time.Duration) float64 {
	p := t.Seconds()/g.Period.Seconds() + g.phases[leg]
	p -= math.Floor(p)

	// Floor can leave exactly 1 for tiny negative inputs.
	if p >= 1 {
		p = 0
	}

	return p
}

// Airborne returns true if a leg at the given phase is lifting or swinging.
// Legs which are dropping count as grounded.
func Airborne(phase float64) bool {
	return phase < swingEnd
}

// Offset returns the displacement of the given foot from its home position at
// time t. The foot strokes along the stride on the ground, then lifts, swings
// back against it, and drops to where the stroke started.
func (g Gait) Offset(leg int, stride math3d.Vector3, lift float64, t time.Duration) math3d.Vector3 {
	return offsetAt(g.Phase(leg, t), stride, lift)
}

func offsetAt(p float64, stride math3d.Vector3, lift float64) math3d.Vector3 {
	half := stride.Horizontal().MultiplyByScalar(0.5)

	// Ratio along the horizontal path from -half to +half, and height ratio.
	var xy, z float64

	switch {
	case p < liftEnd:
		xy = 1
		z = p / liftEnd

	case p < swingEnd:
		xy = 1 - (p-liftEnd)/(swingEnd-liftEnd)
		z = 1

	case p < dropEnd:
		xy = 0
		z = 1 - (p-swingEnd)/(dropEnd-swingEnd)

	default:
		xy = (p - dropEnd) / (1 - dropEnd)
		z = 0
	}

	// Map xy from [0, 1] onto [-half, +half].
	v := half.MultiplyByScalar(2*xy - 1)
	v.Z = lift * z
	return v
}
