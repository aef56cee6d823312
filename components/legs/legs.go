package legs

import (
	"time"

	"github.com/adammck/pwmhex/components/legs/gait"
	"github.com/adammck/pwmhex/math3d"
)

const (
	NumLegs = 6
)

// Tuning holds the constants which turn the normalized operator inputs into
// millimeters (and degrees) in the body frame.
type Tuning struct {

	// Distance (on the X/Y plane, beyond the coxa) from the mount to the home
	// position of each foot, and the distance of that position below the mount.
	StanceReach float64
	StanceDrop  float64

	// The stride length at full translation input, and the extra stride given
	// to each side at full rotation input, which turns the body on the spot.
	TranslationScale float64
	TurnStride       float64

	// How far the stance input widens the legs and raises the body.
	StanceScale float64

	// How far the manual input moves a single foot.
	LegScale float64

	// The body pitch (in degrees) at full vertical rotation input.
	MaxPitch float64

	// How high feet are lifted while walking.
	LiftHeight float64
}

// Inputs are the operator intent, all normalized to [-1, 1]. Only X and Y of
// each vector are meaningful.
type Inputs struct {
	Translation math3d.Vector3
	Rotation    math3d.Vector3
	Stance      math3d.Vector3
	Legs        [NumLegs]math3d.Vector3
}

// Legs composes the target position of each foot from the inputs and the gait
// clock. It holds no mutable state; the home positions are derived once, when
// it's created.
type Legs struct {
	Configs  [NumLegs]Config
	Geometry Geometry
	Gait     gait.Gait
	Tuning   Tuning

	// Home position of each foot, in the body frame.
	nominal [NumLegs]math3d.Vector3
}

func New(configs [NumLegs]Config, g Geometry, gt gait.Gait, t Tuning) *Legs {
	l := &Legs{
		Configs:  configs,
		Geometry: g,
		Gait:     gt,
		Tuning:   t,
	}

	for i, leg := range l.Configs {
		l.nominal[i] = l.homeFootPosition(leg)
	}

	return l
}

// homeFootPosition returns the position of the given foot when standing still
// with all inputs centered: straight out from the mount, below it.
func (l *Legs) homeFootPosition(leg Config) math3d.Vector3 {
	fwd, _ := leg.Frame()
	return leg.Origin.
		Add(fwd.MultiplyByScalar(l.Geometry.CoxaLength + l.Tuning.StanceReach)).
		Add(math3d.UnitZ.MultiplyByScalar(-l.Tuning.StanceDrop))
}

// Nominal returns the home position of the given foot.
func (l *Legs) Nominal(i int) math3d.Vector3 {
	return l.nominal[i]
}

// Walking returns true if the inputs ask the body to move, in which case every
// foot steps, even those whose own stride happens to be zero.
func (l *Legs) Walking(in Inputs) bool {
	return in.Translation.X != 0 || in.Translation.Y != 0 || in.Rotation.X != 0
}

// Stride returns the distance which the given foot moves (relative to the body)
// while on the ground during one gait cycle. The body moves the opposite way,
// so the translation is inverted. Rotation adds opposite strides to each side.
func (l *Legs) Stride(i int, in Inputs) math3d.Vector3 {
	t := l.Tuning
	side := l.Configs[i].Side.Sign()

	return math3d.Vector3{
		X: -in.Translation.X * t.TranslationScale,
		Y: -in.Translation.Y*t.TranslationScale + side*in.Rotation.X*t.TurnStride,
	}
}

// Target returns the position (in the body frame) which the given foot should
// be at, at gait time t.
func (l *Legs) Target(i int, in Inputs, t time.Duration) math3d.Vector3 {
	tn := l.Tuning
	fwd, _ := l.Configs[i].Frame()

	// The feet stay put while the body pitches, so apply the inverse of the
	// body rotation to them.
	v := math3d.Pitch(in.Rotation.Y * tn.MaxPitch).Inverse().Apply(l.nominal[i])

	// Widen the stance along the leg, and lower the feet to raise the body.
	v = v.Add(fwd.MultiplyByScalar(in.Stance.X * tn.StanceScale))
	v = v.Add(math3d.UnitZ.MultiplyByScalar(-in.Stance.Y * tn.StanceScale))

	v = v.Add(in.Legs[i].Horizontal().MultiplyByScalar(tn.LegScale))

	lift := 0.0
	if l.Walking(in) {
		lift = tn.LiftHeight
	}

	return v.Add(l.Gait.Offset(i, l.Stride(i, in), lift, t))
}
