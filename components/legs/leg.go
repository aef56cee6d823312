package legs

import (
	"errors"
	"fmt"
	"math"

	"github.com/adammck/pwmhex/math3d"
	"github.com/adammck/pwmhex/utils"
)

var (
	// ErrDegenerateGeometry is returned by Solve when the target can't be
	// turned into joint angles, even after clamping the reach.
	ErrDegenerateGeometry = errors.New("degenerate leg geometry")

	// ErrInvalidGeometry is returned by Geometry.Validate.
	ErrInvalidGeometry = errors.New("invalid leg geometry")
)

const (

	// How far a cosine ratio may stray outside [-1, 1] before it's treated as
	// degenerate rather than rounding error.
	ratioTolerance = 1e-9

	// Targets closer than this (in mm, on the X/Y plane) to the coxa axis have
	// no meaningful coxa angle.
	minHorizontal = 1e-6
)

// Side is the side of the body that a leg is mounted on.
type Side int

const (
	Right Side = iota
	Left
)

// Sign returns the mirroring sign of the femur and tibia servos on this side.
// The servos on the left are mounted the other way around.
func (s Side) Sign() float64 {
	if s == Left {
		return -1
	}

	return 1
}

func (s Side) String() string {
	switch s {
	case Right:
		return "right"
	case Left:
		return "left"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// Config is the fixed mounting of one leg.
type Config struct {
	Name string

	// The position of the coxa joint, relative to the center of the body.
	Origin math3d.Vector3

	// The direction (on the X/Y plane) which the leg points when the coxa is at
	// zero degrees. This is normalized by Frame, so needn't be exactly unit.
	Direction math3d.Vector3

	Side Side
}

// Frame returns the forward and lateral unit vectors of the leg on the X/Y
// plane. Lateral is forward rotated 90 degrees counter-clockwise (seen from
// above).
func (leg Config) Frame() (math3d.Vector3, math3d.Vector3) {
	fwd := leg.Direction.Horizontal().Unit()
	lat := math3d.Vector3{X: -fwd.Y, Y: fwd.X, Z: 0}
	return fwd, lat
}

// Geometry is the link lengths (in mm) and joint constants shared by every leg.
type Geometry struct {
	CoxaLength  float64
	FemurLength float64
	TibiaLength float64

	// The tibia servo angle (in degrees) when the knee is at a right angle.
	TibiaRest float64

	// Limits of the distance between the femur joint and the foot. The minimum
	// is the measured distance with the leg folded as far as it will go, and
	// the maximum is the femur and tibia fully extended.
	MinReach float64
	MaxReach float64
}

// Validate returns an error wrapping ErrInvalidGeometry if the links can't
// reach every distance in [MinReach, MaxReach].
func (g Geometry) Validate() error {
	if g.CoxaLength < 0 || g.FemurLength <= 0 || g.TibiaLength <= 0 {
		return fmt.Errorf("%w: link lengths must be positive (coxa=%.2f femur=%.2f tibia=%.2f)", ErrInvalidGeometry, g.CoxaLength, g.FemurLength, g.TibiaLength)
	}

	if g.MinReach < math.Abs(g.FemurLength-g.TibiaLength) || g.MinReach <= 0 {
		return fmt.Errorf("%w: min reach %.2f is shorter than the fully folded leg (%.2f)", ErrInvalidGeometry, g.MinReach, math.Abs(g.FemurLength-g.TibiaLength))
	}

	if g.MaxReach > g.FemurLength+g.TibiaLength {
		return fmt.Errorf("%w: max reach %.2f is longer than the fully extended leg (%.2f)", ErrInvalidGeometry, g.MaxReach, g.FemurLength+g.TibiaLength)
	}

	if g.MinReach >= g.MaxReach {
		return fmt.Errorf("%w: min reach %.2f must be below max reach %.2f", ErrInvalidGeometry, g.MinReach, g.MaxReach)
	}

	return nil
}

// Angles are joint angles in degrees, in the leg's own frame. Zero coxa points
// the leg along its direction; zero femur is horizontal.
type Angles struct {
	Coxa  float64
	Femur float64
	Tibia float64
}

func (a Angles) String() string {
	return fmt.Sprintf("&Angles{coxa=%+.2f° femur=%+.2f° tibia=%+.2f°}", a.Coxa, a.Femur, a.Tibia)
}

// Solve returns the joint angles which put the foot of the given leg at the
// target, which is in the body frame. The target is pulled inside the reach of
// the leg rather than failing, so an error (wrapping ErrDegenerateGeometry) is
// only returned for targets on the coxa axis or which aren't finite.
func Solve(leg Config, g Geometry, target math3d.Vector3) (Angles, error) {
	offset := target.Subtract(leg.Origin)

	// Solve the angle of the coxa by looking at the target from above. The
	// coxa rotates around the Z axis, so this is just 2d trig in the leg frame.
	// Targets behind the mount are valid, so both signs matter.
	fwd, lat := leg.Frame()
	along := offset.Dot(fwd)
	across := offset.Dot(lat)
	hDist := math.Hypot(along, across)

	if !(hDist > minHorizontal) || math.IsInf(hDist, 0) || math.IsNaN(offset.Z) || math.IsInf(offset.Z, 0) {
		return Angles{}, fmt.Errorf("%w: %s target %s has no usable horizontal offset from %s", ErrDegenerateGeometry, leg.Name, target, leg.Origin)
	}

	coxa := utils.Deg(math.Atan2(across, along))

	// The femur and tibia are on the vertical plane through the target, so the
	// rest is 2d trig too. The known lengths are:
	//
	//            (?)
	//           /   \
	//          a     b
	//         /       \
	//  (femur)          \
	//      \             \
	//       c---------- (target)
	//
	// where c is the reach from the femur joint to the target.
	h := hDist - g.CoxaLength
	v := offset.Z
	a := g.FemurLength
	b := g.TibiaLength
	c := utils.Clamp(math.Hypot(h, v), g.MinReach, g.MaxReach)

	knee, err := sss(c, a, b)
	if err != nil {
		return Angles{}, fmt.Errorf("%w (while solving %s knee for %s, reach=%.2f)", err, leg.Name, target, c)
	}

	inner, err := sss(b, a, c)
	if err != nil {
		return Angles{}, fmt.Errorf("%w (while solving %s femur for %s, reach=%.2f)", err, leg.Name, target, c)
	}

	// The angle of the target below the horizontal.
	depression := utils.Deg(math.Atan2(-v, h))

	return Angles{
		Coxa:  coxa,
		Femur: inner - depression,
		Tibia: g.TibiaRest + 90 - knee,
	}, nil
}

// Forward returns the position of the foot (in the body frame) given the joint
// angles of a leg. It's the inverse of Solve for targets within reach.
func Forward(leg Config, g Geometry, a Angles) math3d.Vector3 {
	femur := utils.Rad(a.Femur)
	knee := utils.Rad(g.TibiaRest + 90 - a.Tibia)

	// The tibia hangs from the end of the femur, bent down by the outer angle
	// of the knee.
	tibia := femur - (math.Pi - knee)

	h := g.FemurLength*math.Cos(femur) + g.TibiaLength*math.Cos(tibia)
	v := g.FemurLength*math.Sin(femur) + g.TibiaLength*math.Sin(tibia)

	hDist := g.CoxaLength + h
	coxa := utils.Rad(a.Coxa)
	fwd, lat := leg.Frame()

	return leg.Origin.
		Add(fwd.MultiplyByScalar(hDist * math.Cos(coxa))).
		Add(lat.MultiplyByScalar(hDist * math.Sin(coxa))).
		Add(math3d.UnitZ.MultiplyByScalar(v))
}

// sss returns the angle (in degrees) opposite side a, given the length of
// sides a, b, and c.
// See: http://en.wikipedia.org/wiki/Solution_of_triangles
func sss(a float64, b float64, c float64) (float64, error) {
	r := ((b * b) + (c * c) - (a * a)) / (2 * b * c)
	if math.IsNaN(r) || r > 1+ratioTolerance || r < -1-ratioTolerance {
		return 0, fmt.Errorf("%w: cosine ratio %v out of range", ErrDegenerateGeometry, r)
	}

	return utils.Deg(math.Acos(utils.Clamp(r, -1, 1))), nil
}
