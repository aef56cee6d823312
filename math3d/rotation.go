package math3d

import (
	"fmt"
	"math"

	"github.com/adammck/pwmhex/utils"
)

// Rotation is a 3x3 rotation matrix, applied to column vectors.
type Rotation [3][3]float64

var Identity = Rotation{
	{1, 0, 0},
	{0, 1, 0},
	{0, 0, 1},
}

// Pitch returns the rotation about the X axis which tilts the body nose-up by
// the given number of degrees, turning forwards (Y) towards up (Z).
func Pitch(degrees float64) Rotation {
	s, c := math.Sincos(utils.Rad(degrees))

	return Rotation{
		{1, 0, 0},
		{0, c, -s},
		{0, s, c},
	}
}

// Apply returns v rotated.
func (r Rotation) Apply(v Vector3) Vector3 {
	return Vector3{
		(r[0][0] * v.X) + (r[0][1] * v.Y) + (r[0][2] * v.Z),
		(r[1][0] * v.X) + (r[1][1] * v.Y) + (r[1][2] * v.Z),
		(r[2][0] * v.X) + (r[2][1] * v.Y) + (r[2][2] * v.Z),
	}
}

// Inverse returns the rotation which undoes this one. Rotation matrices are
// orthogonal, so that's the transpose.
func (r Rotation) Inverse() Rotation {
	out := Rotation{}

	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = r[j][i]
		}
	}

	return out
}

func (r Rotation) String() string {
	return fmt.Sprintf(
		"&Rot{%+.4f %+.4f %+.4f | %+.4f %+.4f %+.4f | %+.4f %+.4f %+.4f}",
		r[0][0], r[0][1], r[0][2],
		r[1][0], r[1][1], r[1][2],
		r[2][0], r[2][1], r[2][2])
}
