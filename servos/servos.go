package servos

import (
	"math"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithFields(logrus.Fields{"pkg": "servos"})

const (

	// Three joints on each of six legs, plus the spare.
	NumChannels = 19

	// The channel which isn't attached to any leg. It's enabled and driven to
	// neutral along with everything else.
	SpareChannel = 18

	// The pulse width (in microseconds) at which a servo is centered.
	Neutral = 1500

	// The range of pulse widths which are ever sent to an enabled servo. Zero is
	// outside of this range, and means unpowered.
	MinPulseWidth = 1000
	MaxPulseWidth = 2000

	// The default conversion from servo angle to pulse width: 250µs of throw
	// for every 55 degrees.
	DefaultGain = 250.0 / 55.0
)

// Joint is the position of a servo within a leg.
type Joint int

const (
	Coxa Joint = iota
	Femur
	Tibia
)

func (j Joint) String() string {
	switch j {
	case Coxa:
		return "coxa"
	case Femur:
		return "femur"
	case Tibia:
		return "tibia"
	default:
		return "unknown"
	}
}

// Channel returns the output channel of the given joint of the given leg.
func Channel(leg int, j Joint) int {
	return (leg * 3) + int(j)
}

// AngleToPulseWidth converts a servo angle (in degrees) to a pulse width (in
// microseconds), given the gain in microseconds per degree.
func AngleToPulseWidth(deg float64, gain float64) int {
	return Neutral + int(math.Round(deg*gain))
}
