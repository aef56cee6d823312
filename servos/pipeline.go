package servos

import (
	"math"

	"github.com/adammck/pwmhex/utils"
)

// Pipeline holds the raw and smoothed pulse width of every channel, and turns
// them into the values which are actually sent to the servos. Raw values pass
// through an exponential filter, so no servo jumps more than a fraction of the
// way to its target on any tick.
type Pipeline struct {

	// Fraction (in (0, 1]) of the remaining distance that each channel moves
	// towards its raw value on every call to Smooth.
	Alpha float64

	// Fixed per-channel offset (in microseconds) which corrects for servo horns
	// not being mounted exactly centered.
	Trim [NumChannels]int

	raw      [NumChannels]int
	smoothed [NumChannels]float64
}

func NewPipeline(alpha float64, trim [NumChannels]int) *Pipeline {
	return &Pipeline{
		Alpha: alpha,
		Trim:  trim,
	}
}

// Set sets the raw pulse width of a channel. The smoothed value catches up over
// the following ticks.
func (p *Pipeline) Set(ch int, pw int) {
	p.raw[ch] = pw
}

// Force sets both the raw and smoothed pulse width of a channel, skipping the
// filter.
func (p *Pipeline) Force(ch int, pw int) {
	p.raw[ch] = pw
	p.smoothed[ch] = float64(pw)
}

// Raw returns the raw pulse width of a channel.
func (p *Pipeline) Raw(ch int) int {
	return p.raw[ch]
}

// Smoothed returns the smoothed pulse width of a channel, rounded to the
// nearest microsecond. Trim isn't included.
func (p *Pipeline) Smoothed(ch int) int {
	return int(math.Round(p.smoothed[ch]))
}

// Smooth moves every smoothed value towards its raw value. It should be called
// exactly once per tick.
func (p *Pipeline) Smooth() {
	for ch := 0; ch < NumChannels; ch++ {
		p.smoothed[ch] = ((1 - p.Alpha) * p.smoothed[ch]) + (p.Alpha * float64(p.raw[ch]))
	}
}

// Outputs returns the pulse width to send to each channel. Disabled channels,
// and channels whose smoothed value is zero, are zero. Trim is only applied to
// the others, so it can never switch a servo on.
func (p *Pipeline) Outputs(enabled [NumChannels]bool) [NumChannels]uint16 {
	out := [NumChannels]uint16{}

	for ch := 0; ch < NumChannels; ch++ {
		if !enabled[ch] {
			continue
		}

		s := p.Smoothed(ch)
		if s == 0 {
			continue
		}

		out[ch] = uint16(utils.Clamp(s+p.Trim[ch], MinPulseWidth, MaxPulseWidth))
	}

	return out
}
