package servos

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func allEnabled() [NumChannels]bool {
	e := [NumChannels]bool{}
	for i := range e {
		e[i] = true
	}
	return e
}

func TestSmoothConverges(t *testing.T) {
	p := NewPipeline(0.3, [NumChannels]int{})
	p.Force(0, 1000)
	p.Set(0, 2000)

	// 1000 * 0.7^n drops below one after 20 ticks.
	n := 20

	for i := 0; i < n-1; i++ {
		p.Smooth()
	}
	assert.Greater(t, math.Abs(2000-p.smoothed[0]), 1.0, "settled early")

	p.Smooth()
	assert.Less(t, math.Abs(2000-p.smoothed[0]), 1.0)
	assert.InDelta(t, 2000, p.Smoothed(0), 1)
}

func TestSmoothFixedPoint(t *testing.T) {
	p := NewPipeline(0.3, [NumChannels]int{})
	p.Force(3, 1620)

	for i := 0; i < 10; i++ {
		p.Smooth()
		assert.InDelta(t, 1620.0, p.smoothed[3], 1e-9)
		assert.Equal(t, 1620, p.Smoothed(3))
	}
}

func TestSmoothStep(t *testing.T) {
	p := NewPipeline(0.3, [NumChannels]int{})
	p.Force(1, 1500)
	p.Set(1, 1600)
	p.Smooth()

	assert.Equal(t, 1530, p.Smoothed(1))
	assert.Equal(t, 1600, p.Raw(1))
}

func TestOutputsDisabledAreZero(t *testing.T) {
	trim := [NumChannels]int{}
	for i := range trim {
		trim[i] = 40
	}

	p := NewPipeline(0.3, trim)
	for ch := 0; ch < NumChannels; ch++ {
		p.Force(ch, 1500)
	}

	enabled := [NumChannels]bool{}
	enabled[2] = true
	out := p.Outputs(enabled)

	for ch, v := range out {
		if ch == 2 {
			assert.Equal(t, uint16(1540), v)
		} else {
			assert.Equal(t, uint16(0), v, "channel %d", ch)
		}
	}
}

func TestOutputsZeroIsNotTrimmed(t *testing.T) {
	trim := [NumChannels]int{}
	trim[5] = 60

	p := NewPipeline(0.3, trim)
	out := p.Outputs(allEnabled())

	assert.Equal(t, uint16(0), out[5])
}

func TestOutputsTrimAndClamp(t *testing.T) {
	trim := [NumChannels]int{60, -20, -40, -70, 20, 0}

	p := NewPipeline(0.3, trim)
	p.Force(0, 1500)
	p.Force(1, 1010)
	p.Force(2, 2030)
	p.Force(3, 1200)
	p.Force(4, 1990)
	p.Force(5, 700)

	out := p.Outputs(allEnabled())
	assert.Equal(t, uint16(1560), out[0])
	assert.Equal(t, uint16(1000), out[1])
	assert.Equal(t, uint16(1990), out[2])
	assert.Equal(t, uint16(1130), out[3])
	assert.Equal(t, uint16(2000), out[4])
	assert.Equal(t, uint16(1000), out[5])
}
