package servos

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChannel(t *testing.T) {
	assert.Equal(t, 0, Channel(0, Coxa))
	assert.Equal(t, 4, Channel(1, Femur))
	assert.Equal(t, 17, Channel(5, Tibia))

	seen := map[int]bool{}
	for leg := 0; leg < 6; leg++ {
		for _, j := range []Joint{Coxa, Femur, Tibia} {
			ch := Channel(leg, j)
			assert.False(t, seen[ch], "channel %d used twice", ch)
			assert.NotEqual(t, SpareChannel, ch)
			seen[ch] = true
		}
	}
}

func TestAngleToPulseWidth(t *testing.T) {
	type eg struct {
		deg float64
		exp int
	}

	examples := []eg{
		{0, 1500},
		{55, 1750},
		{-55, 1250},
		{110, 2000},
		{23, 1605}, // 1604.545...
		{-23, 1395},
	}

	for i, x := range examples {
		assert.Equal(t, x.exp, AngleToPulseWidth(x.deg, DefaultGain), "example %d", i+1)
	}
}
