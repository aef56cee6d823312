package output

import (
	"fmt"
	"time"

	"github.com/adammck/pwmhex/config"
	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/pca9685"
)

const (

	// Resolution of each PWM period.
	pcaSteps = 4096

	// Set in LEDn_OFF_H to hold the output low, ignoring the other registers.
	pcaFullOff = 0x10
)

// PCA9685 writes pulse widths to one or more PCA9685 PWM chips on an I2C bus.
// Every write goes straight to the chip, so Flush does nothing.
type PCA9685 struct {
	bus    drivers.I2C
	period time.Duration
	boards []config.Board
}

func NewPCA9685(bus drivers.I2C, period time.Duration, boards []config.Board) *PCA9685 {
	return &PCA9685{
		bus:    bus,
		period: period,
		boards: boards,
	}
}

// Boot checks that each chip is present, and sets its period.
func (p *PCA9685) Boot() error {
	for _, b := range p.boards {
		dev := pca9685.New(p.bus, b.Address)

		err := dev.IsConnected()
		if err != nil {
			return fmt.Errorf("%w (while connecting to pca9685 at %#x)", err, b.Address)
		}

		err = dev.Configure(pca9685.PWMConfig{Period: uint64(p.period.Nanoseconds())})
		if err != nil {
			return fmt.Errorf("%w (while configuring pca9685 at %#x)", err, b.Address)
		}

		log.Infof("configured pca9685 at %#x for channels %d-%d", b.Address, b.First, b.First+b.Count-1)
	}

	return nil
}

// lookup returns the board which drives the given channel, and the channel
// number on that board.
func (p *PCA9685) lookup(ch int) (config.Board, uint8, bool) {
	for _, b := range p.boards {
		if ch >= b.First && ch < b.First+b.Count {
			return b, uint8(b.Offset + (ch - b.First)), true
		}
	}

	return config.Board{}, 0, false
}

// counts returns the number of PWM steps for which the output should be high.
func (p *PCA9685) counts(us uint16) uint16 {
	periodUs := p.period.Microseconds()
	if periodUs <= 0 {
		return 0
	}

	n := (int64(us) * pcaSteps) / periodUs
	if n > pcaSteps-1 {
		n = pcaSteps - 1
	}

	return uint16(n)
}

// SetPulseWidth sets the output of a channel. Zero turns the output fully off,
// rather than sending a zero-length pulse.
func (p *PCA9685) SetPulseWidth(ch int, us uint16) error {
	b, pch, ok := p.lookup(ch)
	if !ok {
		return fmt.Errorf("no pca9685 board for channel %d", ch)
	}

	// Written directly rather than with Dev.SetPhased, which can't set the
	// full-off bit and drops bus errors.
	onL, _, _, _ := pca9685.LED(pch)

	// The output goes high at step zero of each period, and low after n steps.
	var w []byte
	if us == 0 {
		w = []byte{onL, 0, 0, 0, pcaFullOff}
	} else {
		n := p.counts(us)
		w = []byte{onL, 0, 0, byte(n), byte(n >> 8)}
	}

	return p.bus.Tx(uint16(b.Address), w, nil)
}

func (p *PCA9685) Flush() error {
	return nil
}
