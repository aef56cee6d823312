package controller

import (
	"fmt"
	"os"
	"sync"

	evdev "github.com/holoplot/go-evdev"
)

// The analog sticks, which are normalized using the range the device reports.
var sticks = []evdev.EvCode{evdev.ABS_X, evdev.ABS_Y, evdev.ABS_RX, evdev.ABS_RY}

// Device is an evdev input device, such as *evdev.InputDevice.
type Device interface {
	ReadOne() (*evdev.InputEvent, error)
	Close() error
}

// Stick is the position of an analog stick, normalized to [-1, 1]. Y is
// positive when the stick is pushed away from the operator.
type Stick struct {
	X float64
	Y float64
}

type State struct {
	LeftStick  Stick
	RightStick Stick

	// The d-pad. Y is positive when up is pressed.
	HatX int
	HatY int

	Start  bool
	Select bool
	L1     bool
	R1     bool
}

// Gamepad reads events from an evdev device, and keeps the latest state of the
// buttons and sticks.
type Gamepad struct {
	dev      Device
	axes     map[evdev.EvCode]evdev.AbsInfo
	deadzone float64

	mu    sync.Mutex
	state State
	err   error
}

// Open opens the evdev device at the given path, and reads the range of each
// stick from it.
func Open(path string, deadzone float64) (*Gamepad, error) {
	dev, err := evdev.OpenWithFlags(path, os.O_RDONLY)
	if err != nil {
		return nil, fmt.Errorf("%w (while opening gamepad %s)", err, path)
	}

	axes, err := dev.AbsInfos()
	if err != nil {
		dev.Close()
		return nil, fmt.Errorf("%w (while reading axes of %s)", err, path)
	}

	name, _ := dev.Name()
	log.Infof("opened %s (%s)", path, name)

	return NewGamepad(dev, axes, deadzone), nil
}

// NewGamepad returns a gamepad reading from the given device. Axes is the range
// of each absolute axis, as reported by the device. Sticks without one are
// ignored. Deadzone is the fraction of each stick's half-range around its
// center which reads as zero.
func NewGamepad(dev Device, axes map[evdev.EvCode]evdev.AbsInfo, deadzone float64) *Gamepad {
	for _, code := range sticks {
		info, ok := axes[code]
		if !ok || info.Maximum <= info.Minimum {
			log.Warnf("no range for %s; ignoring it", evdev.CodeName(evdev.EV_ABS, code))
		}
	}

	return &Gamepad{
		dev:      dev,
		axes:     axes,
		deadzone: deadzone,
	}
}

// Run reads events until the device returns an error, which is then available
// from Err. It blocks, so should be called in a goroutine.
func (g *Gamepad) Run() {
	for {
		ev, err := g.dev.ReadOne()
		if err != nil {
			g.mu.Lock()
			g.err = fmt.Errorf("%w (while reading gamepad)", err)
			g.mu.Unlock()
			log.Warn(g.Err())
			return
		}

		g.mu.Lock()
		g.apply(*ev)
		g.mu.Unlock()
	}
}

// Snapshot returns a copy of the latest state.
func (g *Gamepad) Snapshot() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Err returns the error which stopped Run, if any.
func (g *Gamepad) Err() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.err
}

// Close closes the device, which also stops Run.
func (g *Gamepad) Close() error {
	return g.dev.Close()
}

func (g *Gamepad) apply(ev evdev.InputEvent) {
	switch ev.Type {
	case evdev.EV_ABS:
		switch ev.Code {
		case evdev.ABS_X:
			g.state.LeftStick.X = g.normalize(ev.Code, ev.Value)
		case evdev.ABS_Y:
			g.state.LeftStick.Y = -g.normalize(ev.Code, ev.Value)
		case evdev.ABS_RX:
			g.state.RightStick.X = g.normalize(ev.Code, ev.Value)
		case evdev.ABS_RY:
			g.state.RightStick.Y = -g.normalize(ev.Code, ev.Value)
		case evdev.ABS_HAT0X:
			g.state.HatX = sign(ev.Value)
		case evdev.ABS_HAT0Y:
			g.state.HatY = -sign(ev.Value)
		}

	case evdev.EV_KEY:
		pressed := ev.Value != 0
		switch ev.Code {
		case evdev.BTN_START:
			g.state.Start = pressed
		case evdev.BTN_SELECT:
			g.state.Select = pressed
		case evdev.BTN_TL:
			g.state.L1 = pressed
		case evdev.BTN_TR:
			g.state.R1 = pressed
		}
	}
}

// normalize maps a raw axis value onto [-1, 1], using the range which the
// device reported for that axis.
func (g *Gamepad) normalize(code evdev.EvCode, v int32) float64 {
	info, ok := g.axes[code]
	if !ok || info.Maximum <= info.Minimum {
		return 0
	}

	half := (float64(info.Maximum) - float64(info.Minimum)) / 2
	mid := float64(info.Minimum) + half
	n := (float64(v) - mid) / half

	if n > -g.deadzone && n < g.deadzone {
		return 0
	}
	if n > 1 {
		return 1
	}
	if n < -1 {
		return -1
	}

	return n
}

func sign(v int32) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
