package hexapod

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// Hexapod runs a controller along with the components which feed it inputs and
// send its outputs to the servos.
type Hexapod struct {
	Controller *Controller
	Inputs     []Component
	Outputs    []Component

	// The time of the previous tick. Zero before the first.
	last time.Time
}

type Component interface {
	Boot() error
	Tick(now time.Time, c *Controller) error
}

// NewHexapod creates a new Hexapod around the given controller.
func NewHexapod(c *Controller) *Hexapod {
	return &Hexapod{
		Controller: c,
		Inputs:     []Component{},
		Outputs:    []Component{},
	}
}

// AddInput registers a component to be ticked before the controller every
// frame.
func (h *Hexapod) AddInput(c Component) {
	h.Inputs = append(h.Inputs, c)
}

// AddOutput registers a component to be ticked after the controller every
// frame.
func (h *Hexapod) AddOutput(c Component) {
	h.Outputs = append(h.Outputs, c)
}

// Boot calls Boot on each component.
func (h *Hexapod) Boot() error {
	for _, c := range h.components() {
		err := c.Boot()
		if err != nil {
			return fmt.Errorf("%w (while booting %T)", err, c)
		}
	}

	return nil
}

// Tick ticks the inputs, then the controller (by the time since the previous
// tick), then the outputs. The first error stops the tick.
func (h *Hexapod) Tick(now time.Time) error {
	for _, c := range h.Inputs {
		err := c.Tick(now, h.Controller)
		if err != nil {
			return fmt.Errorf("%w (while ticking %T)", err, c)
		}
	}

	var dt time.Duration
	if !h.last.IsZero() {
		dt = now.Sub(h.last)
	}

	h.last = now
	h.Controller.Tick(dt)

	for _, c := range h.Outputs {
		err := c.Tick(now, h.Controller)
		if err != nil {
			return fmt.Errorf("%w (while ticking %T)", err, c)
		}
	}

	return nil
}

// Close closes every component which can be closed, outputs last.
func (h *Hexapod) Close() error {
	var errs []error

	for _, c := range h.components() {
		if cl, ok := c.(io.Closer); ok {
			err := cl.Close()
			if err != nil {
				errs = append(errs, fmt.Errorf("%w (while closing %T)", err, c))
			}
		}
	}

	return errors.Join(errs...)
}

func (h *Hexapod) components() []Component {
	out := make([]Component, 0, len(h.Inputs)+len(h.Outputs))
	out = append(out, h.Inputs...)
	return append(out, h.Outputs...)
}
