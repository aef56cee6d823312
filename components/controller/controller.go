package controller

import (
	"fmt"
	"time"

	hexapod "github.com/adammck/pwmhex"
	"github.com/adammck/pwmhex/components/legs"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithFields(logrus.Fields{"pkg": "controller"})

// Controller maps a gamepad onto the hexapod inputs:
//
//   left stick:   walk (or move the selected foot, while L1 is held)
//   right stick:  turn (X) and pitch (Y)
//   d-pad:        stance width (X) and body height (Y)
//   R1:           select the next foot
//   START:        power up the servos
//   SELECT:       power down the servos
type Controller struct {
	gp       *Gamepad
	selected int

	start Latch
	sel   Latch
	next  Latch
}

func New(gp *Gamepad) *Controller {
	return &Controller{
		gp: gp,
	}
}

func (c *Controller) Boot() error {
	log.Info("reading gamepad")
	go c.gp.Run()
	return nil
}

// Selected returns the index of the foot which the left stick moves while L1
// is held.
func (c *Controller) Selected() int {
	return c.selected
}

func (c *Controller) Tick(now time.Time, hex *hexapod.Controller) error {
	err := c.gp.Err()
	if err != nil {
		return err
	}

	s := c.gp.Snapshot()

	if c.next.Pressed(s.R1) {
		hex.SetLeg(c.selected, 0, 0)
		c.selected = (c.selected + 1) % legs.NumLegs
		log.Infof("selected leg %s", hex.Legs().Configs[c.selected].Name)
	}

	if s.L1 {
		hex.SetTranslation(0, 0)
		hex.SetLeg(c.selected, s.LeftStick.X, s.LeftStick.Y)
	} else {
		hex.SetTranslation(s.LeftStick.X, s.LeftStick.Y)
		hex.SetLeg(c.selected, 0, 0)
	}

	hex.SetRotation(s.RightStick.X, s.RightStick.Y)
	hex.SetStance(float64(s.HatX), float64(s.HatY))

	if c.start.Pressed(s.Start) {
		log.Info("pressed START; enabling servos")
		hex.ResetServos()
	}

	if c.sel.Pressed(s.Select) {
		log.Info("pressed SELECT; disabling servos")
		hex.Stop()
	}

	return nil
}

// Close closes the gamepad. This also stops the reader goroutine.
func (c *Controller) Close() error {
	err := c.gp.Close()
	if err != nil {
		return fmt.Errorf("%w (while closing gamepad)", err)
	}

	return nil
}
