package hexapod

import (
	"fmt"
	"math"
	"time"

	"github.com/adammck/pwmhex/components/legs"
	"github.com/adammck/pwmhex/components/legs/gait"
	"github.com/adammck/pwmhex/config"
	"github.com/adammck/pwmhex/math3d"
	"github.com/adammck/pwmhex/servos"
	"github.com/adammck/pwmhex/utils"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithFields(logrus.Fields{"pkg": "hexapod"})

// Diagnostic records a leg which couldn't be solved during a tick. The leg's
// servos were left where they were.
type Diagnostic struct {
	Leg    int
	Target math3d.Vector3
	Err    error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("&Diagnostic{leg=%d target=%s err=%q}", d.Leg, d.Target, d.Err)
}

// LegDebug is a snapshot of the most recent update of one leg.
type LegDebug struct {
	Target math3d.Vector3
	Angles legs.Angles

	// Where the last good angles actually put the foot. This differs from the
	// target when the target was out of reach.
	Foot math3d.Vector3

	// Set if the target couldn't be solved, in which case the angles and foot
	// are from an earlier tick.
	Err error
}

// Controller turns the operator inputs into a pulse width for every servo
// channel. It does no I/O and starts no goroutines; everything happens during
// calls to Tick and the setters, which must all be made from one goroutine.
type Controller struct {
	cfg config.Config

	// Derived from the config by Reset.
	legs *legs.Legs
	fold [servos.NumChannels]int

	in         legs.Inputs
	clock      time.Duration
	activation time.Duration
	seq        *servos.Sequencer
	pipe       *servos.Pipeline

	outputs     [servos.NumChannels]uint16
	debug       [legs.NumLegs]LegDebug
	diagnostics []Diagnostic
}

// New returns a controller for the robot described by the given config. It's
// idle until ResetServos is called.
func New(cfg config.Config) (*Controller, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("%w (while creating controller)", err)
	}

	c := &Controller{cfg: cfg}
	c.Reset()
	return c, nil
}

// Reset returns the controller to the state it was created in: idle, with
// every input centered and the clocks at zero.
func (c *Controller) Reset() {
	cfg := c.cfg

	c.legs = legs.New(cfg.LegConfigs(), cfg.LegGeometry(), gait.Tripod(cfg.Gait.Period), cfg.Tuning())
	c.fold = c.foldPose()

	c.in = legs.Inputs{}
	c.clock = 0
	c.activation = 0
	c.seq = servos.NewSequencer()
	c.pipe = servos.NewPipeline(cfg.Servos.Alpha, cfg.TrimArray())
	c.applyFold()

	c.outputs = [servos.NumChannels]uint16{}
	c.debug = [legs.NumLegs]LegDebug{}
	c.diagnostics = nil

	log.Info("reset")
}

// foldPose returns the pulse width of every channel while the servos are being
// enabled: the fixed fold angles, mirrored for the left side.
func (c *Controller) foldPose() [servos.NumChannels]int {
	out := [servos.NumChannels]int{}
	gain := c.cfg.Servos.Gain

	for i, leg := range c.legs.Configs {
		sign := leg.Side.Sign()
		out[servos.Channel(i, servos.Coxa)] = servos.AngleToPulseWidth(0, gain)
		out[servos.Channel(i, servos.Femur)] = servos.AngleToPulseWidth(c.cfg.Fold.Femur*sign, gain)
		out[servos.Channel(i, servos.Tibia)] = servos.AngleToPulseWidth(c.cfg.Fold.Tibia*sign, gain)
	}

	out[servos.SpareChannel] = servos.Neutral
	return out
}

func (c *Controller) applyFold() {
	for ch, pw := range c.fold {
		c.pipe.Force(ch, pw)
	}
}

// normalize clamps an operator input to [-1, 1]. NaN is treated as centered.
func normalize(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}

	return utils.Clamp(v, -1, 1)
}

func input(x, y float64) math3d.Vector3 {
	return math3d.Vector3{X: normalize(x), Y: normalize(y)}
}

// SetTranslation sets the walking direction and speed. Y is forwards.
func (c *Controller) SetTranslation(x, y float64) {
	c.in.Translation = input(x, y)
}

// SetRotation sets the turning speed (x) and body pitch (y).
func (c *Controller) SetRotation(x, y float64) {
	c.in.Rotation = input(x, y)
}

// SetStance sets the width of the stance (x) and height of the body (y).
func (c *Controller) SetStance(x, y float64) {
	c.in.Stance = input(x, y)
}

// SetLeg moves a single foot on the horizontal plane. Invalid leg indices are
// ignored.
func (c *Controller) SetLeg(i int, x, y float64) {
	if i < 0 || i >= legs.NumLegs {
		return
	}

	c.in.Legs[i] = input(x, y)
}

// Inputs returns the current (normalized) operator inputs.
func (c *Controller) Inputs() legs.Inputs {
	return c.in
}

// ResetServos disables every servo, then enables them one at a time over the
// following ticks. It does nothing if that's already happening.
func (c *Controller) ResetServos() {
	if c.seq.Reset() {
		c.activation = 0
	}
}

// Stop disables every servo.
func (c *Controller) Stop() {
	c.seq.Stop()
	c.activation = 0
}

// Tick advances the controller by dt, and updates the outputs.
func (c *Controller) Tick(dt time.Duration) {
	if dt < 0 {
		log.Warnf("negative tick (%v); treating as zero", dt)
		dt = 0
	}

	c.clock += dt
	c.diagnostics = nil

	if c.seq.State() == servos.Enabling {
		c.activation += dt
		interval := c.cfg.Servos.ActivationInterval

		for c.activation >= interval && c.seq.State() == servos.Enabling {
			c.activation -= interval
			c.seq.Step()
		}

		if c.seq.State() != servos.Enabling {
			c.activation = 0
		}
	}

	if c.seq.State() == servos.Default {
		for i := 0; i < legs.NumLegs; i++ {
			c.tickLeg(i)
		}
	} else {
		c.applyFold()
	}

	c.pipe.Smooth()
	c.outputs = c.pipe.Outputs(c.seq.Enabled())
}

func (c *Controller) tickLeg(i int) {
	leg := c.legs.Configs[i]
	target := c.legs.Target(i, c.in, c.clock)

	a, err := legs.Solve(leg, c.legs.Geometry, target)
	if err != nil {
		c.debug[i].Target = target
		c.debug[i].Err = err
		c.diagnostics = append(c.diagnostics, Diagnostic{Leg: i, Target: target, Err: err})
		log.WithField("leg", leg.Name).Warn(err)
		return
	}

	gain := c.cfg.Servos.Gain
	sign := leg.Side.Sign()

	c.pipe.Set(servos.Channel(i, servos.Coxa), servos.AngleToPulseWidth(a.Coxa, gain))
	c.pipe.Set(servos.Channel(i, servos.Femur), servos.AngleToPulseWidth(a.Femur*sign, gain))
	c.pipe.Set(servos.Channel(i, servos.Tibia), servos.AngleToPulseWidth(a.Tibia*sign, gain))

	c.debug[i] = LegDebug{
		Target: target,
		Angles: a,
		Foot:   legs.Forward(leg, c.legs.Geometry, a),
	}
}

// Outputs returns the pulse width (in microseconds) to send to every channel.
// Zero means unpowered.
func (c *Controller) Outputs() [servos.NumChannels]uint16 {
	return c.outputs
}

func (c *Controller) Lifecycle() servos.Lifecycle {
	return c.seq.State()
}

// Clock returns the gait clock.
func (c *Controller) Clock() time.Duration {
	return c.clock
}

// Debug returns the most recent update of the given leg.
func (c *Controller) Debug(i int) LegDebug {
	if i < 0 || i >= legs.NumLegs {
		return LegDebug{}
	}

	return c.debug[i]
}

// Diagnostics returns the legs which couldn't be solved during the last tick.
func (c *Controller) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(c.diagnostics))
	copy(out, c.diagnostics)
	return out
}

// Legs returns the leg geometry and target composition in use.
func (c *Controller) Legs() *legs.Legs {
	return c.legs
}
