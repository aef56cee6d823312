package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/adammck/pwmhex/components/legs"
	"github.com/adammck/pwmhex/math3d"
	"github.com/adammck/pwmhex/servos"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var log = logrus.WithFields(logrus.Fields{"pkg": "config"})

// ErrInvalidConfig is returned (wrapped) when a config can't describe a working
// robot. It's a mistake in the file, not something which can be recovered from.
var ErrInvalidConfig = errors.New("invalid config")

const (
	DriverNone    = "none"
	DriverPCA9685 = "pca9685"
	DriverMaestro = "maestro"

	SerialJacobsa = "jacobsa"
	SerialTarm    = "tarm"

	// Channels on each PCA9685 chip.
	pcaChannels = 16
)

type Config struct {
	Geometry Geometry `yaml:"geometry"`
	Legs     []Leg    `yaml:"legs"`
	Servos   Servos   `yaml:"servos"`
	Gait     Gait     `yaml:"gait"`
	Input    Input    `yaml:"input"`
	Stance   Stance   `yaml:"stance"`
	Fold     Fold     `yaml:"fold"`
	Loop     Loop     `yaml:"loop"`
	Output   Output   `yaml:"output"`
	Gamepad  Gamepad  `yaml:"gamepad"`
}

// Geometry is the size of each leg, in millimeters.
type Geometry struct {
	Coxa      float64 `yaml:"coxa"`
	Femur     float64 `yaml:"femur"`
	Tibia     float64 `yaml:"tibia"`
	TibiaRest float64 `yaml:"tibia_rest"`
	MinReach  float64 `yaml:"min_reach"`
	MaxReach  float64 `yaml:"max_reach"`
}

type Leg struct {
	Name      string         `yaml:"name"`
	Origin    math3d.Vector3 `yaml:"origin"`
	Direction math3d.Vector3 `yaml:"direction"`
	Side      string         `yaml:"side"`
}

type Servos struct {
	Alpha float64 `yaml:"alpha"`

	// Microseconds per degree.
	Gain float64 `yaml:"gain"`

	// One entry per channel, in microseconds.
	Trim []int `yaml:"trim"`

	// Time between enabling each channel after a reset.
	ActivationInterval time.Duration `yaml:"activation_interval"`
}

type Gait struct {
	Period time.Duration `yaml:"period"`
	Lift   float64       `yaml:"lift"`
}

// Input is the scale of each normalized operator input.
type Input struct {
	Translation float64 `yaml:"translation"`
	Turn        float64 `yaml:"turn"`
	Stance      float64 `yaml:"stance"`
	Leg         float64 `yaml:"leg"`
	Pitch       float64 `yaml:"pitch"`
}

// Stance is the home position of each foot, relative to the end of its coxa.
type Stance struct {
	Reach float64 `yaml:"reach"`
	Drop  float64 `yaml:"drop"`
}

// Fold is the joint angles (in degrees) which legs are held at while the servos
// are being enabled.
type Fold struct {
	Femur float64 `yaml:"femur"`
	Tibia float64 `yaml:"tibia"`
}

type Loop struct {
	Rate          float64       `yaml:"rate"`
	ShutdownGrace time.Duration `yaml:"shutdown_grace"`
}

type Output struct {
	Driver  string  `yaml:"driver"`
	I2C     I2C     `yaml:"i2c"`
	Maestro Maestro `yaml:"maestro"`
}

type I2C struct {
	Device string        `yaml:"device"`
	Period time.Duration `yaml:"period"`
	Boards []Board       `yaml:"boards"`
}

// Board maps a contiguous range of output channels onto the channels of one
// PCA9685, starting at Offset.
type Board struct {
	Address uint8 `yaml:"address"`
	First   int   `yaml:"first"`
	Count   int   `yaml:"count"`
	Offset  int   `yaml:"offset"`
}

type Maestro struct {
	Port    string `yaml:"port"`
	Baud    int    `yaml:"baud"`
	Device  uint8  `yaml:"device"`
	Compact bool   `yaml:"compact"`
	Serial  string `yaml:"serial"`
}

// Gamepad is the evdev device which drives the robot. The range of each stick
// is read from the device.
type Gamepad struct {
	Device string `yaml:"device"`

	// Fraction of each stick's travel, either side of center, which reads as
	// zero.
	Deadzone float64 `yaml:"deadzone"`
}

// Default returns the config of the original robot.
func Default() Config {
	right := math3d.Vector3{X: 1}
	left := math3d.Vector3{X: -1}

	return Config{
		Geometry: Geometry{
			Coxa:      15,
			Femur:     50,
			Tibia:     71.589,
			TibiaRest: 23,
			MinReach:  40,
			MaxReach:  121.589,
		},
		Legs: []Leg{
			{Name: "FR", Origin: math3d.Vector3{X: 50, Y: 62}, Direction: right, Side: "right"},
			{Name: "MR", Origin: math3d.Vector3{X: 50, Y: 0}, Direction: right, Side: "right"},
			{Name: "BR", Origin: math3d.Vector3{X: 50, Y: -62}, Direction: right, Side: "right"},
			{Name: "BL", Origin: math3d.Vector3{X: -50, Y: -62}, Direction: left, Side: "left"},
			{Name: "ML", Origin: math3d.Vector3{X: -50, Y: 0}, Direction: left, Side: "left"},
			{Name: "FL", Origin: math3d.Vector3{X: -50, Y: 62}, Direction: left, Side: "left"},
		},
		Servos: Servos{
			Alpha: 0.3,
			Gain:  servos.DefaultGain,
			Trim: []int{
				60, -20, -40,
				-70, 20, 0,
				0, 20, 0,
				0, 20, 0,
				0, 20, 0,
				90, -40, 0,
				0,
			},
			ActivationInterval: 100 * time.Millisecond,
		},
		Gait: Gait{
			Period: time.Second,
			Lift:   20,
		},
		Input: Input{
			Translation: 30,
			Turn:        25,
			Stance:      20,
			Leg:         30,
			Pitch:       10,
		},
		Stance: Stance{
			Reach: 60,
			Drop:  50,
		},
		Fold: Fold{
			Femur: 45,
			Tibia: 0,
		},
		Loop: Loop{
			Rate:          50,
			ShutdownGrace: 500 * time.Millisecond,
		},
		Output: Output{
			Driver: DriverNone,
			I2C: I2C{
				Device: "/dev/i2c-1",
				Period: 20 * time.Millisecond,
				Boards: []Board{
					{Address: 0x41, First: 0, Count: 16, Offset: 0},
					{Address: 0x40, First: 16, Count: 3, Offset: 3},
				},
			},
			Maestro: Maestro{
				Port:    "/dev/ttyACM0",
				Baud:    115200,
				Device:  12,
				Compact: true,
				Serial:  SerialJacobsa,
			},
		},
		Gamepad: Gamepad{
			Deadzone: 0.08,
		},
	}
}

// Load reads the YAML config at the given path over the defaults, so the file
// only needs to contain what differs, and validates the result.
func Load(path string) (Config, error) {
	c := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("%w (while reading config)", err)
	}

	err = yaml.Unmarshal(data, &c)
	if err != nil {
		return c, fmt.Errorf("%w: %s (while parsing %s)", ErrInvalidConfig, err, path)
	}

	err = c.Validate()
	if err != nil {
		return c, err
	}

	log.Infof("loaded %s", path)
	return c, nil
}

func parseSide(s string) (legs.Side, error) {
	switch s {
	case "right":
		return legs.Right, nil
	case "left":
		return legs.Left, nil
	default:
		return 0, fmt.Errorf("%w: unknown side %q", ErrInvalidConfig, s)
	}
}

// Validate returns an error wrapping ErrInvalidConfig if the config can't be
// used to drive the robot.
func (c Config) Validate() error {
	if len(c.Legs) != legs.NumLegs {
		return fmt.Errorf("%w: expected %d legs, got %d", ErrInvalidConfig, legs.NumLegs, len(c.Legs))
	}

	for i, l := range c.Legs {
		_, err := parseSide(l.Side)
		if err != nil {
			return fmt.Errorf("%w (while validating leg %d)", err, i)
		}

		if l.Direction.Horizontal().Magnitude() == 0 {
			return fmt.Errorf("%w: leg %d has no horizontal direction", ErrInvalidConfig, i)
		}
	}

	err := c.LegGeometry().Validate()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if len(c.Servos.Trim) != servos.NumChannels {
		return fmt.Errorf("%w: expected %d trim values, got %d", ErrInvalidConfig, servos.NumChannels, len(c.Servos.Trim))
	}

	if !(c.Servos.Alpha > 0 && c.Servos.Alpha <= 1) {
		return fmt.Errorf("%w: servos.alpha must be in (0, 1], got %v", ErrInvalidConfig, c.Servos.Alpha)
	}

	if !(c.Servos.Gain > 0) {
		return fmt.Errorf("%w: servos.gain must be positive", ErrInvalidConfig)
	}

	if c.Servos.ActivationInterval <= 0 {
		return fmt.Errorf("%w: servos.activation_interval must be positive", ErrInvalidConfig)
	}

	if c.Gait.Period <= 0 {
		return fmt.Errorf("%w: gait.period must be positive", ErrInvalidConfig)
	}

	if !(c.Loop.Rate > 0) || math.IsInf(c.Loop.Rate, 0) {
		return fmt.Errorf("%w: loop.rate must be positive", ErrInvalidConfig)
	}

	if !(c.Gamepad.Deadzone >= 0 && c.Gamepad.Deadzone < 1) {
		return fmt.Errorf("%w: gamepad.deadzone must be in [0, 1), got %v", ErrInvalidConfig, c.Gamepad.Deadzone)
	}

	return c.Output.validate()
}

func (o Output) validate() error {
	switch o.Driver {
	case "", DriverNone:
		return nil

	case DriverPCA9685:
		if o.I2C.Period <= 0 {
			return fmt.Errorf("%w: output.i2c.period must be positive", ErrInvalidConfig)
		}

		covered := [servos.NumChannels]bool{}
		for i, b := range o.I2C.Boards {
			if b.Count <= 0 || b.First < 0 || b.First+b.Count > servos.NumChannels {
				return fmt.Errorf("%w: output.i2c.boards[%d] maps channels outside [0, %d)", ErrInvalidConfig, i, servos.NumChannels)
			}

			if b.Offset < 0 || b.Offset+b.Count > pcaChannels {
				return fmt.Errorf("%w: output.i2c.boards[%d] doesn't fit on the chip", ErrInvalidConfig, i)
			}

			for ch := b.First; ch < b.First+b.Count; ch++ {
				if covered[ch] {
					return fmt.Errorf("%w: channel %d is mapped to more than one board", ErrInvalidConfig, ch)
				}
				covered[ch] = true
			}
		}

	case DriverMaestro:
		switch o.Maestro.Serial {
		case SerialJacobsa, SerialTarm:
		default:
			return fmt.Errorf("%w: unknown output.maestro.serial driver %q", ErrInvalidConfig, o.Maestro.Serial)
		}

		if o.Maestro.Baud <= 0 {
			return fmt.Errorf("%w: output.maestro.baud must be positive", ErrInvalidConfig)
		}

		if o.Maestro.Device > 127 {
			return fmt.Errorf("%w: output.maestro.device must be below 128", ErrInvalidConfig)
		}

	default:
		return fmt.Errorf("%w: unknown output.driver %q", ErrInvalidConfig, o.Driver)
	}

	return nil
}

// LegConfigs returns the mounting of every leg. The config must be valid.
func (c Config) LegConfigs() [legs.NumLegs]legs.Config {
	out := [legs.NumLegs]legs.Config{}

	for i, l := range c.Legs {
		side, _ := parseSide(l.Side)
		out[i] = legs.Config{
			Name:      l.Name,
			Origin:    l.Origin,
			Direction: l.Direction,
			Side:      side,
		}
	}

	return out
}

func (c Config) LegGeometry() legs.Geometry {
	return legs.Geometry{
		CoxaLength:  c.Geometry.Coxa,
		FemurLength: c.Geometry.Femur,
		TibiaLength: c.Geometry.Tibia,
		TibiaRest:   c.Geometry.TibiaRest,
		MinReach:    c.Geometry.MinReach,
		MaxReach:    c.Geometry.MaxReach,
	}
}

func (c Config) Tuning() legs.Tuning {
	return legs.Tuning{
		StanceReach:      c.Stance.Reach,
		StanceDrop:       c.Stance.Drop,
		TranslationScale: c.Input.Translation,
		TurnStride:       c.Input.Turn,
		StanceScale:      c.Input.Stance,
		LegScale:         c.Input.Leg,
		MaxPitch:         c.Input.Pitch,
		LiftHeight:       c.Gait.Lift,
	}
}

// TrimArray returns the trim of every channel. The config must be valid.
func (c Config) TrimArray() [servos.NumChannels]int {
	out := [servos.NumChannels]int{}
	copy(out[:], c.Servos.Trim)
	return out
}

// TickInterval returns the time between ticks of the control loop.
func (c Config) TickInterval() time.Duration {
	return time.Duration(float64(time.Second) / c.Loop.Rate)
}
