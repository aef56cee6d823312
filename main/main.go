package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	hexapod "github.com/adammck/pwmhex"
	"github.com/adammck/pwmhex/components/controller"
	"github.com/adammck/pwmhex/components/output"
	"github.com/adammck/pwmhex/config"
	log "github.com/sirupsen/logrus"
)

var (
	configPath = flag.String("config", "", "path to the YAML config (defaults are used if empty)")
	debug      = flag.Bool("debug", false, "log every tick")
	enable     = flag.Bool("enable", false, "power up the servos at start, without waiting for START")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

// openWriter returns the writer named in the config, or nil if outputs aren't
// being sent anywhere.
func openWriter(cfg config.Output) (output.Writer, error) {
	switch cfg.Driver {
	case config.DriverPCA9685:
		bus, err := output.OpenBus(cfg.I2C.Device)
		if err != nil {
			return nil, err
		}
		return &closingPCA{output.NewPCA9685(bus, cfg.I2C.Period, cfg.I2C.Boards), bus}, nil

	case config.DriverMaestro:
		port, err := output.OpenSerial(cfg.Maestro)
		if err != nil {
			return nil, err
		}
		return output.NewMaestro(port, cfg.Maestro.Device, cfg.Maestro.Compact), nil

	case config.DriverNone, "":
		return nil, nil

	default:
		return nil, fmt.Errorf("%w: unknown output driver %q", config.ErrInvalidConfig, cfg.Driver)
	}
}

// closingPCA closes the I2C bus along with the chips.
type closingPCA struct {
	*output.PCA9685
	bus *output.Bus
}

func (c *closingPCA) Close() error {
	return c.bus.Close()
}

func run() int {
	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Errorf("error loading config: %s", err)
			return 1
		}
	}

	c, err := hexapod.New(cfg)
	if err != nil {
		log.Errorf("error creating controller: %s", err)
		return 1
	}

	h := hexapod.NewHexapod(c)
	defer func() {
		err := h.Close()
		if err != nil {
			log.Errorf("error while closing: %s", err)
		}
	}()

	if cfg.Gamepad.Device != "" {
		log.Infof("opening gamepad %s", cfg.Gamepad.Device)
		gp, err := controller.Open(cfg.Gamepad.Device, cfg.Gamepad.Deadzone)
		if err != nil {
			log.Errorf("error opening gamepad: %s", err)
			return 1
		}
		h.AddInput(controller.New(gp))
	}

	w, err := openWriter(cfg.Output)
	if err != nil {
		log.Errorf("error opening output: %s", err)
		return 1
	}
	if w != nil {
		h.AddOutput(output.New(w))
	}

	log.Info("booting components")
	err = h.Boot()
	if err != nil {
		log.Errorf("error while booting: %s", err)
		return 1
	}

	if *enable {
		c.ResetServos()
	}

	t := time.NewTicker(cfg.TickInterval())
	defer t.Stop()

	// Catch both SIGINT (ctrl+c) and SIGTERM (kill/systemd), to allow the hexapod
	// to power down its servos before exiting.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	// Nil (so never ready) until shutdown starts.
	var deadline <-chan time.Time

	log.Infof("starting loop at %.0fHz", cfg.Loop.Rate)
	for {
		select {
		case now := <-t.C:
			err := h.Tick(now)
			if err != nil {
				log.Errorf("error while ticking: %s", err)
				c.Stop()
				return 1
			}

			for _, d := range c.Diagnostics() {
				log.Debug(d)
			}

		case s := <-sig:
			if deadline != nil {
				log.Warnf("caught %s again; exiting now", s)
				return 2
			}

			log.Infof("caught %s; powering down for %v", s, cfg.Loop.ShutdownGrace)
			c.Stop()
			deadline = time.After(cfg.Loop.ShutdownGrace)

		case <-deadline:
			log.Info("done waiting, shutting down")
			return 0
		}
	}
}
