package output

import (
	"fmt"
	"io"
	"time"

	"github.com/adammck/pwmhex/config"
	jacobsa "github.com/jacobsa/go-serial/serial"
	tarm "github.com/tarm/serial"
)

// OpenSerial opens the serial port which a Maestro is attached to, with the
// driver named in the config.
func OpenSerial(cfg config.Maestro) (io.ReadWriteCloser, error) {
	switch cfg.Serial {
	case config.SerialTarm:
		p, err := tarm.OpenPort(&tarm.Config{
			Name:        cfg.Port,
			Baud:        cfg.Baud,
			ReadTimeout: 100 * time.Millisecond,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (while opening %s)", err, cfg.Port)
		}
		return p, nil

	case config.SerialJacobsa, "":
		p, err := jacobsa.Open(jacobsa.OpenOptions{
			PortName:              cfg.Port,
			BaudRate:              uint(cfg.Baud),
			DataBits:              8,
			StopBits:              1,
			MinimumReadSize:       0,
			InterCharacterTimeout: 100,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (while opening %s)", err, cfg.Port)
		}
		return p, nil

	default:
		return nil, fmt.Errorf("%w: unknown serial driver %q", config.ErrInvalidConfig, cfg.Serial)
	}
}
