package output

import (
	"errors"
	"fmt"
	"io"
	"time"

	hexapod "github.com/adammck/pwmhex"
	"github.com/adammck/pwmhex/servos"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithFields(logrus.Fields{"pkg": "output"})

// Writer sends pulse widths to the servo hardware. Writes may be buffered until
// Flush is called.
type Writer interface {
	SetPulseWidth(ch int, us uint16) error
	Flush() error
}

// Booter is implemented by writers which need to configure their hardware
// before the first write.
type Booter interface {
	Boot() error
}

// Output sends the controller's outputs to a Writer after every tick. Only
// channels which changed since the previous tick are written, except for the
// first tick after Boot, which writes every channel.
type Output struct {
	w    Writer
	last [servos.NumChannels]uint16
	all  bool
}

func New(w Writer) *Output {
	return &Output{
		w:   w,
		all: true,
	}
}

func (o *Output) Boot() error {
	if b, ok := o.w.(Booter); ok {
		err := b.Boot()
		if err != nil {
			return err
		}
	}

	o.all = true
	log.Infof("booted %T", o.w)
	return nil
}

func (o *Output) Tick(now time.Time, c *hexapod.Controller) error {
	return o.write(c.Outputs())
}

func (o *Output) write(out [servos.NumChannels]uint16) error {
	n := 0

	for ch, us := range out {
		if !o.all && us == o.last[ch] {
			continue
		}

		err := o.w.SetPulseWidth(ch, us)
		if err != nil {
			return fmt.Errorf("%w (while setting channel %d to %dµs)", err, ch, us)
		}

		n++
	}

	if n == 0 {
		return nil
	}

	err := o.w.Flush()
	if err != nil {
		return fmt.Errorf("%w (while flushing)", err)
	}

	log.Debugf("wrote %d channels", n)
	o.last = out
	o.all = false
	return nil
}

// Close powers down every channel, then closes the writer if it can be closed.
func (o *Output) Close() error {
	o.all = true
	err := o.write([servos.NumChannels]uint16{})

	if cl, ok := o.w.(io.Closer); ok {
		err = errors.Join(err, cl.Close())
	}

	return err
}
