package output

import (
	"fmt"
	"io"
)

// See: https://www.pololu.com/docs/pdf/0J40/maestro.pdf
const (
	cmdSetTarget = 0x84

	// Starts a command in the Pololu protocol, which addresses one device on a
	// shared serial line.
	pololuPreamble = 0xaa
)

// Maestro writes pulse widths to a Pololu Maestro servo controller over a
// serial port. Commands are buffered until Flush.
type Maestro struct {
	port    io.ReadWriteCloser
	device  uint8
	compact bool
	buf     []byte
}

func NewMaestro(port io.ReadWriteCloser, device uint8, compact bool) *Maestro {
	return &Maestro{
		port:    port,
		device:  device,
		compact: compact,
	}
}

func (m *Maestro) preamble(command uint8) []byte {
	if m.compact {
		return []byte{command}
	}

	return []byte{pololuPreamble, m.device, command & 0x7f}
}

// SetPulseWidth queues a Set Target command. The Maestro stops sending pulses
// to a channel whose target is zero.
func (m *Maestro) SetPulseWidth(ch int, us uint16) error {
	if ch < 0 || ch > 0x7f {
		return fmt.Errorf("maestro channel %d out of range", ch)
	}

	// Targets are in quarter-microseconds, sent as two 7-bit bytes.
	target := us * 4
	m.buf = append(m.buf, m.preamble(cmdSetTarget)...)
	m.buf = append(m.buf, byte(ch), lo(target), hi(target))
	return nil
}

func (m *Maestro) Flush() error {
	if len(m.buf) == 0 {
		return nil
	}

	_, err := m.port.Write(m.buf)
	m.buf = m.buf[:0]
	if err != nil {
		return fmt.Errorf("%w (while writing to maestro)", err)
	}

	return nil
}

func (m *Maestro) Close() error {
	return m.port.Close()
}

func lo(v uint16) byte {
	return byte(v & 0x7f)
}

func hi(v uint16) byte {
	return byte((v >> 7) & 0x7f)
}
