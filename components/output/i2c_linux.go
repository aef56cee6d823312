//go:build linux

package output

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// Selects the device which following reads and writes on an i2c-dev file are
// addressed to. See: linux/i2c-dev.h
const i2cSlave = 0x0703

// Bus is an I2C bus exposed by the Linux i2c-dev driver, such as /dev/i2c-1.
type Bus struct {
	mu   sync.Mutex
	f    *os.File
	addr int
}

func OpenBus(path string) (*Bus, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("%w (while opening i2c bus)", err)
	}

	return &Bus{f: f, addr: -1}, nil
}

// Tx writes w to the device at addr, then reads into r if it isn't empty.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if int(addr) != b.addr {
		err := unix.IoctlSetInt(int(b.f.Fd()), i2cSlave, int(addr))
		if err != nil {
			return fmt.Errorf("%w (while selecting i2c device %#x)", err, addr)
		}
		b.addr = int(addr)
	}

	if len(w) > 0 {
		err := writeMessage(b.f, w)
		if err != nil {
			return fmt.Errorf("%w (while writing to i2c device %#x)", err, addr)
		}
	}

	if len(r) > 0 {
		err := readMessage(b.f, r)
		if err != nil {
			return fmt.Errorf("%w (while reading from i2c device %#x)", err, addr)
		}
	}

	return nil
}

func (b *Bus) Close() error {
	return b.f.Close()
}
