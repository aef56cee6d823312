//go:build !linux

package output

import (
	"errors"
	"fmt"
)

// Bus is only implemented on Linux.
type Bus struct{}

func OpenBus(path string) (*Bus, error) {
	return nil, fmt.Errorf("%w: i2c-dev bus %s", errors.ErrUnsupported, path)
}

func (b *Bus) Tx(addr uint16, w, r []byte) error {
	return errors.ErrUnsupported
}

func (b *Bus) Close() error {
	return nil
}
