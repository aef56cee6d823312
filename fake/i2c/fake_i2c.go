package i2c

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithFields(logrus.Fields{"pkg": "fake/i2c"})

// Tx is one recorded write.
type Tx struct {
	Addr uint16
	Data []byte
}

// FakeBus is an I2C bus of register-file devices with auto-increment. A write
// sets consecutive registers starting at its first byte; a read returns
// consecutive registers starting at the register in the write.
type FakeBus struct {
	mu   sync.Mutex
	regs map[uint16]*[256]byte
	txs  []Tx
}

func New() *FakeBus {
	return &FakeBus{
		regs: map[uint16]*[256]byte{},
	}
}

// AddDevice adds a device to the bus, with the given initial register values.
func (b *FakeBus) AddDevice(addr uint16, init map[byte]byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	r := &[256]byte{}
	for k, v := range init {
		r[k] = v
	}

	b.regs[addr] = r
}

func (b *FakeBus) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	regs, ok := b.regs[addr]
	if !ok {
		return fmt.Errorf("no device at %#x", addr)
	}

	if len(w) == 0 {
		return fmt.Errorf("empty write to %#x", addr)
	}

	reg := w[0]
	if len(r) == 0 {
		log.Debugf("write %#x: %v", addr, w)
		b.txs = append(b.txs, Tx{Addr: addr, Data: append([]byte{}, w...)})

		for i, v := range w[1:] {
			regs[reg+byte(i)] = v
		}
		return nil
	}

	for i := range r {
		r[i] = regs[reg+byte(i)]
	}

	return nil
}

// Register returns the current value of a register.
func (b *FakeBus) Register(addr uint16, reg byte) byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	regs, ok := b.regs[addr]
	if !ok {
		return 0
	}

	return regs[reg]
}

// Txs returns every write so far.
func (b *FakeBus) Txs() []Tx {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Tx{}, b.txs...)
}

// Reset forgets the recorded writes, but not the registers.
func (b *FakeBus) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.txs = nil
}
