package input

import (
	"io"
	"sync"

	evdev "github.com/holoplot/go-evdev"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithFields(logrus.Fields{"pkg": "fake/input"})

// FakeDevice is an evdev device which returns queued events, then io.EOF (or
// Err, if set).
type FakeDevice struct {
	mu     sync.Mutex
	events []evdev.InputEvent
	closed bool

	// Returned once the queue is empty, instead of io.EOF.
	Err error
}

func New(events ...evdev.InputEvent) *FakeDevice {
	return &FakeDevice{
		events: events,
	}
}

// Queue adds events to be returned by ReadOne.
func (d *FakeDevice) Queue(events ...evdev.InputEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, events...)
}

func (d *FakeDevice) ReadOne() (*evdev.InputEvent, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed || len(d.events) == 0 {
		if d.Err != nil {
			return nil, d.Err
		}
		return nil, io.EOF
	}

	ev := d.events[0]
	d.events = d.events[1:]
	log.Debugf("read %s", ev.String())
	return &ev, nil
}

func (d *FakeDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

func (d *FakeDevice) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// Abs returns an axis event.
func Abs(code evdev.EvCode, v int32) evdev.InputEvent {
	return evdev.InputEvent{Type: evdev.EV_ABS, Code: code, Value: v}
}

// Key returns a button event.
func Key(code evdev.EvCode, down bool) evdev.InputEvent {
	v := int32(0)
	if down {
		v = 1
	}

	return evdev.InputEvent{Type: evdev.EV_KEY, Code: code, Value: v}
}
