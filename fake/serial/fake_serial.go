package serial

import (
	"bytes"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithFields(logrus.Fields{"pkg": "fake/serial"})

// ErrClosed is returned by reads and writes after Close.
var ErrClosed = errors.New("fake serial port closed")

// FakeSerial is an in-memory serial port. Everything written to it is kept, and
// reads return whatever was queued with Respond.
type FakeSerial struct {
	mu     sync.Mutex
	writes [][]byte
	rx     bytes.Buffer
	closed bool

	// If set, returned by the next write.
	WriteErr error
}

func New() *FakeSerial {
	return &FakeSerial{}
}

func (s *FakeSerial) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}

	n, _ := s.rx.Read(p)
	log.Debugf("read %d bytes", n)
	return n, nil
}

func (s *FakeSerial) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}

	if s.WriteErr != nil {
		err := s.WriteErr
		s.WriteErr = nil
		return 0, err
	}

	log.Debugf("write: %v", p)
	s.writes = append(s.writes, append([]byte{}, p...))
	return len(p), nil
}

func (s *FakeSerial) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

// Respond queues bytes to be returned by Read.
func (s *FakeSerial) Respond(p []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rx.Write(p)
}

// Writes returns every write so far, one slice per call.
func (s *FakeSerial) Writes() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]byte{}, s.writes...)
}

func (s *FakeSerial) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
