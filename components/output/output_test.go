package output

import (
	"errors"
	"testing"
	"time"

	hexapod "github.com/adammck/pwmhex"
	"github.com/adammck/pwmhex/config"
	"github.com/adammck/pwmhex/servos"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type write struct {
	ch int
	us uint16
}

type fakeWriter struct {
	writes  []write
	flushes int
	booted  bool
	closed  bool
	err     error
}

func (w *fakeWriter) SetPulseWidth(ch int, us uint16) error {
	if w.err != nil {
		return w.err
	}
	w.writes = append(w.writes, write{ch, us})
	return nil
}

func (w *fakeWriter) Flush() error {
	w.flushes++
	return nil
}

func (w *fakeWriter) Boot() error {
	w.booted = true
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestOutputWritesChanges(t *testing.T) {
	w := &fakeWriter{}
	o := New(w)
	require.NoError(t, o.Boot())
	assert.True(t, w.booted)

	out := [servos.NumChannels]uint16{}
	out[0] = 1500
	out[18] = 1500

	// Everything, the first time.
	require.NoError(t, o.write(out))
	assert.Len(t, w.writes, servos.NumChannels)
	assert.Equal(t, 1, w.flushes)

	// Nothing changed, so nothing is written.
	w.writes = nil
	require.NoError(t, o.write(out))
	assert.Empty(t, w.writes)
	assert.Equal(t, 1, w.flushes)

	out[0] = 1510
	out[4] = 1200
	require.NoError(t, o.write(out))
	assert.Equal(t, []write{{0, 1510}, {4, 1200}}, w.writes)
	assert.Equal(t, 2, w.flushes)
}

func TestOutputClose(t *testing.T) {
	w := &fakeWriter{}
	o := New(w)

	out := [servos.NumChannels]uint16{}
	for i := range out {
		out[i] = 1500
	}
	require.NoError(t, o.write(out))

	w.writes = nil
	require.NoError(t, o.Close())
	assert.Len(t, w.writes, servos.NumChannels)
	for _, wr := range w.writes {
		assert.Equal(t, uint16(0), wr.us)
	}
	assert.True(t, w.closed)
}

func TestOutputError(t *testing.T) {
	boom := errors.New("boom")
	w := &fakeWriter{err: boom}
	o := New(w)

	err := o.write([servos.NumChannels]uint16{})
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, 0, w.flushes)
}

func TestOutputTick(t *testing.T) {
	c, err := hexapod.New(config.Default())
	require.NoError(t, err)

	w := &fakeWriter{}
	o := New(w)
	require.NoError(t, o.Boot())

	c.ResetServos()
	c.Tick(100 * time.Millisecond)
	require.NoError(t, o.Tick(time.Now(), c))
	assert.Len(t, w.writes, servos.NumChannels)

	w.writes = nil
	c.Tick(100 * time.Millisecond)
	require.NoError(t, o.Tick(time.Now(), c))

	// Only the newly enabled channel.
	require.Len(t, w.writes, 1)
	assert.Equal(t, 1, w.writes[0].ch)
	assert.NotZero(t, w.writes[0].us)
}
