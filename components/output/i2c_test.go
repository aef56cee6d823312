package output

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// shortWriter accepts at most n bytes per write.
type shortWriter struct {
	n int
}

func (w shortWriter) Write(b []byte) (int, error) {
	if len(b) > w.n {
		return w.n, nil
	}
	return len(b), nil
}

func TestReadMessage(t *testing.T) {
	b := []byte{0xff, 0xff, 0xff}
	require.NoError(t, readMessage(bytes.NewReader([]byte{1, 2, 3}), b))
	assert.Equal(t, []byte{1, 2, 3}, b)

	// Only two bytes arrive; the third is stale.
	b = []byte{0xff, 0xff, 0xff}
	err := readMessage(bytes.NewReader([]byte{1, 2}), b)
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF), "%v", err)

	err = readMessage(bytes.NewReader(nil), b)
	assert.True(t, errors.Is(err, io.EOF), "%v", err)
}

func TestWriteMessage(t *testing.T) {
	require.NoError(t, writeMessage(shortWriter{n: 5}, []byte{0x06, 0, 0, 0x33, 0x01}))

	err := writeMessage(shortWriter{n: 3}, []byte{0x06, 0, 0, 0x33, 0x01})
	assert.True(t, errors.Is(err, io.ErrShortWrite), "%v", err)
}
