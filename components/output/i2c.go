package output

import (
	"fmt"
	"io"
)

// i2c-dev transfers a whole message or fails, so a short read or write means
// the transfer didn't happen as asked.

func writeMessage(w io.Writer, b []byte) error {
	n, err := w.Write(b)
	if err != nil {
		return err
	}

	if n != len(b) {
		return fmt.Errorf("%w: wrote %d of %d bytes", io.ErrShortWrite, n, len(b))
	}

	return nil
}

func readMessage(r io.Reader, b []byte) error {
	n, err := r.Read(b)
	if err != nil {
		return err
	}

	if n != len(b) {
		return fmt.Errorf("%w: read %d of %d bytes", io.ErrUnexpectedEOF, n, len(b))
	}

	return nil
}
