// Package internal contains the packet framing reader and small reader
// helpers shared by the other packages.
package internal

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
)

// ResetReader records what is read from the wrapped reader so that
// the stream can be replayed from its beginning.
type ResetReader struct {
	reader    io.Reader
	buffer    *bytes.Buffer
	recording bool
}

// NewResetReader creates a ResetReader that records from the start.
func NewResetReader(reader io.Reader) *ResetReader {
	return &ResetReader{
		reader:    reader,
		buffer:    bytes.NewBuffer(nil),
		recording: true,
	}
}

func (rr *ResetReader) Read(b []byte) (n int, err error) {
	n, err = rr.reader.Read(b)
	if rr.recording {
		rr.buffer.Write(b[:n])
	}
	return
}

// Reset returns a reader yielding the recorded bytes followed by the
// unread remainder, and stops recording.
func (rr *ResetReader) Reset() (io.Reader, error) {
	if !rr.recording {
		return nil, errors.New("reset not possible once recording stopped")
	}
	rr.recording = false
	rr.reader = io.MultiReader(rr.buffer, rr.reader)
	rr.buffer = nil
	return rr.reader, nil
}
