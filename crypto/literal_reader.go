package crypto

import (
	"io"

	"github.com/pkg/errors"
)

var errReaderClosed = errors.New("pgpstream: read from closed literal reader")

// LiteralMetadata is the metadata stored in a literal data packet.
type LiteralMetadata struct {
	IsBinary bool
	Filename string
	ModTime  int64
}

// LiteralReader reads the payload of the literal data packet found
// in a message.
type LiteralReader struct {
	metadata *LiteralMetadata
	body     io.Reader
}

func newLiteralReader(ld *LiteralData) *LiteralReader {
	return &LiteralReader{
		metadata: &LiteralMetadata{
			IsBinary: ld.IsBinary,
			Filename: ld.FileName,
			ModTime:  int64(ld.ModTime),
		},
		body: ld.body,
	}
}

// GetMetadata returns the metadata of the literal data packet.
func (lr *LiteralReader) GetMetadata() *LiteralMetadata {
	return lr.metadata
}

// Read reads the literal payload.
func (lr *LiteralReader) Read(b []byte) (int, error) {
	if lr.body == nil {
		return 0, errReaderClosed
	}
	return lr.body.Read(b)
}

// Close releases the decoding layers. It neither reads the rest of the
// message nor checks its integrity, and it does not close the input.
func (lr *LiteralReader) Close() error {
	lr.body = nil
	return nil
}
