package crypto

import (
	"fmt"

	pgperrors "github.com/ProtonMail/go-crypto/openpgp/errors"
	"github.com/pkg/errors"
)

var (
	// ErrNoLiteralData is returned by Decrypt when the message holds no
	// literal data packet.
	ErrNoLiteralData = errors.New("pgpstream: no literal data found")
	// ErrKeyNotFound is returned when the private key for a public-key
	// encrypted session key cannot be resolved.
	ErrKeyNotFound = errors.New("pgpstream: private key not found")
	// ErrUnsupportedPacket is returned for encryption, compression or
	// encrypted data variants that cannot be processed.
	ErrUnsupportedPacket = errors.New("pgpstream: unsupported packet")
	// ErrUnsupported is returned when integrity verification is requested.
	ErrUnsupported = errors.New("pgpstream: integrity verification is not supported")
	// ErrMalformedInput is returned when the packet stream cannot be parsed.
	ErrMalformedInput = errors.New("pgpstream: malformed input")
	// ErrDecryptionFailed is returned when a session key or an encrypted
	// payload cannot be decrypted.
	ErrDecryptionFailed = errors.New("pgpstream: decryption failed")
)

// PacketError describes a failure while processing a packet.
// It matches its Kind and its cause with errors.Is.
type PacketError struct {
	Kind     error
	Packet   string
	KeyID    uint64
	HasKeyID bool
	Err      error
}

func (e *PacketError) Error() string {
	msg := e.Kind.Error()
	if e.Packet != "" {
		msg += ": " + e.Packet
	}
	if e.HasKeyID {
		msg += " for key " + keyIDToHex(e.KeyID)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PacketError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the kind of this error.
func (e *PacketError) Is(target error) bool {
	return target == e.Kind
}

func newPacketError(kind error, packetName string, cause error) *PacketError {
	return &PacketError{Kind: kind, Packet: packetName, Err: cause}
}

// classifyError maps an error of the packet library to a PacketError.
// Errors that are already classified are returned unchanged.
func classifyError(packetName string, err error) error {
	var pe *PacketError
	if errors.As(err, &pe) {
		return err
	}
	var unsupported pgperrors.UnsupportedError
	if errors.As(err, &unsupported) {
		return newPacketError(ErrUnsupportedPacket, packetName, err)
	}
	var sessionKeyErr pgperrors.DecryptWithSessionKeyError
	if errors.As(err, &sessionKeyErr) || errors.Is(err, pgperrors.ErrMDCHashMismatch) {
		return newPacketError(ErrDecryptionFailed, packetName, err)
	}
	return newPacketError(ErrMalformedInput, packetName, err)
}

func keyIDToHex(id uint64) string {
	return fmt.Sprintf("%016x", id)
}
