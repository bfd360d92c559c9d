package crypto

import (
	"io"

	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/ProtonMail/go-pgpstream/constants"
	"github.com/ProtonMail/go-pgpstream/internal"
	"github.com/pkg/errors"
)

// Packet is one unit of an OpenPGP message as seen by the walker:
// *CompressedData, *LiteralData, *EncryptedDataList or *UnknownPacket.
type Packet interface {
	// Name returns the human readable packet type.
	Name() string

	isPacket()
}

// CompressedData is a compressed data packet. Its body yields the
// decompressed packet sequence.
type CompressedData struct {
	body io.Reader
}

// LiteralData is a literal data packet.
type LiteralData struct {
	IsBinary bool
	FileName string
	ModTime  uint32

	body io.Reader
}

// EncryptedDataList is a run of encrypted session keys followed by the
// encrypted data packet they all unlock.
type EncryptedDataList struct {
	Items []EncryptedDatum

	tag      uint8
	data     packet.EncryptedDataPacket
	contents io.Reader
}

// UnknownPacket is a packet the walker does not interpret. Its body is
// still unread.
type UnknownPacket struct {
	Tag uint8

	header *internal.PacketHeader
	r      io.Reader
}

func (*CompressedData) isPacket()    {}
func (*LiteralData) isPacket()       {}
func (*EncryptedDataList) isPacket() {}
func (*UnknownPacket) isPacket()     {}

func (*CompressedData) Name() string { return constants.PacketName(constants.TagCompressed) }
func (*LiteralData) Name() string    { return constants.PacketName(constants.TagLiteralData) }
func (l *EncryptedDataList) Name() string {
	return constants.PacketName(l.tag)
}
func (p *UnknownPacket) Name() string { return constants.PacketName(p.Tag) }

// drain discards what is left of the decompressed body.
func (c *CompressedData) drain() error {
	if _, err := io.Copy(io.Discard, c.body); err != nil {
		return classifyError(c.Name(), err)
	}
	return nil
}

// drain discards what is left of the encrypted payload.
func (l *EncryptedDataList) drain() error {
	if _, err := io.Copy(io.Discard, l.contents); err != nil {
		return classifyError(l.Name(), err)
	}
	return nil
}

func (p *UnknownPacket) skip() error {
	if err := p.header.Skip(p.r); err != nil {
		if errors.Is(err, internal.ErrIndeterminateLength) {
			return newPacketError(ErrMalformedInput, p.Name(), errors.WithMessagef(err, "tag %d", p.Tag))
		}
		return classifyError(p.Name(), err)
	}
	return nil
}

// EncryptedDatum is one encrypted session key of an EncryptedDataList:
// *PublicKeyEncrypted, *PassphraseEncrypted or *OtherEncrypted.
type EncryptedDatum interface {
	Name() string

	isEncryptedDatum()
}

// PublicKeyEncrypted is a session key encrypted to the key KeyID.
type PublicKeyEncrypted struct {
	KeyID uint64

	key *packet.EncryptedKey
}

// PassphraseEncrypted is a session key derived from a pass phrase.
type PassphraseEncrypted struct {
	key *packet.SymmetricKeyEncrypted
}

// OtherEncrypted is a session key packet this package cannot use.
type OtherEncrypted struct {
	Tag uint8
	Err error
}

func (*PublicKeyEncrypted) isEncryptedDatum()  {}
func (*PassphraseEncrypted) isEncryptedDatum() {}
func (*OtherEncrypted) isEncryptedDatum()      {}

func (*PublicKeyEncrypted) Name() string {
	return constants.PacketName(constants.TagEncryptedKey)
}

func (*PassphraseEncrypted) Name() string {
	return constants.PacketName(constants.TagSymmetricKeyEncrypted)
}

func (o *OtherEncrypted) Name() string {
	return constants.PacketName(o.Tag)
}
