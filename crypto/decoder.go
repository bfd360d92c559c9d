package crypto

import (
	"io"

	pgperrors "github.com/ProtonMail/go-crypto/openpgp/errors"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/ProtonMail/go-pgpstream/constants"
	"github.com/ProtonMail/go-pgpstream/internal"
	"github.com/pkg/errors"
)

// packetDecoder reads the packets of one nesting level lazily.
type packetDecoder struct {
	r io.Reader
}

func newPacketDecoder(r io.Reader) *packetDecoder {
	return &packetDecoder{r: r}
}

// Next returns the next packet, or io.EOF when the level is exhausted.
// The body of the previous packet must have been consumed.
func (d *packetDecoder) Next() (Packet, error) {
	h, err := d.readHeader()
	if err != nil {
		return nil, err
	}

	switch h.Tag {
	case constants.TagLiteralData:
		p, err := d.read(h)
		if err != nil {
			return nil, err
		}
		ld, ok := p.(*packet.LiteralData)
		if !ok {
			return nil, unexpectedPacket(h.Tag, p)
		}
		return &LiteralData{
			IsBinary: ld.IsBinary,
			FileName: ld.FileName,
			ModTime:  ld.Time,
			body:     ld.Body,
		}, nil
	case constants.TagCompressed:
		p, err := d.read(h)
		if err != nil {
			return nil, err
		}
		c, ok := p.(*packet.Compressed)
		if !ok {
			return nil, unexpectedPacket(h.Tag, p)
		}
		return &CompressedData{body: c.Body}, nil
	case constants.TagEncryptedKey, constants.TagSymmetricKeyEncrypted:
		return d.readEncryptedDataList(h)
	case constants.TagSymmetricallyEncrypted, constants.TagSymmetricallyEncryptedMDC, constants.TagAEADEncrypted:
		list := &EncryptedDataList{}
		if err := d.readEncryptedData(h, list); err != nil {
			return nil, err
		}
		return list, nil
	}
	return &UnknownPacket{Tag: h.Tag, header: h, r: d.r}, nil
}

func (d *packetDecoder) readHeader() (*internal.PacketHeader, error) {
	h, err := internal.ReadPacketHeader(d.r)
	if err == io.EOF {
		return nil, err
	}
	if err != nil {
		return nil, classifyError("packet header", err)
	}
	return h, nil
}

// read parses the packet framed by h with the packet library.
func (d *packetDecoder) read(h *internal.PacketHeader) (packet.Packet, error) {
	p, err := packet.Read(h.Replay(d.r))
	if err != nil {
		return nil, classifyError(constants.PacketName(h.Tag), err)
	}
	return p, nil
}

// readEncryptedDataList collects session key packets up to the encrypted
// data packet that ends the list.
func (d *packetDecoder) readEncryptedDataList(h *internal.PacketHeader) (*EncryptedDataList, error) {
	list := &EncryptedDataList{}
	for {
		switch h.Tag {
		case constants.TagEncryptedKey, constants.TagSymmetricKeyEncrypted:
			item, err := d.readEncryptedKey(h)
			if err != nil {
				return nil, err
			}
			list.Items = append(list.Items, item)
		case constants.TagSymmetricallyEncrypted, constants.TagSymmetricallyEncryptedMDC, constants.TagAEADEncrypted:
			if err := d.readEncryptedData(h, list); err != nil {
				return nil, err
			}
			return list, nil
		default:
			return nil, newPacketError(ErrMalformedInput, constants.PacketName(h.Tag),
				errors.New("encrypted session keys are not followed by encrypted data"))
		}

		var err error
		h, err = d.readHeader()
		if err == io.EOF {
			return nil, newPacketError(ErrMalformedInput, "",
				errors.New("encrypted session keys at end of input"))
		}
		if err != nil {
			return nil, err
		}
	}
}

func (d *packetDecoder) readEncryptedKey(h *internal.PacketHeader) (EncryptedDatum, error) {
	p, err := packet.Read(h.Replay(d.r))
	if err != nil {
		var unsupported pgperrors.UnsupportedError
		if errors.As(err, &unsupported) {
			// the packet library consumed the body
			return &OtherEncrypted{Tag: h.Tag, Err: err}, nil
		}
		return nil, classifyError(constants.PacketName(h.Tag), err)
	}

	switch p := p.(type) {
	case *packet.EncryptedKey:
		return &PublicKeyEncrypted{KeyID: p.KeyId, key: p}, nil
	case *packet.SymmetricKeyEncrypted:
		return &PassphraseEncrypted{key: p}, nil
	}
	return &OtherEncrypted{Tag: h.Tag, Err: unexpectedPacket(h.Tag, p)}, nil
}

func (d *packetDecoder) readEncryptedData(h *internal.PacketHeader, list *EncryptedDataList) error {
	p, err := d.read(h)
	if err != nil {
		return err
	}
	list.tag = h.Tag
	switch p := p.(type) {
	case *packet.SymmetricallyEncrypted:
		list.data, list.contents = p, p.Contents
	case *packet.AEADEncrypted:
		list.data, list.contents = p, p.Contents
	default:
		return unexpectedPacket(h.Tag, p)
	}
	return nil
}

func unexpectedPacket(tag uint8, p packet.Packet) error {
	return newPacketError(ErrMalformedInput, constants.PacketName(tag), errors.Errorf("unexpected packet %T", p))
}
