package crypto

import (
	"io"

	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/pkg/errors"
)

// maxNestingDepth bounds the number of nested compressed and encrypted
// layers, as a guard against compression quines.
const maxNestingDepth = 32

// FindLiteralStream searches input depth first for the first literal data
// packet and returns a reader positioned at its payload. It returns a nil
// reader and a nil error if the message holds no literal data.
// The input is not closed.
func FindLiteralStream(input io.Reader, dc *DecryptionContext) (*LiteralReader, error) {
	if dc == nil {
		dc = NewDecryptionContextBuilder().New()
	}
	if dc.verifyIntegrity {
		return nil, ErrUnsupported
	}
	return walk(input, dc, 0)
}

// Decrypt is like FindLiteralStream but fails with ErrNoLiteralData
// if the message holds no literal data.
func Decrypt(input io.Reader, dc *DecryptionContext) (*LiteralReader, error) {
	lr, err := FindLiteralStream(input, dc)
	if err != nil {
		return nil, err
	}
	if lr == nil {
		return nil, ErrNoLiteralData
	}
	return lr, nil
}

func walk(input io.Reader, dc *DecryptionContext, depth int) (*LiteralReader, error) {
	if depth > maxNestingDepth {
		return nil, newPacketError(ErrMalformedInput, "",
			errors.Errorf("more than %d nested layers", maxNestingDepth))
	}

	packets := newPacketDecoder(input)
	for {
		p, err := packets.Next()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		switch p := p.(type) {
		case *LiteralData:
			return newLiteralReader(p), nil
		case *CompressedData:
			lr, err := walk(p.body, dc, depth+1)
			if err != nil || lr != nil {
				return lr, err
			}
			if err = p.drain(); err != nil {
				return nil, err
			}
		case *EncryptedDataList:
			lr, err := walkEncrypted(p, dc, depth)
			if err != nil || lr != nil {
				return lr, err
			}
		case *UnknownPacket:
			if err = p.skip(); err != nil {
				return nil, err
			}
		default:
			return nil, errors.Errorf("pgpstream: unexpected packet type %T", p)
		}
	}
}

// walkEncrypted evaluates the items of list in order. The first item
// opens the shared payload, which is searched and then drained. Later
// items still have their session keys resolved and decrypted, so an
// unknown key or an unsupported variant anywhere in the list is fatal.
func walkEncrypted(list *EncryptedDataList, dc *DecryptionContext, depth int) (*LiteralReader, error) {
	if len(list.Items) == 0 {
		return nil, list.drain()
	}

	searched := false
	for _, item := range list.Items {
		sk, err := unlockSessionKey(item, dc)
		if err != nil {
			return nil, err
		}
		if searched {
			continue
		}

		plaintext, err := openEncrypted(list, sk)
		if err != nil {
			return nil, err
		}
		lr, err := walk(plaintext, dc, depth+1)
		if err != nil && !sk.authenticated &&
			(errors.Is(err, ErrMalformedInput) || errors.Is(err, ErrUnsupportedPacket)) {
			// garbage from a wrong pass phrase
			return nil, newPacketError(ErrDecryptionFailed, list.Name(), err)
		}
		if err != nil || lr != nil {
			return lr, err
		}
		if err = list.drain(); err != nil {
			return nil, err
		}
		searched = true
	}
	return nil, nil
}

// sessionKey is a decrypted session key.
type sessionKey struct {
	cipherFunc packet.CipherFunction
	key        []byte
	// authenticated is false when the cipher octet could be garbage
	// produced by a wrong pass phrase.
	authenticated bool
}

func unlockSessionKey(item EncryptedDatum, dc *DecryptionContext) (*sessionKey, error) {
	switch item := item.(type) {
	case *PublicKeyEncrypted:
		priv, err := resolveKey(item, dc)
		if err != nil {
			return nil, err
		}
		if err = item.key.Decrypt(priv, nil); err != nil {
			return nil, &PacketError{
				Kind:     ErrDecryptionFailed,
				Packet:   item.Name(),
				KeyID:    item.KeyID,
				HasKeyID: true,
				Err:      err,
			}
		}
		return &sessionKey{cipherFunc: item.key.CipherFunc, key: item.key.Key, authenticated: true}, nil
	case *PassphraseEncrypted:
		key, cipherFunc, err := item.key.Decrypt(dc.passphrase)
		if err != nil {
			// a wrong pass phrase on a version 4 packet yields an unknown cipher
			return nil, newPacketError(ErrDecryptionFailed, item.Name(), err)
		}
		return &sessionKey{cipherFunc: cipherFunc, key: key, authenticated: item.key.Version != 4}, nil
	case *OtherEncrypted:
		return nil, newPacketError(ErrUnsupportedPacket, item.Name(), item.Err)
	}
	return nil, errors.Errorf("pgpstream: unexpected encrypted session key type %T", item)
}

func openEncrypted(list *EncryptedDataList, sk *sessionKey) (io.Reader, error) {
	// Close is never called on the decrypted reader: closing checks the
	// integrity of the payload.
	plaintext, err := list.data.Decrypt(sk.cipherFunc, sk.key)
	if err != nil {
		if !sk.authenticated {
			return nil, newPacketError(ErrDecryptionFailed, list.Name(), err)
		}
		return nil, decryptionError(list.Name(), err)
	}
	return plaintext, nil
}

func resolveKey(item *PublicKeyEncrypted, dc *DecryptionContext) (*packet.PrivateKey, error) {
	notFound := &PacketError{
		Kind:     ErrKeyNotFound,
		Packet:   item.Name(),
		KeyID:    item.KeyID,
		HasKeyID: true,
	}
	if dc.keyResolver == nil {
		notFound.Err = errors.New("no key resolver")
		return nil, notFound
	}
	priv, err := dc.keyResolver.ResolveKey(item.KeyID)
	if err != nil {
		notFound.Err = err
		return nil, notFound
	}
	if priv == nil {
		return nil, notFound
	}
	return priv, nil
}

// decryptionError reports unsupported algorithms as ErrUnsupportedPacket
// and every other failure as ErrDecryptionFailed.
func decryptionError(packetName string, err error) error {
	classified := classifyError(packetName, err)
	if errors.Is(classified, ErrUnsupportedPacket) {
		return classified
	}
	return newPacketError(ErrDecryptionFailed, packetName, err)
}
