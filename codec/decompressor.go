// Package codec adapts message decryption to stream pipelines.
package codec

import (
	"io"

	"github.com/ProtonMail/go-pgpstream/armor"
	"github.com/ProtonMail/go-pgpstream/config"
	"github.com/ProtonMail/go-pgpstream/crypto"
	"github.com/ProtonMail/go-pgpstream/keyring"
	"github.com/effective-security/xlog"
	"github.com/pkg/errors"
)

var logger = xlog.NewPackageLogger("github.com/ProtonMail/go-pgpstream", "codec")

// Decompressor turns OpenPGP messages into their literal payload.
type Decompressor struct {
	dc *crypto.DecryptionContext
}

// NewDecompressor creates a Decompressor from the configuration.
// The key ring is read when a public-key encrypted message is first seen.
func NewDecompressor(cfg *config.Config) *Decompressor {
	if cfg == nil {
		cfg = &config.Config{}
	}
	resolver := keyring.NewFileResolver(cfg.SecringPath, []byte(cfg.KeyPassphrase))
	logger.KV(xlog.DEBUG,
		"secring", resolver.Path(),
		"verify_integrity", cfg.VerifyIntegrity)

	return NewDecompressorWithContext(crypto.NewDecryptionContextBuilder().
		VerifyIntegrity(cfg.VerifyIntegrity).
		Passphrase(cfg.DecryptionPassphrase()).
		KeyResolver(resolver).
		New())
}

// NewDecompressorWithContext creates a Decompressor using dc.
func NewDecompressorWithContext(dc *crypto.DecryptionContext) *Decompressor {
	return &Decompressor{dc: dc}
}

// NewReader returns the literal payload of the binary or armored message
// read from in. Closing the returned reader closes in when it is an io.Closer.
func (d *Decompressor) NewReader(in io.Reader) (io.ReadCloser, error) {
	r, armored, err := armor.IsPGPArmored(in)
	if err != nil {
		closeInput(in)
		return nil, err
	}
	if armored {
		if r, err = armor.ArmorReader(r); err != nil {
			closeInput(in)
			return nil, err
		}
	}

	lr, err := crypto.Decrypt(r, d.dc)
	if err != nil {
		logger.KV(xlog.ERROR, "armored", armored, "err", err.Error())
		closeInput(in)
		return nil, err
	}

	md := lr.GetMetadata()
	logger.KV(xlog.DEBUG,
		"armored", armored,
		"filename", md.Filename,
		"binary", md.IsBinary)
	return &payloadReader{LiteralReader: lr, in: in}, nil
}

type payloadReader struct {
	*crypto.LiteralReader
	in io.Reader
}

func (p *payloadReader) Close() error {
	_ = p.LiteralReader.Close()
	if c, ok := p.in.(io.Closer); ok {
		return errors.WithStack(c.Close())
	}
	return nil
}

func closeInput(in io.Reader) {
	if c, ok := in.(io.Closer); ok {
		_ = c.Close()
	}
}
