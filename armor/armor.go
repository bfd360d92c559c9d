// Package armor contains helpers to detect and strip the ASCII armor of
// OpenPGP data.
package armor

import (
	"bytes"
	"io"

	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/ProtonMail/go-pgpstream/constants"
	"github.com/ProtonMail/go-pgpstream/internal"
	"github.com/pkg/errors"
)

// maxLeadingSpace bounds the whitespace accepted before the armor header.
const maxLeadingSpace = 512

// IsPGPArmored reads a prefix from in to detect whether it is armored.
// The returned reader yields the complete input, including the prefix.
// Input shorter than the prefix is not an error.
func IsPGPArmored(in io.Reader) (io.Reader, bool, error) {
	rr := internal.NewResetReader(in)
	prefix := make([]byte, maxLeadingSpace+len(constants.ArmorHeaderPrefix))
	n, err := io.ReadFull(rr, prefix)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, false, errors.Wrap(err, "pgpstream: unable to read armor header")
	}
	armored := bytes.HasPrefix(bytes.TrimLeft(prefix[:n], " \t\r\n"), []byte(constants.ArmorHeaderPrefix))
	r, err := rr.Reset()
	if err != nil {
		return nil, false, err
	}
	return r, armored, nil
}

// ArmorReader returns a io.Reader which, when read, reads
// unarmored data from in.
func ArmorReader(in io.Reader) (io.Reader, error) {
	block, err := armor.Decode(in)
	if err != nil {
		return nil, errors.Wrap(err, "pgpstream: unable to unarmor")
	}
	return block.Body, nil
}

// ArmorWithType armors input with the given armorType.
func ArmorWithType(input []byte, armorType string) (string, error) {
	var b bytes.Buffer

	w, err := armor.Encode(&b, armorType, nil)
	if err != nil {
		return "", errors.Wrap(err, "pgpstream: unable to encode armoring")
	}
	if _, err = w.Write(input); err != nil {
		return "", errors.Wrap(err, "pgpstream: unable to write armored to buffer")
	}
	if err := w.Close(); err != nil {
		return "", errors.Wrap(err, "pgpstream: unable to close armor buffer")
	}
	return b.String(), nil
}
