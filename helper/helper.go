// Package helper contains functions with a simple interface for decrypting
// armored messages held in memory.
package helper

import (
	"bytes"
	"io"
	"strings"

	"github.com/ProtonMail/go-pgpstream/armor"
	"github.com/ProtonMail/go-pgpstream/crypto"
	"github.com/ProtonMail/go-pgpstream/keyring"
	"github.com/pkg/errors"
)

// DecryptMessageWithPassword decrypts an armored message with a password
// and returns the literal data as a string.
func DecryptMessageWithPassword(password []byte, ciphertext string) (plaintext string, err error) {
	dc := crypto.NewDecryptionContextBuilder().Passphrase(password).New()
	data, err := decryptMessageArmored(dc, ciphertext)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecryptMessageArmored decrypts an armored message with an armored private
// key unlocked by passphrase, and returns the literal data as a string.
func DecryptMessageArmored(privateKey string, passphrase []byte, ciphertext string) (string, error) {
	data, err := DecryptBinaryMessageArmored(privateKey, passphrase, ciphertext)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecryptBinaryMessageArmored decrypts an armored message with an armored
// private key unlocked by passphrase.
func DecryptBinaryMessageArmored(privateKey string, passphrase []byte, ciphertext string) ([]byte, error) {
	kr, err := keyring.ReadKeyRing(strings.NewReader(privateKey), passphrase)
	if err != nil {
		return nil, errors.Wrap(err, "pgpstream: unable to read private key")
	}
	dc := crypto.NewDecryptionContextBuilder().KeyResolver(kr).New()
	return decryptMessageArmored(dc, ciphertext)
}

func decryptMessageArmored(dc *crypto.DecryptionContext, ciphertext string) ([]byte, error) {
	r, err := armor.ArmorReader(strings.NewReader(ciphertext))
	if err != nil {
		return nil, err
	}
	lr, err := crypto.Decrypt(r, dc)
	if err != nil {
		return nil, err
	}
	defer lr.Close()

	var buf bytes.Buffer
	if _, err = io.Copy(&buf, lr); err != nil {
		return nil, errors.Wrap(err, "pgpstream: unable to read literal data")
	}
	return buf.Bytes(), nil
}
