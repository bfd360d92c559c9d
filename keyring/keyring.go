// Package keyring resolves OpenPGP private keys from a secret key ring.
package keyring

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/ProtonMail/go-pgpstream/armor"
	"github.com/ProtonMail/go-pgpstream/crypto"
	"github.com/effective-security/xlog"
	"github.com/pkg/errors"
)

var logger = xlog.NewPackageLogger("github.com/ProtonMail/go-pgpstream", "keyring")

// ErrKeyNotFound is returned when the key ring holds no usable private key
// for a key id. It matches crypto.ErrKeyNotFound.
var ErrKeyNotFound = errors.WithMessage(crypto.ErrKeyNotFound, "not in key ring")

// KeyRing is a secret key ring. Private keys are unlocked on first use
// with the key ring pass phrase.
type KeyRing struct {
	lock       sync.Mutex
	entities   openpgp.EntityList
	passphrase []byte
}

// NewKeyRing creates a KeyRing from entities.
func NewKeyRing(entities openpgp.EntityList, passphrase []byte) *KeyRing {
	return &KeyRing{
		entities:   entities,
		passphrase: append([]byte(nil), passphrase...),
	}
}

// ReadKeyRing reads a binary or armored secret key ring from r.
func ReadKeyRing(r io.Reader, passphrase []byte) (*KeyRing, error) {
	var entities openpgp.EntityList

	r, armored, err := armor.IsPGPArmored(r)
	if err != nil {
		return nil, err
	}
	if armored {
		entities, err = openpgp.ReadArmoredKeyRing(r)
	} else {
		entities, err = openpgp.ReadKeyRing(r)
	}
	if err != nil {
		return nil, errors.Wrap(err, "pgpstream: error in reading key ring")
	}
	if len(entities) == 0 {
		return nil, errors.New("pgpstream: the key ring does not contain any entity")
	}
	return NewKeyRing(entities, passphrase), nil
}

// LoadKeyRing reads a secret key ring file.
func LoadKeyRing(path string, passphrase []byte) (*KeyRing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()

	kr, err := ReadKeyRing(f, passphrase)
	if err != nil {
		return nil, errors.WithMessagef(err, "unable to load %s", path)
	}
	logger.KV(xlog.DEBUG, "path", path, "entities", kr.CountEntities())
	return kr, nil
}

// CountEntities returns the number of entities in the key ring.
func (kr *KeyRing) CountEntities() int {
	return len(kr.entities)
}

// ResolveKey returns the unlocked private key or subkey with the key id.
func (kr *KeyRing) ResolveKey(keyID uint64) (*packet.PrivateKey, error) {
	kr.lock.Lock()
	defer kr.lock.Unlock()

	for _, key := range kr.entities.KeysById(keyID) {
		priv := key.PrivateKey
		if priv == nil || priv.Dummy() {
			continue
		}
		if priv.Encrypted {
			if err := priv.Decrypt(kr.passphrase); err != nil {
				logger.KV(xlog.WARNING, "reason", "unlock", "keyID", priv.KeyIdString(), "err", err.Error())
				return nil, errors.Wrapf(err, "pgpstream: unable to unlock key %s", priv.KeyIdString())
			}
		}
		logger.KV(xlog.DEBUG, "reason", "resolved", "keyID", priv.KeyIdString())
		return priv, nil
	}
	return nil, errors.Wrapf(ErrKeyNotFound, "key %016x", keyID)
}

// FileResolver resolves keys from a secret key ring file that is loaded
// on first use.
type FileResolver struct {
	path       string
	passphrase []byte

	once    sync.Once
	keyRing *KeyRing
	err     error
}

// NewFileResolver creates a resolver for the key ring at path. An empty
// path selects DefaultSecringPath.
func NewFileResolver(path string, passphrase []byte) *FileResolver {
	if path == "" {
		path = DefaultSecringPath()
	}
	return &FileResolver{
		path:       path,
		passphrase: append([]byte(nil), passphrase...),
	}
}

// Path returns the key ring file location.
func (fr *FileResolver) Path() string {
	return fr.path
}

// ResolveKey loads the key ring if needed and resolves keyID from it.
func (fr *FileResolver) ResolveKey(keyID uint64) (*packet.PrivateKey, error) {
	fr.once.Do(func() {
		fr.keyRing, fr.err = LoadKeyRing(fr.path, fr.passphrase)
		if fr.err != nil {
			logger.KV(xlog.ERROR, "path", fr.path, "err", fr.err.Error())
		}
	})
	if fr.err != nil {
		return nil, fr.err
	}
	return fr.keyRing.ResolveKey(keyID)
}

// DefaultSecringPath returns the secret key ring of the GnuPG home:
// $GNUPGHOME/secring.gpg, or ~/.gnupg/secring.gpg.
func DefaultSecringPath() string {
	if home := os.Getenv("GNUPGHOME"); home != "" {
		return filepath.Join(home, "secring.gpg")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "~"
	}
	return filepath.Join(home, ".gnupg", "secring.gpg")
}
