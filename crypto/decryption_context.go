package crypto

import (
	"github.com/ProtonMail/go-crypto/openpgp/packet"
)

// KeyResolver maps a key id to private key material that is ready
// to decrypt a session key.
type KeyResolver interface {
	ResolveKey(keyID uint64) (*packet.PrivateKey, error)
}

// KeyResolverFunc adapts a function to the KeyResolver interface.
type KeyResolverFunc func(keyID uint64) (*packet.PrivateKey, error)

// ResolveKey calls f(keyID).
func (f KeyResolverFunc) ResolveKey(keyID uint64) (*packet.PrivateKey, error) {
	return f(keyID)
}

// DecryptionContext carries the decryption settings of one message.
// It is never modified after construction and can be shared between
// goroutines.
type DecryptionContext struct {
	verifyIntegrity bool
	keyResolver     KeyResolver
	passphrase      []byte
}

// VerifyIntegrity reports whether integrity verification was requested.
func (dc *DecryptionContext) VerifyIntegrity() bool {
	return dc.verifyIntegrity
}

// DecryptionContextBuilder configures a DecryptionContext.
type DecryptionContextBuilder struct {
	dc DecryptionContext
}

// NewDecryptionContextBuilder returns a builder for a context without keys,
// pass phrase or integrity verification.
func NewDecryptionContextBuilder() *DecryptionContextBuilder {
	return &DecryptionContextBuilder{}
}

// Passphrase sets the pass phrase used for passphrase-encrypted session keys.
func (dcb *DecryptionContextBuilder) Passphrase(passphrase []byte) *DecryptionContextBuilder {
	dcb.dc.passphrase = append([]byte(nil), passphrase...)
	return dcb
}

// KeyResolver sets the resolver used for public-key encrypted session keys.
// If not set, every public-key encrypted session key fails with ErrKeyNotFound.
func (dcb *DecryptionContextBuilder) KeyResolver(resolver KeyResolver) *DecryptionContextBuilder {
	dcb.dc.keyResolver = resolver
	return dcb
}

// VerifyIntegrity requests integrity verification. Decryption then fails
// with ErrUnsupported.
func (dcb *DecryptionContextBuilder) VerifyIntegrity(verify bool) *DecryptionContextBuilder {
	dcb.dc.verifyIntegrity = verify
	return dcb
}

// New creates the DecryptionContext.
func (dcb *DecryptionContextBuilder) New() *DecryptionContext {
	dc := dcb.dc
	dc.passphrase = append([]byte(nil), dcb.dc.passphrase...)
	return &dc
}
