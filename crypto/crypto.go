// Package crypto finds the literal data of OpenPGP messages.
//
// A message is searched depth first through its compressed and encrypted
// layers, and the payload of the first literal data packet is returned
// as a stream:
//
//	dc := crypto.NewDecryptionContextBuilder().
//		Passphrase(passphrase).
//		KeyResolver(keyRing).
//		New()
//	literal, err := crypto.Decrypt(message, dc)
//
// Public-key encrypted session keys are unlocked with private keys obtained
// from a KeyResolver. Integrity verification is not supported: requesting it
// fails with ErrUnsupported.
package crypto
