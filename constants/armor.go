// Package constants provides a set of common OpenPGP constants.
package constants

// Constants for armored data.
const (
	ArmorHeaderPrefix = "-----BEGIN PGP"
	PGPMessageHeader  = "PGP MESSAGE"
	PublicKeyHeader   = "PGP PUBLIC KEY BLOCK"
	PrivateKeyHeader  = "PGP PRIVATE KEY BLOCK"
)
