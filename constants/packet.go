package constants

// OpenPGP packet tags (RFC 9580, section 5).
const (
	TagEncryptedKey              uint8 = 1
	TagSignature                 uint8 = 2
	TagSymmetricKeyEncrypted     uint8 = 3
	TagOnePassSignature          uint8 = 4
	TagPrivateKey                uint8 = 5
	TagPublicKey                 uint8 = 6
	TagPrivateSubkey             uint8 = 7
	TagCompressed                uint8 = 8
	TagSymmetricallyEncrypted    uint8 = 9
	TagMarker                    uint8 = 10
	TagLiteralData               uint8 = 11
	TagTrust                     uint8 = 12
	TagUserID                    uint8 = 13
	TagPublicSubkey              uint8 = 14
	TagUserAttribute             uint8 = 17
	TagSymmetricallyEncryptedMDC uint8 = 18
	TagModificationDetection     uint8 = 19
	TagAEADEncrypted             uint8 = 20
	TagPadding                   uint8 = 21
)

// PacketName returns a human readable name for a packet tag.
func PacketName(tag uint8) string {
	switch tag {
	case TagEncryptedKey:
		return "public-key encrypted session key"
	case TagSignature:
		return "signature"
	case TagSymmetricKeyEncrypted:
		return "symmetric-key encrypted session key"
	case TagOnePassSignature:
		return "one-pass signature"
	case TagPrivateKey:
		return "secret key"
	case TagPublicKey:
		return "public key"
	case TagPrivateSubkey:
		return "secret subkey"
	case TagCompressed:
		return "compressed data"
	case TagSymmetricallyEncrypted:
		return "symmetrically encrypted data"
	case TagMarker:
		return "marker"
	case TagLiteralData:
		return "literal data"
	case TagTrust:
		return "trust"
	case TagUserID:
		return "user id"
	case TagPublicSubkey:
		return "public subkey"
	case TagUserAttribute:
		return "user attribute"
	case TagSymmetricallyEncryptedMDC:
		return "symmetrically encrypted integrity protected data"
	case TagModificationDetection:
		return "modification detection code"
	case TagAEADEncrypted:
		return "AEAD encrypted data"
	case TagPadding:
		return "padding"
	}
	return "unknown"
}
