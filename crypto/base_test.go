package crypto

import (
	"bytes"
	"crypto/rand"
	"io"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/stretchr/testify/require"
)

const testTime = 1557754627 // 2019-05-13T13:37:07+00:00

var (
	testPassphrase = []byte("correct horse battery staple")
	testEntity     *openpgp.Entity
)

func init() {
	var err error
	testEntity, err = openpgp.NewEntity("walker", "test", "walker@example.com", &packet.Config{
		Algorithm: packet.PubKeyAlgoEdDSA,
	})
	if err != nil {
		panic(err)
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}

// countingReader counts the bytes read through it.
type countingReader struct {
	r io.Reader
	n int
}

func (c *countingReader) Read(b []byte) (int, error) {
	n, err := c.r.Read(b)
	c.n += n
	return n, err
}

// mapResolver is a KeyResolver backed by a map. Unknown ids resolve to nil.
type mapResolver map[uint64]*packet.PrivateKey

func (m mapResolver) ResolveKey(keyID uint64) (*packet.PrivateKey, error) {
	return m[keyID], nil
}

func testSubkey() (uint64, *packet.PrivateKey, *packet.PublicKey) {
	sub := testEntity.Subkeys[0]
	return sub.PublicKey.KeyId, sub.PrivateKey, sub.PublicKey
}

// writeLiteral writes a literal data packet holding payload to w and closes w.
func writeLiteral(t *testing.T, w io.WriteCloser, payload string) {
	t.Helper()
	lw, err := packet.SerializeLiteral(w, true, "walker.bin", testTime)
	require.NoError(t, err)
	_, err = lw.Write([]byte(payload))
	require.NoError(t, err)
	require.NoError(t, lw.Close())
}

func literalPacket(t *testing.T, payload string) []byte {
	t.Helper()
	var buf bytes.Buffer
	writeLiteral(t, nopWriteCloser{&buf}, payload)
	return buf.Bytes()
}

func compressedPacket(t *testing.T, inner []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	cw, err := packet.SerializeCompressed(nopWriteCloser{&buf}, packet.CompressionZLIB, nil)
	require.NoError(t, err)
	_, err = cw.Write(inner)
	require.NoError(t, err)
	require.NoError(t, cw.Close())
	return buf.Bytes()
}

// nestedCompressed wraps inner in n compressed data packets.
func nestedCompressed(t *testing.T, inner []byte, n int) []byte {
	t.Helper()
	for i := 0; i < n; i++ {
		inner = compressedPacket(t, inner)
	}
	return inner
}

func passphraseMessage(t *testing.T, payload string, passphrase []byte, config *packet.Config) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := openpgp.SymmetricallyEncrypt(&buf, passphrase, &openpgp.FileHints{IsBinary: true, FileName: "walker.bin"}, config)
	require.NoError(t, err)
	_, err = w.Write([]byte(payload))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func publicKeyMessage(t *testing.T, payload string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := openpgp.Encrypt(&buf, []*openpgp.Entity{testEntity}, nil, nil, nil)
	require.NoError(t, err)
	_, err = w.Write([]byte(payload))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func newSessionKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, packet.CipherAES128.KeySize())
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

// encryptedData writes an integrity protected data packet holding a literal
// data packet, encrypted with the AES-128 session key.
func encryptedData(t *testing.T, w io.Writer, sessionKey []byte, payload string) {
	t.Helper()
	dw, err := packet.SerializeSymmetricallyEncrypted(w, packet.CipherAES128, false, packet.CipherSuite{}, sessionKey, nil)
	require.NoError(t, err)
	writeLiteral(t, dw, payload)
}

// encryptedPayload writes an integrity protected data packet holding raw
// packets, encrypted with the AES-128 session key.
func encryptedPayload(t *testing.T, w io.Writer, sessionKey []byte, packets []byte) {
	t.Helper()
	dw, err := packet.SerializeSymmetricallyEncrypted(w, packet.CipherAES128, false, packet.CipherSuite{}, sessionKey, nil)
	require.NoError(t, err)
	_, err = dw.Write(packets)
	require.NoError(t, err)
	require.NoError(t, dw.Close())
}

var markerPacket = []byte{0xca, 0x03, 'P', 'G', 'P'}

func readAll(t *testing.T, lr *LiteralReader) string {
	t.Helper()
	require.NotNil(t, lr)
	data, err := io.ReadAll(lr)
	require.NoError(t, err)
	require.NoError(t, lr.Close())
	return string(data)
}
