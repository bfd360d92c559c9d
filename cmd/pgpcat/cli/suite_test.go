package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/alecthomas/kong"
	"github.com/effective-security/x/ctl"
	"github.com/stretchr/testify/suite"
)

type testSuite struct {
	suite.Suite
	tmpdir string
	ctl    *Cli
	// Out is the output buffer
	Out bytes.Buffer

	appFlags []string
}

func (s *testSuite) SetupSuite() {
	s.tmpdir = s.T().TempDir()

	s.ctl = &Cli{}
	s.ctl.WithErrWriter(&s.Out).
		WithWriter(&s.Out)

	parser, err := kong.New(s.ctl,
		kong.Name("pgpcat"),
		kong.Description("CLI tool"),
		kong.Writers(&s.Out, &s.Out),
		ctl.BoolPtrMapper,
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{})
	if err != nil {
		s.FailNow("unexpected error constructing Kong: %+v", err)
	}

	_, err = parser.Parse(s.appFlags)
	if err != nil {
		s.FailNow("unexpected error parsing: %+v", err)
	}
}

func (s *testSuite) SetupTest() {
	s.Out.Reset()
	s.ctl.cfg = nil
}

// HasText is a helper method to assert that the out stream contains the supplied
// text somewhere
func (s *testSuite) HasText(texts ...string) {
	outStr := s.Out.String()
	for _, t := range texts {
		s.Contains(outStr, t)
	}
}

// writeLiteralFile writes a literal data message to the temp folder.
func (s *testSuite) writeLiteralFile(name, payload string) string {
	var buf bytes.Buffer
	w, err := packet.SerializeLiteral(nopCloser{&buf}, true, name, 0)
	s.Require().NoError(err)
	_, err = w.Write([]byte(payload))
	s.Require().NoError(err)
	s.Require().NoError(w.Close())

	path := filepath.Join(s.tmpdir, name)
	s.Require().NoError(os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

type nopCloser struct {
	*bytes.Buffer
}

func (nopCloser) Close() error {
	return nil
}

func Test_CliSuite(t *testing.T) {
	s := new(testSuite)
	suite.Run(t, s)
}
