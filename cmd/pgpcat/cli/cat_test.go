package cli

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-pgpstream/crypto"
)

func (s *testSuite) TestCat() {
	first := s.writeLiteralFile("first.pgp", "first payload\n")
	second := s.writeLiteralFile("second.pgp", "second payload\n")

	cmd := CatCmd{Files: []string{first, second}}
	s.Require().NoError(cmd.Run(s.ctl))
	s.Equal("first payload\nsecond payload\n", s.Out.String())
}

func (s *testSuite) TestCatStdin() {
	var msg bytes.Buffer
	w, err := openpgp.SymmetricallyEncrypt(&msg, []byte("stdin-pass"), nil, nil)
	s.Require().NoError(err)
	_, err = w.Write([]byte("from stdin"))
	s.Require().NoError(err)
	s.Require().NoError(w.Close())

	s.T().Setenv("PGPCAT_TEST_PASS", "stdin-pass")
	s.ctl.Passphrase = "env://PGPCAT_TEST_PASS"
	s.ctl.WithReader(bytes.NewReader(msg.Bytes()))
	defer func() {
		s.ctl.Passphrase = ""
		s.ctl.WithReader(nil)
	}()

	cmd := CatCmd{Files: []string{"-"}}
	s.Require().NoError(cmd.Run(s.ctl))
	s.HasText("from stdin")
}

func (s *testSuite) TestCatErrors() {
	cmd := CatCmd{Files: []string{filepath.Join(s.tmpdir, "missing.pgp")}}
	err := cmd.Run(s.ctl)
	s.Require().Error(err)
	s.Contains(err.Error(), "unable to open")

	empty := filepath.Join(s.tmpdir, "empty.pgp")
	s.Require().NoError(os.WriteFile(empty, nil, 0o600))
	cmd = CatCmd{Files: []string{empty}}
	err = cmd.Run(s.ctl)
	s.Require().Error(err)
	s.ErrorIs(err, crypto.ErrNoLiteralData)
}

func (s *testSuite) TestCatVerify() {
	file := s.writeLiteralFile("verify.pgp", "payload")

	verify := true
	s.ctl.Verify = &verify
	defer func() { s.ctl.Verify = nil }()

	cmd := CatCmd{Files: []string{file}}
	err := cmd.Run(s.ctl)
	s.Require().Error(err)
	s.ErrorIs(err, crypto.ErrUnsupported)
}

func (s *testSuite) TestConfig() {
	cfgFile := filepath.Join(s.tmpdir, "pgpcat.yaml")
	s.Require().NoError(os.WriteFile(cfgFile, []byte(`
secring_path: /from/config/secring.gpg
decrypt_passphrase: from-config
`), 0o600))

	s.ctl.Cfg = cfgFile
	s.ctl.Secring = "/from/flag/secring.gpg"
	defer func() {
		s.ctl.Cfg = ""
		s.ctl.Secring = ""
	}()

	cfg, err := s.ctl.Config()
	s.Require().NoError(err)
	s.Equal("/from/flag/secring.gpg", cfg.SecringPath)
	s.Equal([]byte("from-config"), cfg.DecryptionPassphrase())
	s.False(cfg.VerifyIntegrity)

	// cached
	again, err := s.ctl.Config()
	s.Require().NoError(err)
	s.Same(cfg, again)
}
