package cli

import (
	"io"
	"os"
	"strings"

	"github.com/ProtonMail/go-pgpstream/config"
	"github.com/alecthomas/kong"
	"github.com/effective-security/x/configloader"
	"github.com/effective-security/x/ctl"
	"github.com/effective-security/xlog"
	"github.com/pkg/errors"
)

var logger = xlog.NewPackageLogger("github.com/ProtonMail/go-pgpstream", "cli")

// Cli provides CLI context to run commands
type Cli struct {
	Version ctl.VersionFlag `name:"version" help:"Print version information and quit" hidden:""`

	Cfg           string `help:"Location of the config file" type:"path"`
	Secring       string `help:"Location of the secret key ring" type:"path"`
	Passphrase    string `help:"Pass phrase of encrypted messages, supports env:// and file://"`
	KeyPassphrase string `help:"Pass phrase of the secret key ring, supports env:// and file://"`
	Verify        *bool  `help:"Request integrity verification"`
	Debug         bool   `short:"D" help:"Enable debug mode"`
	LogLevel      string `short:"l" help:"Set the logging level (debug|info|warn|error)" default:"error"`

	// Stdin is the source to read from, typically set to os.Stdin
	stdin io.Reader
	// Output is the destination for all output from the command, typically set to os.Stdout
	output io.Writer
	// ErrOutput is the destinaton for errors.
	// If not set, errors will be written to os.StdError
	errOutput io.Writer

	cfg *config.Config
}

// Reader is the source to read from, typically set to os.Stdin
func (c *Cli) Reader() io.Reader {
	if c.stdin != nil {
		return c.stdin
	}
	return os.Stdin
}

// WithReader allows to specify a custom reader
func (c *Cli) WithReader(reader io.Reader) *Cli {
	c.stdin = reader
	return c
}

// Writer returns a writer for control output
func (c *Cli) Writer() io.Writer {
	if c.output != nil {
		return c.output
	}
	return os.Stdout
}

// WithWriter allows to specify a custom writer
func (c *Cli) WithWriter(out io.Writer) *Cli {
	c.output = out
	return c
}

// ErrWriter returns a writer for control output
func (c *Cli) ErrWriter() io.Writer {
	if c.errOutput != nil {
		return c.errOutput
	}
	return os.Stderr
}

// WithErrWriter allows to specify a custom error writer
func (c *Cli) WithErrWriter(out io.Writer) *Cli {
	c.errOutput = out
	return c
}

// AfterApply hook sets the log level
func (c *Cli) AfterApply(_ *kong.Kong, _ kong.Vars) error {
	if c.Debug {
		xlog.SetGlobalLogLevel(xlog.DEBUG)
		return nil
	}
	val := strings.TrimLeft(c.LogLevel, "=")
	l, err := xlog.ParseLevel(strings.ToUpper(val))
	if err != nil {
		return errors.WithStack(err)
	}
	xlog.SetGlobalLogLevel(l)
	return nil
}

// Config loads the config file and applies the flags over it
func (c *Cli) Config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}

	cfg, err := config.LoadConfig(c.Cfg)
	if err != nil {
		return nil, errors.WithMessage(err, "unable to load config")
	}
	if c.Secring != "" {
		cfg.SecringPath = c.Secring
	}
	if c.Passphrase != "" {
		if cfg.DecryptPassphrase, err = configloader.ResolveValue(c.Passphrase); err != nil {
			return nil, errors.WithMessage(err, "unable to resolve passphrase")
		}
	}
	if c.KeyPassphrase != "" {
		if cfg.KeyPassphrase, err = configloader.ResolveValue(c.KeyPassphrase); err != nil {
			return nil, errors.WithMessage(err, "unable to resolve key passphrase")
		}
	}
	if c.Verify != nil {
		cfg.VerifyIntegrity = *c.Verify
	}

	logger.KV(xlog.DEBUG,
		"cfg", c.Cfg,
		"secring", cfg.SecringPath,
		"verify_integrity", cfg.VerifyIntegrity)
	c.cfg = cfg
	return cfg, nil
}

// Open returns the named file, or the standard input for "-"
func (c *Cli) Open(filename string) (io.ReadCloser, error) {
	if filename == "" {
		return nil, errors.New("empty file name")
	}
	if filename == "-" {
		return io.NopCloser(c.Reader()), nil
	}
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return f, nil
}
