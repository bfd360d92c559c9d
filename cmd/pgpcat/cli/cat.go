package cli

import (
	"io"

	"github.com/ProtonMail/go-pgpstream/codec"
	"github.com/effective-security/xlog"
	"github.com/pkg/errors"
)

// CatCmd writes the literal payload of OpenPGP messages
type CatCmd struct {
	Files []string `kong:"arg" required:"" help:"Message files, - reads the standard input"`
}

// Run the command
func (a *CatCmd) Run(ctx *Cli) error {
	cfg, err := ctx.Config()
	if err != nil {
		return err
	}
	d := codec.NewDecompressor(cfg)

	for _, file := range a.Files {
		in, err := ctx.Open(file)
		if err != nil {
			return errors.WithMessagef(err, "unable to open %s", file)
		}

		r, err := d.NewReader(in)
		if err != nil {
			return errors.WithMessagef(err, "unable to decode %s", file)
		}
		n, err := io.Copy(ctx.Writer(), r)
		_ = r.Close()
		if err != nil {
			return errors.WithMessagef(err, "unable to read %s", file)
		}
		logger.KV(xlog.DEBUG, "file", file, "bytes", n)
	}
	return nil
}
