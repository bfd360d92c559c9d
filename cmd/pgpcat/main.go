package main

import (
	"io"
	"os"

	"github.com/ProtonMail/go-pgpstream/cmd/pgpcat/cli"
	"github.com/ProtonMail/go-pgpstream/constants"
	"github.com/alecthomas/kong"
	"github.com/effective-security/x/ctl"
)

type app struct {
	cli.Cli

	Cat cli.CatCmd `cmd:"" help:"write the literal data of OpenPGP messages"`
}

func main() {
	realMain(os.Args, os.Stdout, os.Stderr, os.Exit)
}

func realMain(args []string, out io.Writer, errout io.Writer, exit func(int)) {
	cl := app{
		Cli: cli.Cli{},
	}
	cl.Cli.WithErrWriter(errout).
		WithWriter(out)

	parser, err := kong.New(&cl,
		kong.Name("pgpcat"),
		kong.Description("OpenPGP literal data extraction"),
		kong.Writers(out, errout),
		kong.Exit(exit),
		ctl.BoolPtrMapper,
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": constants.Version,
		})
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args[1:])
	parser.FatalIfErrorf(err)

	if ctx != nil {
		err = ctx.Run(&cl.Cli)
		ctx.FatalIfErrorf(err)
	}
}
