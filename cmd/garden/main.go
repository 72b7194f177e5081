package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/sys27/garden/cmd/garden/commands"
	ferrors "github.com/sys27/garden/internal/foundation/errors"
	"github.com/sys27/garden/internal/version"
)

func main() {
	cli := &commands.CLI{}
	global := &commands.Global{Out: os.Stdout}
	parser := kong.Parse(cli,
		kong.Name("garden"),
		kong.Description("Static site generator for a markdown digital garden."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)
	global.Logger = slog.Default()

	if err := parser.Run(global, cli); err != nil {
		ferrors.NewCLIErrorAdapter(cli.Verbose, global.Logger).HandleError(err)
	}
}
