package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/tinypub/cmd/tinypub/commands"
	ferrors "git.home.luguber.info/inful/tinypub/internal/foundation/errors"
	"git.home.luguber.info/inful/tinypub/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("tinypub"),
		kong.Description("Publish a static blog as read-only ActivityPub documents."),
		kong.Vars{"version": version.String()},
		kong.UsageOnError(),
	)

	err := parser.Run(&commands.Global{Logger: slog.Default()}, cli)
	ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
