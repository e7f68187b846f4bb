package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"github.com/space-cow-boy/certificate-distribution-platform/cmd/certdist/commands"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/errors"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/version"
)

func main() {
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("certdist"),
		kong.Description("Certificate distribution platform: publish frontend builds, render and serve course certificates."),
		kong.Vars{"version": version.Version},
		kong.UsageOnError(),
	)

	g := &commands.Global{Logger: slog.Default()}
	if err := ctx.Run(g, cli); err != nil {
		adapter := errors.NewCLIErrorAdapter(cli.Verbose, slog.Default())
		adapter.HandleError(err)
	}
}
