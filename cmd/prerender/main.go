package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"github.com/resumeanalyzerai/prerender/cmd/prerender/commands"
	"github.com/resumeanalyzerai/prerender/internal/foundation/errors"
	"github.com/resumeanalyzerai/prerender/internal/version"
)

func main() {
	cli := &commands.CLI{}
	global := &commands.Global{Logger: slog.Default()}
	parser := kong.Parse(cli,
		kong.Bind(global),
		kong.Name("prerender"),
		kong.Description("Generate crawler-ready HTML pages for the Resume Analyzer AI site."),
		kong.Vars{"version": version.String()},
		kong.UsageOnError(),
	)
	err := parser.Run(cli)
	errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
