package cli

import (
	"github.com/urfave/cli/v3"
)

const versionDefault = "dev"

// overridden during build with ldflags to reflect actual version info,
// e.g. -X "github.com/gridmet/ncqc/pkg/cli.version=1.0.0"
var version = versionDefault

// New builds the root ncqc command.
func New() *cli.Command {
	return &cli.Command{
		Name:    "ncqc",
		Usage:   "quality gate for structured scientific data files",
		Version: version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
			&cli.BoolFlag{
				Name:  "log-json",
				Usage: "output logs in JSON format",
			},
		},
		Commands: []*cli.Command{
			newCheckCommand(),
			newServeCommand(),
		},
	}
}
