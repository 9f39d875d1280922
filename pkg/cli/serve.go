package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/gridmet/ncqc/pkg/api"
)

func newServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the validation API server",
		Action: func(_ context.Context, cmd *cli.Command) error {
			return api.Serve(version, cmd.Bool("log-json"))
		},
	}
}
