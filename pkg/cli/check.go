package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/gridmet/ncqc/pkg/checker"
	"github.com/gridmet/ncqc/pkg/dataset"
	"github.com/gridmet/ncqc/pkg/logging"
	"github.com/gridmet/ncqc/pkg/report"
	"github.com/gridmet/ncqc/pkg/schema"
	"github.com/gridmet/ncqc/pkg/serializer"
)

func newCheckCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Validate a data file against a schema of constraints",
		ArgsUsage: "INPUT",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "schema",
				Aliases:  []string{"s"},
				Usage:    "path to the schema document (JSON or YAML)",
				Required: true,
			},
			&cli.BoolFlag{
				Name: "strict",
				Usage: "treat unknown variables, unrequested globals and " +
					"unused fill values as errors",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "only display warning and error messages",
			},
			&cli.BoolFlag{
				Name:  "parallel",
				Usage: "validate variables concurrently",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "write the full report to a file (default: no report document)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"t"},
				Value:   "yaml",
				Usage:   "report format (yaml, json, table)",
			},
		},
		Action: runCheck,
	}
}

func runCheck(ctx context.Context, cmd *cli.Command) error {
	input := cmd.Args().First()
	if input == "" {
		return fmt.Errorf("missing INPUT argument")
	}

	level := slog.LevelInfo
	if cmd.Bool("quiet") {
		level = slog.LevelWarn
	}
	if cmd.Bool("debug") {
		level = slog.LevelDebug
	}
	logging.SetDefaultStructuredLogger("ncqc", version,
		logging.Options{Level: level, JSON: cmd.Bool("log-json")})

	outFormat, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}

	ds, err := dataset.Load(input)
	if err != nil {
		slog.Error("unable to load dataset", "path", input, "error", err)
		return cli.Exit("", 1)
	}

	sch, err := schema.Load(cmd.String("schema"))
	if err != nil {
		slog.Error("unable to load schema", "path", cmd.String("schema"), "error", err)
		return cli.Exit("", 1)
	}

	c := checker.New(
		checker.WithStrict(cmd.Bool("strict")),
		checker.WithParallel(cmd.Bool("parallel")),
	)

	result, err := c.Run(ctx, ds, sch)
	if err != nil {
		slog.Error("validation aborted", "error", err)
		return cli.Exit("", 1)
	}

	report.Emit(slog.Default(), result.Events)

	if result.Errors > 0 {
		slog.Error(fmt.Sprintf("%d errors found", result.Errors))
	}
	if result.Warnings > 0 {
		slog.Warn(fmt.Sprintf("%d warnings raised", result.Warnings))
	}

	if cmd.IsSet("output") {
		w := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
		defer w.Close()
		if err := w.Serialize(ctx, result); err != nil {
			return fmt.Errorf("error writing report: %w", err)
		}
	}

	if result.Errors > 0 {
		return cli.Exit("", 1)
	}
	return nil
}
