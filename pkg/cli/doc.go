// Package cli implements the command-line interface for the ncqc tool.
//
// # Commands
//
// check - validate a data file against a schema:
//
//	ncqc check input.nc.yaml --schema rules.json
//	ncqc check input.nc.yaml --schema rules.yaml --strict
//	ncqc check input.nc.yaml --schema rules.yaml --output report.yaml --format yaml
//
// Findings are logged as they accumulate: info and warnings to stdout,
// errors to stderr. The exit code is non-zero iff any error was found,
// so the command slots directly into CI pipelines.
//
// serve - run the validation API server:
//
//	ncqc serve
//
// Exposes POST /v1/validate plus /health, /ready and /metrics.
//
// # Global Flags
//
//	--debug       Enable debug logging
//	--log-json    Output logs in JSON format
//	--help, -h    Show command help
//	--version, -v Show version information
//
// # Exit Codes
//
//	0  Validation passed (warnings allowed)
//	1  Validation errors found, or the dataset/schema failed to load
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/gridmet/ncqc/pkg/cli.version=1.0.0'"
package cli
