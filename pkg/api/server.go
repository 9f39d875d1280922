// Package api exposes validation as a small HTTP service: callers POST a
// dataset dump and a schema document and receive the full findings log and
// summary. Useful for pipelines that gate publication on a central service
// instead of shipping the CLI.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gridmet/ncqc/pkg/checker"
	"github.com/gridmet/ncqc/pkg/dataset"
	ncqcerrors "github.com/gridmet/ncqc/pkg/errors"
	"github.com/gridmet/ncqc/pkg/logging"
	"github.com/gridmet/ncqc/pkg/report"
	"github.com/gridmet/ncqc/pkg/schema"
	"github.com/gridmet/ncqc/pkg/server"
	"github.com/gridmet/ncqc/pkg/serializer"
)

const name = "ncqc-api-server"

// maxRequestBody bounds a validation request. Dataset dumps are full data
// arrays, so this is generous but not unlimited.
const maxRequestBody = 64 << 20

// Serve starts the API server and blocks until shutdown.
func Serve(version string, jsonLogs bool) error {
	ctx := context.Background()

	logging.SetDefaultStructuredLogger(name, version, logging.Options{JSON: jsonLogs})
	slog.Info("starting", "name", name, "version", version)

	routes := map[string]http.HandlerFunc{
		"/v1/validate": handleValidate,
	}

	s := server.New(
		server.WithName(name),
		server.WithVersion(version),
		server.WithHandler(routes),
	)

	if err := s.Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}
	return nil
}

// validateRequest is the body of POST /v1/validate. Dataset and Schema hold
// the same document forms the CLI reads from disk.
type validateRequest struct {
	Dataset json.RawMessage `json:"dataset"`
	Schema  json.RawMessage `json:"schema"`
	Strict  bool            `json:"strict"`
}

type validateResponse struct {
	Status   report.Status  `json:"status"`
	Errors   int            `json:"errors"`
	Warnings int            `json:"warnings"`
	Events   []report.Event `json:"events"`
}

func handleValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		server.WriteError(w, r, http.StatusMethodNotAllowed, ncqcerrors.ErrCodeMethodNotAllowed,
			"method not allowed", false, nil)
		return
	}

	var req validateRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.WriteError(w, r, http.StatusBadRequest, ncqcerrors.ErrCodeInvalidRequest,
			"invalid request body", false, map[string]any{"error": err.Error()})
		return
	}
	if len(req.Dataset) == 0 || len(req.Schema) == 0 {
		server.WriteError(w, r, http.StatusBadRequest, ncqcerrors.ErrCodeInvalidRequest,
			"dataset and schema are required", false, nil)
		return
	}

	// JSON is a subset of YAML, so the document decoders accept the raw
	// request fields directly.
	ds, err := dataset.Decode(bytes.NewReader(req.Dataset))
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "invalid dataset", nil)
		return
	}
	sch, err := schema.Parse(req.Schema)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "invalid schema", nil)
		return
	}

	c := checker.New(checker.WithStrict(req.Strict))
	result, err := c.Run(r.Context(), ds, sch)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "validation aborted", nil)
		return
	}

	serializer.RespondJSON(w, http.StatusOK, validateResponse{
		Status:   result.Status,
		Errors:   result.Errors,
		Warnings: result.Warnings,
		Events:   result.Events,
	})
}
