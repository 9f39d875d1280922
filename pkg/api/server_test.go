package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ncqcerrors "github.com/gridmet/ncqc/pkg/errors"
	"github.com/gridmet/ncqc/pkg/report"
	"github.com/gridmet/ncqc/pkg/server"
)

func postValidate(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/validate", strings.NewReader(body))
	rr := httptest.NewRecorder()
	handleValidate(rr, req)
	return rr
}

func TestHandleValidate(t *testing.T) {
	rr := postValidate(t, `{
  "dataset": {
    "attributes": {"source": "model-x"},
    "variables": {"temperature": {"data": [250, 400]}}
  },
  "schema": {
    "required_global_attributes": ["source"],
    "temperature": {"required_range": [200, 330]}
  }
}`)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp validateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, report.StatusFail, resp.Status)
	assert.Equal(t, 1, resp.Errors)
	assert.Equal(t, 0, resp.Warnings)
	assert.NotEmpty(t, resp.Events)
}

func TestHandleValidate_Pass(t *testing.T) {
	rr := postValidate(t, `{
  "dataset": {"variables": {"height": {"data": [10, 50, 100]}}},
  "schema": {"height": {"required_values": [10, 50, 100]}}
}`)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp validateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, report.StatusPass, resp.Status)
	assert.Equal(t, 0, resp.Errors)
}

func TestHandleValidate_MethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/validate", nil)
	rr := httptest.NewRecorder()
	handleValidate(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestHandleValidate_BadRequests(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"not json", "nope", string(ncqcerrors.ErrCodeInvalidRequest)},
		{"missing fields", `{"dataset": {}}`, string(ncqcerrors.ErrCodeInvalidRequest)},
		{"malformed dataset", `{"dataset": {"bogus": {}}, "schema": {"a": {}}}`,
			string(ncqcerrors.ErrCodeMalformedInput)},
		{"malformed schema", `{"dataset": {"variables": {}}, "schema": {"required_global_attributes": 7}}`,
			string(ncqcerrors.ErrCodeMalformedInput)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := postValidate(t, tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)

			var resp server.ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.Code)
		})
	}
}

func TestHandleValidate_UnsupportedCadenceAbortsWith400(t *testing.T) {
	rr := postValidate(t, `{
  "dataset": {
    "attributes": {"forecast_reference_time": "2020-01-01T00:00:00Z"},
    "variables": {
      "temperature": {"data": [1]},
      "time": {"data": [0, 6]}
    }
  },
  "schema": {
    "temperature": {"required_intervals": {"time": "decades"}},
    "time": {}
  }
}`)

	require.Equal(t, http.StatusBadRequest, rr.Code)

	var resp server.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, string(ncqcerrors.ErrCodeUnsupportedPeriod), resp.Code)
}
