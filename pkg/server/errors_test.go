package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ncqcerrors "github.com/gridmet/ncqc/pkg/errors"
)

func TestHTTPStatusFromCode(t *testing.T) {
	tests := []struct {
		code ncqcerrors.ErrorCode
		want int
	}{
		{ncqcerrors.ErrCodeInvalidRequest, http.StatusBadRequest},
		{ncqcerrors.ErrCodeMalformedInput, http.StatusBadRequest},
		{ncqcerrors.ErrCodeUnsupportedPeriod, http.StatusBadRequest},
		{ncqcerrors.ErrCodeNotFound, http.StatusNotFound},
		{ncqcerrors.ErrCodeMethodNotAllowed, http.StatusMethodNotAllowed},
		{ncqcerrors.ErrCodeRateLimitExceeded, http.StatusTooManyRequests},
		{ncqcerrors.ErrCodeUnavailable, http.StatusServiceUnavailable},
		{ncqcerrors.ErrCodeTimeout, http.StatusGatewayTimeout},
		{ncqcerrors.ErrCodeInternal, http.StatusInternalServerError},
		{ncqcerrors.ErrorCode("SOMETHING_NEW"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatusFromCode(tt.code))
		})
	}
}

func TestRetryableFromCode(t *testing.T) {
	assert.True(t, RetryableFromCode(ncqcerrors.ErrCodeRateLimitExceeded))
	assert.True(t, RetryableFromCode(ncqcerrors.ErrCodeUnavailable))
	assert.True(t, RetryableFromCode(ncqcerrors.ErrCodeTimeout))
	assert.True(t, RetryableFromCode(ncqcerrors.ErrCodeInternal))
	assert.False(t, RetryableFromCode(ncqcerrors.ErrCodeMalformedInput))
	assert.False(t, RetryableFromCode(ncqcerrors.ErrCodeInvalidRequest))
	assert.False(t, RetryableFromCode(ncqcerrors.ErrCodeUnsupportedPeriod))
}

func TestWriteError(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/validate", nil)
	req = req.WithContext(context.WithValue(req.Context(), contextKeyRequestID, "req-123"))
	rr := httptest.NewRecorder()

	WriteError(rr, req, http.StatusBadRequest, ncqcerrors.ErrCodeMalformedInput,
		"invalid dataset document", false, map[string]any{"line": 4})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, string(ncqcerrors.ErrCodeMalformedInput), resp.Code)
	assert.Equal(t, "invalid dataset document", resp.Message)
	assert.Equal(t, "req-123", resp.RequestID)
	assert.False(t, resp.Retryable)
	assert.Equal(t, float64(4), resp.Details["line"])
	assert.False(t, resp.Timestamp.IsZero())
}

func TestWriteError_GeneratesRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	WriteError(rr, req, http.StatusNotFound, ncqcerrors.ErrCodeNotFound, "missing", false, nil)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RequestID)
}

func TestWriteErrorFromErr_Structured(t *testing.T) {
	err := ncqcerrors.WrapWithContext(ncqcerrors.ErrCodeUnsupportedPeriod,
		"unsupported period", nil, map[string]any{"period": "decades"})

	req := httptest.NewRequest(http.MethodPost, "/v1/validate", nil)
	rr := httptest.NewRecorder()
	WriteErrorFromErr(rr, req, err, "validation failed", map[string]any{"schema": "s.yaml"})

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, string(ncqcerrors.ErrCodeUnsupportedPeriod), resp.Code)
	assert.Equal(t, "unsupported period", resp.Message)
	assert.False(t, resp.Retryable)
	assert.Equal(t, "decades", resp.Details["period"])
	assert.Equal(t, "s.yaml", resp.Details["schema"])
}

func TestWriteErrorFromErr_Plain(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/validate", nil)
	rr := httptest.NewRecorder()
	WriteErrorFromErr(rr, req, assert.AnError, "validation failed", nil)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, string(ncqcerrors.ErrCodeInternal), resp.Code)
	assert.Equal(t, "validation failed", resp.Message)
	assert.True(t, resp.Retryable)
	assert.Equal(t, assert.AnError.Error(), resp.Details["error"])
}
