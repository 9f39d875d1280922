package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	ncqcerrors "github.com/gridmet/ncqc/pkg/errors"
	"github.com/gridmet/ncqc/pkg/serializer"
)

// HTTPStatusFromCode maps a structured error code to an HTTP status.
// Unknown codes map to 500.
func HTTPStatusFromCode(code ncqcerrors.ErrorCode) int {
	switch code {
	case ncqcerrors.ErrCodeInvalidRequest, ncqcerrors.ErrCodeMalformedInput, ncqcerrors.ErrCodeUnsupportedPeriod:
		return http.StatusBadRequest
	case ncqcerrors.ErrCodeNotFound:
		return http.StatusNotFound
	case ncqcerrors.ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case ncqcerrors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case ncqcerrors.ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	case ncqcerrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// RetryableFromCode reports whether a request failing with this code may
// succeed on retry without modification.
func RetryableFromCode(code ncqcerrors.ErrorCode) bool {
	switch code {
	case ncqcerrors.ErrCodeRateLimitExceeded, ncqcerrors.ErrCodeUnavailable,
		ncqcerrors.ErrCodeTimeout, ncqcerrors.ErrCodeInternal:
		return true
	}
	return false
}

// WriteError writes an error response body.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int,
	code ncqcerrors.ErrorCode, message string, retryable bool, details map[string]any) {

	requestID, _ := r.Context().Value(contextKeyRequestID).(string)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	resp := ErrorResponse{
		Code:      string(code),
		Message:   message,
		Details:   details,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
		Retryable: retryable,
	}

	serializer.RespondJSON(w, statusCode, resp)
}

// WriteErrorFromErr derives status, code and details from err. Structured
// errors carry their own code and context; anything else becomes an internal
// error with the fallback message.
func WriteErrorFromErr(w http.ResponseWriter, r *http.Request, err error, fallback string, details map[string]any) {
	merged := map[string]any{}
	for k, v := range details {
		merged[k] = v
	}

	var se *ncqcerrors.StructuredError
	if ncqcerrors.As(err, &se) {
		for k, v := range se.Context {
			merged[k] = v
		}
		if se.Err != nil {
			merged["error"] = se.Err.Error()
		}
		WriteError(w, r, HTTPStatusFromCode(se.Code), se.Code, se.Message,
			RetryableFromCode(se.Code), merged)
		return
	}

	if err != nil {
		merged["error"] = err.Error()
	}
	WriteError(w, r, http.StatusInternalServerError, ncqcerrors.ErrCodeInternal,
		fallback, true, merged)
}
