package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredError_Message(t *testing.T) {
	err := New(ErrCodeMalformedInput, "invalid dataset document")
	assert.Equal(t, "MALFORMED_INPUT: invalid dataset document", err.Error())

	cause := fmt.Errorf("yaml: line 3: mapping values are not allowed")
	wrapped := Wrap(ErrCodeMalformedInput, "unable to load data.yaml", cause)
	assert.Contains(t, wrapped.Error(), "unable to load data.yaml")
	assert.Contains(t, wrapped.Error(), cause.Error())
	assert.ErrorIs(t, wrapped, cause)
}

func TestWrapWithContext_CopiesContext(t *testing.T) {
	ctx := map[string]any{"period": "decades"}
	err := WrapWithContext(ErrCodeUnsupportedPeriod, "unsupported period", nil, ctx)
	ctx["period"] = "mutated"

	var se *StructuredError
	require.True(t, As(err, &se))
	assert.Equal(t, "decades", se.Context["period"])
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrCodeUnsupportedPeriod, CodeOf(New(ErrCodeUnsupportedPeriod, "x")))

	// A structured error buried under plain wrapping still surfaces its code.
	buried := fmt.Errorf("outer: %w", New(ErrCodeNotFound, "missing"))
	assert.Equal(t, ErrCodeNotFound, CodeOf(buried))

	assert.Equal(t, ErrCodeInternal, CodeOf(fmt.Errorf("plain")))
}
