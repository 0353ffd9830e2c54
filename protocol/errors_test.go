package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsErrorPassesThroughProtocolErrors(t *testing.T) {
	orig := NewNotFoundError("Proposal not found: proposal://42")
	assert.Same(t, orig, AsError(orig))

	wrapped := fmt.Errorf("handler: %w", orig)
	assert.Same(t, orig, AsError(wrapped))
}

func TestAsErrorWrapsUnknownErrors(t *testing.T) {
	e := AsError(errors.New("disk on fire"))
	assert.Equal(t, ErrorKindInternalError, e.Code)
	assert.Equal(t, "disk on fire", e.Message)
}

func TestErrorSerialization(t *testing.T) {
	raw, err := json.Marshal(NewInvalidParamsError("missing required field(s): title"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":"InvalidParams","message":"missing required field(s): title"}`, string(raw))
}

func TestErrorString(t *testing.T) {
	e := NewMethodNotFoundError("Unknown tool: x")
	assert.Equal(t, "MethodNotFound: Unknown tool: x", e.Error())
}
