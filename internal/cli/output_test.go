package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitError(t *testing.T) {
	err := NewExitError(ExitCommandError, "bad flags")
	assert.Equal(t, "bad flags", err.Error())
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	inner := errors.New("boom")
	wrapped := WrapExitError(ExitFailure, "conversion failed", inner)
	assert.Equal(t, "conversion failed: boom", wrapped.Error())
	assert.Equal(t, ExitFailure, GetExitCode(wrapped))
	assert.ErrorIs(t, wrapped, inner)

	// Wrapping through fmt.Errorf still yields the right code.
	outer := fmt.Errorf("context: %w", wrapped)
	assert.Equal(t, ExitFailure, GetExitCode(outer))

	// Non-exit errors default to failure.
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
}

func TestFormatter_SuccessJSON(t *testing.T) {
	var out bytes.Buffer
	f := &Formatter{Format: "json", Writer: &out, TraceID: "trace-1"}
	require.NoError(t, f.Success(map[string]int{"tables": 3}))

	var resp Response
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "trace-1", resp.TraceID)
	assert.Nil(t, resp.Error)
}

func TestFormatter_ErrorJSON(t *testing.T) {
	var out bytes.Buffer
	f := &Formatter{Format: "json", Writer: &out}
	require.NoError(t, f.Error("INSPECT_FAILED", "no such dir", nil))

	var resp Response
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INSPECT_FAILED", resp.Error.Code)
}

func TestFormatter_SuccessText(t *testing.T) {
	var out bytes.Buffer
	f := &Formatter{Format: "text", Writer: &out}
	require.NoError(t, f.Success("all good"))
	assert.Equal(t, "all good\n", out.String())
}

func TestFormatter_VerboseLog(t *testing.T) {
	var out, errOut bytes.Buffer
	f := &Formatter{Format: "text", Writer: &out, ErrWriter: &errOut, Verbose: true}
	f.VerboseLog("table %s done", "users")

	// Diagnostics go to the error writer, never the output stream.
	assert.Empty(t, out.String())
	assert.Equal(t, "table users done\n", errOut.String())

	f.Verbose = false
	errOut.Reset()
	f.VerboseLog("quiet")
	assert.Empty(t, errOut.String())
}

func TestNewTraceID_Unique(t *testing.T) {
	a, b := NewTraceID(), NewTraceID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
