package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/appcomposer/internal/engine"
	"github.com/danieljhkim/appcomposer/internal/naming"
	"github.com/danieljhkim/appcomposer/internal/selection"
)

// captureOutput points stdout and stderr at buffers for the test.
func captureOutput(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	oldOut, oldErr := stdout, stderr
	stdout, stderr = &out, &errOut
	t.Cleanup(func() {
		stdout, stderr = oldOut, oldErr
	})
	return &out, &errOut
}

func TestFormatJSON(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
	}{
		{name: "simple map", input: map[string]string{"key": "value"}},
		{name: "empty map", input: map[string]string{}},
		{name: "array", input: []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatJSON(tt.input)
			require.NoError(t, err)

			var v interface{}
			assert.NoError(t, json.Unmarshal([]byte(got), &v), "formatJSON() produced invalid JSON")
		})
	}
}

func TestFormatError(t *testing.T) {
	got := formatError(os.ErrNotExist)
	assert.Contains(t, got, "Error:")

	got = formatError(fmt.Errorf("open: %w", engine.ErrNoSession))
	assert.Contains(t, got, "appcomposer init --type")
}

func TestFormatError_AlreadyReported(t *testing.T) {
	captureOutput(t)
	reported = nil
	t.Cleanup(func() { reported = nil })

	verr := &selection.ValidationError{Name: "Main", Kind: naming.AlreadyExists}
	printStatus(selection.Status{Severity: selection.SeverityError, Kind: verr.Kind, Err: verr, Text: verr.Error()})

	assert.Empty(t, FormatError(fmt.Errorf("%w: %w", engine.ErrValidation, verr)))
	assert.NotEmpty(t, FormatError(errors.New("other")))
}

func TestOutputJSON(t *testing.T) {
	out, _ := captureOutput(t)

	require.NoError(t, outputJSON(map[string]string{"test": "value"}))

	var v map[string]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &v))
	assert.Equal(t, "value", v["test"])
}

func TestPrintFunctions(t *testing.T) {
	out, errOut := captureOutput(t)

	PrintSuccess("Success message")
	PrintWarning("Warning message")
	PrintError("Error message")
	PrintInfo("Info message")

	assert.Contains(t, out.String(), "Success message")
	assert.Contains(t, out.String(), "Info message")
	assert.Contains(t, errOut.String(), "Warning message")
	assert.Contains(t, errOut.String(), "Error message")
}

func TestPrintStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   selection.Status
		wantOut  string
		wantErr  string
		jsonMode bool
	}{
		{
			name:    "info",
			status:  selection.Status{Severity: selection.SeverityInfo, Text: "Added Orders"},
			wantOut: "Added Orders",
		},
		{
			name:    "warning",
			status:  selection.Status{Severity: selection.SeverityWarning, Text: "layout entry skipped"},
			wantErr: "layout entry skipped",
		},
		{
			name: "validation error uses the friendly text",
			status: selection.Status{
				Severity: selection.SeverityError,
				Kind:     naming.ReservedName,
				Err:      &selection.ValidationError{Name: "Page", Kind: naming.ReservedName},
			},
			wantErr: `"Page": this name is reserved`,
		},
		{
			name:     "info is silent in json mode",
			status:   selection.Status{Severity: selection.SeverityInfo, Text: "Added Orders"},
			jsonMode: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, errOut := captureOutput(t)
			jsonOutput = tt.jsonMode
			t.Cleanup(func() {
				jsonOutput = false
				reported = nil
			})

			printStatus(tt.status)

			if tt.wantOut == "" {
				assert.Empty(t, out.String())
			} else {
				assert.Contains(t, out.String(), tt.wantOut)
			}
			if tt.wantErr == "" {
				assert.Empty(t, errOut.String())
			} else {
				assert.Contains(t, errOut.String(), tt.wantErr)
			}
		})
	}
}

func TestPendingProblem(t *testing.T) {
	got := pendingProblem(engine.PendingInfo{Name: "9lives", Problem: naming.BadFormat.String()})
	assert.Equal(t, `"9lives": `+kindMessages[naming.BadFormat], got)

	got = pendingProblem(engine.PendingInfo{Name: "x", Problem: "Mystery"})
	assert.Equal(t, `"x": Mystery`, got)
}

func TestHomeBadge(t *testing.T) {
	assert.Equal(t, "Main", homeBadge("Main", false))
	assert.Contains(t, homeBadge("Main", true), "[home]")
}
