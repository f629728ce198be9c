package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Help(t *testing.T) {
	out, _, err := run(t, "--help")
	require.NoError(t, err)

	assert.Contains(t, out, "appcomposer")
	assert.Contains(t, out, "Session Lifecycle:")
	assert.Contains(t, out, "Composition:")
	assert.Contains(t, out, "Editing:")
}

func TestRootCommand_Version(t *testing.T) {
	SetVersion("1.2.3")
	t.Cleanup(func() { SetVersion("dev") })

	out, _, err := run(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "1.2.3")

	out, _, err = run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3\n", out)
}

func TestRootCommand_InvalidCommand(t *testing.T) {
	_, _, err := run(t, "invalid-command")
	assert.Error(t, err)
}

func TestSetVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		want    string
	}{
		{"normal version", "1.2.3", "1.2.3"},
		{"empty version", "", "1.2.3"}, // unchanged
		{"dev version", "dev", "dev"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetVersion(tt.version)
			assert.Equal(t, tt.want, rootCmd.Version)
		})
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	subcommands := [][]string{
		{"init"}, {"status"}, {"reset"}, {"export"},
		{"session", "ls"}, {"session", "rm"},
		{"catalog"}, {"add"}, {"name"}, {"save"}, {"cancel"}, {"rm"},
		{"rename"}, {"home"}, {"move"},
		{"completion", "bash"},
	}

	for _, path := range subcommands {
		t.Run(strings.Join(path, " "), func(t *testing.T) {
			subCmd, _, err := rootCmd.Find(path)
			require.NoError(t, err)
			require.NotNil(t, subCmd)
			assert.Equal(t, path[len(path)-1], subCmd.Name())
		})
	}
}

func TestCompletion(t *testing.T) {
	out, _, err := run(t, "completion", "bash")
	require.NoError(t, err)
	assert.True(t, bytes.Contains([]byte(out), []byte("appcomposer")))
}
