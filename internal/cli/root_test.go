package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandHasSubcommands(t *testing.T) {
	cmd := NewRootCommand()
	names := make([]string, 0)
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "dump")
	assert.Contains(t, names, "validate")
	assert.Contains(t, names, "convert")
}

func TestRootCommandRejectsInvalidFormat(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--format", "xml", "dump", "whatever.json"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(WrapExitError(ExitCommandError, "m", nil)))
	assert.Equal(t, ExitFailure, GetExitCode(assert.AnError))
}

func TestDetectEncoding(t *testing.T) {
	tests := []struct {
		path, flag, want string
	}{
		{"cases.json", "", EncodingJSON},
		{"cases.txt", "", EncodingJSON},
		{"cases.bson", "", EncodingBSON},
		{"cases.db", "", EncodingSQLite},
		{"cases.sqlite", "", EncodingSQLite},
		{"cases.sqlite3", "", EncodingSQLite},
		{"anything", "bson", EncodingBSON},
	}
	for _, tt := range tests {
		got, err := detectEncoding(tt.path, tt.flag)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "path %s flag %s", tt.path, tt.flag)
	}

	_, err := detectEncoding("x", "xml")
	assert.Error(t, err)
}
