package recorder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recorder.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
sink: cases.json
format: json
indent: 2
sort_keys: false
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "cases.json", cfg.Sink)
	assert.Equal(t, "json", cfg.Format)
	require.NotNil(t, cfg.Indent)
	assert.Equal(t, 2, *cfg.Indent)
	require.NotNil(t, cfg.SortKeys)
	assert.False(t, *cfg.SortKeys)
}

func TestLoadConfigDefaultFormat(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `sink: stdout`))
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)
}

func TestLoadConfigInvalidFormat(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `format: xml`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestLoadConfigNegativeIndent(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "format: json\nindent: -1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "indent")
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestConfigNew(t *testing.T) {
	cfg := &Config{Sink: "", Format: "json"}
	rec, err := cfg.New(nil)
	require.NoError(t, err)
	_, ok := rec.(*JSONRecorder)
	assert.True(t, ok)

	cfg.Format = "bson"
	rec, err = cfg.New(nil)
	require.NoError(t, err)
	_, ok = rec.(*BSONRecorder)
	assert.True(t, ok)
}

func TestConfigNewSQLiteNotHere(t *testing.T) {
	cfg := &Config{Format: "sqlite"}
	_, err := cfg.New(nil)
	assert.Error(t, err)
}
