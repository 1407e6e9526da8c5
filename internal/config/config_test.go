package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	v := NewViper("")
	v.SetConfigName("eventbridge-test-missing")
	v.AddConfigPath(dir)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "eventbridge.yaml")
	data := []byte(`
log:
  level: debug
  format: json
script:
  timeout: 250ms
  debug: true
history:
  max_states: 10
colorbar:
  fg_color: "#ff0000"
  bg_color: "#00f"
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(NewViper(path))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "stderr", cfg.Log.Output)
	assert.Equal(t, 250*time.Millisecond, cfg.Script.Timeout)
	assert.True(t, cfg.Script.Debug)
	assert.Equal(t, 10, cfg.History.MaxStates)
	assert.Equal(t, "#ff0000", cfg.ColorBar.FgColor)
}

func TestLoadInvalidColor(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "eventbridge.toml")
	require.NoError(t, os.WriteFile(path, []byte("[colorbar]\nfg_color = \"red\"\n"), 0o644))

	_, err := Load(NewViper(path))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidColor)

	var se *SettingError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, PathFgColor, se.Path)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Log.Format = "xml"
	assert.ErrorIs(t, cfg.Validate(), ErrValidationFailed)

	cfg = Default()
	cfg.Script.Timeout = -time.Second
	assert.ErrorIs(t, cfg.Validate(), ErrValidationFailed)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("EVENTBRIDGE_HISTORY_MAX_STATES", "7")

	dir := t.TempDir()
	v := NewViper("")
	v.AddConfigPath(dir)

	cfg, err := Decode(v)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.History.MaxStates)
}
