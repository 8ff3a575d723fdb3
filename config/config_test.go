package config

import (
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/panyam/splcheck/decl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/fs"
)

const sampleConfig = `
types:
  - Voltage
  - units.Current
widenings:
  - from: integer
    to: Voltage
maxErrors: 20
parallelism: 4
color: false
logLevel: debug
`

func TestLoadFile(t *testing.T) {
	dir := fs.NewDir(t, "splcheck-config", fs.WithFile("splcheck.yaml", sampleConfig))
	cfg, err := Load(dir.Join("splcheck.yaml"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Voltage", "units.Current"}, cfg.Types)
	assert.Equal(t, []decl.Widening{{From: "integer", To: "Voltage"}}, cfg.Widenings)
	assert.Equal(t, 20, cfg.MaxErrors)
	assert.Equal(t, 4, cfg.Parallelism)
	require.NotNil(t, cfg.Color)
	assert.False(t, *cfg.Color)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, cfg.Level())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load("/does/not/exist.yaml")
	assert.ErrorContains(t, err, "config: open")

	_, err = Parse(strings.NewReader("unknownKey: 1"))
	assert.ErrorContains(t, err, "unknownKey")

	_, err = Parse(strings.NewReader("maxErrors: -1\nlogLevel: loud"))
	assert.ErrorContains(t, err, "maxErrors cannot be negative")
	assert.ErrorContains(t, err, `unknown log level "loud"`)

	_, err = Parse(strings.NewReader("widenings:\n  - from: integer"))
	assert.ErrorContains(t, err, "needs both from and to")
}

func TestApply(t *testing.T) {
	cfg, err := Parse(strings.NewReader(sampleConfig))
	require.NoError(t, err)
	ts, err := cfg.TypeSystem()
	require.NoError(t, err)

	voltage, ok := ts.Lookup("Voltage")
	require.True(t, ok)
	assert.True(t, ts.IsCompatible(voltage, decl.IntegerType))
	assert.False(t, ts.IsCompatible(decl.IntegerType, voltage))
	_, ok = ts.Lookup("units.Current")
	assert.True(t, ok)

	bad := &Config{Widenings: []decl.Widening{{From: "integer", To: "Missing"}}}
	assert.ErrorContains(t, bad.Apply(decl.NewTypeSystem()), "unknown type 'Missing'")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("SPLCHECK_MAX_ERRORS", "5")
	t.Setenv("SPLCHECK_PARALLELISM", "2")
	t.Setenv("SPLCHECK_COLOR", "true")
	t.Setenv("SPLCHECK_STRICT", "1")
	t.Setenv("SPLCHECK_LOG_LEVEL", "error")
	t.Setenv("SPLCHECK_TYPES", "Voltage, Current")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, 5, cfg.MaxErrors)
	assert.Equal(t, 2, cfg.Parallelism)
	assert.True(t, *cfg.Color)
	assert.True(t, cfg.Strict)
	assert.Equal(t, slog.LevelError, cfg.Level())
	assert.Equal(t, []string{"Voltage", "Current"}, cfg.Types)

	t.Setenv("SPLCHECK_MAX_ERRORS", "many")
	assert.ErrorContains(t, Default().ApplyEnv(), "SPLCHECK_MAX_ERRORS")
}

func TestLoadEnv(t *testing.T) {
	dir := fs.NewDir(t, "splcheck-env", fs.WithFile(".env", "SPLCHECK_TEST_VALUE=from-dotenv\n"))
	t.Setenv("SPLCHECK_TEST_VALUE", "")
	os.Unsetenv("SPLCHECK_TEST_VALUE")

	require.NoError(t, LoadEnv(dir.Join("missing.env")))
	require.NoError(t, LoadEnv(dir.Join(".env")))
	assert.Equal(t, "from-dotenv", os.Getenv("SPLCHECK_TEST_VALUE"))
}
