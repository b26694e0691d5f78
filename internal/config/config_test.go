package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/seqalign/align"
)

// writeFile writes body to a temp YAML file and returns its path.
func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seqalign.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

// TestDefault_IsValid checks the built-in defaults pass validation.
func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, align.Global, cfg.Align.AlignMode())
	assert.Equal(t, align.DefaultScoring(), cfg.Align.Scoring())
	assert.Equal(t, '-', cfg.Align.Marker())
	assert.True(t, cfg.Align.RequireNonEmpty)
	assert.Len(t, cfg.Align.Options(), 3)
}

// TestLoad_YAMLOverlay checks file values override defaults and untouched
// keys keep their defaults.
func TestLoad_YAMLOverlay(t *testing.T) {
	path := writeFile(t, `
align:
  mode: local
  match: 2
  gap: -1
  gap_marker: "."
  require_non_empty: false
log:
  level: debug
server:
  addr: ":9090"
  read_timeout: 5s
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, align.Local, cfg.Align.AlignMode())
	assert.Equal(t, align.Scoring{Match: 2, Mismatch: -1, Gap: -1}, cfg.Align.Scoring())
	assert.Equal(t, '.', cfg.Align.Marker())
	assert.False(t, cfg.Align.RequireNonEmpty)
	assert.Len(t, cfg.Align.Options(), 2)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout, "default kept")
}

// TestLoad_EmptyFile checks an empty document keeps defaults.
func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeFile(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

// TestLoad_UnknownKey checks typos in the file are reported.
func TestLoad_UnknownKey(t *testing.T) {
	_, err := Load(writeFile(t, "align:\n  mach: 3\n"))
	assert.Error(t, err)
}

// TestLoad_MissingFile checks a missing path is an error.
func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// TestLoad_EnvOverridesFile checks environment has the highest priority.
func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "align:\n  mode: global\n  match: 2\n")
	t.Setenv("SEQALIGN_MODE", "Local (Smith-Waterman)")
	t.Setenv("SEQALIGN_MATCH", "5")
	t.Setenv("SEQALIGN_MAX_CELLS", "100")
	t.Setenv("SEQALIGN_REQUIRE_NON_EMPTY", "no")
	t.Setenv("SEQALIGN_LOG_DEVELOPMENT", "YES")
	t.Setenv("SEQALIGN_METRICS_ENABLED", "false")
	t.Setenv("SEQALIGN_HOT_RELOAD", "1")
	t.Setenv("SEQALIGN_SERVER_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, align.Local, cfg.Align.AlignMode())
	assert.Equal(t, 5, cfg.Align.Match)
	assert.Equal(t, 100, cfg.Align.MaxCells)
	assert.False(t, cfg.Align.RequireNonEmpty)
	assert.True(t, cfg.Log.Development)
	assert.False(t, cfg.Metrics.Enabled)
	assert.True(t, cfg.HotReload)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

// TestApplyEnv_BadNumber checks malformed integers are reported, not ignored.
func TestApplyEnv_BadNumber(t *testing.T) {
	env := map[string]string{"SEQALIGN_GAP": "minus-two", "SEQALIGN_MATCH": "x"}
	err := applyEnv(Default(), func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SEQALIGN_GAP")
	assert.Contains(t, err.Error(), "SEQALIGN_MATCH")
}

// TestValidate_Failures checks each tag reports through ErrInvalidConfig.
func TestValidate_Failures(t *testing.T) {
	cases := map[string]func(*Config){
		"mode":         func(c *Config) { c.Align.Mode = "semi-global" },
		"gap_marker":   func(c *Config) { c.Align.GapMarker = "--" },
		"space":        func(c *Config) { c.Align.GapMarker = " " },
		"max_cells":    func(c *Config) { c.Align.MaxCells = -1 },
		"level":        func(c *Config) { c.Log.Level = "trace" },
		"addr":         func(c *Config) { c.Server.Addr = "" },
		"timeout":      func(c *Config) { c.Server.ReadTimeout = 0 },
		"body":         func(c *Config) { c.Server.MaxBodyBytes = 0 },
		"origins":      func(c *Config) { c.Server.AllowedOrigins = []string{""} },
		"metrics_ns":   func(c *Config) { c.Metrics.Namespace = "seq-align" },
		"empty_marker": func(c *Config) { c.Align.GapMarker = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			err := cfg.Validate()
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

// TestValidate_Messages checks the formatted messages name the field.
func TestValidate_Messages(t *testing.T) {
	cfg := Default()
	cfg.Align.Mode = "both"
	cfg.Log.Level = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config.align.mode must be global or local")
	assert.Contains(t, err.Error(), "config.log.level must be one of: debug info warn error")
}
