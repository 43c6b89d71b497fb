package config

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "akkadia-ls.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func newFlags(t *testing.T, args ...string) *Flags {
	t.Helper()

	set := flag.NewFlagSet("akkadia-ls", flag.ContinueOnError)
	set.SetOutput(io.Discard)

	flags := BindFlags(set)
	require.NoError(t, set.Parse(args))

	return flags
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "error", cfg.Log.Level)
	assert.Empty(t, cfg.Log.File)
	assert.Equal(t, BackendSimple, cfg.Log.Backend)
	assert.False(t, cfg.Transport.TCP)
	assert.Equal(t, 8765, cfg.Transport.Port)
	assert.Equal(t, 200, cfg.Completion.MaxItems)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[log]
level = "debug"
file = "/tmp/akkadia.log"
backend = "zerolog"

[completion]
max_items = 50
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/akkadia.log", cfg.Log.File)
	assert.Equal(t, BackendZerolog, cfg.Log.Backend)
	assert.Equal(t, 50, cfg.Completion.MaxItems)

	// Sections missing from the file keep their defaults.
	assert.Equal(t, 8765, cfg.Transport.Port)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "[log\nlevel = 1"},
		{"unknown key", "[log]\ncolour = \"blue\""},
		{"wrong type", "[transport]\nport = \"eighty\""},
		{"bad level", "[log]\nlevel = \"loud\""},
		{"bad backend", "[log]\nbackend = \"syslog\""},
		{"bad port", "[transport]\nport = 70000"},
		{"negative max items", "[completion]\nmax_items = -1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestVerbosity(t *testing.T) {
	tests := map[string]int{
		"debug":   2,
		"info":    1,
		"notice":  0,
		"warn":    -1,
		"Warning": -1,
		"ERROR":   -2,
	}

	for level, want := range tests {
		got, err := Verbosity(level)
		require.NoError(t, err, level)
		assert.Equal(t, want, got, level)
	}

	_, err := Verbosity("trace")
	assert.Error(t, err)
}

func TestFlags_Precedence(t *testing.T) {
	path := writeConfig(t, `
[log]
level = "info"

[transport]
tcp = true
port = 9000
`)

	t.Run("file over defaults", func(t *testing.T) {
		cfg, err := newFlags(t, "-config", path).Resolve()
		require.NoError(t, err)

		assert.Equal(t, "info", cfg.Log.Level)
		assert.True(t, cfg.Transport.TCP)
		assert.Equal(t, 9000, cfg.Transport.Port)
	})

	t.Run("explicit flags over file", func(t *testing.T) {
		cfg, err := newFlags(t, "-config", path, "-port", "9100", "-tcp=false", "-max-completion-items", "7").Resolve()
		require.NoError(t, err)

		assert.Equal(t, "info", cfg.Log.Level, "unset flag keeps the file value")
		assert.False(t, cfg.Transport.TCP)
		assert.Equal(t, 9100, cfg.Transport.Port)
		assert.Equal(t, 7, cfg.Completion.MaxItems)
	})

	t.Run("flags without file", func(t *testing.T) {
		cfg, err := newFlags(t, "-log-level", "debug", "-log-file", "/tmp/x.log", "-log-backend", "zerolog").Resolve()
		require.NoError(t, err)

		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "/tmp/x.log", cfg.Log.File)
		assert.Equal(t, BackendZerolog, cfg.Log.Backend)
		assert.Equal(t, 8765, cfg.Transport.Port)
	})

	t.Run("invalid flag value", func(t *testing.T) {
		_, err := newFlags(t, "-log-level", "loud").Resolve()
		assert.Error(t, err)
	})
}
