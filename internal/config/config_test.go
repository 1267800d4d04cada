package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nfa2dfa.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverlaysFile(t *testing.T) {
	path := writeFile(t, `
log:
  level: debug
server:
  shutdown_timeout: 10s
editor:
  alphabet: [x]
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format, "unset keys keep defaults")
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, []string{"x"}, cfg.Editor.Alphabet)
	assert.Equal(t, []string{"ε", "x"}, cfg.Alphabet())
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeFile(t, "server:\n  addr: \":9000\"\n")
	t.Setenv("NFA2DFA_SERVER_ADDR", "127.0.0.1:7000")
	t.Setenv("NFA2DFA_SERVER_MAX_SESSIONS", "3")
	t.Setenv("NFA2DFA_EDITOR_ALPHABET", "0, 1")
	t.Setenv("NFA2DFA_LOG_FORMAT", "json")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:7000", cfg.Server.Addr)
	assert.Equal(t, 3, cfg.Server.MaxSessions)
	assert.Equal(t, []string{"0", "1"}, cfg.Editor.Alphabet)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "log: [unclosed"},
		{"unknown key", "log:\n  colour: red\n"},
		{"bad level", "log:\n  level: loud\n"},
		{"bad format", "log:\n  format: xml\n"},
		{"zero sessions", "server:\n  max_sessions: 0\n"},
		{"negative undo", "editor:\n  undo_levels: -1\n"},
		{"epsilon in alphabet", "editor:\n  alphabet: [ε]\n"},
		{"duplicate symbol", "editor:\n  alphabet: [a, a]\n"},
		{"bad symbol", "editor:\n  alphabet: [\"a|b\"]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestValidateDefault(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestApplyEnvCreatesSections(t *testing.T) {
	raw := map[string]any{}
	env := map[string]string{"NFA2DFA_LOG_LEVEL": "warn"}
	applyEnv(raw, func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	assert.Equal(t, map[string]any{"log": map[string]any{"level": "warn"}}, raw)
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, ".nfa2dfa.yaml", filepath.Base(DefaultPath()))
}
