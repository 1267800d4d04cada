// Package config loads nfa2dfa settings from ~/.nfa2dfa.yaml and
// NFA2DFA_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/ha1tch/nfa2dfa/internal/logging"
	"github.com/ha1tch/nfa2dfa/pkg/nfa"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all settings.
type Config struct {
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
	Server ServerConfig `mapstructure:"server" yaml:"server"`
	Editor EditorConfig `mapstructure:"editor" yaml:"editor"`
}

// LogConfig controls the application logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format"` // text or json
}

// ServerConfig controls the HTTP session API.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" yaml:"addr"`
	MaxSessions     int           `mapstructure:"max_sessions" yaml:"max_sessions"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// EditorConfig holds defaults for new editing sessions.
type EditorConfig struct {
	Alphabet   []string `mapstructure:"alphabet" yaml:"alphabet"` // symbols besides epsilon
	UndoLevels int      `mapstructure:"undo_levels" yaml:"undo_levels"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			MaxSessions:     100,
			ShutdownTimeout: 5 * time.Second,
		},
		Editor: EditorConfig{
			Alphabet:   []string{"a", "b"},
			UndoLevels: 50,
		},
	}
}

// DefaultPath returns the path to the config file.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".nfa2dfa.yaml"
	}
	return filepath.Join(home, ".nfa2dfa.yaml")
}

// envKeys maps environment variables to config keys.
var envKeys = map[string][2]string{
	"NFA2DFA_LOG_LEVEL":               {"log", "level"},
	"NFA2DFA_LOG_FORMAT":              {"log", "format"},
	"NFA2DFA_SERVER_ADDR":             {"server", "addr"},
	"NFA2DFA_SERVER_MAX_SESSIONS":     {"server", "max_sessions"},
	"NFA2DFA_SERVER_SHUTDOWN_TIMEOUT": {"server", "shutdown_timeout"},
	"NFA2DFA_EDITOR_ALPHABET":         {"editor", "alphabet"},
	"NFA2DFA_EDITOR_UNDO_LEVELS":      {"editor", "undo_levels"},
}

// Load reads the YAML file at path over the defaults, applies
// environment overrides and validates the result. A missing file is not
// an error.
func Load(path string) (Config, error) {
	raw := make(map[string]any)

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if raw == nil {
			raw = make(map[string]any)
		}
	case os.IsNotExist(err):
	default:
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	applyEnv(raw, os.LookupEnv)

	cfg := Default()
	if err := decode(raw, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(raw map[string]any, lookup func(string) (string, bool)) {
	for env, key := range envKeys {
		v, ok := lookup(env)
		if !ok {
			continue
		}
		section, _ := raw[key[0]].(map[string]any)
		if section == nil {
			section = make(map[string]any)
			raw[key[0]] = section
		}
		section[key[1]] = v
	}
}

func decode(raw map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		ZeroFields:       true,
		ErrorUnused:      true,
		Result:           cfg,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	for i, sym := range cfg.Editor.Alphabet {
		cfg.Editor.Alphabet[i] = strings.TrimSpace(sym)
	}
	return nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if _, ok := logging.ParseLevel(c.Log.Level); !ok {
		return fmt.Errorf("%w: log.level %q", ErrInvalid, c.Log.Level)
	}
	if f := strings.ToLower(c.Log.Format); f != "text" && f != "json" {
		return fmt.Errorf("%w: log.format %q (want text or json)", ErrInvalid, c.Log.Format)
	}
	if c.Server.MaxSessions <= 0 {
		return fmt.Errorf("%w: server.max_sessions must be positive", ErrInvalid)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: server.shutdown_timeout must be positive", ErrInvalid)
	}
	if c.Editor.UndoLevels < 0 {
		return fmt.Errorf("%w: editor.undo_levels must not be negative", ErrInvalid)
	}
	r := nfa.NewRegistry()
	for _, sym := range c.Editor.Alphabet {
		if err := r.AddSymbol(sym); err != nil {
			return fmt.Errorf("%w: editor.alphabet: %v", ErrInvalid, err)
		}
	}
	return nil
}

// Alphabet returns the editor alphabet with epsilon first.
func (c Config) Alphabet() []string {
	return append([]string{nfa.Epsilon}, c.Editor.Alphabet...)
}
