// Package config holds the server configuration. Settings come from built-in
// defaults, an optional TOML file and command-line flags, in increasing order
// of precedence.
package config

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Log backends.
const (
	BackendSimple  = "simple"
	BackendZerolog = "zerolog"
)

// Config is the complete server configuration.
type Config struct {
	Log        LogConfig        `toml:"log"`
	Transport  TransportConfig  `toml:"transport"`
	Completion CompletionConfig `toml:"completion"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, notice, warn or error
	Level string `toml:"level"`

	// File is the log file path; empty means stderr
	File string `toml:"file"`

	// Backend is "simple" for plain text lines or "zerolog" for structured
	// output
	Backend string `toml:"backend"`
}

// TransportConfig selects how the client connects.
type TransportConfig struct {
	// TCP serves a single client over TCP instead of stdio
	TCP bool `toml:"tcp"`

	Port int `toml:"port"`
}

// CompletionConfig tunes completion results.
type CompletionConfig struct {
	MaxItems int `toml:"max_items"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:   "error",
			Backend: BackendSimple,
		},
		Transport: TransportConfig{
			Port: 8765,
		},
		Completion: CompletionConfig{
			MaxItems: 200,
		},
	}
}

// Load reads the TOML file at path over the defaults. Unknown keys are
// rejected so typos do not go unnoticed.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("config file %s: %s", path, strict.String())
		}

		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	if _, err := Verbosity(c.Log.Level); err != nil {
		return err
	}

	switch c.Log.Backend {
	case BackendSimple, BackendZerolog:
	default:
		return fmt.Errorf("unknown log backend %q", c.Log.Backend)
	}

	if c.Transport.Port < 1 || c.Transport.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Transport.Port)
	}

	if c.Completion.MaxItems < 0 {
		return fmt.Errorf("negative completion max_items %d", c.Completion.MaxItems)
	}

	return nil
}

// Verbosity maps a level name to the verbosity understood by commonlog.
func Verbosity(level string) (int, error) {
	switch strings.ToLower(level) {
	case "debug":
		return 2, nil
	case "info":
		return 1, nil
	case "notice":
		return 0, nil
	case "warn", "warning":
		return -1, nil
	case "error":
		return -2, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", level)
	}
}

// Flags are the command-line flags that override the configuration file.
type Flags struct {
	ConfigPath string

	set      *flag.FlagSet
	tcp      bool
	port     int
	logLevel string
	logFile  string
	backend  string
	maxItems int
}

// BindFlags registers the configuration flags on set.
func BindFlags(set *flag.FlagSet) *Flags {
	def := Default()
	f := &Flags{set: set}

	set.StringVar(&f.ConfigPath, "config", "", "Path to a TOML configuration file")
	set.BoolVar(&f.tcp, "tcp", def.Transport.TCP, "Serve one client over TCP instead of stdio")
	set.IntVar(&f.port, "port", def.Transport.Port, "TCP port to listen on (used with -tcp)")
	set.StringVar(&f.logLevel, "log-level", def.Log.Level, "Log level: debug, info, notice, warn, error")
	set.StringVar(&f.logFile, "log-file", def.Log.File, "Log file path (default: stderr)")
	set.StringVar(&f.backend, "log-backend", def.Log.Backend, "Log backend: simple or zerolog")
	set.IntVar(&f.maxItems, "max-completion-items", def.Completion.MaxItems, "Maximum number of completion items")

	return f
}

// Resolve loads the configuration file named by -config, if any, and applies
// the flags that were set explicitly on top of it.
func (f *Flags) Resolve() (*Config, error) {
	cfg := Default()

	if f.ConfigPath != "" {
		loaded, err := Load(f.ConfigPath)
		if err != nil {
			return nil, err
		}

		cfg = loaded
	}

	f.set.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "tcp":
			cfg.Transport.TCP = f.tcp
		case "port":
			cfg.Transport.Port = f.port
		case "log-level":
			cfg.Log.Level = f.logLevel
		case "log-file":
			cfg.Log.File = f.logFile
		case "log-backend":
			cfg.Log.Backend = f.backend
		case "max-completion-items":
			cfg.Completion.MaxItems = f.maxItems
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
