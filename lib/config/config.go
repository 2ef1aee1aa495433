// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Environment represents the deployment environment.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Containment selects how engine paths are joined onto the data
// directory.
type Containment string

const (
	// Relay joins paths as written, without normalization.
	Relay Containment = "relay"
	// Strict cleans joined paths and refuses any that leave the data
	// directory.
	Strict Containment = "strict"
)

// Signal capabilities accepted in Config.Signals.
const (
	SignalsEmulated = "emulated"
	SignalsNative   = "native"
)

// Config is the host configuration.
type Config struct {
	Environment Environment `yaml:"environment"`

	// DataDir is the virtual root: the one directory the engine's
	// filesystem calls are confined to. Must be absolute.
	DataDir string `yaml:"data_dir"`

	// Bootstrap forces the engine into bootstrap processing mode before
	// its startup code runs.
	Bootstrap bool `yaml:"bootstrap"`

	// Containment is "relay" (default outside production) or "strict".
	Containment Containment `yaml:"containment"`

	// Signals is "emulated" (default) or "native".
	Signals string `yaml:"signals"`

	Trace TraceConfig `yaml:"trace"`
	Log   LogConfig   `yaml:"log"`

	Development *Overrides `yaml:"development,omitempty"`
	Staging     *Overrides `yaml:"staging,omitempty"`
	Production  *Overrides `yaml:"production,omitempty"`
}

// TraceConfig configures the filesystem trace stream.
type TraceConfig struct {
	// File receives a CBOR trace record per shim call. Empty disables
	// the file; records still go to the log at trace level. A ".zst"
	// suffix compresses the stream.
	File string `yaml:"file"`
}

// LogConfig configures host logging.
type LogConfig struct {
	// Level is one of trace, debug, info, warn, error. Default info.
	Level string `yaml:"level"`
}

// Overrides holds the fields an environment section may override.
type Overrides struct {
	DataDir     string       `yaml:"data_dir,omitempty"`
	Bootstrap   *bool        `yaml:"bootstrap,omitempty"`
	Containment Containment  `yaml:"containment,omitempty"`
	Signals     string       `yaml:"signals,omitempty"`
	Trace       *TraceConfig `yaml:"trace,omitempty"`
	Log         *LogConfig   `yaml:"log,omitempty"`
}

// Default returns the configuration every file is merged onto.
func Default() *Config {
	return &Config{
		Environment: Development,
		Containment: Relay,
		Signals:     SignalsEmulated,
		Log:         LogConfig{Level: "info"},
	}
}

// Load loads the file named by PGLITE_CONFIG. It fails when the variable
// is unset.
func Load() (*Config, error) {
	path := os.Getenv("PGLITE_CONFIG")
	if path == "" {
		return nil, fmt.Errorf("PGLITE_CONFIG environment variable not set; " +
			"set it to the path of your pglite.yaml config file, or use --config flag")
	}
	return LoadFile(path)
}

// LoadFile loads configuration from path, applies the environment
// section and expands path variables. It does not validate; call
// Validate once command-line overrides have been applied.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		// YAML 1.2 is a superset of JSON, so the stripped document goes
		// through the same decoder and the same struct tags.
		data = jsonc.ToJSON(data)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvironmentOverrides() {
	var overrides *Overrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
		if overrides == nil {
			overrides = &Overrides{Containment: Strict}
		} else if overrides.Containment == "" {
			overrides.Containment = Strict
		}
	}

	if overrides == nil {
		return
	}

	if overrides.DataDir != "" {
		c.DataDir = overrides.DataDir
	}
	if overrides.Bootstrap != nil {
		c.Bootstrap = *overrides.Bootstrap
	}
	if overrides.Containment != "" {
		c.Containment = overrides.Containment
	}
	if overrides.Signals != "" {
		c.Signals = overrides.Signals
	}
	if overrides.Trace != nil && overrides.Trace.File != "" {
		c.Trace.File = overrides.Trace.File
	}
	if overrides.Log != nil && overrides.Log.Level != "" {
		c.Log.Level = overrides.Log.Level
	}
}

func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.DataDir = expandVars(c.DataDir, vars)
	vars["PGLITE_DATA"] = c.DataDir
	c.Trace.File = expandVars(c.Trace.File, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	switch {
	case c.DataDir == "":
		errs = append(errs, errors.New("data_dir is required"))
	case !filepath.IsAbs(c.DataDir):
		errs = append(errs, fmt.Errorf("data_dir must be absolute, got %q", c.DataDir))
	}

	if c.Containment != Relay && c.Containment != Strict {
		errs = append(errs, fmt.Errorf("containment must be one of: [%s %s], got %q", Relay, Strict, c.Containment))
	}

	if c.Signals != SignalsEmulated && c.Signals != SignalsNative {
		errs = append(errs, fmt.Errorf("signals must be one of: [%s %s], got %q", SignalsEmulated, SignalsNative, c.Signals))
	}

	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// levelTrace sits below slog.LevelDebug; it is the level engine DEBUG1
// reports and shim trace records are logged at.
const levelTrace = slog.LevelDebug - 4

// LogLevel returns the slog level for Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	switch c.Log.Level {
	case "trace":
		return levelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("log.level must be one of: [trace debug info warn error], got %q", c.Log.Level)
	}
}

// StrictContainment reports whether Containment is Strict.
func (c *Config) StrictContainment() bool { return c.Containment == Strict }

// EnsureDataDir creates the data directory if it does not exist, with
// permissions the engine accepts for a data directory (0700).
func (c *Config) EnsureDataDir() error {
	if err := os.MkdirAll(c.DataDir, 0o700); err != nil {
		return fmt.Errorf("creating data directory %s: %w", c.DataDir, err)
	}
	return nil
}
