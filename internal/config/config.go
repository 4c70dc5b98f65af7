// Package config loads the optional block.yaml project file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"

	"block-lang/internal/ast"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "block.yaml"

// ErrConfigValidation is returned when a loaded configuration holds an unusable value.
var ErrConfigValidation = errors.New("configuration validation failed")

// Config is the whole project configuration.
type Config struct {
	Parser ParserConfig `yaml:"parser"`
	Target TargetConfig `yaml:"target"`
	Output OutputConfig `yaml:"output"`
	Log    LogConfig    `yaml:"log"`
}

// ParserConfig controls the surface syntax.
type ParserConfig struct {
	IndentStep int `yaml:"indent_step"`
}

// TargetConfig describes the machine code is generated for.
type TargetConfig struct {
	PointerBits int `yaml:"pointer_bits"`
}

// OutputConfig controls how the CLI prints.
type OutputConfig struct {
	Color  string `yaml:"color"`  // auto, always or never
	Format string `yaml:"format"` // text or json
}

// LogConfig sets the minimum level of the CLI's log output.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	c := &Config{}
	applyDefaults(c)
	return c
}

// Load reads the configuration at path. A .env file next to it is loaded into the
// environment first, and ${VAR} references in the file are replaced by their values.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if err := loadEnvFile(filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, fmt.Errorf("failed to load environment file: %w", err)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a configuration document. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	var c Config
	if err := yaml.UnmarshalWithOptions([]byte(expandEnvVars(string(data))), &c, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	applyDefaults(&c)
	if err := validate(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func applyDefaults(c *Config) {
	if c.Parser.IndentStep == 0 {
		c.Parser.IndentStep = ast.DefaultIndentStep
	}
	if c.Target.PointerBits == 0 {
		c.Target.PointerBits = 64
	}
	if c.Output.Color == "" {
		c.Output.Color = "auto"
	}
	if c.Output.Format == "" {
		c.Output.Format = "text"
	}
	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
}

func validate(c *Config) error {
	if c.Parser.IndentStep < 1 || c.Parser.IndentStep > 16 {
		return fmt.Errorf("%w: parser.indent_step must be between 1 and 16, got %d", ErrConfigValidation, c.Parser.IndentStep)
	}
	if c.Target.PointerBits != 32 && c.Target.PointerBits != 64 {
		return fmt.Errorf("%w: target.pointer_bits must be 32 or 64, got %d", ErrConfigValidation, c.Target.PointerBits)
	}
	switch c.Output.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("%w: output.color '%s' is invalid: must be one of auto, always, never", ErrConfigValidation, c.Output.Color)
	}
	switch c.Output.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: output.format '%s' is invalid: must be one of text, json", ErrConfigValidation, c.Output.Format)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %w", ErrConfigValidation, err)
	}
	return nil
}

// LogLevel returns the configured slog level.
func (c *Config) LogLevel() slog.Level {
	level, _ := parseLevel(c.Log.Level)
	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelWarn, fmt.Errorf("'%s' is invalid: must be one of debug, info, warn, error", s)
	}
	return level, nil
}

// ColorEnabled resolves the color mode; tty reports whether the output is a terminal.
func (c *Config) ColorEnabled(tty bool) bool {
	switch c.Output.Color {
	case "always":
		return true
	case "never":
		return false
	default:
		return tty
	}
}

func loadEnvFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return godotenv.Load(path)
}

var envVar = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

func expandEnvVars(s string) string {
	return envVar.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})
}
