package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrLoggingProviderRequired = errors.New("parsers config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("parsers config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("parsers config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("parsers config: logging format is invalid")

// ErrDialectUnknown rejects a default gomarkdown dialect the engine cannot resolve.
var ErrDialectUnknown = errors.New("parsers config: gomarkdown dialect is invalid")

// ErrMatterLanguageUnknown rejects a front matter language without a decoder.
var ErrMatterLanguageUnknown = errors.New("parsers config: matter language is invalid")

// ErrMatterDelimitersInvalid requires one or two non-empty delimiters.
var ErrMatterDelimitersInvalid = errors.New("parsers config: matter delimiters must hold one or two non-empty values")

// ErrCommandTimeoutInvalid rejects negative command timeouts.
var ErrCommandTimeoutInvalid = errors.New("parsers config: command timeout must be zero or positive")

// Config aggregates defaults for the adapters, the file cache, and logging.
type Config struct {
	Features    Features
	Logging     LoggingConfig
	Cache       CacheConfig
	Goldmark    GoldmarkConfig
	Gomarkdown  GomarkdownConfig
	Blackfriday BlackfridayConfig
	Matter      MatterConfig
	Commands    CommandsConfig
}

// Features toggles optional behaviour.
type Features struct {
	Logger bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// CacheConfig sets the value used when a call leaves the cache option unset.
type CacheConfig struct {
	Enabled bool
}

// GoldmarkConfig holds defaults for the goldmark adapter.
type GoldmarkConfig struct {
	Extensions []string
	HTML       bool
}

// GomarkdownConfig holds defaults for the gomarkdown adapter.
type GomarkdownConfig struct {
	Dialect string
}

// BlackfridayConfig holds defaults for the blackfriday adapter.
type BlackfridayConfig struct {
	GFM bool
}

// MatterConfig holds defaults for front matter extraction.
type MatterConfig struct {
	Language         string
	Delimiters       []string
	ExcerptSeparator string
}

// CommandsConfig captures command-layer behaviour.
type CommandsConfig struct {
	Timeout time.Duration
}

// DefaultConfig returns the defaults used when a host supplies nothing.
func DefaultConfig() Config {
	return Config{
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
		Goldmark: GoldmarkConfig{
			Extensions: []string{"table", "strikethrough", "footnote"},
		},
		Gomarkdown: GomarkdownConfig{
			Dialect: "gruber",
		},
		Blackfriday: BlackfridayConfig{
			GFM: true,
		},
		Matter: MatterConfig{
			Language:   "yaml",
			Delimiters: []string{"---", "---"},
		},
		Commands: CommandsConfig{
			Timeout: 30 * time.Second,
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if cfg.Features.Logger {
		provider := normalize(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	if dialect := normalize(cfg.Gomarkdown.Dialect); dialect != "" && !isSupportedDialect(dialect) {
		return fmt.Errorf("%w: %s", ErrDialectUnknown, cfg.Gomarkdown.Dialect)
	}
	if language := normalize(cfg.Matter.Language); language != "" && !isSupportedLanguage(language) {
		return fmt.Errorf("%w: %s", ErrMatterLanguageUnknown, cfg.Matter.Language)
	}
	if delims := cfg.Matter.Delimiters; delims != nil {
		if len(delims) == 0 || len(delims) > 2 {
			return ErrMatterDelimitersInvalid
		}
		for _, delim := range delims {
			if strings.TrimSpace(delim) == "" {
				return ErrMatterDelimitersInvalid
			}
		}
	}
	if cfg.Commands.Timeout < 0 {
		return ErrCommandTimeoutInvalid
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}

func isSupportedDialect(dialect string) bool {
	switch dialect {
	case "gruber", "maruku", "common":
		return true
	default:
		return false
	}
}

func isSupportedLanguage(language string) bool {
	switch language {
	case "yaml", "yml", "toml", "json":
		return true
	default:
		return false
	}
}
