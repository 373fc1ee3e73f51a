package runtimeconfig_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-parsers/internal/runtimeconfig"
)

func TestConfigValidate_DefaultsAreValid(t *testing.T) {
	if err := runtimeconfig.DefaultConfig().Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidate_ZeroValueIsValid(t *testing.T) {
	if err := (runtimeconfig.Config{}).Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidate_RequiresLoggingProviderWhenFeatureEnabled(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = ""

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrLoggingProviderRequired) {
		t.Fatalf("expected ErrLoggingProviderRequired, got %v", err)
	}
}

func TestConfigValidate_RejectsUnknownLoggingProvider(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "syslog"

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}
}

func TestConfigValidate_RejectsInvalidLoggingLevel(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Level = "loud"

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrLoggingLevelInvalid) {
		t.Fatalf("expected ErrLoggingLevelInvalid, got %v", err)
	}
}

func TestConfigValidate_RejectsInvalidLoggingFormat(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = "xml"

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid, got %v", err)
	}
}

func TestConfigValidate_BackendDefaults(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*runtimeconfig.Config)
		want   error
	}{
		{
			name:   "unknown dialect",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Gomarkdown.Dialect = "setext" },
			want:   runtimeconfig.ErrDialectUnknown,
		},
		{
			name:   "unknown matter language",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Matter.Language = "ini" },
			want:   runtimeconfig.ErrMatterLanguageUnknown,
		},
		{
			name:   "empty delimiter",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Matter.Delimiters = []string{"---", " "} },
			want:   runtimeconfig.ErrMatterDelimitersInvalid,
		},
		{
			name:   "too many delimiters",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Matter.Delimiters = []string{"a", "b", "c"} },
			want:   runtimeconfig.ErrMatterDelimitersInvalid,
		},
		{
			name:   "negative command timeout",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Commands.Timeout = -1 },
			want:   runtimeconfig.ErrCommandTimeoutInvalid,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestConfigValidate_AcceptsKnownDialectsCaseInsensitively(t *testing.T) {
	for _, dialect := range []string{"Gruber", "maruku", " COMMON "} {
		cfg := runtimeconfig.DefaultConfig()
		cfg.Gomarkdown.Dialect = dialect
		if err := cfg.Validate(); err != nil {
			t.Fatalf("dialect %q: unexpected error %v", dialect, err)
		}
	}
}
