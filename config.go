package parsers

import "github.com/goliatone/go-parsers/internal/runtimeconfig"

var (
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
	ErrDialectUnknown          = runtimeconfig.ErrDialectUnknown
	ErrMatterLanguageUnknown   = runtimeconfig.ErrMatterLanguageUnknown
	ErrMatterDelimitersInvalid = runtimeconfig.ErrMatterDelimitersInvalid
	ErrCommandTimeoutInvalid   = runtimeconfig.ErrCommandTimeoutInvalid
)

type (
	Config            = runtimeconfig.Config
	Features          = runtimeconfig.Features
	LoggingConfig     = runtimeconfig.LoggingConfig
	CacheConfig       = runtimeconfig.CacheConfig
	GoldmarkConfig    = runtimeconfig.GoldmarkConfig
	GomarkdownConfig  = runtimeconfig.GomarkdownConfig
	BlackfridayConfig = runtimeconfig.BlackfridayConfig
	MatterConfig      = runtimeconfig.MatterConfig
	CommandsConfig    = runtimeconfig.CommandsConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
