package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-parsers/pkg/interfaces"
)

const (
	rootModule      = "parsers"
	dispatchModule  = "parsers.dispatch"
	fileCacheModule = "parsers.filecache"
	registryModule  = "parsers.registry"
	backendsModule  = "parsers.backends"
)

const (
	fieldBackend   = "backend"
	fieldMode      = "mode"
	fieldPath      = "path"
	fieldRequestID = "request_id"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(map[string]any{
			"module": module,
		})
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// DispatchLogger returns the logger namespace reserved for adapter dispatch.
func DispatchLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, dispatchModule)
}

// FileCacheLogger returns the logger namespace reserved for the file cache.
func FileCacheLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, fileCacheModule)
}

// RegistryLogger returns the logger namespace reserved for the backend registry.
func RegistryLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, registryModule)
}

// BackendLogger returns a logger scoped to a single backend.
func BackendLogger(provider interfaces.LoggerProvider, backend string) interfaces.Logger {
	return WithFields(ModuleLogger(provider, backendsModule), map[string]any{
		fieldBackend: strings.TrimSpace(backend),
	})
}

// WithInvocationContext enriches the provided logger with the backend name,
// dispatch mode, file path, and request id of one call. Empty values are ignored.
func WithInvocationContext(logger interfaces.Logger, backend, mode, path, requestID string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(backend); trimmed != "" {
		fields[fieldBackend] = trimmed
	}
	if trimmed := strings.TrimSpace(mode); trimmed != "" {
		fields[fieldMode] = trimmed
	}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		fields[fieldPath] = trimmed
	}
	if trimmed := strings.TrimSpace(requestID); trimmed != "" {
		fields[fieldRequestID] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
