// Package di wires the file cache, the backend registry, the built-in
// backends and the logging provider into one container per Parsers value.
package di

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-parsers/internal/backends"
	"github.com/goliatone/go-parsers/internal/dispatch"
	"github.com/goliatone/go-parsers/internal/filecache"
	"github.com/goliatone/go-parsers/internal/logging"
	"github.com/goliatone/go-parsers/internal/logging/console"
	"github.com/goliatone/go-parsers/internal/logging/gologger"
	"github.com/goliatone/go-parsers/internal/registry"
	"github.com/goliatone/go-parsers/internal/runtimeconfig"
	"github.com/goliatone/go-parsers/pkg/interfaces"
)

// Container owns the state shared by every adapter built from it.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	readFile       filecache.ReadFunc
	requestIDs     func() string

	files    *filecache.Cache
	registry *registry.Registry

	goldmark    *dispatch.Adapter[string]
	gomarkdown  *dispatch.Adapter[string]
	blackfriday *dispatch.Adapter[string]
	matter      *dispatch.Adapter[*interfaces.Matter]

	mu      sync.RWMutex
	runners map[string]interfaces.Runner
}

// Option mutates the container before it is wired.
type Option func(*Container)

// WithLoggerProvider overrides the provider selected from configuration.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithReadFunc swaps the storage reader used by the file cache.
func WithReadFunc(fn func(path string) ([]byte, error)) Option {
	return func(c *Container) {
		if fn != nil {
			c.readFile = fn
		}
	}
}

// WithRequestIDs overrides the generator used to tag async invocations.
func WithRequestIDs(fn func() string) Option {
	return func(c *Container) {
		if fn != nil {
			c.requestIDs = fn
		}
	}
}

// NewContainer validates cfg, selects a logger provider and registers the
// built-in backends. No backend library is touched until its first parse.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid parsers configuration").
			WithTextCode("CONFIG_INVALID")
	}

	c := &Container{
		Config:  cfg,
		runners: map[string]interfaces.Runner{},
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}

	cacheOpts := []filecache.Option{filecache.WithLogger(logging.FileCacheLogger(c.loggerProvider))}
	if c.readFile != nil {
		cacheOpts = append(cacheOpts, filecache.WithReadFunc(c.readFile))
	}
	c.files = filecache.New(cacheOpts...)
	c.registry = registry.New(logging.RegistryLogger(c.loggerProvider))

	if err := c.registerBuiltins(); err != nil {
		return nil, err
	}

	logging.ModuleLogger(c.loggerProvider, "parsers.container").Info("container.configured",
		"backends", strings.Join(c.registry.Names(), ","),
		"cache_default", c.Config.Cache.Enabled,
	)
	return c, nil
}

func (c *Container) registerBuiltins() error {
	provider := c.loggerProvider

	goldmark, err := backends.Goldmark(c.registry, c.Config.Goldmark, logging.BackendLogger(provider, backends.GoldmarkName))
	if err != nil {
		return err
	}
	if c.goldmark, err = adaptBackend(c, goldmark); err != nil {
		return err
	}

	gomarkdown, err := backends.Gomarkdown(c.registry, c.Config.Gomarkdown, logging.BackendLogger(provider, backends.GomarkdownName))
	if err != nil {
		return err
	}
	if c.gomarkdown, err = adaptBackend(c, gomarkdown); err != nil {
		return err
	}

	blackfriday, err := backends.Blackfriday(c.registry, c.Config.Blackfriday, logging.BackendLogger(provider, backends.BlackfridayName))
	if err != nil {
		return err
	}
	if c.blackfriday, err = adaptBackend(c, blackfriday); err != nil {
		return err
	}

	matter, err := backends.Matter(c.registry, c.Config.Matter, logging.BackendLogger(provider, backends.MatterName))
	if err != nil {
		return err
	}
	c.matter, err = adaptBackend(c, matter)
	return err
}

func adaptBackend[T any](c *Container, backend dispatch.Backend[T]) (*dispatch.Adapter[T], error) {
	adapter, err := dispatch.New(backend, c.files, c.dispatchOptions()...)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.runners[adapter.Name()] = adapter
	c.mu.Unlock()
	return adapter, nil
}

// Register adds a custom backend. The name is claimed in the registry so it
// cannot collide with a built-in or an earlier registration. The caller
// hands over a built backend, so its slot is loaded immediately and
// Constructed reports true from the start.
func Register[T any](c *Container, backend dispatch.Backend[T]) (*dispatch.Adapter[T], error) {
	if c == nil {
		return nil, errors.New("di: container is nil")
	}
	name := strings.TrimSpace(backend.Name)
	if name == "" {
		return nil, goerrors.Wrap(dispatch.ErrInvalidRequest, goerrors.CategoryValidation, "backend name is required").
			WithTextCode("INVALID_REQUEST")
	}
	if backend.Capabilities().None() {
		return nil, goerrors.Wrap(dispatch.ErrNoCapability, goerrors.CategoryValidation,
			fmt.Sprintf("backend %q exposes no capability", name)).
			WithTextCode("CAPABILITY_UNSUPPORTED")
	}
	backend.Name = name

	err := c.registry.Register(name, func() (any, error) {
		return backend, nil
	})
	if err != nil {
		return nil, err
	}
	if _, err := c.registry.Get(name); err != nil {
		return nil, err
	}
	return adaptBackend(c, backend)
}

// Runner resolves an adapter by name for untyped callers.
func (c *Container) Runner(name string) (interfaces.Runner, error) {
	c.mu.RLock()
	runner, ok := c.runners[strings.TrimSpace(name)]
	c.mu.RUnlock()
	if !ok {
		return nil, registry.NotRegisteredError(name)
	}
	return runner, nil
}

func (c *Container) Goldmark() *dispatch.Adapter[string]    { return c.goldmark }
func (c *Container) Gomarkdown() *dispatch.Adapter[string]  { return c.gomarkdown }
func (c *Container) Blackfriday() *dispatch.Adapter[string] { return c.blackfriday }

func (c *Container) Matter() *dispatch.Adapter[*interfaces.Matter] { return c.matter }

// ClearCache drops every cached file body.
func (c *Container) ClearCache() { c.files.Clear() }

// Constructed reports whether the named backend library has been loaded.
func (c *Container) Constructed(name string) bool {
	return c.registry.Constructed(strings.TrimSpace(name))
}

// Files exposes the shared file cache.
func (c *Container) Files() *filecache.Cache { return c.files }

// Registry exposes the backend registry.
func (c *Container) Registry() *registry.Registry { return c.registry }

// LoggerProvider returns the provider in use, or nil when logging is off.
func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

func (c *Container) dispatchOptions() []dispatch.Option {
	opts := []dispatch.Option{
		dispatch.WithLogger(logging.DispatchLogger(c.loggerProvider)),
		dispatch.WithDefaultCache(c.Config.Cache.Enabled),
	}
	if c.requestIDs != nil {
		opts = append(opts, dispatch.WithRequestIDs(c.requestIDs))
	}
	return opts
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}

	logCfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(logCfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     logCfg.Level,
			Format:    logCfg.Format,
			AddSource: logCfg.AddSource,
			Focus:     logCfg.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		opts := console.Options{}
		if level, ok := console.ParseLevel(logCfg.Level); ok {
			opts.MinLevel = &level
		}
		c.loggerProvider = console.NewProvider(opts)
	}
	return nil
}
