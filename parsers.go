// Package parsers exposes several Markdown renderers and a front-matter
// extractor through one calling convention. Every backend is reached through
// an Adapter that accepts raw text or a file path and answers either
// synchronously or through a callback.
package parsers

import (
	"github.com/goliatone/go-parsers/internal/backends"
	"github.com/goliatone/go-parsers/internal/commands"
	rendercmd "github.com/goliatone/go-parsers/internal/commands/render"
	"github.com/goliatone/go-parsers/internal/di"
	"github.com/goliatone/go-parsers/internal/dispatch"
	"github.com/goliatone/go-parsers/pkg/interfaces"
)

// Names of the built-in backends.
const (
	BackendGoldmark    = backends.GoldmarkName
	BackendGomarkdown  = backends.GomarkdownName
	BackendBlackfriday = backends.BlackfridayName
	BackendMatter      = backends.MatterName
)

type (
	// Adapter is the uniform entry point for one backend.
	Adapter[T any] = dispatch.Adapter[T]
	// Backend describes the capabilities a custom backend provides.
	Backend[T any] = dispatch.Backend[T]
	// Callback receives the outcome of an asynchronous call exactly once.
	Callback[T any] = interfaces.Callback[T]

	Capabilities = dispatch.Capabilities
	Options      = interfaces.Options
	Document     = interfaces.Matter
	Runner       = interfaces.Runner

	// Option customises the container built by New.
	Option = di.Option

	// RenderCommand is the command bus message served by RenderHandler.
	RenderCommand = rendercmd.RenderCommand
	// RenderHandler executes RenderCommand messages.
	RenderHandler = rendercmd.RenderHandler
	// RenderHandlerOption tunes the command handler (timeouts, telemetry).
	RenderHandlerOption = commands.HandlerOption[rendercmd.RenderCommand]
)

// Option keys understood by the dispatcher itself.
const (
	OptionCache    = interfaces.OptionCache
	OptionFilename = interfaces.OptionFilename
)

// WithLoggerProvider injects the logger provider used by every component.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return di.WithLoggerProvider(provider)
}

// WithReadFunc replaces the storage reader behind the file cache.
func WithReadFunc(fn func(path string) ([]byte, error)) Option {
	return di.WithReadFunc(fn)
}

// WithRequestIDs replaces the generator used to tag asynchronous calls.
func WithRequestIDs(fn func() string) Option {
	return di.WithRequestIDs(fn)
}

// Parsers owns one file cache and one backend registry. Values are
// independent: caches and constructed backends are never shared between them.
type Parsers struct {
	container *di.Container
}

// New validates cfg and registers the built-in backends. Backend libraries
// are only loaded when first used.
func New(cfg Config, opts ...Option) (*Parsers, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Parsers{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (p *Parsers) Container() *di.Container {
	return p.container
}

// Goldmark returns the CommonMark renderer adapter.
func (p *Parsers) Goldmark() *Adapter[string] {
	return p.container.Goldmark()
}

// Gomarkdown returns the dialect-aware renderer adapter.
func (p *Parsers) Gomarkdown() *Adapter[string] {
	return p.container.Gomarkdown()
}

// Blackfriday returns the legacy Markdown converter adapter.
func (p *Parsers) Blackfriday() *Adapter[string] {
	return p.container.Blackfriday()
}

// Matter returns the front-matter extractor adapter.
func (p *Parsers) Matter() *Adapter[*Document] {
	return p.container.Matter()
}

// Register adds a custom backend to p. Names are unique across built-in and
// custom backends. Custom backends count as constructed once registered.
func Register[T any](p *Parsers, backend Backend[T]) (*Adapter[T], error) {
	return di.Register(p.container, backend)
}

// Adapter resolves a backend by name for callers that do not know its
// output type.
func (p *Parsers) Adapter(name string) (Runner, error) {
	return p.container.Runner(name)
}

// ClearCache empties the file cache. Constructed backends are kept.
func (p *Parsers) ClearCache() {
	p.container.ClearCache()
}

// Constructed reports whether the named backend library has been loaded.
func (p *Parsers) Constructed(name string) bool {
	return p.container.Constructed(name)
}

// RenderHandler returns a command handler that dispatches RenderCommand
// messages to p. The configured command timeout applies unless overridden.
func (p *Parsers) RenderHandler(opts ...RenderHandlerOption) *RenderHandler {
	return p.renderHandler(nil, opts...)
}

func (p *Parsers) renderHandler(provider interfaces.LoggerProvider, opts ...RenderHandlerOption) *RenderHandler {
	if provider == nil {
		provider = p.container.LoggerProvider()
	}
	handlerOpts := []RenderHandlerOption{
		commands.WithTimeout[rendercmd.RenderCommand](p.container.Config.Commands.Timeout),
	}
	handlerOpts = append(handlerOpts, opts...)
	return rendercmd.NewRenderHandler(p, commands.CommandLogger(provider, "render"), handlerOpts...)
}

var _ interfaces.RenderService = (*Parsers)(nil)
