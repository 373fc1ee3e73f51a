// Package dispatch routes calls on a backend adapter to whichever capability
// the backend exposes. Two entry points exist: Call blocks and returns the
// output, CallAsync reports exactly once through a callback.
package dispatch

import (
	"context"
	"sync/atomic"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-parsers/internal/logging"
	"github.com/goliatone/go-parsers/pkg/interfaces"
)

const (
	modeSync  = "sync"
	modeAsync = "async"
)

// FileReader reads normalised file text, optionally through a cache.
type FileReader interface {
	Read(ctx context.Context, path string, useCache bool) (string, error)
	ReadAsync(ctx context.Context, path string, useCache bool, done func(string, error))
}

type settings struct {
	logger       interfaces.Logger
	defaultCache bool
	requestID    func() string
}

// Option configures an Adapter.
type Option func(*settings)

// WithLogger injects the dispatch logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDefaultCache sets the cache behaviour applied when a call does not set
// the cache option itself.
func WithDefaultCache(enabled bool) Option {
	return func(s *settings) {
		s.defaultCache = enabled
	}
}

// WithRequestIDs overrides the request id generator used to correlate async
// invocations in logs and errors.
func WithRequestIDs(fn func() string) Option {
	return func(s *settings) {
		if fn != nil {
			s.requestID = fn
		}
	}
}

// Adapter exposes a backend through the uniform calling convention.
type Adapter[T any] struct {
	backend Backend[T]
	caps    Capabilities
	files   FileReader
	opts    settings
}

var _ interfaces.Runner = (*Adapter[string])(nil)

// New validates the backend and resolves its capability descriptor.
func New[T any](backend Backend[T], files FileReader, opts ...Option) (*Adapter[T], error) {
	err := validation.ValidateStruct(&backend,
		validation.Field(&backend.Name, validation.Required),
	)
	if err == nil && files == nil {
		err = validation.Errors{"files": validation.ErrRequired}
	}
	if err != nil {
		return nil, invalidRequestError(backend.Name, err)
	}

	s := settings{
		logger:    logging.NoOp(),
		requestID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(&s)
	}

	return &Adapter[T]{
		backend: backend,
		caps:    backend.Capabilities(),
		files:   files,
		opts:    s,
	}, nil
}

// Name returns the backend name.
func (a *Adapter[T]) Name() string {
	return a.backend.Name
}

// Capabilities returns the descriptor resolved at construction.
func (a *Adapter[T]) Capabilities() Capabilities {
	return a.caps
}

// Call parses input synchronously. Text capabilities take priority; a backend
// that only reads files receives input as a path.
func (a *Adapter[T]) Call(ctx context.Context, input string, opts interfaces.Options) (T, error) {
	ctx = orBackground(ctx)
	logger := logging.WithInvocationContext(a.opts.logger, a.backend.Name, modeSync, "", "")

	if err := ctx.Err(); err != nil {
		var zero T
		return zero, ContextError(err)
	}

	switch {
	case a.caps.SyncText:
		logger.Debug("dispatch.route", "route", "sync-text")
		return a.runText(ctx, input, opts)
	case a.caps.SyncFile:
		logger.Debug("dispatch.route", "route", "sync-file", "path", input)
		return a.fileSync(ctx, input, opts)
	default:
		var zero T
		err := noCapabilityError(a.backend.Name, modeSync, input)
		logger.Error("dispatch.unsupported", "error", err)
		return zero, err
	}
}

// CallAsync parses input and reports through done exactly once. When the
// backend has no asynchronous capability the synchronous route runs on a
// separate goroutine, so done never fires before CallAsync returns.
func (a *Adapter[T]) CallAsync(ctx context.Context, input string, opts interfaces.Options, done interfaces.Callback[T]) {
	ctx = orBackground(ctx)
	requestID := a.opts.requestID()
	logger := logging.WithInvocationContext(a.opts.logger, a.backend.Name, modeAsync, "", requestID)
	ctx = logging.ContextWithFields(ctx, map[string]any{"request_id": requestID})
	deliver := a.once(done, logger, requestID)

	if err := ctx.Err(); err != nil {
		go deliver(*new(T), ContextError(err))
		return
	}

	switch {
	case a.caps.AsyncText:
		logger.Debug("dispatch.route", "route", "async-text")
		a.runAsyncText(ctx, input, opts, deliver)
	case a.caps.AsyncFile:
		logger.Debug("dispatch.route", "route", "async-file", "path", input)
		a.fileAsync(ctx, input, opts, deliver)
	default:
		logger.Debug("dispatch.route", "route", "sync-fallback")
		go func() {
			deliver(a.Call(ctx, input, opts))
		}()
	}
}

// ParseSync parses text with the backend's synchronous text capability.
func (a *Adapter[T]) ParseSync(ctx context.Context, text string, opts interfaces.Options) (T, error) {
	if !a.caps.SyncText {
		var zero T
		return zero, noCapabilityError(a.backend.Name, "sync-text", text)
	}
	return a.runText(orBackground(ctx), text, opts)
}

// Parse parses text with the backend's asynchronous text capability.
func (a *Adapter[T]) Parse(ctx context.Context, text string, opts interfaces.Options, done interfaces.Callback[T]) {
	requestID := a.opts.requestID()
	logger := logging.WithInvocationContext(a.opts.logger, a.backend.Name, modeAsync, "", requestID)
	deliver := a.once(done, logger, requestID)
	if !a.caps.AsyncText {
		go deliver(*new(T), noCapabilityError(a.backend.Name, "async-text", text))
		return
	}
	a.runAsyncText(orBackground(ctx), text, opts, deliver)
}

// ParseFileSync parses the file at path. Backends without their own file
// capability read through the file cache and parse the contents as text.
func (a *Adapter[T]) ParseFileSync(ctx context.Context, path string, opts interfaces.Options) (T, error) {
	return a.fileSync(orBackground(ctx), path, opts)
}

// ParseFile parses the file at path and reports through done exactly once.
func (a *Adapter[T]) ParseFile(ctx context.Context, path string, opts interfaces.Options, done interfaces.Callback[T]) {
	ctx = orBackground(ctx)
	requestID := a.opts.requestID()
	logger := logging.WithInvocationContext(a.opts.logger, a.backend.Name, modeAsync, path, requestID)
	deliver := a.once(done, logger, requestID)
	a.fileAsync(ctx, path, opts, deliver)
}

// CallAny satisfies interfaces.Runner.
func (a *Adapter[T]) CallAny(ctx context.Context, input string, opts interfaces.Options) (any, error) {
	out, err := a.Call(ctx, input, opts)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CallFileAny satisfies interfaces.Runner.
func (a *Adapter[T]) CallFileAny(ctx context.Context, path string, opts interfaces.Options) (any, error) {
	out, err := a.ParseFileSync(ctx, path, opts)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (a *Adapter[T]) fileSync(ctx context.Context, path string, opts interfaces.Options) (T, error) {
	var zero T
	if err := validatePath(path); err != nil {
		return zero, invalidRequestError(a.backend.Name, err)
	}
	if err := ctx.Err(); err != nil {
		return zero, ContextError(err)
	}
	opts = fileOptions(opts, path)

	switch {
	case a.caps.SyncFile:
		return a.runFile(ctx, path, opts)
	case a.caps.HasText():
		text, err := a.files.Read(ctx, path, a.useCache(opts))
		if err != nil {
			return zero, err
		}
		return a.textBlocking(ctx, text, opts)
	default:
		return zero, noCapabilityError(a.backend.Name, "sync-file", path)
	}
}

func (a *Adapter[T]) fileAsync(ctx context.Context, path string, opts interfaces.Options, deliver interfaces.Callback[T]) {
	if err := validatePath(path); err != nil {
		go deliver(*new(T), invalidRequestError(a.backend.Name, err))
		return
	}
	opts = fileOptions(opts, path)

	switch {
	case a.caps.AsyncFile:
		go func() {
			defer func() {
				if r := recover(); r != nil {
					deliver(*new(T), PanicError(a.backend.Name, r))
				}
			}()
			a.backend.ParseFile(ctx, path, opts, deliver)
		}()
	case a.caps.HasText():
		a.files.ReadAsync(ctx, path, a.useCache(opts), func(text string, err error) {
			if err != nil {
				deliver(*new(T), err)
				return
			}
			if a.caps.AsyncText {
				a.runAsyncText(ctx, text, opts, deliver)
				return
			}
			deliver(a.runText(ctx, text, opts))
		})
	default:
		go func() {
			deliver(a.fileSync(ctx, path, opts))
		}()
	}
}

// textBlocking parses text with the synchronous text capability, waiting on
// the asynchronous one when that is all the backend has.
func (a *Adapter[T]) textBlocking(ctx context.Context, text string, opts interfaces.Options) (T, error) {
	if a.caps.SyncText {
		return a.runText(ctx, text, opts)
	}

	type result struct {
		out T
		err error
	}
	ch := make(chan result, 1)
	a.runAsyncText(ctx, text, opts, func(out T, err error) {
		ch <- result{out: out, err: err}
	})

	select {
	case res := <-ch:
		return res.out, res.err
	case <-ctx.Done():
		var zero T
		return zero, ContextError(ctx.Err())
	}
}

func (a *Adapter[T]) runText(ctx context.Context, text string, opts interfaces.Options) (out T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			out, err = zero, PanicError(a.backend.Name, r)
		}
	}()
	return a.backend.ParseSync(ctx, text, opts.Clone())
}

func (a *Adapter[T]) runFile(ctx context.Context, path string, opts interfaces.Options) (out T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			out, err = zero, PanicError(a.backend.Name, r)
		}
	}()
	return a.backend.ParseFileSync(ctx, path, opts)
}

func (a *Adapter[T]) runAsyncText(ctx context.Context, text string, opts interfaces.Options, deliver interfaces.Callback[T]) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				deliver(*new(T), PanicError(a.backend.Name, r))
			}
		}()
		a.backend.Parse(ctx, text, opts.Clone(), deliver)
	}()
}

// once guards a callback so it fires a single time. Failures carry the zero
// output and are tagged with the request id.
func (a *Adapter[T]) once(done interfaces.Callback[T], logger interfaces.Logger, requestID string) interfaces.Callback[T] {
	var fired atomic.Bool
	return func(out T, err error) {
		if !fired.CompareAndSwap(false, true) {
			logger.Warn("dispatch.callback.duplicate")
			return
		}
		if err != nil {
			var zero T
			out = zero
			err = TagRequest(err, requestID)
			logger.Debug("dispatch.failed", "error", err)
		}
		if done != nil {
			done(out, err)
		}
	}
}

func (a *Adapter[T]) useCache(opts interfaces.Options) bool {
	return opts.Bool(interfaces.OptionCache, a.opts.defaultCache)
}

// fileOptions copies opts and records path as the filename unless the caller
// already supplied one.
func fileOptions(opts interfaces.Options, path string) interfaces.Options {
	out := opts.Clone()
	if !out.Has(interfaces.OptionFilename) {
		out[interfaces.OptionFilename] = path
	}
	return out
}

func validatePath(path string) error {
	return validation.Validate(path, validation.Required.Error("file path is required"))
}

func orBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
