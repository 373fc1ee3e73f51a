// Package backends binds each wrapped library to the dispatch calling
// convention. Every backend registers its engine with the registry and loads
// it lazily on first parse.
package backends

import (
	"context"

	"github.com/goliatone/go-parsers/internal/dispatch"
	"github.com/goliatone/go-parsers/internal/logging"
	"github.com/goliatone/go-parsers/internal/registry"
	"github.com/goliatone/go-parsers/pkg/interfaces"
)

const (
	GoldmarkName    = "goldmark"
	GomarkdownName  = "gomarkdown"
	BlackfridayName = "blackfriday"
	MatterName      = "matter"
)

// register stores factory under name and returns a loader for the instance.
func register[E any](reg *registry.Registry, name string, factory func() (E, error)) (func() (E, error), error) {
	err := reg.Register(name, func() (any, error) {
		return factory()
	})
	if err != nil {
		return nil, err
	}
	return func() (E, error) {
		return registry.Load[E](reg, name)
	}, nil
}

// render runs fn after checking ctx and converts a library panic into a
// parse error. A done context is reported the same way the dispatcher does.
func render[T any](ctx context.Context, name string, fn func() (T, error)) (out T, err error) {
	if ctx != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			var zero T
			return zero, dispatch.ContextError(ctxErr)
		}
	}
	defer func() {
		if r := recover(); r != nil {
			var zero T
			out, err = zero, dispatch.PanicError(name, r)
		}
	}()
	return fn()
}

func loggerOrNoop(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return logging.NoOp()
	}
	return logger
}
