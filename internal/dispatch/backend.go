package dispatch

import (
	"context"
	"strings"

	"github.com/goliatone/go-parsers/pkg/interfaces"
)

// TextFunc parses raw text and returns the output.
type TextFunc[T any] func(ctx context.Context, text string, opts interfaces.Options) (T, error)

// AsyncTextFunc parses raw text and reports through done.
type AsyncTextFunc[T any] func(ctx context.Context, text string, opts interfaces.Options, done interfaces.Callback[T])

// FileFunc parses the file at path and returns the output.
type FileFunc[T any] func(ctx context.Context, path string, opts interfaces.Options) (T, error)

// AsyncFileFunc parses the file at path and reports through done.
type AsyncFileFunc[T any] func(ctx context.Context, path string, opts interfaces.Options, done interfaces.Callback[T])

// Backend is the glue between one wrapped library and the uniform calling
// convention. Any subset of the four capabilities may be set.
type Backend[T any] struct {
	Name          string
	ParseSync     TextFunc[T]
	Parse         AsyncTextFunc[T]
	ParseFileSync FileFunc[T]
	ParseFile     AsyncFileFunc[T]
}

// Capabilities describes which operations a backend supports. It is resolved
// once when the adapter is built.
type Capabilities struct {
	SyncText  bool
	AsyncText bool
	SyncFile  bool
	AsyncFile bool
}

// Capabilities derives the descriptor from the functions that are set.
func (b Backend[T]) Capabilities() Capabilities {
	return Capabilities{
		SyncText:  b.ParseSync != nil,
		AsyncText: b.Parse != nil,
		SyncFile:  b.ParseFileSync != nil,
		AsyncFile: b.ParseFile != nil,
	}
}

// None reports a backend with no capability at all.
func (c Capabilities) None() bool {
	return !c.SyncText && !c.AsyncText && !c.SyncFile && !c.AsyncFile
}

// HasText reports whether any text capability exists.
func (c Capabilities) HasText() bool {
	return c.SyncText || c.AsyncText
}

func (c Capabilities) String() string {
	var parts []string
	if c.SyncText {
		parts = append(parts, "sync-text")
	}
	if c.AsyncText {
		parts = append(parts, "async-text")
	}
	if c.SyncFile {
		parts = append(parts, "sync-file")
	}
	if c.AsyncFile {
		parts = append(parts, "async-file")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ",")
}
