// Package filecache keeps normalised file contents keyed by the path the
// caller supplied. Entries are only written or served when a call opts in,
// and they live until Clear empties the whole cache.
package filecache

import (
	"bytes"
	"context"
	"os"

	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/goliatone/go-parsers/internal/logging"
	"github.com/goliatone/go-parsers/internal/textnorm"
	"github.com/goliatone/go-parsers/pkg/interfaces"
)

// ReadFunc loads raw file bytes. os.ReadFile is used unless overridden.
type ReadFunc func(path string) ([]byte, error)

// Option configures a Cache.
type Option func(*Cache)

// WithReadFunc swaps the storage reader, mainly so tests can count reads.
func WithReadFunc(fn ReadFunc) Option {
	return func(c *Cache) {
		if fn != nil {
			c.readFile = fn
		}
	}
}

// WithLogger injects the logger used for hit/miss diagnostics.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Cache maps caller-supplied paths to normalised file text. Paths are not
// canonicalised: "a.md" and "./a.md" are distinct entries.
type Cache struct {
	entries  *xsync.MapOf[string, string]
	readFile ReadFunc
	logger   interfaces.Logger
}

// New constructs an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries:  xsync.NewMapOf[string, string](),
		readFile: os.ReadFile,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Read returns the normalised contents of path. With useCache set, a stored
// entry is returned without touching storage and a fresh read is stored.
func (c *Cache) Read(ctx context.Context, path string, useCache bool) (string, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return "", ReadError(path, err)
		}
	}

	if useCache {
		if text, ok := c.entries.Load(path); ok {
			c.logger.Debug("filecache.read.hit", "path", path)
			return text, nil
		}
	}

	raw, err := c.readFile(path)
	if err != nil {
		c.logger.Debug("filecache.read.failed", "path", path, "error", err)
		return "", ReadError(path, err)
	}

	text, err := decode(raw)
	if err != nil {
		return "", ReadError(path, err)
	}
	text = textnorm.Normalize(text)

	if useCache {
		c.entries.Store(path, text)
	}
	c.logger.Debug("filecache.read.miss", "path", path, "cached", useCache, "bytes", len(raw))
	return text, nil
}

// ReadAsync performs Read on its own goroutine and hands the outcome to done.
// done is always invoked exactly once.
func (c *Cache) ReadAsync(ctx context.Context, path string, useCache bool, done func(string, error)) {
	go func() {
		done(c.Read(ctx, path, useCache))
	}()
}

// Clear discards every entry.
func (c *Cache) Clear() {
	size := c.entries.Size()
	c.entries.Clear()
	c.logger.Debug("filecache.cleared", "entries", size)
}

// Len reports the number of cached paths.
func (c *Cache) Len() int {
	return c.entries.Size()
}

var (
	utf16BE = []byte{0xFE, 0xFF}
	utf16LE = []byte{0xFF, 0xFE}
)

// decode reads bytes as UTF-8 text; invalid sequences become U+FFFD. A UTF-16
// byte-order mark selects UTF-16 and is consumed. A UTF-8 mark is kept so the
// normaliser removes exactly one.
func decode(raw []byte) (string, error) {
	var decoder transform.Transformer = unicode.UTF8.NewDecoder()
	if bytes.HasPrefix(raw, utf16BE) || bytes.HasPrefix(raw, utf16LE) {
		decoder = unicode.BOMOverride(unicode.UTF8.NewDecoder())
	}
	decoded, _, err := transform.Bytes(decoder, raw)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
