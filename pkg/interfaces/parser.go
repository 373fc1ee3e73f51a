package interfaces

import (
	"context"
	"strconv"
	"strings"
)

// Recognised option keys shared by every backend adapter.
const (
	OptionCache    = "cache"
	OptionFilename = "filename"
)

// Options carries per-call tuning parameters. Keys understood by the dispatcher
// (cache, filename) and by each backend are read through the typed accessors;
// everything else is forwarded to the wrapped library untouched.
type Options map[string]any

// Clone returns a shallow copy so callers can mutate the result freely.
func (o Options) Clone() Options {
	out := make(Options, len(o)+1)
	for key, value := range o {
		out[key] = value
	}
	return out
}

// Merge copies the receiver and applies overrides on top of it.
func (o Options) Merge(overrides Options) Options {
	out := o.Clone()
	for key, value := range overrides {
		out[key] = value
	}
	return out
}

// Has reports whether key was supplied, even with a zero value.
func (o Options) Has(key string) bool {
	if o == nil {
		return false
	}
	_, ok := o[key]
	return ok
}

// Bool reads a boolean option. String values such as "true" or "0" are parsed.
func (o Options) Bool(key string, fallback bool) bool {
	value, ok := o[key]
	if !ok || value == nil {
		return fallback
	}
	switch v := value.(type) {
	case bool:
		return v
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fallback
		}
		return parsed
	case int:
		return v != 0
	default:
		return fallback
	}
}

// String reads a string option, returning fallback for missing or blank values.
func (o Options) String(key, fallback string) string {
	value, ok := o[key]
	if !ok || value == nil {
		return fallback
	}
	s, ok := value.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// Strings reads a list option. A comma separated string is split.
func (o Options) Strings(key string) []string {
	value, ok := o[key]
	if !ok || value == nil {
		return nil
	}
	switch v := value.(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out
	default:
		return nil
	}
}

// Map reads a nested mapping option.
func (o Options) Map(key string) map[string]any {
	value, ok := o[key]
	if !ok || value == nil {
		return nil
	}
	switch v := value.(type) {
	case map[string]any:
		return v
	case Options:
		return map[string]any(v)
	default:
		return nil
	}
}

// Cache reports whether the File Cache should be consulted for this call.
func (o Options) Cache() bool {
	return o.Bool(OptionCache, false)
}

// Filename returns the provenance recorded for file-path calls.
func (o Options) Filename() string {
	return o.String(OptionFilename, "")
}

// Callback receives the outcome of an asynchronous invocation. It is invoked
// exactly once, with either an output or an error.
type Callback[T any] func(output T, err error)

// Matter is the result produced by the front-matter backend.
type Matter struct {
	// Data holds the decoded front-matter block. It is never nil.
	Data map[string]any `json:"data"`
	// Content is the document body with the front-matter block removed.
	Content string `json:"content"`
	// Excerpt is populated when the excerpt option is enabled and a separator is found.
	Excerpt string `json:"excerpt,omitempty"`
	// Matter is the raw text between the delimiters.
	Matter string `json:"matter,omitempty"`
	// Language names the format the block was decoded with (yaml, toml, json).
	Language string `json:"language,omitempty"`
	// Path is set when the document was read from a file.
	Path string `json:"path,omitempty"`
	// Orig is the input exactly as handed to the extractor.
	Orig string `json:"-"`
	// IsEmpty reports a front-matter block that was present but held no data.
	IsEmpty bool `json:"is_empty,omitempty"`
}

// Runner is the type-erased view of a backend adapter used by the command layer.
type Runner interface {
	Name() string
	CallAny(ctx context.Context, input string, opts Options) (any, error)
	CallFileAny(ctx context.Context, path string, opts Options) (any, error)
}

// RenderService resolves adapters by backend name.
type RenderService interface {
	Adapter(name string) (Runner, error)
}
