package backends

import (
	"bytes"
	"context"
	"slices"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-parsers/internal/dispatch"
	"github.com/goliatone/go-parsers/internal/registry"
	"github.com/goliatone/go-parsers/internal/runtimeconfig"
	"github.com/goliatone/go-parsers/pkg/interfaces"
)

// goldmarkModule is what the registry stores for goldmark: a constructor
// rather than an engine, since every call builds a new engine from its options.
type goldmarkModule struct {
	defaults runtimeconfig.GoldmarkConfig
}

// Goldmark registers the goldmark module and returns its text-only backend.
//
// Recognised options: html, xhtmlOut, breaks, linkify, typographer and
// extensions.
func Goldmark(reg *registry.Registry, cfg runtimeconfig.GoldmarkConfig, logger interfaces.Logger) (dispatch.Backend[string], error) {
	logger = loggerOrNoop(logger)
	load, err := register(reg, GoldmarkName, func() (*goldmarkModule, error) {
		logger.Debug("backends.goldmark.loaded", "extensions", strings.Join(cfg.Extensions, ","))
		return &goldmarkModule{defaults: cfg}, nil
	})
	if err != nil {
		return dispatch.Backend[string]{}, err
	}

	return dispatch.Backend[string]{
		Name: GoldmarkName,
		ParseSync: func(ctx context.Context, text string, opts interfaces.Options) (string, error) {
			module, err := load()
			if err != nil {
				return "", err
			}
			return render(ctx, GoldmarkName, func() (string, error) {
				return module.render(text, opts)
			})
		},
	}, nil
}

func (m *goldmarkModule) render(text string, opts interfaces.Options) (string, error) {
	engine := m.engine(opts)
	var buf bytes.Buffer
	if err := engine.Convert([]byte(text), &buf); err != nil {
		return "", dispatch.ParseError(GoldmarkName, err)
	}
	return buf.String(), nil
}

// engine builds a goldmark.Markdown for one call. Unsupported extension
// names are ignored.
func (m *goldmarkModule) engine(opts interfaces.Options) goldmark.Markdown {
	names := slices.Clone(m.defaults.Extensions)
	if names == nil {
		names = slices.Clone(defaultGoldmarkExtensions)
	}
	if opts.Has("extensions") {
		names = opts.Strings("extensions")
		if names == nil {
			names = []string{}
		}
	}
	if opts.Bool("linkify", false) {
		names = append(names, "linkify")
	}
	if opts.Bool("typographer", false) {
		names = append(names, "typographer")
	}
	exts := collectExtensions(names)

	parserOptions := []parser.Option{
		parser.WithAutoHeadingID(),
	}

	rendererOptions := []renderer.Option{}
	if opts.Bool("breaks", false) {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if opts.Bool("xhtmlOut", false) {
		rendererOptions = append(rendererOptions, html.WithXHTML())
	}
	if opts.Bool("html", m.defaults.HTML) {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithParserOptions(parserOptions...),
	}
	if len(rendererOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(rendererOptions...))
	}
	if len(exts) > 0 {
		engineOptions = append(engineOptions, goldmark.WithExtensions(exts...))
	}

	return goldmark.New(engineOptions...)
}

// defaultGoldmarkExtensions apply when neither the config nor the call names any.
var defaultGoldmarkExtensions = []string{"gfm", "linkify", "tasklist"}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
	"footnotes":     extension.Footnote,
	"typographer":   extension.Typographer,
}

// collectExtensions resolves names against the registry. An empty list
// selects nothing.
func collectExtensions(names []string) []goldmark.Extender {
	var extenders []goldmark.Extender
	seen := map[goldmark.Extender]struct{}{}

	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}

		ext, ok := extensionRegistry[key]
		if !ok {
			continue
		}
		if _, ok := seen[ext]; ok {
			continue
		}

		extenders = append(extenders, ext)
		seen[ext] = struct{}{}
	}

	return extenders
}
