package backends

import (
	"context"
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/goliatone/go-parsers/internal/dispatch"
	"github.com/goliatone/go-parsers/internal/registry"
	"github.com/goliatone/go-parsers/internal/runtimeconfig"
	"github.com/goliatone/go-parsers/pkg/interfaces"
)

const defaultDialect = "gruber"

var dialects = map[string]parser.Extensions{
	"gruber": parser.NoExtensions,
	"maruku": parser.Tables | parser.DefinitionLists | parser.Footnotes |
		parser.HeadingIDs | parser.Attributes | parser.FencedCode,
	"common": parser.CommonExtensions | parser.AutoHeadingIDs,
}

// gomarkdownEngine is shared across calls. gomarkdown parsers keep per-document
// state, so only the dialect table lives here and a parser is built per render.
type gomarkdownEngine struct {
	dialect string
}

// Gomarkdown registers the dialect-aware engine and returns its text-only backend.
//
// The dialect option (gruber, maruku, common) is removed before the remaining
// flags are read: xhtml, smartypants, targetBlank, skipHTML and breaks.
func Gomarkdown(reg *registry.Registry, cfg runtimeconfig.GomarkdownConfig, logger interfaces.Logger) (dispatch.Backend[string], error) {
	logger = loggerOrNoop(logger)
	load, err := register(reg, GomarkdownName, func() (*gomarkdownEngine, error) {
		dialect := normalizeDialect(cfg.Dialect)
		if _, ok := dialects[dialect]; !ok {
			return nil, fmt.Errorf("unknown dialect %q", cfg.Dialect)
		}
		logger.Debug("backends.gomarkdown.loaded", "dialect", dialect)
		return &gomarkdownEngine{dialect: dialect}, nil
	})
	if err != nil {
		return dispatch.Backend[string]{}, err
	}

	return dispatch.Backend[string]{
		Name: GomarkdownName,
		ParseSync: func(ctx context.Context, text string, opts interfaces.Options) (string, error) {
			engine, err := load()
			if err != nil {
				return "", err
			}
			return render(ctx, GomarkdownName, func() (string, error) {
				return engine.render(text, opts)
			})
		},
	}, nil
}

func (e *gomarkdownEngine) render(text string, opts interfaces.Options) (string, error) {
	opts = opts.Clone()
	dialect := normalizeDialect(opts.String("dialect", e.dialect))
	delete(opts, "dialect")

	extensions, ok := dialects[dialect]
	if !ok {
		return "", dispatch.ParseError(GomarkdownName, fmt.Errorf("unknown dialect %q", dialect))
	}
	if opts.Bool("breaks", false) {
		extensions |= parser.HardLineBreak
	}

	flags := html.FlagsNone
	if opts.Bool("xhtml", false) {
		flags |= html.UseXHTML
	}
	if opts.Bool("smartypants", false) {
		flags |= html.CommonFlags
	}
	if opts.Bool("targetBlank", false) {
		flags |= html.HrefTargetBlank
	}
	if opts.Bool("skipHTML", false) {
		flags |= html.SkipHTML
	}

	p := parser.NewWithExtensions(extensions)
	r := html.NewRenderer(html.RendererOptions{Flags: flags})
	return string(markdown.ToHTML([]byte(text), p, r)), nil
}

func normalizeDialect(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return defaultDialect
	}
	return name
}
