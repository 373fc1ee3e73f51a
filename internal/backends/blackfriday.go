package backends

import (
	"context"

	"github.com/russross/blackfriday/v2"

	"github.com/goliatone/go-parsers/internal/dispatch"
	"github.com/goliatone/go-parsers/internal/registry"
	"github.com/goliatone/go-parsers/internal/runtimeconfig"
	"github.com/goliatone/go-parsers/pkg/interfaces"
)

// blackfridayRun is the callable the registry stores for blackfriday.
type blackfridayRun func(input []byte, opts ...blackfriday.Option) []byte

const smartypantsFlags = blackfriday.Smartypants | blackfriday.SmartypantsFractions |
	blackfriday.SmartypantsDashes | blackfriday.SmartypantsLatexDashes

// Blackfriday registers blackfriday.Run and returns its text-only backend.
//
// Recognised options: gfm, breaks, headerIds, smartypants, xhtml, sanitize.
func Blackfriday(reg *registry.Registry, cfg runtimeconfig.BlackfridayConfig, logger interfaces.Logger) (dispatch.Backend[string], error) {
	logger = loggerOrNoop(logger)
	load, err := register(reg, BlackfridayName, func() (blackfridayRun, error) {
		logger.Debug("backends.blackfriday.loaded", "gfm", cfg.GFM)
		return blackfriday.Run, nil
	})
	if err != nil {
		return dispatch.Backend[string]{}, err
	}

	return dispatch.Backend[string]{
		Name: BlackfridayName,
		ParseSync: func(ctx context.Context, text string, opts interfaces.Options) (string, error) {
			run, err := load()
			if err != nil {
				return "", err
			}
			return render(ctx, BlackfridayName, func() (string, error) {
				return string(run([]byte(text), blackfridayOptions(cfg, opts)...)), nil
			})
		},
	}, nil
}

func blackfridayOptions(cfg runtimeconfig.BlackfridayConfig, opts interfaces.Options) []blackfriday.Option {
	extensions := blackfriday.NoExtensions
	if opts.Bool("gfm", cfg.GFM) {
		extensions |= blackfriday.CommonExtensions
	}
	if opts.Bool("breaks", false) {
		extensions |= blackfriday.HardLineBreak
	}
	if opts.Bool("headerIds", false) {
		extensions |= blackfriday.AutoHeadingIDs
	}

	var flags blackfriday.HTMLFlags
	if opts.Bool("smartypants", false) {
		flags |= smartypantsFlags
	}
	if opts.Bool("xhtml", false) {
		flags |= blackfriday.UseXHTML
	}
	if opts.Bool("sanitize", false) {
		flags |= blackfriday.SkipHTML
	}

	return []blackfriday.Option{
		blackfriday.WithExtensions(extensions),
		blackfriday.WithRenderer(blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
			Flags: flags,
		})),
	}
}
