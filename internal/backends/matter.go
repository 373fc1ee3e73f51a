package backends

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-parsers/internal/dispatch"
	"github.com/goliatone/go-parsers/internal/filecache"
	"github.com/goliatone/go-parsers/internal/registry"
	"github.com/goliatone/go-parsers/internal/runtimeconfig"
	"github.com/goliatone/go-parsers/internal/textnorm"
	"github.com/goliatone/go-parsers/internal/util"
	"github.com/goliatone/go-parsers/internal/validation"
	"github.com/goliatone/go-parsers/pkg/interfaces"
)

const (
	defaultMatterLanguage = "yaml"
	defaultMatterDelim    = "---"
)

var matterDecoders = map[string]frontmatter.UnmarshalFunc{
	"yaml": yaml.Unmarshal,
	"toml": toml.Unmarshal,
	"json": json.Unmarshal,
}

// matterEngine extracts front matter. Formats are built per call because the
// delimiters and language can change with every option set.
type matterEngine struct {
	defaults runtimeconfig.MatterConfig
}

type matterSettings struct {
	language  string
	open      string
	close     string
	excerpt   bool
	separator string
	schema    map[string]any
}

// Matter registers the front matter extractor and returns a backend with all
// four capabilities. File variants read the file themselves and never touch
// the file cache.
//
// Recognised options: language (or lang), delims, excerpt,
// excerpt_separator and schema.
func Matter(reg *registry.Registry, cfg runtimeconfig.MatterConfig, logger interfaces.Logger) (dispatch.Backend[*interfaces.Matter], error) {
	logger = loggerOrNoop(logger)
	load, err := register(reg, MatterName, func() (*matterEngine, error) {
		logger.Debug("backends.matter.loaded", "language", cfg.Language)
		return &matterEngine{defaults: cfg}, nil
	})
	if err != nil {
		return dispatch.Backend[*interfaces.Matter]{}, err
	}

	parseText := func(ctx context.Context, text string, opts interfaces.Options) (*interfaces.Matter, error) {
		engine, err := load()
		if err != nil {
			return nil, err
		}
		return render(ctx, MatterName, func() (*interfaces.Matter, error) {
			return engine.parse(text, opts)
		})
	}
	parseFile := func(ctx context.Context, path string, opts interfaces.Options) (*interfaces.Matter, error) {
		engine, err := load()
		if err != nil {
			return nil, err
		}
		return render(ctx, MatterName, func() (*interfaces.Matter, error) {
			return engine.read(path, opts)
		})
	}

	return dispatch.Backend[*interfaces.Matter]{
		Name:      MatterName,
		ParseSync: parseText,
		Parse: func(ctx context.Context, text string, opts interfaces.Options, done interfaces.Callback[*interfaces.Matter]) {
			done(parseText(ctx, text, opts))
		},
		ParseFileSync: parseFile,
		ParseFile: func(ctx context.Context, path string, opts interfaces.Options, done interfaces.Callback[*interfaces.Matter]) {
			done(parseFile(ctx, path, opts))
		},
	}, nil
}

// read loads path, normalises it, and parses the result with Path set.
func (e *matterEngine) read(path string, opts interfaces.Options) (*interfaces.Matter, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, filecache.ReadError(path, err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, filecache.ReadError(path, err)
	}

	result, err := e.parse(textnorm.Normalize(string(raw)), opts)
	if err != nil {
		return nil, err
	}
	result.Path = path
	return result, nil
}

func (e *matterEngine) parse(text string, opts interfaces.Options) (*interfaces.Matter, error) {
	settings, err := e.settings(opts)
	if err != nil {
		return nil, dispatch.ParseError(MatterName, err)
	}

	result := &interfaces.Matter{
		Data:     map[string]any{},
		Orig:     text,
		Language: settings.language,
	}

	var (
		found bool
		block string
	)
	capture := func(language string, decode frontmatter.UnmarshalFunc) frontmatter.UnmarshalFunc {
		return func(data []byte, v any) error {
			found = true
			block = strings.TrimSuffix(string(data), "\n")
			result.Language = language
			if strings.TrimSpace(block) == "" {
				return nil
			}
			return decode(data, v)
		}
	}

	formats := []*frontmatter.Format{
		frontmatter.NewFormat(settings.open, settings.close, capture(settings.language, matterDecoders[settings.language])),
	}
	for _, language := range []string{"yaml", "toml", "json"} {
		formats = append(formats, frontmatter.NewFormat(settings.open+language, settings.close,
			capture(language, matterDecoders[language])))
	}

	var data map[string]any
	body, err := frontmatter.Parse(strings.NewReader(text), &data, formats...)
	if err != nil {
		return nil, dispatch.ParseError(MatterName, err)
	}
	if data != nil {
		result.Data = data
	}

	result.Content = string(body)
	result.Matter = block
	result.IsEmpty = found && strings.TrimSpace(block) == ""

	if settings.excerpt {
		if idx := strings.Index(result.Content, settings.separator); idx >= 0 {
			result.Excerpt = result.Content[:idx]
		}
	}

	if err := validation.ValidateData(settings.schema, result.Data); err != nil {
		return nil, dispatch.ParseError(MatterName, err)
	}
	return result, nil
}

func (e *matterEngine) settings(opts interfaces.Options) (matterSettings, error) {
	language := e.defaults.Language
	if opts.Has("lang") {
		language = opts.String("lang", language)
	}
	language = normalizeLanguage(opts.String("language", language))
	if _, ok := matterDecoders[language]; !ok {
		return matterSettings{}, fmt.Errorf("no front matter decoder for language %q", language)
	}

	delims := e.defaults.Delimiters
	if opts.Has("delims") {
		delims = opts.Strings("delims")
	}
	open, closing := defaultMatterDelim, defaultMatterDelim
	switch len(delims) {
	case 0:
	case 1:
		open, closing = delims[0], delims[0]
	default:
		open, closing = delims[0], delims[1]
	}
	open, closing = strings.TrimSpace(open), strings.TrimSpace(closing)
	if open == "" || closing == "" {
		return matterSettings{}, fmt.Errorf("front matter delimiters must not be empty")
	}

	separator := util.FirstNonEmpty(
		strings.TrimSpace(opts.String("excerpt_separator", "")),
		strings.TrimSpace(e.defaults.ExcerptSeparator),
		open,
	)

	return matterSettings{
		language:  language,
		open:      open,
		close:     closing,
		excerpt:   opts.Bool("excerpt", false),
		separator: separator,
		schema:    opts.Map("schema"),
	}, nil
}

func normalizeLanguage(language string) string {
	language = strings.ToLower(strings.TrimSpace(language))
	switch language {
	case "":
		return defaultMatterLanguage
	case "yml":
		return "yaml"
	default:
		return language
	}
}
