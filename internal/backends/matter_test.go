package backends_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-parsers/internal/backends"
	"github.com/goliatone/go-parsers/internal/dispatch"
	"github.com/goliatone/go-parsers/internal/filecache"
	"github.com/goliatone/go-parsers/internal/registry"
	"github.com/goliatone/go-parsers/internal/runtimeconfig"
	"github.com/goliatone/go-parsers/internal/validation"
	"github.com/goliatone/go-parsers/pkg/interfaces"
)

func newMatter(t *testing.T) dispatch.Backend[*interfaces.Matter] {
	t.Helper()
	backend, err := backends.Matter(registry.New(nil), runtimeconfig.DefaultConfig().Matter, nil)
	if err != nil {
		t.Fatalf("register matter: %v", err)
	}
	return backend
}

func TestMatterExposesAllCapabilities(t *testing.T) {
	caps := newMatter(t).Capabilities()
	want := dispatch.Capabilities{SyncText: true, AsyncText: true, SyncFile: true, AsyncFile: true}
	if caps != want {
		t.Fatalf("expected all capabilities, got %v", caps)
	}
}

func TestMatterParseFileExcludesFrontMatter(t *testing.T) {
	backend := newMatter(t)
	path := filepath.Join("testdata", "fixture-with-frontmatter.md")

	got, err := backend.ParseFileSync(context.Background(), path, nil)
	if err != nil {
		t.Fatalf("parse file: %v", err)
	}
	if strings.Contains(got.Content, "title: Fixture") || strings.Contains(got.Content, "---") {
		t.Fatalf("expected body without the front matter block, got %q", got.Content)
	}
	if !strings.HasPrefix(got.Content, "# Body heading") {
		t.Fatalf("expected body to start at the heading, got %q", got.Content)
	}
	if got.Data["title"] != "Fixture" || got.Data["draft"] != false {
		t.Fatalf("unexpected data %#v", got.Data)
	}
	if tags, ok := got.Data["tags"].([]any); !ok || len(tags) != 2 {
		t.Fatalf("expected two tags, got %#v", got.Data["tags"])
	}
	if got.Path != path || got.Language != "yaml" || got.IsEmpty {
		t.Fatalf("unexpected metadata: %+v", got)
	}
	if !strings.Contains(got.Matter, "title: Fixture") {
		t.Fatalf("expected raw matter block, got %q", got.Matter)
	}
}

func TestMatterParseFileAsync(t *testing.T) {
	backend := newMatter(t)
	done := make(chan struct{})
	backend.ParseFile(context.Background(), filepath.Join("testdata", "toml.md"), nil,
		func(got *interfaces.Matter, err error) {
			defer close(done)
			if err != nil {
				t.Errorf("parse file: %v", err)
				return
			}
			if got.Language != "toml" || got.Data["title"] != "Toml fixture" {
				t.Errorf("unexpected result %+v", got)
			}
		})
	<-done
}

func TestMatterLanguages(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		opts     interfaces.Options
		language string
		title    any
	}{
		{
			name:     "toml via option",
			input:    "---\ntitle = \"t\"\n---\nbody",
			opts:     interfaces.Options{"lang": "toml"},
			language: "toml",
			title:    "t",
		},
		{
			name:     "json via delimiter suffix",
			input:    "---json\n{\"title\": \"j\"}\n---\nbody",
			language: "json",
			title:    "j",
		},
		{
			name:     "custom delimiters",
			input:    "~~~\ntitle: custom\n~~~\nbody",
			opts:     interfaces.Options{"delims": "~~~"},
			language: "yaml",
			title:    "custom",
		},
		{
			name:     "pair of delimiters",
			input:    "<!--\ntitle: pair\n-->\nbody",
			opts:     interfaces.Options{"delims": []any{"<!--", "-->"}},
			language: "yaml",
			title:    "pair",
		},
	}

	backend := newMatter(t)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := backend.ParseSync(context.Background(), tc.input, tc.opts)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if got.Language != tc.language || got.Data["title"] != tc.title {
				t.Fatalf("unexpected result: language=%q data=%#v", got.Language, got.Data)
			}
			if got.Content != "body" {
				t.Fatalf("unexpected content %q", got.Content)
			}
		})
	}
}

func TestMatterWithoutFrontMatter(t *testing.T) {
	got, err := newMatter(t).ParseSync(context.Background(), "just text\n", nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Content != "just text\n" || len(got.Data) != 0 || got.IsEmpty || got.Matter != "" {
		t.Fatalf("unexpected result %+v", got)
	}
	if got.Orig != "just text\n" {
		t.Fatalf("expected original input to be kept, got %q", got.Orig)
	}
}

func TestMatterEmptyBlock(t *testing.T) {
	got, err := newMatter(t).ParseSync(context.Background(), "---\n---\nbody", interfaces.Options{"language": "json"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !got.IsEmpty || got.Content != "body" || len(got.Data) != 0 {
		t.Fatalf("expected empty matter, got %+v", got)
	}
}

func TestMatterExcerpt(t *testing.T) {
	backend := newMatter(t)
	input := "---\ntitle: x\n---\nIntro text\n---\nMore text\n"

	got, err := backend.ParseSync(context.Background(), input, interfaces.Options{"excerpt": true})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Excerpt != "Intro text\n" {
		t.Fatalf("unexpected excerpt %q", got.Excerpt)
	}

	fixture, err := os.ReadFile(filepath.Join("testdata", "fixture-with-frontmatter.md"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	got, err = backend.ParseSync(context.Background(), string(fixture), interfaces.Options{
		"excerpt":           true,
		"excerpt_separator": "<!-- more -->",
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Excerpt != "# Body heading\n\nFirst paragraph.\n" {
		t.Fatalf("unexpected excerpt %q", got.Excerpt)
	}
}

func TestMatterSchemaViolationIsParseError(t *testing.T) {
	schema := map[string]any{
		"type":     "object",
		"required": []any{"author"},
	}
	_, err := newMatter(t).ParseSync(context.Background(), "---\ntitle: x\n---\n", interfaces.Options{"schema": schema})
	if !errors.Is(err, dispatch.ErrParse) || !errors.Is(err, validation.ErrSchemaValidation) {
		t.Fatalf("expected schema parse error, got %v", err)
	}
}

func TestMatterRejectsMalformedInput(t *testing.T) {
	backend := newMatter(t)
	ctx := context.Background()

	if _, err := backend.ParseSync(ctx, "---\ntitle: [unclosed\n---\n", nil); !errors.Is(err, dispatch.ErrParse) {
		t.Fatalf("expected ErrParse for broken yaml, got %v", err)
	}
	if _, err := backend.ParseSync(ctx, "text", interfaces.Options{"language": "ini"}); !errors.Is(err, dispatch.ErrParse) {
		t.Fatalf("expected ErrParse for unknown language, got %v", err)
	}

	done := make(chan error, 1)
	backend.Parse(ctx, "---\ntitle: [unclosed\n---\n", nil, func(got *interfaces.Matter, err error) {
		if got != nil {
			t.Errorf("expected no output alongside an error")
		}
		done <- err
	})
	if err := <-done; !errors.Is(err, dispatch.ErrParse) {
		t.Fatalf("expected async ErrParse, got %v", err)
	}
}

func TestMatterMissingFile(t *testing.T) {
	_, err := newMatter(t).ParseFileSync(context.Background(), filepath.Join(t.TempDir(), "nope.md"), nil)
	if !errors.Is(err, filecache.ErrRead) || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestMatterNormalisesFileContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crlf.md")
	if err := os.WriteFile(path, []byte("\uFEFF---\r\ntitle: crlf\r\n---\r\nbody\r\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	got, err := newMatter(t).ParseFileSync(context.Background(), path, nil)
	if err != nil {
		t.Fatalf("parse file: %v", err)
	}
	if got.Data["title"] != "crlf" || got.Content != "body\n" {
		t.Fatalf("unexpected result %+v", got)
	}
}
