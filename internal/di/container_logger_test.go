package di_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/goliatone/go-parsers/internal/backends"
	"github.com/goliatone/go-parsers/internal/di"
	"github.com/goliatone/go-parsers/internal/dispatch"
	"github.com/goliatone/go-parsers/internal/registry"
	"github.com/goliatone/go-parsers/internal/runtimeconfig"
	"github.com/goliatone/go-parsers/pkg/interfaces"
)

func TestContainerLogsConfiguredBackends(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = true

	rec := newRecordingProvider()

	if _, err := di.NewContainer(cfg, di.WithLoggerProvider(rec)); err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	entry := rec.find("container.configured")
	if entry == nil {
		t.Fatalf("expected container.configured log entry, got %#v", rec.entries)
	}
	if got := entry.fields["backends"]; got != "blackfriday,goldmark,gomarkdown,matter" {
		t.Fatalf("unexpected backends field: %v", got)
	}
	if got := entry.fields["module"]; got != "parsers.container" {
		t.Fatalf("expected module field to be parsers.container, got %v", got)
	}
}

func TestContainerBackendsLoadLazily(t *testing.T) {
	rec := newRecordingProvider()
	container, err := di.NewContainer(runtimeconfig.DefaultConfig(), di.WithLoggerProvider(rec))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	for _, name := range []string{backends.GoldmarkName, backends.GomarkdownName, backends.BlackfridayName, backends.MatterName} {
		if container.Constructed(name) {
			t.Fatalf("expected %s to stay unloaded before first use", name)
		}
	}

	out, err := container.Goldmark().Call(context.Background(), "# Foo", nil)
	if err != nil {
		t.Fatalf("goldmark call: %v", err)
	}
	if !strings.Contains(out, ">Foo</h1>") {
		t.Fatalf("unexpected goldmark output %q", out)
	}

	if !container.Constructed(backends.GoldmarkName) {
		t.Fatal("expected goldmark to be constructed after a call")
	}
	if container.Constructed(backends.BlackfridayName) {
		t.Fatal("expected blackfriday to stay unloaded")
	}

	entry := rec.find("registry.construct.success")
	if entry == nil {
		t.Fatalf("expected registry.construct.success log entry, got %#v", rec.entries)
	}
	if got := entry.fields["backend"]; got != backends.GoldmarkName {
		t.Fatalf("expected backend field goldmark, got %v", got)
	}
}

func TestContainerCachesFileReadsUntilCleared(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	if err := os.WriteFile(path, []byte("# One"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	var (
		mu    sync.Mutex
		reads int
	)
	readFile := func(p string) ([]byte, error) {
		mu.Lock()
		reads++
		mu.Unlock()
		return os.ReadFile(p)
	}

	container, err := di.NewContainer(runtimeconfig.DefaultConfig(), di.WithReadFunc(readFile))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	ctx := context.Background()
	opts := interfaces.Options{interfaces.OptionCache: true}
	for i := 0; i < 2; i++ {
		if _, err := container.Blackfriday().ParseFileSync(ctx, path, opts); err != nil {
			t.Fatalf("parse file: %v", err)
		}
	}
	if reads != 1 {
		t.Fatalf("expected one storage read with cache enabled, got %d", reads)
	}

	container.ClearCache()
	if _, err := container.Blackfriday().ParseFileSync(ctx, path, opts); err != nil {
		t.Fatalf("parse file after clear: %v", err)
	}
	if reads != 2 {
		t.Fatalf("expected a fresh read after ClearCache, got %d reads", reads)
	}
}

func TestContainerRegisterCustomBackend(t *testing.T) {
	container, err := di.NewContainer(runtimeconfig.DefaultConfig())
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	upper := dispatch.Backend[string]{
		Name: "upper",
		ParseSync: func(_ context.Context, text string, _ interfaces.Options) (string, error) {
			return strings.ToUpper(text), nil
		},
	}

	adapter, err := di.Register(container, upper)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if !container.Constructed("upper") {
		t.Fatal("expected a registered custom backend to report as constructed")
	}
	out, err := adapter.Call(context.Background(), "shout", nil)
	if err != nil || out != "SHOUT" {
		t.Fatalf("unexpected result %q err=%v", out, err)
	}

	runner, err := container.Runner("upper")
	if err != nil {
		t.Fatalf("Runner lookup: %v", err)
	}
	if runner.Name() != "upper" {
		t.Fatalf("unexpected runner name %q", runner.Name())
	}

	if _, err := di.Register(container, upper); !errors.Is(err, registry.ErrDuplicate) {
		t.Fatalf("expected duplicate registration error, got %v", err)
	}

	builtin := upper
	builtin.Name = backends.GoldmarkName
	if _, err := di.Register(container, builtin); !errors.Is(err, registry.ErrDuplicate) {
		t.Fatalf("expected built-in name to be reserved, got %v", err)
	}
}

func TestContainerRegisterRejectsIncompleteBackends(t *testing.T) {
	container, err := di.NewContainer(runtimeconfig.DefaultConfig())
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	if _, err := di.Register(container, dispatch.Backend[string]{Name: "  "}); !errors.Is(err, dispatch.ErrInvalidRequest) {
		t.Fatalf("expected invalid request for a blank name, got %v", err)
	}
	if _, err := di.Register(container, dispatch.Backend[string]{Name: "empty"}); !errors.Is(err, dispatch.ErrNoCapability) {
		t.Fatalf("expected no-capability error, got %v", err)
	}
}

func TestContainerRunnerMissingBackend(t *testing.T) {
	container, err := di.NewContainer(runtimeconfig.DefaultConfig())
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if _, err := container.Runner("missing"); !errors.Is(err, registry.ErrNotRegistered) {
		t.Fatalf("expected not registered error, got %v", err)
	}
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Gomarkdown.Dialect = "unknown"

	if _, err := di.NewContainer(cfg); !errors.Is(err, runtimeconfig.ErrDialectUnknown) {
		t.Fatalf("expected dialect error, got %v", err)
	}
}

type recordingProvider struct {
	mu      sync.Mutex
	entries []recordedEntry
}

type recordedEntry struct {
	level  string
	msg    string
	fields map[string]any
}

func newRecordingProvider() *recordingProvider {
	return &recordingProvider{entries: []recordedEntry{}}
}

func (p *recordingProvider) GetLogger(name string) interfaces.Logger {
	return &recordingLogger{
		provider: p,
		fields: map[string]any{
			"logger": name,
		},
	}
}

func (p *recordingProvider) record(entry recordedEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = append(p.entries, entry)
}

func (p *recordingProvider) find(msg string) *recordedEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.entries {
		if p.entries[i].msg == msg {
			return &p.entries[i]
		}
	}
	return nil
}

type recordingLogger struct {
	provider *recordingProvider
	fields   map[string]any
}

var _ interfaces.Logger = (*recordingLogger)(nil)

func (l *recordingLogger) Trace(msg string, args ...any) { l.log("TRACE", msg, args...) }
func (l *recordingLogger) Debug(msg string, args ...any) { l.log("DEBUG", msg, args...) }
func (l *recordingLogger) Info(msg string, args ...any)  { l.log("INFO", msg, args...) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.log("WARN", msg, args...) }
func (l *recordingLogger) Error(msg string, args ...any) { l.log("ERROR", msg, args...) }
func (l *recordingLogger) Fatal(msg string, args ...any) { l.log("FATAL", msg, args...) }

func (l *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	merged := make(map[string]any, len(l.fields)+len(fields))
	for key, value := range l.fields {
		merged[key] = value
	}
	for key, value := range fields {
		merged[key] = value
	}
	return &recordingLogger{
		provider: l.provider,
		fields:   merged,
	}
}

func (l *recordingLogger) WithContext(context.Context) interfaces.Logger {
	return &recordingLogger{
		provider: l.provider,
		fields:   cloneFields(l.fields),
	}
}

func (l *recordingLogger) log(level, msg string, args ...any) {
	fields := cloneFields(l.fields)
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			break
		}
		key, _ := args[i].(string)
		if key == "" {
			continue
		}
		fields[key] = args[i+1]
	}
	l.provider.record(recordedEntry{
		level:  level,
		msg:    msg,
		fields: fields,
	})
}

func cloneFields(fields map[string]any) map[string]any {
	if len(fields) == 0 {
		return map[string]any{}
	}
	copied := make(map[string]any, len(fields))
	for key, value := range fields {
		copied[key] = value
	}
	return copied
}
