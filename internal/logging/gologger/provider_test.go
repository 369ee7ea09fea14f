package gologger

import (
	"context"
	"maps"
	"testing"

	"github.com/google/go-cmp/cmp"

	glog "github.com/goliatone/go-logger/glog"
)

func TestNewProviderCreatesLogger(t *testing.T) {
	p, err := NewProvider(Config{
		Level:  "debug",
		Format: "console",
	})
	if err != nil {
		t.Fatalf("NewProvider returned error: %v", err)
	}

	logger := p.GetLogger("portfolio.test")
	if logger == nil {
		t.Fatal("expected logger, got nil")
	}

	child := logger.WithContext(context.Background())
	child.Debug("adapter.initialised")
}

func TestNewProviderRejectsUnknownFormat(t *testing.T) {
	if _, err := NewProvider(Config{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewProviderRejectsUnknownLevel(t *testing.T) {
	if _, err := NewProvider(Config{Level: "verbose"}); err == nil {
		t.Fatal("expected error for unsupported level")
	}
}

func TestBuildOptions(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want int
	}{
		{"defaults", Config{}, 1},
		{"level and format", Config{Level: "WARNING", Format: "pretty"}, 2},
		{"with source", Config{Level: "info", Format: "json", AddSource: true}, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			options, err := buildOptions(tc.cfg)
			if err != nil {
				t.Fatalf("buildOptions: %v", err)
			}
			if len(options) != tc.want {
				t.Fatalf("expected %d options, got %d", tc.want, len(options))
			}
		})
	}
}

func TestGetLoggerReusesModuleLoggers(t *testing.T) {
	p, err := NewProvider(Config{Format: "json"})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	first := p.GetLogger("portfolio.projects")
	if again := p.GetLogger(" portfolio.projects "); again != first {
		t.Fatal("expected the same logger for a repeated module name")
	}
	if other := p.GetLogger("portfolio.http"); other == first {
		t.Fatal("expected distinct loggers per module")
	}
}

func TestNilProviderReturnsNoOp(t *testing.T) {
	var p *Provider
	logger := p.GetLogger("portfolio.test")
	if logger == nil {
		t.Fatal("expected no-op logger")
	}
	logger.Info("dropped")
}

func TestAdapterForwardsLevels(t *testing.T) {
	stub := &stubLogger{}
	adapted := wrap(stub)

	emit := map[string]func(string, ...any){
		"trace": adapted.Trace,
		"debug": adapted.Debug,
		"info":  adapted.Info,
		"warn":  adapted.Warn,
		"error": adapted.Error,
		"fatal": adapted.Fatal,
	}
	order := []string{"trace", "debug", "info", "warn", "error", "fatal"}
	for _, level := range order {
		emit[level]("project.loaded", "slug", "alpha")
	}

	if diff := cmp.Diff(order, stub.calls); diff != "" {
		t.Fatalf("forwarded levels mismatch (-want +got):\n%s", diff)
	}
}

func TestAdapterFieldsAndContext(t *testing.T) {
	stub := &stubLogger{}
	adapted := wrap(stub).(*adapter)

	fields := map[string]any{"slug": "alpha"}
	if adapted.WithFields(fields) == nil {
		t.Fatal("expected WithFields to return logger")
	}
	fields["slug"] = "beta"
	if diff := cmp.Diff([]map[string]any{{"slug": "alpha"}}, stub.fields); diff != "" {
		t.Fatalf("fields were not cloned (-want +got):\n%s", diff)
	}

	ctx := context.WithValue(context.Background(), struct{}{}, "value")
	adapted.WithContext(ctx)
	if len(stub.contexts) != 1 || stub.contexts[0] != ctx {
		t.Fatalf("expected context propagation, got %#v", stub.contexts)
	}
}

type stubLogger struct {
	calls    []string
	fields   []map[string]any
	contexts []context.Context
}

var _ glog.Logger = (*stubLogger)(nil)
var _ glog.FieldsLogger = (*stubLogger)(nil)

func (s *stubLogger) Trace(string, ...any) { s.calls = append(s.calls, "trace") }
func (s *stubLogger) Debug(string, ...any) { s.calls = append(s.calls, "debug") }
func (s *stubLogger) Info(string, ...any)  { s.calls = append(s.calls, "info") }
func (s *stubLogger) Warn(string, ...any)  { s.calls = append(s.calls, "warn") }
func (s *stubLogger) Error(string, ...any) { s.calls = append(s.calls, "error") }
func (s *stubLogger) Fatal(string, ...any) { s.calls = append(s.calls, "fatal") }

func (s *stubLogger) WithContext(ctx context.Context) glog.Logger {
	s.contexts = append(s.contexts, ctx)
	return s
}

func (s *stubLogger) WithFields(fields map[string]any) glog.Logger {
	s.fields = append(s.fields, maps.Clone(fields))
	return s
}
