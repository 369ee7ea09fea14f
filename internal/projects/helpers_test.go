package projects

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/goliatone/go-portfolio/internal/markdown"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

func writeProject(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func newTestRepository(t *testing.T, dir string, opts ...Option) *Repository {
	t.Helper()
	svc := markdown.NewService(markdown.Config{Dir: dir}, nil)
	return NewRepository(svc, opts...)
}

func slugsOf(records []*interfaces.ProjectRecord) []string {
	out := make([]string, 0, len(records))
	for _, record := range records {
		out = append(out, record.Slug)
	}
	return out
}

func mustListAll(t *testing.T, repo interfaces.ProjectRepository) []*interfaces.ProjectRecord {
	t.Helper()
	records, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	return records
}

type logEntry struct {
	level string
	msg   string
}

type recordingLogger struct {
	mu      sync.Mutex
	entries *[]logEntry
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{entries: &[]logEntry{}}
}

func (l *recordingLogger) record(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.entries = append(*l.entries, logEntry{level: level, msg: msg})
}

func (l *recordingLogger) has(level, msg string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, entry := range *l.entries {
		if entry.level == level && entry.msg == msg {
			return true
		}
	}
	return false
}

func (l *recordingLogger) Trace(msg string, _ ...any) { l.record("trace", msg) }
func (l *recordingLogger) Debug(msg string, _ ...any) { l.record("debug", msg) }
func (l *recordingLogger) Info(msg string, _ ...any)  { l.record("info", msg) }
func (l *recordingLogger) Warn(msg string, _ ...any)  { l.record("warn", msg) }
func (l *recordingLogger) Error(msg string, _ ...any) { l.record("error", msg) }
func (l *recordingLogger) Fatal(msg string, _ ...any) { l.record("fatal", msg) }

func (l *recordingLogger) WithFields(map[string]any) interfaces.Logger { return l }

func (l *recordingLogger) WithContext(context.Context) interfaces.Logger { return l }
