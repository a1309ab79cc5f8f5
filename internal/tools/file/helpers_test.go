package file

import (
	"fmt"
	"strings"
	"sync"

	"github.com/d-kuro/localops-mcp/internal/security"
	"github.com/d-kuro/localops-mcp/internal/tools"
)

// captureLogger records log lines so tests can assert on them.
type captureLogger struct {
	mu      *sync.Mutex
	entries *[]string
	prefix  string
}

func newCaptureLogger() *captureLogger {
	return &captureLogger{mu: &sync.Mutex{}, entries: &[]string{}}
}

func (l *captureLogger) record(level, msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.entries = append(*l.entries, fmt.Sprintf("%s%s %s %v", l.prefix, level, msg, args))
}

func (l *captureLogger) Debug(msg string, args ...any) { l.record("DEBUG", msg, args...) }
func (l *captureLogger) Info(msg string, args ...any)  { l.record("INFO", msg, args...) }
func (l *captureLogger) Warn(msg string, args ...any)  { l.record("WARN", msg, args...) }
func (l *captureLogger) Error(msg string, args ...any) { l.record("ERROR", msg, args...) }

func (l *captureLogger) WithTool(toolName string) tools.Logger {
	return &captureLogger{mu: l.mu, entries: l.entries, prefix: l.prefix + "[" + toolName + "] "}
}

func (l *captureLogger) WithSession(sessionID string) tools.Logger {
	return &captureLogger{mu: l.mu, entries: l.entries, prefix: l.prefix + "(" + sessionID + ") "}
}

func (l *captureLogger) contains(substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range *l.entries {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}

func createTestContext() (*tools.Context, *captureLogger) {
	logger := newCaptureLogger()
	return &tools.Context{
		Logger:    logger,
		Validator: security.NewDefaultValidator(),
	}, logger
}
