package bridge

import (
	"sync"

	loggingpkg "github.com/hostwire/hostwire/internal/bridge/logging"
)

// recordingLogger captures log calls for assertions.
type recordingLogger struct {
	mu     sync.Mutex
	warns  []string
	errors []string
}

func (r *recordingLogger) With(fields loggingpkg.LogFields) loggingpkg.ServiceLogger { return r }
func (r *recordingLogger) Debug(msg string, fields loggingpkg.LogFields)             {}
func (r *recordingLogger) Info(msg string, fields loggingpkg.LogFields)              {}

func (r *recordingLogger) Warn(msg string, fields loggingpkg.LogFields) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warns = append(r.warns, msg)
}

func (r *recordingLogger) Error(msg string, err error, fields loggingpkg.LogFields) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, msg)
}

func (r *recordingLogger) warnCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.warns)
}

func (r *recordingLogger) errorCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errors)
}

// recordingCollector captures violations for assertions.
type recordingCollector struct {
	mu         sync.Mutex
	violations []Violation
}

func (r *recordingCollector) Collect(v Violation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.violations = append(r.violations, v)
}

func (r *recordingCollector) all() []Violation {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Violation, len(r.violations))
	copy(out, r.violations)
	return out
}
