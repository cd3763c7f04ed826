package engine

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// LogBuffer collects timestamped pipeline log entries for one invocation.
// Each Recommend call gets its own buffer; nothing is shared across requests.
// Entries are mirrored to slog at debug level.
type LogBuffer struct {
	mu      sync.Mutex
	entries []string
}

// NewLogBuffer returns an empty invocation-scoped buffer.
func NewLogBuffer() *LogBuffer {
	return &LogBuffer{}
}

// Logf appends a timestamped entry.
func (b *LogBuffer) Logf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	entry := fmt.Sprintf("[%s] %s", time.Now().UTC().Format(time.RFC3339), msg)
	b.mu.Lock()
	b.entries = append(b.entries, entry)
	b.mu.Unlock()
	slog.Debug("pipeline", slog.String("entry", msg))
}

// Entries returns a copy of the buffered entries in append order.
func (b *LogBuffer) Entries() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.entries))
	copy(out, b.entries)
	return out
}
