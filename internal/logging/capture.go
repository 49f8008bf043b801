package logging

import (
	"context"
	"strings"
	"sync"
)

// CapturedEntry is one log call recorded by a CaptureLogger.
type CapturedEntry struct {
	Level   LogLevel
	Message string
	Err     error
	Fields  map[string]interface{}
}

// CaptureLogger records log calls in memory so tests can assert on them.
type CaptureLogger struct {
	mu        sync.Mutex
	entries   []CapturedEntry
	component string
	fields    map[string]interface{}
}

// NewCaptureLogger creates an empty capture logger.
func NewCaptureLogger() *CaptureLogger {
	return &CaptureLogger{fields: make(map[string]interface{})}
}

// Entries returns a copy of all recorded entries.
func (c *CaptureLogger) Entries() []CapturedEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]CapturedEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// EntriesAt returns recorded entries at the given level.
func (c *CaptureLogger) EntriesAt(level LogLevel) []CapturedEntry {
	var out []CapturedEntry
	for _, e := range c.Entries() {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// ContainsMessage reports whether any entry's message contains substr.
func (c *CaptureLogger) ContainsMessage(substr string) bool {
	for _, e := range c.Entries() {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func (c *CaptureLogger) record(level LogLevel, err error, msg string, fields ...interface{}) {
	entry := CapturedEntry{
		Level:   level,
		Message: msg,
		Err:     err,
		Fields:  make(map[string]interface{}),
	}
	for k, v := range c.fields {
		entry.Fields[k] = v
	}
	for i := 0; i+1 < len(fields); i += 2 {
		if key, ok := fields[i].(string); ok {
			entry.Fields[key] = fields[i+1]
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, entry)
}

// Debug records a debug entry.
func (c *CaptureLogger) Debug(ctx context.Context, msg string, fields ...interface{}) {
	c.record(LevelDebug, nil, msg, fields...)
}

// Info records an info entry.
func (c *CaptureLogger) Info(ctx context.Context, msg string, fields ...interface{}) {
	c.record(LevelInfo, nil, msg, fields...)
}

// Warn records a warning entry.
func (c *CaptureLogger) Warn(ctx context.Context, err error, msg string, fields ...interface{}) {
	c.record(LevelWarn, err, msg, fields...)
}

// Error records an error entry.
func (c *CaptureLogger) Error(ctx context.Context, err error, msg string, fields ...interface{}) {
	c.record(LevelError, err, msg, fields...)
}

// With returns the same capture logger with extra persistent fields.
func (c *CaptureLogger) With(fields ...interface{}) Logger {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := 0; i+1 < len(fields); i += 2 {
		if key, ok := fields[i].(string); ok {
			c.fields[key] = fields[i+1]
		}
	}
	return c
}

// WithComponent returns the same capture logger scoped to a component.
func (c *CaptureLogger) WithComponent(component string) Logger {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.component = component
	return c
}
