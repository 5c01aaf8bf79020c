package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// LogEntry represents a single JSON log entry.
type LogEntry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// JSONLogger implements Logger with JSON Lines output.
type JSONLogger struct {
	mu     sync.Mutex
	output io.Writer
	file   *os.File
	level  LogLevel
	fields map[string]any
	closed bool
}

// NewJSONLogger creates a JSON logger writing to the given file
// path, creating parent directories as needed. An empty path
// writes to stdout.
func NewJSONLogger(path string, level LogLevel) (*JSONLogger, error) {
	logger := &JSONLogger{
		output: os.Stdout,
		level:  level,
		fields: make(map[string]any),
	}
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		file, err := os.OpenFile(
			path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644,
		)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		logger.output = file
		logger.file = file
	}
	return logger, nil
}

// NewJSONWriterLogger creates a JSON logger over an arbitrary
// writer, for tests and embedding.
func NewJSONWriterLogger(w io.Writer, level LogLevel) *JSONLogger {
	return &JSONLogger{
		output: w,
		level:  level,
		fields: make(map[string]any),
	}
}

func (j *JSONLogger) log(level LogLevel, msg string, fields ...Field) {
	if level < j.level {
		return
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now().Format(time.RFC3339Nano),
		Level:     level.String(),
		Message:   msg,
	}
	if len(j.fields) > 0 || len(fields) > 0 {
		entry.Fields = make(map[string]any, len(j.fields)+len(fields))
		for k, v := range j.fields {
			entry.Fields[k] = v
		}
		for _, f := range fields {
			entry.Fields[f.Key] = f.Value
		}
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	j.output.Write(append(data, '\n'))
}

// Info logs at info level.
func (j *JSONLogger) Info(msg string, fields ...Field) {
	j.log(LevelInfo, msg, fields...)
}

// Warn logs at warn level.
func (j *JSONLogger) Warn(msg string, fields ...Field) {
	j.log(LevelWarn, msg, fields...)
}

// Error logs at error level.
func (j *JSONLogger) Error(msg string, fields ...Field) {
	j.log(LevelError, msg, fields...)
}

// Debug logs at debug level.
func (j *JSONLogger) Debug(msg string, fields ...Field) {
	j.log(LevelDebug, msg, fields...)
}

// WithFields returns a logger carrying additional default fields.
// The underlying writer is shared.
func (j *JSONLogger) WithFields(fields ...Field) Logger {
	j.mu.Lock()
	defer j.mu.Unlock()

	merged := make(map[string]any, len(j.fields)+len(fields))
	for k, v := range j.fields {
		merged[k] = v
	}
	for _, f := range fields {
		merged[f.Key] = f.Value
	}
	return &JSONLogger{
		output: j.output,
		file:   j.file,
		level:  j.level,
		fields: merged,
	}
}

// Close closes the underlying file, if any. Further log calls
// are dropped.
func (j *JSONLogger) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return nil
	}
	j.closed = true
	if j.file != nil {
		return j.file.Close()
	}
	return nil
}
