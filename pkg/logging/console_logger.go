package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// ANSI color codes.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorGray   = "\033[90m"
)

// ConsoleLogger provides colored console output. When verbose is
// false, debug messages are suppressed.
type ConsoleLogger struct {
	mu      sync.Mutex
	output  io.Writer
	verbose bool
	fields  map[string]any
}

// NewConsoleLogger creates a console logger writing to stdout.
func NewConsoleLogger(verbose bool) *ConsoleLogger {
	return &ConsoleLogger{
		output:  os.Stdout,
		verbose: verbose,
		fields:  make(map[string]any),
	}
}

// SetOutput redirects the logger, for tests.
func (c *ConsoleLogger) SetOutput(w io.Writer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.output = w
}

func (c *ConsoleLogger) log(
	level LogLevel, color, msg string, fields ...Field,
) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ts := time.Now().Format("15:04:05")

	merged := make([]string, 0, len(c.fields)+len(fields))
	for k, v := range c.fields {
		merged = append(merged, fmt.Sprintf("%s=%v", k, v))
	}
	for _, f := range fields {
		merged = append(merged, fmt.Sprintf("%s=%v", f.Key, f.Value))
	}

	var fieldStr string
	if len(merged) > 0 {
		fieldStr = " " + colorGray +
			fmt.Sprintf("{%s}", strings.Join(merged, ", ")) +
			colorReset
	}

	fmt.Fprintf(
		c.output, "%s%s %s%s %s%s\n",
		colorGray, ts, color, level.String(), msg+colorReset, fieldStr,
	)
}

// Info logs at info level.
func (c *ConsoleLogger) Info(msg string, fields ...Field) {
	c.log(LevelInfo, colorGreen, msg, fields...)
}

// Warn logs at warn level.
func (c *ConsoleLogger) Warn(msg string, fields ...Field) {
	c.log(LevelWarn, colorYellow, msg, fields...)
}

// Error logs at error level.
func (c *ConsoleLogger) Error(msg string, fields ...Field) {
	c.log(LevelError, colorRed, msg, fields...)
}

// Debug logs at debug level when verbose is enabled.
func (c *ConsoleLogger) Debug(msg string, fields ...Field) {
	if !c.verbose {
		return
	}
	c.log(LevelDebug, colorBlue, msg, fields...)
}

// WithFields returns a logger carrying additional default fields.
func (c *ConsoleLogger) WithFields(fields ...Field) Logger {
	c.mu.Lock()
	defer c.mu.Unlock()

	merged := make(map[string]any, len(c.fields)+len(fields))
	for k, v := range c.fields {
		merged[k] = v
	}
	for _, f := range fields {
		merged[f.Key] = f.Value
	}
	return &ConsoleLogger{
		output:  c.output,
		verbose: c.verbose,
		fields:  merged,
	}
}

// Close is a no-op for console output.
func (c *ConsoleLogger) Close() error { return nil }
