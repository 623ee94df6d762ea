package kurir

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Logger receives structured debug output. keysAndValues alternate key, value.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// SimpleLogger writes leveled key=value lines through the standard log package.
type SimpleLogger struct {
	logger *log.Logger
}

// NewSimpleLogger returns a SimpleLogger writing to stderr.
func NewSimpleLogger() *SimpleLogger {
	return &SimpleLogger{logger: log.New(os.Stderr, "[kurir] ", log.LstdFlags|log.Lmicroseconds)}
}

func (l *SimpleLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.write("DEBUG", msg, keysAndValues)
}

func (l *SimpleLogger) Info(msg string, keysAndValues ...interface{}) {
	l.write("INFO", msg, keysAndValues)
}

func (l *SimpleLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.write("WARN", msg, keysAndValues)
}

func (l *SimpleLogger) Error(msg string, keysAndValues ...interface{}) {
	l.write("ERROR", msg, keysAndValues)
}

func (l *SimpleLogger) write(level, msg string, keysAndValues []interface{}) {
	var b strings.Builder
	b.WriteString(level)
	b.WriteByte(' ')
	b.WriteString(msg)
	for i := 0; i < len(keysAndValues); i += 2 {
		b.WriteByte(' ')
		fmt.Fprint(&b, keysAndValues[i])
		b.WriteByte('=')
		if i+1 < len(keysAndValues) {
			fmt.Fprint(&b, keysAndValues[i+1])
		} else {
			b.WriteString("<missing>")
		}
	}
	l.logger.Println(b.String())
}

// DebugConfig selects which dispatch events are logged.
type DebugConfig struct {
	Enabled          bool
	LogRequests      bool
	LogInterceptors  bool
	LogTransforms    bool
	LogCancellations bool
	RequestIDGen     func() string
}

// DefaultDebugConfig logs every event category once debugging is enabled.
func DefaultDebugConfig() *DebugConfig {
	return &DebugConfig{
		Enabled:          false,
		LogRequests:      true,
		LogInterceptors:  true,
		LogTransforms:    true,
		LogCancellations: true,
		RequestIDGen:     generateRequestID,
	}
}

func generateRequestID() string {
	return uuid.New().String()
}

// debugLogger returns the client logger when debugging is on and the category
// selected by flag is enabled.
func (c *Client) debugLogger(flag func(*DebugConfig) bool) Logger {
	if c.debug == nil || !c.debug.Enabled || c.logger == nil || !flag(c.debug) {
		return nil
	}
	return c.logger
}

func logRequests(d *DebugConfig) bool      { return d.LogRequests }
func logInterceptors(d *DebugConfig) bool  { return d.LogInterceptors }
func logTransforms(d *DebugConfig) bool    { return d.LogTransforms }
func logCancellations(d *DebugConfig) bool { return d.LogCancellations }
