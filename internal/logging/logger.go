// Package logging provides the leveled console logger used after bootstrap.
// Output goes through zerolog's ConsoleWriter; an optional log file receives
// the same lines without color.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/backmassage/contactsheet/internal/config"
	"github.com/backmassage/contactsheet/internal/term"
)

const timeFormat = "2006-01-02 15:04:05"

// Logger provides leveled, optionally colored logging with optional file sink.
type Logger struct {
	mu   sync.Mutex
	zl   zerolog.Logger
	out  io.Writer
	file *os.File
}

// NewLogger configures colors from cfg and optionally opens cfg.LogFile.
// Call Close() when done.
func NewLogger(cfg *config.Config) (*Logger, error) {
	return newLogger(cfg, os.Stdout)
}

func newLogger(cfg *config.Config, out io.Writer) (*Logger, error) {
	term.Configure(cfg.ColorMode)
	l := &Logger{out: out}

	writers := []io.Writer{
		zerolog.ConsoleWriter{Out: out, NoColor: !term.Enabled(), TimeFormat: timeFormat},
	}

	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		l.file = f
		writers = append(writers, zerolog.ConsoleWriter{Out: f, NoColor: true, TimeFormat: timeFormat})
	}

	level := zerolog.InfoLevel
	if cfg.Verbose {
		level = zerolog.DebugLevel
	}
	l.zl = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().Timestamp().
		Logger()
	return l, nil
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

func (l *Logger) emit(ev *zerolog.Event, format string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ev.Msgf(format, args...)
}

// Info logs at INFO level.
func (l *Logger) Info(format string, args ...interface{}) {
	l.emit(l.zl.Info(), format, args)
}

// Success logs at INFO level with a result=ok field.
func (l *Logger) Success(format string, args ...interface{}) {
	l.emit(l.zl.Info().Str("result", "ok"), format, args)
}

// Warn logs at WARN level.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.emit(l.zl.Warn(), format, args)
}

// Error logs at ERROR level.
func (l *Logger) Error(format string, args ...interface{}) {
	l.emit(l.zl.Error(), format, args)
}

// Debug logs at DEBUG level; dropped unless the logger was built with Verbose.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.emit(l.zl.Debug(), format, args)
}

// Blank writes an empty separator line to the console and the log file.
func (l *Logger) Blank() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.out)
	if l.file != nil {
		fmt.Fprintln(l.file)
	}
}
