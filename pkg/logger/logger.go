package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog behind a small structured-field API so callers
// do not depend on the zerolog event builder directly.
type Logger struct {
	zl zerolog.Logger
}

type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json or console
	Output     string // stdout, stderr, or file path
	TimeFormat string // defaults to RFC3339Nano
}

func New(cfg *Config) (*Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	zerolog.SetGlobalLevel(level)

	out, err := openOutput(cfg.Output)
	if err != nil {
		return nil, err
	}

	tf := cfg.TimeFormat
	if tf == "" {
		tf = time.RFC3339Nano
	}
	zerolog.TimeFieldFormat = tf

	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: tf}
	}

	zl := zerolog.New(out).With().Timestamp().CallerWithSkipFrameCount(3).Logger()
	return &Logger{zl: zl}, nil
}

func openOutput(name string) (io.Writer, error) {
	switch name {
	case "", "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	default:
		f, err := os.OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		return f, nil
	}
}

// Field applies one key/value pair to a pending log event.
type Field func(*zerolog.Event)

func (l *Logger) Debug(msg string, fields ...Field) { l.emit(l.zl.Debug(), msg, fields) }
func (l *Logger) Info(msg string, fields ...Field)  { l.emit(l.zl.Info(), msg, fields) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.emit(l.zl.Warn(), msg, fields) }
func (l *Logger) Error(msg string, fields ...Field) { l.emit(l.zl.Error(), msg, fields) }

func (l *Logger) emit(ev *zerolog.Event, msg string, fields []Field) {
	for _, f := range fields {
		f(ev)
	}
	ev.Msg(msg)
}

func String(key, value string) Field {
	return func(ev *zerolog.Event) { ev.Str(key, value) }
}

func Int(key string, value int) Field {
	return func(ev *zerolog.Event) { ev.Int(key, value) }
}

func Int64(key string, value int64) Field {
	return func(ev *zerolog.Event) { ev.Int64(key, value) }
}

func Float64(key string, value float64) Field {
	return func(ev *zerolog.Event) { ev.Float64(key, value) }
}

func Bool(key string, value bool) Field {
	return func(ev *zerolog.Event) { ev.Bool(key, value) }
}

func Duration(key string, value time.Duration) Field {
	return func(ev *zerolog.Event) { ev.Dur(key, value) }
}

func Strings(key string, value []string) Field {
	return func(ev *zerolog.Event) { ev.Strs(key, value) }
}

func Any(key string, value interface{}) Field {
	return func(ev *zerolog.Event) { ev.Interface(key, value) }
}

func Error(err error) Field {
	return func(ev *zerolog.Event) { ev.AnErr("error", err) }
}
