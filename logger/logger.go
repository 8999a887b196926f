// Package logger provides the structured logger shared by the weblog
// commands and libraries. Output is JSON on the console, one object per line.
package logger

import (
	"os"
	"strings"

	"github.com/gookit/slog"
	"github.com/gookit/slog/handler"
)

// Logger is the minimal logging surface the rest of weblog depends on.
type Logger interface {
	Debug(args ...any)
	Info(args ...any)
	Warn(args ...any)
	Error(args ...any)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Fields carries structured key/value pairs for a single log line.
type Fields map[string]any

// EnvKey is the environment variable consulted by InitFromEnv.
const EnvKey = "WEBLOG_LOG_LEVEL"

// Log is the process-wide logger. It defaults to info level so packages can
// log before the command layer has configured anything.
var Log Logger = New("info")

// InitFromEnv replaces Log with a logger at the level named by EnvKey.
func InitFromEnv() {
	Init(os.Getenv(EnvKey))
}

// Init replaces Log with a logger at the named level. Empty or unknown
// names fall back to info.
func Init(level string) {
	Log = New(level)
}

// New builds a gookit/slog console logger that emits every level at or
// above level.
func New(level string) Logger {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		level = "info"
	}
	max := slog.LevelByName(level)

	var levels slog.Levels
	for _, lv := range slog.AllLevels {
		if lv <= max {
			levels = append(levels, lv)
		}
	}

	h := handler.NewConsoleHandler(levels)
	h.SetFormatter(slog.NewJSONFormatter(func(f *slog.JSONFormatter) {
		f.Fields = []string{
			slog.FieldKeyDatetime,
			slog.FieldKeyLevel,
			slog.FieldKeyMessage,
		}
		f.Aliases = slog.StringMap{
			slog.FieldKeyDatetime: "time",
			slog.FieldKeyLevel:    "level",
			slog.FieldKeyMessage:  "msg",
		}
		f.TimeFormat = "2006-01-02T15:04:05Z07:00"
	}))
	return slog.NewWithHandlers(h)
}

// Discard returns a Logger that drops everything. Tests use it to keep
// output quiet.
func Discard() Logger { return discard{} }

type discard struct{}

func (discard) Debug(...any)          {}
func (discard) Info(...any)           {}
func (discard) Warn(...any)           {}
func (discard) Error(...any)          {}
func (discard) Debugf(string, ...any) {}
func (discard) Infof(string, ...any)  {}
func (discard) Warnf(string, ...any)  {}
func (discard) Errorf(string, ...any) {}

// WarnWithFields logs msg at warn level on lg, attaching fields when lg is
// backed by gookit/slog.
func WarnWithFields(lg Logger, msg string, fields Fields) {
	if sl, ok := lg.(*slog.Logger); ok {
		sl.WithFields(slog.M(fields)).Warn(msg)
		return
	}
	lg.Warn(msg)
}

// ErrorWithFields logs msg at error level on lg, attaching fields when lg is
// backed by gookit/slog.
func ErrorWithFields(lg Logger, msg string, fields Fields) {
	if sl, ok := lg.(*slog.Logger); ok {
		sl.WithFields(slog.M(fields)).Error(msg)
		return
	}
	lg.Error(msg)
}

// InfoWithFields logs msg at info level on lg, attaching fields when lg is
// backed by gookit/slog.
func InfoWithFields(lg Logger, msg string, fields Fields) {
	if sl, ok := lg.(*slog.Logger); ok {
		sl.WithFields(slog.M(fields)).Info(msg)
		return
	}
	lg.Info(msg)
}
