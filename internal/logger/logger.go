package logger

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	globalLogger = New(os.Stdout, "info")
	once         sync.Once
)

// InitLogging replaces the global logger with one writing to stdout and, when
// logFilePath is set, appending to that file. Only the first call has effect.
func InitLogging(logFilePath, level string) {
	once.Do(func() {
		out, err := openOutput(logFilePath)
		globalLogger = New(out, level)
		log.Logger = globalLogger
		if err != nil {
			globalLogger.Warn().Err(err).Str("path", logFilePath).Msg("log file unavailable, logging to stdout only")
		}
	})
}

// New returns a timestamped logger writing to w at the named level.
func New(w io.Writer, level string) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger().Level(ParseLevel(level))
}

// ParseLevel maps a level name to a zerolog level. Empty or unknown names
// are info.
func ParseLevel(name string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(name)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func openOutput(path string) (io.Writer, error) {
	if path == "" {
		return os.Stdout, nil
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0664)
	if err != nil {
		return os.Stdout, err
	}
	return zerolog.MultiLevelWriter(os.Stdout, file), nil
}

// WithRow returns a context whose logger tags every entry with a template
// sheet and row.
func WithRow(ctx context.Context, sheet string, row int) context.Context {
	l := getLogger(ctx).With().Str("sheet", sheet).Int("row", row).Logger()
	return l.WithContext(ctx)
}

func getLogger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx)
	if l.GetLevel() == zerolog.Disabled {
		return &globalLogger
	}
	return l
}

// emit writes msg, formatting it only when args are given. The first error
// among args is also attached as the "error" field.
func emit(e *zerolog.Event, msg string, args []interface{}) {
	if len(args) == 0 {
		e.Msg(msg)
		return
	}
	for _, a := range args {
		if err, ok := a.(error); ok {
			e = e.Err(err)
			break
		}
	}
	e.Msgf(msg, args...)
}

func DebugLog(ctx context.Context, msg string, args ...interface{}) {
	emit(getLogger(ctx).Debug(), msg, args)
}

func InfoLog(ctx context.Context, msg string, args ...interface{}) {
	emit(getLogger(ctx).Info(), msg, args)
}

func WarnLog(ctx context.Context, msg string, args ...interface{}) {
	emit(getLogger(ctx).Warn(), msg, args)
}

func ErrorLog(ctx context.Context, msg string, args ...interface{}) {
	emit(getLogger(ctx).Error(), msg, args)
}
