package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger writes leveled, timestamped records to w.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})
}

// stopwatch starts timing a step. The returned func logs msg at info
// level with keyvals and the elapsed time in milliseconds.
func stopwatch(l *log.Logger) func(msg string, keyvals ...any) {
	began := time.Now()
	return func(msg string, keyvals ...any) {
		l.Info(msg, append(keyvals, "elapsed", time.Since(began).Round(time.Millisecond))...)
	}
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger set by withLogger. Commands run
// outside the root command fall back to log.Default.
func loggerFromContext(ctx context.Context) *log.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
			return l
		}
	}
	return log.Default()
}
