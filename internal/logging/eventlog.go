package logging

import (
	"time"

	"github.com/rs/zerolog"
)

// DispatcherLogger writes key-value log calls to zerolog. It satisfies the
// Logger interfaces of the dispatcher, tracker, source and render packages.
type DispatcherLogger struct {
	zl zerolog.Logger
}

// NewDispatcherLogger wraps a zerolog.Logger.
func NewDispatcherLogger(zl zerolog.Logger) *DispatcherLogger {
	return &DispatcherLogger{zl: zl}
}

func (l *DispatcherLogger) Debug(msg string, keysAndValues ...any) {
	write(l.zl.Debug(), msg, keysAndValues)
}

func (l *DispatcherLogger) Info(msg string, keysAndValues ...any) {
	write(l.zl.Info(), msg, keysAndValues)
}

func (l *DispatcherLogger) Error(msg string, keysAndValues ...any) {
	write(l.zl.Error(), msg, keysAndValues)
}

// With returns a logger that adds the given pairs to every entry.
func (l *DispatcherLogger) With(keysAndValues ...any) *DispatcherLogger {
	ctx := l.zl.With()
	eachPair(keysAndValues, func(key string, v any) {
		ctx = ctx.Interface(key, v)
	})
	return &DispatcherLogger{zl: ctx.Logger()}
}

// write adds the pairs to e and sends it. e is nil when the level is
// disabled; zerolog treats that as a no-op.
func write(e *zerolog.Event, msg string, keysAndValues []any) {
	eachPair(keysAndValues, func(key string, v any) {
		switch v := v.(type) {
		case error:
			e = e.AnErr(key, v)
		case time.Duration:
			e = e.Dur(key, v)
		default:
			e = e.Interface(key, v)
		}
	})
	e.Msg(msg)
}

// eachPair walks alternating keys and values. Pairs with a non-string key and
// a trailing key without value are skipped.
func eachPair(keysAndValues []any, fn func(key string, v any)) {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			fn(key, keysAndValues[i+1])
		}
	}
}
