package logger

import (
	"context"

	"go.uber.org/zap"
)

type loggerContextKeyType struct{}

var loggerKey = loggerContextKeyType{}

// base is safe to use before Init; it drops everything.
var base = zap.NewNop().Sugar()

// Init configures the process-wide logger. "prod" selects the JSON
// production encoder; any other environment gets the development
// console encoder with debug enabled.
func Init(env string) {
	var (
		l   *zap.Logger
		err error
	)
	if env == "prod" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	base = l.Sugar()
}

// Sync flushes buffered entries. Call once on shutdown.
func Sync() {
	_ = base.Sync()
}

// ToContext attaches a request-scoped logger to ctx.
func ToContext(ctx context.Context, l *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the request-scoped logger, falling back to the
// process logger when none was attached.
func FromContext(ctx context.Context) *zap.SugaredLogger {
	if l, ok := ctx.Value(loggerKey).(*zap.SugaredLogger); ok {
		return l
	}
	return base
}

func Debug(msg string, keysAndValues ...any) { base.Debugw(msg, keysAndValues...) }
func Info(msg string, keysAndValues ...any)  { base.Infow(msg, keysAndValues...) }
func Warn(msg string, keysAndValues ...any)  { base.Warnw(msg, keysAndValues...) }
func Error(msg string, keysAndValues ...any) { base.Errorw(msg, keysAndValues...) }

// Fatal logs and exits the process.
func Fatal(msg string, keysAndValues ...any) { base.Fatalw(msg, keysAndValues...) }
