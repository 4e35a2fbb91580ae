// Package logger provides a context-aware structured logger backed by zap.
package logger

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is the minimum severity a Logger emits.
type Level = zapcore.Level

const (
	LevelDebug = zapcore.DebugLevel
	LevelInfo  = zapcore.InfoLevel
	LevelWarn  = zapcore.WarnLevel
	LevelError = zapcore.ErrorLevel
)

// ParseLevel maps a config string to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// TraceIDFn extracts a trace id from the context. Returning "" omits the field.
type TraceIDFn func(ctx context.Context) string

// LoggerInterface is the logging contract shared by every module.
type LoggerInterface interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	Debugc(ctx context.Context, caller int, msg string, args ...any)
	Infoc(ctx context.Context, caller int, msg string, args ...any)
	Warnc(ctx context.Context, caller int, msg string, args ...any)
	Errorc(ctx context.Context, caller int, msg string, args ...any)
}

// Logger writes JSON records through a zap core.
type Logger struct {
	core      zapcore.Core
	traceIDFn TraceIDFn
}

var _ LoggerInterface = (*Logger)(nil)

// New creates a Logger writing JSON to w. When traceIDFn is nil the active
// OpenTelemetry span (if any) supplies the trace id.
func New(w io.Writer, minLevel Level, serviceName string, traceIDFn TraceIDFn) *Logger {
	if traceIDFn == nil {
		traceIDFn = spanTraceID
	}

	enc := zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		MessageKey:     "msg",
		CallerKey:      "source",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	})
	core := zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(w)), minLevel).
		With([]zapcore.Field{zap.String("service", serviceName)})

	return &Logger{core: core, traceIDFn: traceIDFn}
}

// NewNop returns a Logger that discards everything.
func NewNop() *Logger {
	return &Logger{core: zapcore.NewNopCore(), traceIDFn: func(context.Context) string { return "" }}
}

// Sync flushes buffered records.
func (l *Logger) Sync() error {
	return l.core.Sync()
}

func spanTraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}

func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelDebug, 2, msg, args)
}

func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelInfo, 2, msg, args)
}

func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelWarn, 2, msg, args)
}

func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	l.write(ctx, LevelError, 2, msg, args)
}

// Debugc logs with the source location taken caller frames above the call site.
func (l *Logger) Debugc(ctx context.Context, caller int, msg string, args ...any) {
	l.write(ctx, LevelDebug, 2+caller, msg, args)
}

func (l *Logger) Infoc(ctx context.Context, caller int, msg string, args ...any) {
	l.write(ctx, LevelInfo, 2+caller, msg, args)
}

func (l *Logger) Warnc(ctx context.Context, caller int, msg string, args ...any) {
	l.write(ctx, LevelWarn, 2+caller, msg, args)
}

func (l *Logger) Errorc(ctx context.Context, caller int, msg string, args ...any) {
	l.write(ctx, LevelError, 2+caller, msg, args)
}

func (l *Logger) write(ctx context.Context, level Level, skip int, msg string, args []any) {
	if !l.core.Enabled(level) {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	pc, file, line, ok := runtime.Caller(skip)
	ce := l.core.Check(zapcore.Entry{
		Level:   level,
		Time:    time.Now(),
		Message: msg,
		Caller:  zapcore.NewEntryCaller(pc, file, line, ok),
	}, nil)
	if ce == nil {
		return
	}

	fields := make([]zapcore.Field, 0, len(args)/2+1)
	if id := l.traceIDFn(ctx); id != "" {
		fields = append(fields, zap.String("trace_id", id))
	}
	ce.Write(append(fields, toFields(args)...)...)
}

// toFields pairs slog-style key/value arguments. A dangling value or a
// non-string key is kept under "!BADKEY".
func toFields(args []any) []zapcore.Field {
	fields := make([]zapcore.Field, 0, len(args)/2)
	for len(args) > 0 {
		key, ok := args[0].(string)
		if !ok || len(args) == 1 {
			fields = append(fields, zap.Any("!BADKEY", args[0]))
			args = args[1:]
			continue
		}
		fields = append(fields, field(key, args[1]))
		args = args[2:]
	}
	return fields
}

func field(key string, v any) zapcore.Field {
	switch val := v.(type) {
	case error:
		return zap.String(key, val.Error())
	case fmt.Stringer:
		return zap.Stringer(key, val)
	default:
		return zap.Any(key, val)
	}
}
