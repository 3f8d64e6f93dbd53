package logging

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type requestIDKey struct{}

// WithRequestID stores id in ctx so every log line written with that
// context carries it.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request id stored by WithRequestID, if any.
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// ZapLogger adapts a zap.SugaredLogger to Logger.
type ZapLogger struct {
	s *zap.SugaredLogger
}

// NewZapLogger wraps an existing zap logger.
func NewZapLogger(l *zap.Logger) *ZapLogger {
	return &ZapLogger{s: l.Sugar()}
}

// New builds the process logger.  Production environments get JSON
// output; anything else gets zap's console development encoder.
func New(env, level string) (*ZapLogger, error) {
	lvl := zapcore.InfoLevel
	if strings.TrimSpace(level) != "" {
		if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
			return nil, fmt.Errorf("parse log level %q: %w", level, err)
		}
	}

	var cfg zap.Config
	if strings.EqualFold(env, "production") || strings.EqualFold(env, "prod") {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return NewZapLogger(l), nil
}

// NewNop returns a logger that discards everything.
func NewNop() *ZapLogger {
	return NewZapLogger(zap.NewNop())
}

func (l *ZapLogger) withCtx(ctx context.Context, args []any) []any {
	if id := RequestID(ctx); id != "" {
		return append(args, "request_id", id)
	}
	return args
}

func (l *ZapLogger) Debug(ctx context.Context, msg string, args ...any) {
	l.s.Debugw(msg, l.withCtx(ctx, args)...)
}

func (l *ZapLogger) Info(ctx context.Context, msg string, args ...any) {
	l.s.Infow(msg, l.withCtx(ctx, args)...)
}

func (l *ZapLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.s.Warnw(msg, l.withCtx(ctx, args)...)
}

func (l *ZapLogger) Error(ctx context.Context, msg string, args ...any) {
	l.s.Errorw(msg, l.withCtx(ctx, args)...)
}

func (l *ZapLogger) With(args ...any) Logger {
	return &ZapLogger{s: l.s.With(args...)}
}

// Sync flushes buffered entries.  Call it before the process exits.
func (l *ZapLogger) Sync() error {
	return l.s.Sync()
}
