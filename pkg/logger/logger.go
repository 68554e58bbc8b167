package logger

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey string

const requestIDKey ctxKey = "request_id"

// Config carries the logging knobs so this package stays config-agnostic.
type Config struct {
	Level    string
	Encoding string
}

// New builds the process-wide zap.Logger. Unknown levels degrade to info
// rather than failing startup.
func New(cfg Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.Encoding == "console" {
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	sink := zapcore.AddSync(zapcore.Lock(os.Stdout))
	return zap.New(zapcore.NewCore(encoder, sink, level), zap.AddCaller()), nil
}

// ContextWithRequestID stores a request ID for later log correlation.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithRequestID returns base annotated with the context's request ID, or base
// unchanged when none is set.
func WithRequestID(ctx context.Context, base *zap.Logger) *zap.Logger {
	if ctx == nil || base == nil {
		return base
	}
	if id, ok := ctx.Value(requestIDKey).(string); ok && id != "" {
		return base.With(zap.String("request_id", id))
	}
	return base
}
