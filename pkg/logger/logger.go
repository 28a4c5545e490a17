package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger is the logging surface every component depends on.
type ZapLogger interface {
	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	Fatal(msg string, fields ...zap.Field)
	With(fields ...zap.Field) ZapLogger
	Sync() error
}

type ZapLoggerConfig struct {
	IsDevelopment     bool
	Encoding          string
	Level             string
	DisableCaller     bool
	DisableStacktrace bool
}

type zapLogger struct {
	l *zap.Logger
}

func NewZapLogger(cfg *ZapLoggerConfig) ZapLogger {
	level := zap.NewAtomicLevelAt(parseLevel(cfg.Level))

	encCfg := zap.NewProductionEncoderConfig()
	if cfg.IsDevelopment {
		encCfg = zap.NewDevelopmentEncoderConfig()
	}
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.Encoding == "console" {
		encoder = zapcore.NewConsoleEncoder(encCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level)

	opts := []zap.Option{zap.AddCallerSkip(1)}
	if !cfg.DisableCaller {
		opts = append(opts, zap.AddCaller())
	}
	if !cfg.DisableStacktrace {
		opts = append(opts, zap.AddStacktrace(zapcore.ErrorLevel))
	}
	if cfg.IsDevelopment {
		opts = append(opts, zap.Development())
	}

	return &zapLogger{l: zap.New(core, opts...)}
}

// NewNop returns a logger that discards everything. Used by tests.
func NewNop() ZapLogger {
	return &zapLogger{l: zap.NewNop()}
}

// FromZap wraps an existing *zap.Logger, e.g. one built with zaptest/observer.
func FromZap(l *zap.Logger) ZapLogger {
	return &zapLogger{l: l}
}

func parseLevel(level string) zapcore.Level {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel
	}
	return l
}

func (z *zapLogger) Debug(msg string, fields ...zap.Field) { z.l.Debug(msg, fields...) }
func (z *zapLogger) Info(msg string, fields ...zap.Field)  { z.l.Info(msg, fields...) }
func (z *zapLogger) Warn(msg string, fields ...zap.Field)  { z.l.Warn(msg, fields...) }
func (z *zapLogger) Error(msg string, fields ...zap.Field) { z.l.Error(msg, fields...) }
func (z *zapLogger) Fatal(msg string, fields ...zap.Field) { z.l.Fatal(msg, fields...) }

func (z *zapLogger) With(fields ...zap.Field) ZapLogger {
	return &zapLogger{l: z.l.With(fields...)}
}

func (z *zapLogger) Sync() error { return z.l.Sync() }
