package bootstrap

import (
	"log/slog"
	"os"
	"strings"

	"hotel-reservation-engine/internal/handler/middleware"
	"hotel-reservation-engine/internal/pkg/config"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var LoggerModule = fx.Module("logger",
	fx.Provide(
		NewAppLogger,
		NewSlogLogger,
		NewZapLogger,
	),
)

// NewAppLogger also installs itself as the slog default.
func NewAppLogger(cfg config.Config) *middleware.Logger {
	return middleware.NewLogger(cfg.Log)
}

func NewSlogLogger(l *middleware.Logger) *slog.Logger {
	return l.GetSlogLogger()
}

// NewZapLogger feeds the asynq runtime, which wants a leveled printf-style logger.
func NewZapLogger(lc fx.Lifecycle, cfg config.Config) *zap.SugaredLogger {
	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	level := zapLevel(cfg.Log.Level)

	cores := []zapcore.Core{zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level)}
	if cfg.Log.File != "" {
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(middleware.NewRotatingFile(cfg.Log)), level))
	}

	logger := zap.New(zapcore.NewTee(cores...)).Sugar().Named("worker")
	lc.Append(fx.StopHook(func() {
		_ = logger.Sync()
	}))
	return logger
}

func zapLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
