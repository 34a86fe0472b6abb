package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/saralopezbz/iris-predictor/internal/infrastructure/config"
)

// Formats accepted by PREDICTOR_LOG_FORMAT. Anything else is treated as JSON.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// NewLogger builds the predictor's logger. Entries go to stdout in the
// configured format and, when a log file is set, also to a size-rotated
// file that is always JSON.
func NewLogger(cfg *config.LogConfig) (*zap.Logger, error) {
	level := parseLevel(cfg.Level)

	cores := []zapcore.Core{
		zapcore.NewCore(newEncoder(cfg.Format), zapcore.Lock(os.Stdout), level),
	}
	if cfg.File != "" {
		cores = append(cores, zapcore.NewCore(newEncoder(FormatJSON), zapcore.AddSync(newRotatingWriter(cfg)), level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)), nil
}

// parseLevel falls back to info for empty or unknown level names
func parseLevel(name string) zapcore.Level {
	level := zapcore.InfoLevel
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return zapcore.InfoLevel
	}
	return level
}

func newEncoder(format string) zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.MessageKey = "message"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeDuration = zapcore.MillisDurationEncoder

	if strings.EqualFold(format, FormatConsole) {
		return zapcore.NewConsoleEncoder(encoderConfig)
	}
	return zapcore.NewJSONEncoder(encoderConfig)
}

func newRotatingWriter(cfg *config.LogConfig) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
}
