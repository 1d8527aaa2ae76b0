package logger

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap's SugaredLogger.
type Logger struct {
	*zap.SugaredLogger
}

// toZapLevel maps a level name to zapcore.Level; unknown names mean info.
func toZapLevel(levelStr string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case DebugLevel:
		return zapcore.DebugLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func newEncoder(format string) zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.RFC3339TimeEncoder
	if format == JSONFormat {
		return zapcore.NewJSONEncoder(cfg)
	}
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

func newCore(w io.Writer, level zapcore.Level, format string) zapcore.Core {
	return zapcore.NewCore(newEncoder(format), zapcore.Lock(zapcore.AddSync(w)), zap.NewAtomicLevelAt(level))
}

// New builds a logger writing to stdout.
func New(level, format string) *Logger {
	return newWithWriter(os.Stdout, level, format)
}

func newWithWriter(w io.Writer, level, format string) *Logger {
	core := newCore(w, toZapLevel(level), strings.ToLower(format))
	return &Logger{SugaredLogger: zap.New(core, zap.AddCaller()).Sugar()}
}

func zapNop() *zap.SugaredLogger { return zap.NewNop().Sugar() }
