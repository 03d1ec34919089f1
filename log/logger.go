// Package log abstracts the structured logger used across the
// orderbook service so that packages do not depend on zap directly.
package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a structured logger.
type Logger interface {
	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
}

var _ Logger = (*loggerImpl)(nil)

type loggerImpl struct {
	zapLogger *zap.Logger
}

// NewLogger creates a new zap-backed logger. If isProduction is true,
// the logger writes JSON to the given file. Otherwise it writes
// human-readable output to stdout and fileName is ignored.
func NewLogger(isProduction bool, fileName string, logLevel string) (Logger, error) {
	level := zap.InfoLevel
	if logLevel != "" {
		parsedLevel, err := zapcore.ParseLevel(logLevel)
		if err != nil {
			return nil, err
		}
		level = parsedLevel
	}

	var config zap.Config
	if isProduction {
		config = zap.NewProductionConfig()
		if fileName != "" {
			config.OutputPaths = []string{fileName}
			config.ErrorOutputPaths = []string{fileName}
		}
	} else {
		config = zap.NewDevelopmentConfig()
	}
	config.Level = zap.NewAtomicLevelAt(level)

	zapLogger, err := config.Build()
	if err != nil {
		return nil, err
	}

	return &loggerImpl{
		zapLogger: zapLogger,
	}, nil
}

func (l *loggerImpl) Debug(msg string, fields ...zap.Field) {
	l.zapLogger.Debug(msg, fields...)
}

func (l *loggerImpl) Info(msg string, fields ...zap.Field) {
	l.zapLogger.Info(msg, fields...)
}

func (l *loggerImpl) Warn(msg string, fields ...zap.Field) {
	l.zapLogger.Warn(msg, fields...)
}

func (l *loggerImpl) Error(msg string, fields ...zap.Field) {
	l.zapLogger.Error(msg, fields...)
}

var _ Logger = (*NoOpLogger)(nil)

// NoOpLogger discards all log output. It is used in tests.
type NoOpLogger struct{}

func (*NoOpLogger) Debug(msg string, fields ...zap.Field) {}

func (*NoOpLogger) Info(msg string, fields ...zap.Field) {}

func (*NoOpLogger) Warn(msg string, fields ...zap.Field) {}

func (*NoOpLogger) Error(msg string, fields ...zap.Field) {}
