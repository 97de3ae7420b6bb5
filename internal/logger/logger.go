package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps the zap logger with additional functionality
type Logger struct {
	*zap.Logger
}

// Options controls where and how much the logger writes.
type Options struct {
	// Level is a zap level name: debug, info, warn or error. Defaults to info.
	Level string
	// OutputPath is a file path, "stdout" or "stderr". Empty discards all output.
	OutputPath string
}

// NewLogger creates a new logger instance with production configuration writing to stdout
func NewLogger() (*Logger, error) {
	return NewLoggerWithOptions(Options{Level: "info", OutputPath: "stdout"})
}

// NewLoggerWithOptions creates a production JSON logger for the given options.
// The terminal UI owns stdout, so the ticker view logs to a file.
func NewLoggerWithOptions(opts Options) (*Logger, error) {
	if opts.OutputPath == "" {
		return &Logger{Logger: zap.NewNop()}, nil
	}

	level := zapcore.InfoLevel
	if opts.Level != "" {
		parsed, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, err
		}

		level = parsed
	}

	config := zap.NewProductionConfig()

	config.OutputPaths = []string{opts.OutputPath}
	config.ErrorOutputPaths = []string{"stderr"}
	config.Level = zap.NewAtomicLevelAt(level)
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	zapLogger, err := config.Build()
	if err != nil {
		return nil, err
	}

	return &Logger{
		Logger: zapLogger,
	}, nil
}

// Sync flushes any buffered log entries
func (l *Logger) Sync() error {
	if l.Logger != nil {
		return l.Logger.Sync()
	}

	return nil
}
