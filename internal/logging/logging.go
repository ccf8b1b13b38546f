// Package logging builds the zap logger used by all commands.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gitlab.com/dirk.krummacker/contact-book/internal/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a logger configured from cfg. The returned closer flushes the
// logger and closes the log file, if one was opened.
func New(cfg config.Log) (*zap.Logger, io.Closer, error) {
	ws, file, err := buildWriteSyncer(cfg.Output)
	if err != nil {
		return nil, nil, err
	}
	core := zapcore.NewCore(buildEncoder(cfg.Format), ws, zap.NewAtomicLevelAt(ParseLevel(cfg.Level)))
	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return logger, closer{logger: logger, file: file}, nil
}

type closer struct {
	logger *zap.Logger
	file   io.Closer
}

func (c closer) Close() error {
	_ = c.logger.Sync()
	return c.file.Close()
}

func buildEncoder(format string) zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	if strings.EqualFold(format, "json") {
		return zapcore.NewJSONEncoder(encoderConfig)
	}
	return zapcore.NewConsoleEncoder(encoderConfig)
}

func buildWriteSyncer(output string) (zapcore.WriteSyncer, io.Closer, error) {
	switch strings.ToLower(output) {
	case "stdout":
		return zapcore.AddSync(os.Stdout), nopCloser{}, nil
	case "stderr":
		return zapcore.AddSync(os.Stderr), nopCloser{}, nil
	}
	file, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return zapcore.AddSync(file), file, nil
}

// ParseLevel maps a level name to a zap level. Unknown names map to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "INFO":
		return zapcore.InfoLevel
	case "WARN":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
