package logger

import (
	"fmt"
	"strings"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// fileLogMaxAge is how long rotated log files are kept on disk.
	fileLogMaxAge = 7 * 24 * time.Hour
	// fileLogRotationTime is how often a new log file is started.
	fileLogRotationTime = 24 * time.Hour
)

// NewWithFile creates a logger that writes both to stdout and to a rotating
// log file. The pattern may contain strftime placeholders; a plain path gets
// a daily suffix appended so rotation produces distinct files.
func NewWithFile(level zapcore.LevelEnabler, pattern string, options ...zap.Option) (*zap.SugaredLogger, error) {
	if level == nil {
		level = defaultLevel
	}

	if !strings.Contains(pattern, "%") {
		pattern += ".%Y-%m-%d"
	}

	fileWriter, err := rotatelogs.New(
		pattern,
		rotatelogs.WithMaxAge(fileLogMaxAge),
		rotatelogs.WithRotationTime(fileLogRotationTime),
	)
	if err != nil {
		return nil, fmt.Errorf("open rotating log file: %w", err)
	}

	core := zapcore.NewTee(
		New(level).Desugar().Core(),
		zapcore.NewCore(consoleEncoder(), zapcore.AddSync(fileWriter), level),
	)

	return zap.New(core, options...).Sugar(), nil
}
