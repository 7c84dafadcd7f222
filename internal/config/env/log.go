package env

import (
	"os"
	"strings"

	"quant_terminal/internal/config"
)

const (
	logLevelEnvName    = "LOG_LEVEL"
	logFileEnvName     = "LOG_FILE"
	colorizeLogEnvName = "COLORIZE_LOG"
)

type logConfig struct {
	level    string
	file     string
	colorize bool
}

func NewLogConfig() config.LogConfig {
	level := os.Getenv(logLevelEnvName)
	if len(level) == 0 {
		level = "info"
	}

	// colorized output by default
	colorize := true
	if v := os.Getenv(colorizeLogEnvName); len(v) != 0 {
		colorize = v == "1" || strings.ToLower(v) == "true"
	}

	return &logConfig{
		level:    level,
		file:     os.Getenv(logFileEnvName),
		colorize: colorize,
	}
}

func (l *logConfig) Level() string {
	return l.level
}

func (l *logConfig) File() string {
	return l.file
}

func (l *logConfig) Colorize() bool {
	return l.colorize
}
