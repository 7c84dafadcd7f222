package logger

import (
	"io"
	"os"
	"time"

	"quant_terminal/internal/config"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	ComponentKey = "component"
	EntryIDKey   = "entry"
	PlatformKey  = "platform"
	BonusKey     = "bonus"
)

const (
	maxLogSizeMB  = 50
	maxLogBackups = 5
	maxLogAgeDays = 14
)

// GetZeroLogger - консольный логгер с именем компонента
func GetZeroLogger(name string, out io.Writer, colorize bool) *zerolog.Logger {
	if out == nil {
		out = os.Stdout
	}
	output := zerolog.ConsoleWriter{Out: out, NoColor: !colorize, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Str("logger", name).Logger()
	return &logger
}

// New строит корневой логгер из конфигурации.
// При заданном LOG_FILE JSON строки пишутся еще и в ротируемый файл.
func New(cfg config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level())
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: !cfg.Colorize(), TimeFormat: time.RFC3339}
	if cfg.File() != "" {
		out = zerolog.MultiLevelWriter(out, &lumberjack.Logger{
			Filename:   cfg.File(),
			MaxSize:    maxLogSizeMB,
			MaxBackups: maxLogBackups,
			MaxAge:     maxLogAgeDays,
		})
	}

	return zerolog.New(out).Level(level).With().Timestamp().Str("logger", "quant_terminal").Logger()
}

// Component - дочерний логгер для подсистемы
func Component(root zerolog.Logger, name string) zerolog.Logger {
	return root.With().Str(ComponentKey, name).Logger()
}
