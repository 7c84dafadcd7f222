package env

import (
	"errors"
	"os"

	"quant_terminal/internal/config"
)

const (
	dsnName = "PG_DSN"
)

// ErrPGNotConfigured - DSN не задан, используется хранилище в памяти
var ErrPGNotConfigured = errors.New("pg dsn not found")

type pgConfig struct {
	dsn string
}

func NewPGConfig() (config.PGConfig, error) {
	dsn := os.Getenv(dsnName)
	if len(dsn) == 0 {
		return nil, ErrPGNotConfigured
	}

	return &pgConfig{
		dsn: dsn,
	}, nil
}

func (cfg *pgConfig) DSN() string {
	return cfg.dsn
}
