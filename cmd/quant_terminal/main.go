package main

import (
	"os"

	"quant_terminal/internal/app"
	"quant_terminal/internal/logger"
)

func main() {
	if err := app.NewApp().Run(); err != nil {
		l := logger.GetZeroLogger("main", os.Stderr, true)
		l.Fatal().Err(err).Msg("server stopped")
	}
}
