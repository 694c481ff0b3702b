package main

import (
	"flag"

	"github.com/VishSinh/vsc-be/internal/config"
	"github.com/VishSinh/vsc-be/internal/database"
	"github.com/VishSinh/vsc-be/internal/logger"
	"github.com/rs/zerolog/log"
)

func main() {
	down := flag.Bool("down", false, "Roll back every migration instead of applying them")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, true)

	if err := database.Migrate(cfg.DatabaseURL, *down); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	direction := "up"
	if *down {
		direction = "down"
	}
	log.Info().Str("direction", direction).Msg("migrations applied")
}
