package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
)

// serverAddr is fixed; the listen address is not configurable.
const serverAddr = ":8080"

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

func main() {
	cfg := LoadConfig()
	logger = logger.Level(cfg.Level())

	ctx := context.Background()
	db, err := InitDB(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	if err := Bootstrap(ctx, db); err != nil {
		logger.Warn().Err(err).Msg("Bootstrap finished with errors")
	}

	r := NewRouter(NewStore(db), NewTokenIssuer(cfg.JWTSecret))

	logger.Info().Str("addr", serverAddr).Msg("Server running")
	if err := r.Run(serverAddr); err != nil {
		logger.Fatal().Err(err).Msg("Failed to run server")
	}
}
