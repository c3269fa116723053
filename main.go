package main

import (
	"go.uber.org/zap"

	"github.com/lost-woods/cards/src/config"
	"github.com/lost-woods/cards/src/rng"
	"github.com/lost-woods/cards/src/server"
)

func main() {
	zapLogger, _ := zap.NewProduction()
	defer zapLogger.Sync()
	log := zapLogger.Sugar()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	r, health, err := rng.Open(cfg.RNGSource, cfg.Serial)
	if err != nil {
		log.Fatalw("entropy source failed its health check", "source", cfg.RNGSource, "error", err)
	}

	log.Infow("starting card service", "port", cfg.Port, "source", cfg.RNGSource, "max_decks", cfg.MaxDecks)
	server.New(cfg, r, health, log).RunOrDie()
}
