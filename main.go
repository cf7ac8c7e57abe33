package main

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ciyi-game/go-server/internal/config"
	"github.com/ciyi-game/go-server/internal/daily"
	"github.com/ciyi-game/go-server/internal/game"
	"github.com/ciyi-game/go-server/internal/httpserver"
	"github.com/ciyi-game/go-server/internal/oracle"
	"github.com/ciyi-game/go-server/internal/store"
	"github.com/ciyi-game/go-server/internal/word"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if err := word.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to load word lists")
	}

	db, err := openDB(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	if err := migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}
	if _, err := httpserver.EnsureBootstrapClient(db); err != nil {
		log.Fatal().Err(err).Msg("failed to seed api client")
	}

	clock := daily.SystemClock{}
	orc := oracle.NewClient(cfg.OracleBaseURL, cfg.DailySalt, cfg.OracleTimeout)
	engine := game.NewEngine(store.NewSQLite(db), orc, clock, game.Config{
		HistoryDisplay:     cfg.HistoryDisplay,
		RankDisplay:        cfg.RankDisplay,
		DirectGuessDefault: cfg.DirectGuess,
	})

	srv := httpserver.New(engine, db, clock, cfg)
	log.Info().Str("port", cfg.Port).Msg("starting ciyi go-server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
