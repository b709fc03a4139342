package main

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/picklescore/assets"
	"github.com/robalobadob/picklescore/internal/config"
	"github.com/robalobadob/picklescore/internal/history"
	"github.com/robalobadob/picklescore/internal/httpserver"
	"github.com/robalobadob/picklescore/internal/kv"
	"github.com/robalobadob/picklescore/internal/store"
	"github.com/robalobadob/picklescore/internal/theme"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	db, err := openDB(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open database")
	}
	defer db.Close()

	migrations, err := assets.Migrations()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read migrations")
	}
	if err := migrate(db, migrations); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	kvs := kv.NewSQLite(db)
	srv := httpserver.New(httpserver.Deps{
		Store:   store.NewMemoryStore(),
		History: history.NewStore(kvs),
		Theme:   theme.NewStore(kvs),
		Config:  cfg,
	})
	if cfg.AdminPINHash == "" {
		log.Warn().Msg("ADMIN_PIN_HASH not set; clearing history is disabled")
	}
	go srv.RunSweeper(context.Background(), cfg.SweepInterval)

	log.Info().Str("port", cfg.Port).Msg("starting picklescore")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
