package main

import (
	"database/sql"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/discdle/internal/config"
	"github.com/robalobadob/discdle/internal/discs"
	"github.com/robalobadob/discdle/internal/httpserver"
	"github.com/robalobadob/discdle/internal/storage"
	"github.com/robalobadob/discdle/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	catalog, err := discs.Load(cfg.DiscsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load disc catalog")
	}

	var db *sql.DB
	if cfg.DBPath != "" {
		db, err = storage.Open(cfg.DBPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
		}
		defer db.Close()
		if err := storage.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("migrate database")
		}
	} else {
		log.Warn().Msg("DB_PATH not set; player flags are kept in memory")
	}

	srv := httpserver.New(httpserver.Options{
		Catalog:         catalog,
		Games:           store.NewMemoryStore(),
		DB:              db,
		JWTSecret:       cfg.JWTSecret,
		CookieName:      cfg.CookieName,
		CookieSecure:    cfg.CookieSecure,
		ClientOrigin:    cfg.ClientOrigin,
		ResetLocation:   cfg.ResetLocation(),
		HardcoreSeconds: cfg.HardcoreSeconds,
		ShareTitle:      cfg.ShareTitle,
	})
	log.Info().Str("port", cfg.Port).Int("discs", catalog.Len()).Msg("starting discdle")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
