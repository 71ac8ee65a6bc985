package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"
	_ "time/tzdata" // WEDDING_TIMEZONE must resolve in minimal images

	"github.com/jredh-dev/casamento/config"
	"github.com/jredh-dev/casamento/internal/guard"
	"github.com/jredh-dev/casamento/internal/metrics"
	"github.com/jredh-dev/casamento/internal/server"
	"github.com/jredh-dev/casamento/internal/web/handlers"
	"github.com/jredh-dev/casamento/internal/web/static"
	"github.com/jredh-dev/casamento/internal/weddingapi"
	"github.com/jredh-dev/casamento/pkg/logger"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("casamento %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", buildDate)
		os.Exit(0)
	}

	cfg := config.Load()
	format := cfg.Log.Format
	if cfg.IsProduction() {
		format = "json"
	}
	log := logger.New(cfg.Log.Level, format)
	m := metrics.New()

	srv := server.New(logger.Component(log, "http"))

	// Duplicate-submission guard: shared through Redis when configured.
	var store guard.Store = guard.NewMemoryStore()
	if cfg.Guard.RedisAddr != "" {
		client, err := guard.NewRedisClient(cfg.Guard.RedisAddr, cfg.Guard.RedisPassword, cfg.Guard.RedisDB)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Guard.RedisAddr).Msg("failed to connect to redis")
		}
		rs := guard.NewRedisStore(client)
		srv.OnStop(func() {
			if err := rs.Close(); err != nil {
				log.Error().Err(err).Msg("error closing redis")
			}
		})
		store = rs
		log.Info().Str("addr", cfg.Guard.RedisAddr).Msg("guard using redis")
	}

	api := weddingapi.New(cfg.API.BaseURL, cfg.API.Timeout,
		weddingapi.WithObserver(m),
		weddingapi.WithLogger(logger.Component(log, "weddingapi")),
	)

	h, err := handlers.New(api, guard.New(store, cfg.Guard.TTL), cfg, m, logger.Component(log, "web"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize handlers")
	}

	r := srv.Router
	r.Handle("/metrics", m.Handler())
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static.FS))))
	h.Register(r, 60*time.Second)

	log.Info().
		Str("env", cfg.Server.Env).
		Str("api", cfg.API.BaseURL).
		Str("wedding", cfg.Wedding.Date).
		Msg("casamento starting")

	if err := srv.ListenAndServe(":" + cfg.Server.Port); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
