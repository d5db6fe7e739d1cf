package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/joho/godotenv/autoload"

	"github.com/mteij/Zentrio-sub002/internal/classify"
	"github.com/mteij/Zentrio-sub002/internal/metrics"
	"github.com/mteij/Zentrio-sub002/internal/rank"
	"github.com/mteij/Zentrio-sub002/internal/server"
	"github.com/mteij/Zentrio-sub002/internal/session"
)

type config struct {
	Port                int      `env:"PORT" envDefault:"7000"`
	AddonURLs           []string `env:"ADDON_URLS" envSeparator:","`
	FetchTimeoutSeconds int      `env:"FETCH_TIMEOUT_SECONDS" envDefault:"30"`
	CacheSizeMB         int      `env:"STREAM_CACHE_SIZE_MB" envDefault:"50"`
	CacheTTLSeconds     int      `env:"STREAM_CACHE_TTL_SECONDS" envDefault:"300"`
	PreferCached        bool     `env:"PREFER_CACHED" envDefault:"true"`
	MinResolution       string   `env:"MIN_RESOLUTION" envDefault:"720p"`
	MaxWaitMs           int      `env:"AUTO_PLAY_MAX_WAIT_MS" envDefault:"10000"`
}

func main() {
	cfg := config{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("Invalid environment: %v", err)
	}

	if len(cfg.AddonURLs) == 0 {
		log.Fatal("ADDON_URLS must list at least one addon base URL")
	}

	fetchTimeout := time.Duration(cfg.FetchTimeoutSeconds) * time.Second

	startupCtx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	providers := server.BuildProviders(startupCtx, cfg.AddonURLs, fetchTimeout)
	cancel()
	if len(providers) == 0 {
		log.Fatal("No addon resolved a manifest, nothing to aggregate")
	}

	rankCfg := rank.Config{
		Enabled:       true,
		MaxWait:       time.Duration(cfg.MaxWaitMs) * time.Millisecond,
		PreferCached:  cfg.PreferCached,
		MinResolution: classify.Resolution(cfg.MinResolution),
	}.Normalized()

	srv := server.New(
		server.WithProviders(providers),
		server.WithCache(session.NewCache(cfg.CacheSizeMB*1024*1024, time.Duration(cfg.CacheTTLSeconds)*time.Second)),
		server.WithMetrics(metrics.New()),
		server.WithFetchTimeout(fetchTimeout),
		server.WithConfig(rankCfg),
	)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))
	app.Use(logger.New(logger.Config{
		Format:       "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${error}\n",
		TimeFormat:   "15:04:05",
		TimeZone:     "Local",
		TimeInterval: 500 * time.Millisecond,
		Output:       os.Stdout,
	}))

	srv.Register(app)

	log.Infof("Starting HTTP server on :%d with %d addons", cfg.Port, len(providers))
	log.Fatal(app.Listen(fmt.Sprintf(":%d", cfg.Port)))
}
