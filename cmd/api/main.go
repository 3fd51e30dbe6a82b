package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"realty/internal/adapters/events"
	server "realty/internal/adapters/http_server"
	"realty/internal/adapters/idx"
	"realty/internal/adapters/observability"
	redisad "realty/internal/adapters/redis"
	"realty/internal/app"
	"realty/internal/domain"
	"realty/internal/seed"
	"realty/internal/shared"
	"realty/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "api", cfg.LogLevel)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// catalog
	slot, closer, err := storage.OpenSlot(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.SlotBackend).Msg("open catalog slot failed")
	}
	defer closer.Close()
	catalog := app.NewCatalog(slot, cfg.SlotKey, seed.Properties)
	catalog.Load(ctx)

	// events
	var outbox domain.Outbox = app.LogOutbox{}
	if len(cfg.KafkaBrokers) > 0 {
		pub := events.NewKafka(cfg.KafkaBrokers, cfg.KafkaCatalogTopic, cfg.KafkaContactTopic)
		defer pub.Close()
		catalog.Subscribe(pub.OnCatalogChange)
		outbox = pub
		log.Info().Strs("brokers", cfg.KafkaBrokers).Msg("kafka publishing enabled")
	}

	// admin sessions
	rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer rc.Close()
	if err := rc.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("session cache unreachable; admin login will fail until it is up")
	}
	auth := app.NewAdminAuth(cfg.AdminPasswordHash, rc.Cache(), cfg.SessionTTL)

	// feed
	var feed domain.ListingFeed = seed.NewFeed()
	if cfg.IDXBase != "" {
		client, err := idx.New(cfg.IDXBase, cfg.IDXKey, cfg.IDXRPS)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize IDX client")
		}
		feed = client
	}

	// http
	srv := server.New(cfg.CORSOrigins)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Catalog: catalog,
		Contact: app.NewContactService(outbox),
		Auth:    auth,
		Ingest:  app.NewIngestionService(feed, catalog, cfg.Workers),
	})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Int("properties", catalog.Len()).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}
