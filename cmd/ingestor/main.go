package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"realty/internal/adapters/events"
	"realty/internal/adapters/idx"
	"realty/internal/adapters/observability"
	"realty/internal/app"
	"realty/internal/domain"
	"realty/internal/seed"
	"realty/internal/shared"
	"realty/internal/storage"
)

// The ingestor runs one sync against the configured catalog slot. With the
// pebble backend the API must be stopped first; pebble allows one process.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "ingestor", cfg.LogLevel)

	var feed domain.ListingFeed = seed.NewFeed()
	source := "mock"
	if cfg.IDXBase != "" {
		client, err := idx.New(cfg.IDXBase, cfg.IDXKey, cfg.IDXRPS)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize IDX client")
		}
		feed, source = client, cfg.IDXBase
	}

	log.Info().
		Str("feed", source).
		Str("backend", cfg.SlotBackend).
		Int("workers", cfg.Workers).
		Msg("ingestor starting")

	slot, closer, err := storage.OpenSlot(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open catalog slot failed")
	}
	defer closer.Close()

	catalog := app.NewCatalog(slot, cfg.SlotKey, seed.Properties)
	catalog.Load(ctx)

	if len(cfg.KafkaBrokers) > 0 {
		pub := events.NewKafka(cfg.KafkaBrokers, cfg.KafkaCatalogTopic, cfg.KafkaContactTopic)
		defer pub.Close()
		catalog.Subscribe(pub.OnCatalogChange)
	}

	rep, err := app.NewIngestionService(feed, catalog, cfg.Workers).Sync(ctx)
	if err != nil {
		log.Error().Err(err).Msg("ingestion failed")
		return
	}
	log.Info().
		Int("added", rep.Added).
		Int("updated", rep.Updated).
		Int("missed", rep.Missed).
		Int("properties", catalog.Len()).
		Msg("ingestion completed")
}
