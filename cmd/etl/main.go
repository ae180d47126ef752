package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"golang.org/x/sync/errgroup"

	httpadapter "github.com/couchcryptid/hamgrid/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/hamgrid/internal/adapter/kafka"
	"github.com/couchcryptid/hamgrid/internal/adapter/mapbox"
	mqttadapter "github.com/couchcryptid/hamgrid/internal/adapter/mqtt"
	"github.com/couchcryptid/hamgrid/internal/config"
	"github.com/couchcryptid/hamgrid/internal/domain"
	"github.com/couchcryptid/hamgrid/internal/dxcc"
	"github.com/couchcryptid/hamgrid/internal/observability"
	"github.com/couchcryptid/hamgrid/internal/pipeline"
)

// readiness is ready when every member is.
type readiness []sharedobs.ReadinessChecker

func (r readiness) CheckReadiness(ctx context.Context) error {
	for _, c := range r {
		if err := c.CheckReadiness(ctx); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	resolver, err := newResolver(cfg, logger)
	if err != nil {
		logger.Error("failed to build dxcc resolver", "error", err)
		os.Exit(1)
	}

	// Initialize geocoder (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		cached, err := mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		if err != nil {
			logger.Error("failed to create geocoder cache", "error", err)
			os.Exit(1)
		}
		geocoder = cached
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	uploads := kafkaadapter.NewUploadWriter(cfg, logger)

	sinks := []pipeline.Sink{{Name: "kafka", Loader: writer, Required: true}}
	var publisher *mqttadapter.Publisher
	if cfg.MQTTBroker != "" {
		publisher, err = mqttadapter.NewPublisher(cfg, logger)
		if err != nil {
			logger.Error("failed to connect to mqtt broker", "error", err)
			os.Exit(1)
		}
		sinks = append(sinks, pipeline.Sink{Name: "mqtt", Loader: publisher})
	}
	loader := pipeline.NewFanoutLoader(logger, metrics, sinks...)

	transformer := pipeline.NewTransformer(resolver, geocoder, cfg.Station, logger, metrics)
	p := pipeline.New(reader, transformer, loader, logger, metrics, cfg.BatchSize)

	ready := readiness{p}
	if publisher != nil {
		ready = append(ready, publisher)
	}

	apiOpts := []httpadapter.APIOption{
		httpadapter.WithUploader(uploads),
		httpadapter.WithMaxUploadBytes(int64(cfg.KafkaMaxMessageBytes)),
	}
	if geocoder != nil {
		apiOpts = append(apiOpts, httpadapter.WithGeocoder(geocoder))
	}
	api := httpadapter.NewAPI(resolver, cfg.Station, logger, apiOpts...)
	srv := httpadapter.NewServer(cfg.HTTPAddr, ready, api, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return p.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("service error", "error", err)
	}

	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}
	if err := uploads.Close(); err != nil {
		logger.Error("kafka upload writer close error", "error", err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("mqtt publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

// newResolver loads the DXCC table. A missing table leaves DXCC lookups
// disabled rather than stopping the service.
func newResolver(cfg *config.Config, logger *slog.Logger) (dxcc.Resolver, error) {
	entities, err := dxcc.LoadTableFile(cfg.DXCCTablePath)
	if err != nil {
		logger.Warn("dxcc table not loaded, entity lookups disabled", "path", cfg.DXCCTablePath, "error", err)
		return nil, nil
	}

	index := dxcc.BuildIndex(entities)
	logger.Info("dxcc table loaded", "path", cfg.DXCCTablePath, "entities", len(entities), "prefixes", index.Len())

	cached, err := dxcc.NewCachedResolver(index, cfg.DXCCCacheSize)
	if err != nil {
		return nil, err
	}
	return cached, nil
}
