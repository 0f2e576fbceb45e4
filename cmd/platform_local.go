//go:build !gcloud

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/KasumiMercury/primind-crowd-signage/internal/config"
	"github.com/KasumiMercury/primind-crowd-signage/internal/infra/displayqueue"
	"github.com/KasumiMercury/primind-crowd-signage/internal/observability"
	"github.com/KasumiMercury/primind-crowd-signage/internal/observability/logging"
)

func initDisplayQueue(_ context.Context, cfg *config.Config) (displayqueue.DisplayQueue, func() error, error) {
	if cfg.Display.SinkURL == "" {
		slog.Warn("DISPLAY_SINK_URL not set, display dispatch disabled")

		return nil, nil, nil
	}

	dq := displayqueue.NewSinkClient(
		cfg.Display.SinkURL,
		cfg.Display.MaxRetries,
	)

	slog.Info("display queue initialized",
		slog.String("type", "http_sink"),
		slog.String("url", cfg.Display.SinkURL),
	)

	return dq, nil, nil
}

func initObservability(ctx context.Context, cfg *config.Config) (*observability.Resources, error) {
	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "crowd-signage"
	}

	env := logging.EnvDev
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	obs, err := observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:     serviceName,
			Version:  Version,
			Revision: "",
		},
		Environment:   env,
		GCPProjectID:  "",
		SamplingRate:  1.0,
		DefaultModule: serviceModule,
		LogLevel:      cfg.LogLevel,
		OTLPEndpoint:  cfg.OTLPEndpoint,
		OTLPHeaders:   cfg.OTLPHeaders,
	})
	if err != nil {
		return nil, err
	}

	return obs, nil
}
