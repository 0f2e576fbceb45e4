//go:build gcloud

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

func initDisplayQueue(ctx context.Context, cfg *config.Config) (displayqueue.DisplayQueue, func() error, error) {
	cloudTasksClient, err := displayqueue.NewCloudTasksClient(ctx, displayqueue.CloudTasksConfig{
		ProjectID:  cfg.Display.GCloudProjectID,
		LocationID: cfg.Display.GCloudLocationID,
		QueueID:    cfg.Display.GCloudQueueID,
		TargetURL:  cfg.Display.GCloudTargetURL,
		MaxRetries: cfg.Display.MaxRetries,
	})
	if err != nil {
		return nil, nil, err
	}

	slog.Info("display queue initialized",
		slog.String("type", "cloud_tasks"),
		slog.String("project", cfg.Display.GCloudProjectID),
		slog.String("location", cfg.Display.GCloudLocationID),
		slog.String("queue", cfg.Display.GCloudQueueID),
	)

	cleanup := func() error {
		if err := cloudTasksClient.Close(); err != nil {
			slog.Warn("failed to close cloud tasks client", slog.String("error", err.Error()))

			return err
		}

		return nil
	}

	return cloudTasksClient, cleanup, nil
}

func initObservability(ctx context.Context, cfg *config.Config) (*observability.Resources, error) {
	serviceName := os.Getenv("K_SERVICE")
	if serviceName == "" {
		serviceName = "crowd-signage"
	}

	env := logging.EnvProd
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
	if projectID == "" {
		projectID = cfg.Display.GCloudProjectID
	}

	obs, err := observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:     serviceName,
			Version:  Version,
			Revision: os.Getenv("K_REVISION"),
		},
		Environment:   env,
		GCPProjectID:  projectID,
		SamplingRate:  1.0,
		DefaultModule: serviceModule,
		LogLevel:      cfg.LogLevel,
	})
	if err != nil {
		return nil, err
	}

	return obs, nil
}
