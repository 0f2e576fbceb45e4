//go:build !gcloud

package decisionrecorder

import (
	"context"
	"log/slog"
	"strings"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/KasumiMercury/primind-crowd-signage/internal/domain"
)

type influxDBRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	bucket   string
	org      string
}

func newPlatformRecorder(ctx context.Context, cfg *Config) (domain.DecisionRecorder, error) {
	if cfg.InfluxDBToken == "" || cfg.InfluxDBOrg == "" {
		slog.WarnContext(ctx, "InfluxDB token or org not configured, decision recording disabled",
			slog.String("url", cfg.InfluxDBURL),
		)
		return NewNoopRecorder(), nil
	}

	client := influxdb2.NewClient(cfg.InfluxDBURL, cfg.InfluxDBToken)
	writeAPI := client.WriteAPIBlocking(cfg.InfluxDBOrg, cfg.InfluxDBBucket)

	slog.InfoContext(ctx, "decision recorder initialized",
		slog.String("type", "influxdb"),
		slog.String("url", cfg.InfluxDBURL),
		slog.String("bucket", cfg.InfluxDBBucket),
	)

	return &influxDBRecorder{
		client:   client,
		writeAPI: writeAPI,
		bucket:   cfg.InfluxDBBucket,
		org:      cfg.InfluxDBOrg,
	}, nil
}

func decisionPoint(record domain.DecisionRecord) (string, map[string]string, map[string]any) {
	dominant := record.DominantGroup
	if dominant == "" {
		dominant = "none"
	}

	tags := map[string]string{
		"tier":       record.Tier,
		"transition": record.Transition,
		"dominant":   dominant,
	}
	if record.AdID != "" {
		tags["ad_id"] = record.AdID
	}

	fields := map[string]any{
		"decision_id":       record.DecisionID,
		"reason":            record.Reason,
		"display_ref":       record.DisplayRef,
		"observation_count": record.ObservationCount,
		"window_size":       record.WindowSize,
		"context_tags":      strings.Join(record.ContextTags, ","),
	}

	return "signage_decision", tags, fields
}

func (r *influxDBRecorder) RecordDecision(ctx context.Context, record domain.DecisionRecord) error {
	measurement, tags, fields := decisionPoint(record)
	point := influxdb2.NewPoint(measurement, tags, fields, record.RecordedAt)

	if err := r.writeAPI.WritePoint(ctx, point); err != nil {
		slog.WarnContext(ctx, "failed to write decision to InfluxDB",
			slog.String("error", err.Error()),
			slog.String("decision_id", record.DecisionID),
		)
	}

	return nil
}

func (r *influxDBRecorder) Flush(ctx context.Context) error {
	return r.writeAPI.Flush(ctx)
}

func (r *influxDBRecorder) Close() error {
	if r.client != nil {
		r.client.Close()
	}
	return nil
}
