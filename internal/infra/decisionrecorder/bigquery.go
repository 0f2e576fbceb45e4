//go:build gcloud

package decisionrecorder

import (
	"context"
	"log/slog"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/KasumiMercury/primind-crowd-signage/internal/domain"
)

type bigQueryRecord struct {
	DecisionID       string    `bigquery:"decision_id"`
	RecordedAt       time.Time `bigquery:"recorded_at"`
	DominantGroup    string    `bigquery:"dominant_group"`
	ObservationCount int64     `bigquery:"observation_count"`
	WindowSize       int64     `bigquery:"window_size"`
	ContextTags      []string  `bigquery:"context_tags"`
	AdID             string    `bigquery:"ad_id"`
	DisplayRef       string    `bigquery:"display_ref"`
	Reason           string    `bigquery:"reason"`
	Tier             string    `bigquery:"tier"`
	Transition       string    `bigquery:"transition"`
}

type bigQueryRecorder struct {
	client   *bigquery.Client
	inserter *bigquery.Inserter
	dataset  string
	table    string
}

func newPlatformRecorder(ctx context.Context, cfg *Config) (domain.DecisionRecorder, error) {
	if cfg.BigQueryProjectID == "" {
		slog.WarnContext(ctx, "BigQuery project ID not configured, decision recording disabled")
		return NewNoopRecorder(), nil
	}

	client, err := bigquery.NewClient(ctx, cfg.BigQueryProjectID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create BigQuery client, decision recording disabled",
			slog.String("error", err.Error()),
			slog.String("project_id", cfg.BigQueryProjectID),
		)
		return NewNoopRecorder(), nil
	}

	table := client.Dataset(cfg.BigQueryDataset).Table(cfg.BigQueryTable)

	slog.InfoContext(ctx, "decision recorder initialized",
		slog.String("type", "bigquery"),
		slog.String("project_id", cfg.BigQueryProjectID),
		slog.String("dataset", cfg.BigQueryDataset),
		slog.String("table", cfg.BigQueryTable),
	)

	return &bigQueryRecorder{
		client:   client,
		inserter: table.Inserter(),
		dataset:  cfg.BigQueryDataset,
		table:    cfg.BigQueryTable,
	}, nil
}

func (r *bigQueryRecorder) RecordDecision(ctx context.Context, record domain.DecisionRecord) error {
	row := &bigQueryRecord{
		DecisionID:       record.DecisionID,
		RecordedAt:       record.RecordedAt,
		DominantGroup:    record.DominantGroup,
		ObservationCount: int64(record.ObservationCount),
		WindowSize:       int64(record.WindowSize),
		ContextTags:      record.ContextTags,
		AdID:             record.AdID,
		DisplayRef:       record.DisplayRef,
		Reason:           record.Reason,
		Tier:             record.Tier,
		Transition:       record.Transition,
	}

	if err := r.inserter.Put(ctx, row); err != nil {
		slog.WarnContext(ctx, "failed to insert decision to BigQuery",
			slog.String("error", err.Error()),
			slog.String("decision_id", record.DecisionID),
		)
	}

	return nil
}

func (r *bigQueryRecorder) Flush(_ context.Context) error {
	return nil
}

func (r *bigQueryRecorder) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
