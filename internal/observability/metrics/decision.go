package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	decisionMeterName = "signage.decision"
)

type DecisionMetrics struct {
	ticksProcessed      metric.Int64Counter
	observationsTotal   metric.Int64Counter
	selections          metric.Int64Counter
	displayTransitions  metric.Int64Counter
	displayDispatchFail metric.Int64Counter
	tickDuration        metric.Float64Histogram
	windowObservations  metric.Int64Gauge
	catalogReloads      metric.Int64Counter
	catalogSize         metric.Int64Gauge
}

func NewDecisionMetrics() (*DecisionMetrics, error) {
	meter := otel.Meter(decisionMeterName)

	ticksProcessed, err := meter.Int64Counter(
		"signage_ticks_total",
		metric.WithDescription("Total number of observation ticks processed"),
		metric.WithUnit("{tick}"),
	)
	if err != nil {
		return nil, err
	}

	observationsTotal, err := meter.Int64Counter(
		"signage_observations_total",
		metric.WithDescription("Total number of demographic observations received"),
		metric.WithUnit("{observation}"),
	)
	if err != nil {
		return nil, err
	}

	selections, err := meter.Int64Counter(
		"signage_selections_total",
		metric.WithDescription("Advertisement selections by tier"),
		metric.WithUnit("{selection}"),
	)
	if err != nil {
		return nil, err
	}

	displayTransitions, err := meter.Int64Counter(
		"signage_display_transitions_total",
		metric.WithDescription("Display transitions by kind"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return nil, err
	}

	displayDispatchFail, err := meter.Int64Counter(
		"signage_display_dispatch_failures_total",
		metric.WithDescription("Display changes that could not be dispatched"),
		metric.WithUnit("{dispatch}"),
	)
	if err != nil {
		return nil, err
	}

	tickDuration, err := meter.Float64Histogram(
		"signage_tick_duration_seconds",
		metric.WithDescription("Time spent aggregating and selecting per tick"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5,
		),
	)
	if err != nil {
		return nil, err
	}

	windowObservations, err := meter.Int64Gauge(
		"signage_window_observations",
		metric.WithDescription("Observations currently held in the aggregation window"),
		metric.WithUnit("{observation}"),
	)
	if err != nil {
		return nil, err
	}

	catalogReloads, err := meter.Int64Counter(
		"signage_catalog_reloads_total",
		metric.WithDescription("Catalog reload attempts by outcome"),
		metric.WithUnit("{reload}"),
	)
	if err != nil {
		return nil, err
	}

	catalogSize, err := meter.Int64Gauge(
		"signage_catalog_size",
		metric.WithDescription("Advertisements in the published catalog"),
		metric.WithUnit("{advertisement}"),
	)
	if err != nil {
		return nil, err
	}

	return &DecisionMetrics{
		ticksProcessed:      ticksProcessed,
		observationsTotal:   observationsTotal,
		selections:          selections,
		displayTransitions:  displayTransitions,
		displayDispatchFail: displayDispatchFail,
		tickDuration:        tickDuration,
		windowObservations:  windowObservations,
		catalogReloads:      catalogReloads,
		catalogSize:         catalogSize,
	}, nil
}

func (m *DecisionMetrics) RecordTick(ctx context.Context, observations int, windowObservations int, duration time.Duration) {
	m.ticksProcessed.Add(ctx, 1)
	m.observationsTotal.Add(ctx, int64(observations))
	m.windowObservations.Record(ctx, int64(windowObservations))
	m.tickDuration.Record(ctx, duration.Seconds())
}

func (m *DecisionMetrics) RecordSelection(ctx context.Context, tier, adID string) {
	m.selections.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tier", tier),
		attribute.String("ad_id", adID),
	))
}

func (m *DecisionMetrics) RecordTransition(ctx context.Context, transition string) {
	m.displayTransitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("transition", transition),
	))
}

func (m *DecisionMetrics) RecordDispatchFailure(ctx context.Context, transition string) {
	m.displayDispatchFail.Add(ctx, 1, metric.WithAttributes(
		attribute.String("transition", transition),
	))
}

func (m *DecisionMetrics) RecordCatalogReload(ctx context.Context, source, outcome string, size int) {
	m.catalogReloads.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("outcome", outcome),
	))
	if outcome == "success" {
		m.catalogSize.Record(ctx, int64(size))
	}
}
