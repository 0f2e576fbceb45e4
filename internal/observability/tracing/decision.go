package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const decisionTracerName = "github.com/KasumiMercury/primind-crowd-signage/internal/service/pipeline"

func DecisionTracer() trace.Tracer {
	return otel.Tracer(decisionTracerName)
}

func StartTickSpan(ctx context.Context, decisionID string, batchSize int) (context.Context, trace.Span) {
	return DecisionTracer().Start(ctx, "signage.tick",
		trace.WithAttributes(
			attribute.String("decision.id", decisionID),
			attribute.Int("tick.batch_size", batchSize),
		),
	)
}

func StartSelectionSpan(ctx context.Context, dominant string, contextTags []string) (context.Context, trace.Span) {
	return DecisionTracer().Start(ctx, "signage.select_ad",
		trace.WithAttributes(
			attribute.String("selection.dominant_group", dominant),
			attribute.StringSlice("selection.context_tags", contextTags),
		),
	)
}

func StartCatalogReloadSpan(ctx context.Context, source string) (context.Context, trace.Span) {
	return DecisionTracer().Start(ctx, "signage.catalog_reload",
		trace.WithAttributes(
			attribute.String("catalog.source", source),
		),
	)
}

func StartExternalAPISpan(ctx context.Context, operation, url string) (context.Context, trace.Span) {
	return DecisionTracer().Start(ctx, "signage.external_api."+operation,
		trace.WithAttributes(
			attribute.String("url", url),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func RecordTickResult(span trace.Span, windowBatches, windowObservations int, transition string) {
	span.SetAttributes(
		attribute.Int("window.batches", windowBatches),
		attribute.Int("window.observations", windowObservations),
		attribute.String("display.transition", transition),
	)
	span.SetStatus(codes.Ok, "")
}

func RecordSelectionResult(span trace.Span, tier, adID, reason string) {
	span.SetAttributes(
		attribute.String("selection.tier", tier),
		attribute.String("selection.ad_id", adID),
		attribute.String("selection.reason", reason),
	)
}

func RecordError(span trace.Span, err error) {
	if err == nil {
		span.SetStatus(codes.Ok, "")
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
