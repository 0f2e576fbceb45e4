//go:build !gcloud

package observability

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func newTraceExporter(ctx context.Context, cfg Config) (sdktrace.SpanExporter, error) {
	if cfg.OTLPEndpoint == "" {
		return nil, nil
	}

	return otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(endpoint(cfg.OTLPEndpoint, "/v1/traces")),
		otlptracehttp.WithHeaders(parseHeaders(cfg.OTLPHeaders)),
	)
}

func newMetricExporter(ctx context.Context, cfg Config) (sdkmetric.Exporter, error) {
	if cfg.OTLPEndpoint == "" {
		return nil, nil
	}

	return otlpmetrichttp.New(ctx,
		otlpmetrichttp.WithEndpointURL(endpoint(cfg.OTLPEndpoint, "/v1/metrics")),
		otlpmetrichttp.WithHeaders(parseHeaders(cfg.OTLPHeaders)),
	)
}

func newLogExporter(ctx context.Context, cfg Config) (sdklog.Exporter, error) {
	if cfg.OTLPEndpoint == "" {
		return nil, nil
	}

	return otlploghttp.New(ctx,
		otlploghttp.WithEndpointURL(endpoint(cfg.OTLPEndpoint, "/v1/logs")),
		otlploghttp.WithHeaders(parseHeaders(cfg.OTLPHeaders)),
	)
}

func endpoint(base, path string) string {
	return strings.TrimRight(base, "/") + path
}
