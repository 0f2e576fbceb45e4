package observability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/KasumiMercury/primind-crowd-signage/internal/observability/logging"
)

type Config struct {
	ServiceInfo   logging.ServiceInfo
	Environment   logging.Environment
	GCPProjectID  string
	SamplingRate  float64
	DefaultModule logging.Module
	LogLevel      slog.Leveler

	// OTLPEndpoint enables OTLP/HTTP export of traces, metrics and logs when set.
	OTLPEndpoint string
	// OTLPHeaders is a comma separated key=value list.
	OTLPHeaders string
}

type Resources struct {
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	loggerProvider *sdklog.LoggerProvider
	logger         *slog.Logger
	serviceName    string
}

func Init(ctx context.Context, cfg Config) (*Resources, error) {
	res, err := resource.New(ctx,
		resource.WithTelemetrySDK(),
		resource.WithFromEnv(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceInfo.Name),
			semconv.ServiceVersion(cfg.ServiceInfo.Version),
			semconv.DeploymentEnvironment(string(cfg.Environment)),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	r := &Resources{serviceName: cfg.ServiceInfo.Name}

	traceExporter, err := newTraceExporter(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}

	tracerOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(samplingRate(cfg.SamplingRate)))),
	}
	if traceExporter != nil {
		tracerOpts = append(tracerOpts, sdktrace.WithBatcher(traceExporter))
	}
	r.tracerProvider = sdktrace.NewTracerProvider(tracerOpts...)
	otel.SetTracerProvider(r.tracerProvider)

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	metricExporter, err := newMetricExporter(ctx, cfg)
	if err != nil {
		_ = r.Shutdown(ctx)
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	meterOpts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	if metricExporter != nil {
		meterOpts = append(meterOpts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)))
	}
	r.meterProvider = sdkmetric.NewMeterProvider(meterOpts...)
	otel.SetMeterProvider(r.meterProvider)

	logExporter, err := newLogExporter(ctx, cfg)
	if err != nil {
		_ = r.Shutdown(ctx)
		return nil, fmt.Errorf("creating log exporter: %w", err)
	}

	level := cfg.LogLevel
	if level == nil {
		level = slog.LevelInfo
	}

	handler := logging.NewHandler(os.Stdout, logging.HandlerConfig{
		Service:      cfg.ServiceInfo,
		Environment:  cfg.Environment,
		Level:        level,
		Module:       cfg.DefaultModule,
		GCPProjectID: cfg.GCPProjectID,
	})

	if logExporter != nil {
		r.loggerProvider = sdklog.NewLoggerProvider(
			sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)),
			sdklog.WithResource(res),
		)
		global.SetLoggerProvider(r.loggerProvider)

		handler = slogmulti.Fanout(
			handler,
			otelslog.NewHandler(cfg.ServiceInfo.Name, otelslog.WithLoggerProvider(r.loggerProvider)),
		)
	}

	r.logger = slog.New(handler)

	return r, nil
}

func (r *Resources) Logger() *slog.Logger {
	if r == nil || r.logger == nil {
		return slog.Default()
	}

	return r.logger
}

// ServiceName is the name reported in the telemetry resource.
func (r *Resources) ServiceName() string {
	if r == nil {
		return ""
	}

	return r.serviceName
}

func (r *Resources) Shutdown(ctx context.Context) error {
	if r == nil {
		return nil
	}

	var errs []error
	if r.tracerProvider != nil {
		if err := r.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if r.meterProvider != nil {
		if err := r.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}
	if r.loggerProvider != nil {
		if err := r.loggerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("logger shutdown: %w", err))
		}
	}

	return errors.Join(errs...)
}

func samplingRate(rate float64) float64 {
	if rate <= 0 || rate > 1 {
		return 1.0
	}

	return rate
}

func parseHeaders(s string) map[string]string {
	headers := make(map[string]string)
	if s == "" {
		return headers
	}
	for _, pair := range strings.Split(s, ",") {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) == 2 {
			headers[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return headers
}
