package catalogsync

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/KasumiMercury/primind-crowd-signage/internal/domain"
	"github.com/KasumiMercury/primind-crowd-signage/internal/observability/metrics"
	"github.com/KasumiMercury/primind-crowd-signage/internal/observability/tracing"
	"github.com/KasumiMercury/primind-crowd-signage/internal/service/selection"
)

type Result struct {
	Version uint64
	Size    int
}

// Reloader loads the catalog from its source and publishes it to the
// selection snapshot. A failed first load publishes an empty catalog; a
// failed later load keeps the previous one.
type Reloader struct {
	loader          domain.CatalogLoader
	source          string
	snapshot        *selection.Snapshot
	decisionMetrics *metrics.DecisionMetrics

	mu     sync.Mutex
	loaded bool
}

func NewReloader(
	loader domain.CatalogLoader,
	source string,
	snapshot *selection.Snapshot,
	decisionMetrics *metrics.DecisionMetrics,
) *Reloader {
	return &Reloader{
		loader:          loader,
		source:          source,
		snapshot:        snapshot,
		decisionMetrics: decisionMetrics,
	}
}

func (r *Reloader) Reload(ctx context.Context) (*Result, error) {
	ctx, span := tracing.StartCatalogReloadSpan(ctx, r.source)
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	catalog, err := r.loader.LoadCatalog(ctx)
	if err != nil {
		tracing.RecordError(span, err)
		r.record(ctx, "failure", 0)

		if !r.loaded {
			version := r.snapshot.Publish(domain.EmptyCatalog())
			r.loaded = true
			slog.ErrorContext(ctx, "failed to load catalog, serving empty catalog",
				slog.String("event", "catalog.load.fail"),
				slog.String("source", r.source),
				slog.Uint64("version", version),
				slog.String("error", err.Error()),
			)
		} else {
			slog.ErrorContext(ctx, "failed to reload catalog, keeping previous catalog",
				slog.String("event", "catalog.reload.fail"),
				slog.String("source", r.source),
				slog.Uint64("version", r.snapshot.Version()),
				slog.String("error", err.Error()),
			)
		}

		return nil, fmt.Errorf("failed to load catalog from %s: %w", r.source, err)
	}

	version := r.snapshot.Publish(catalog)
	r.loaded = true
	r.record(ctx, "success", catalog.Len())
	tracing.RecordError(span, nil)

	slog.InfoContext(ctx, "catalog published",
		slog.String("event", "catalog.publish"),
		slog.String("source", r.source),
		slog.Uint64("version", version),
		slog.Int("advertisements", catalog.Len()),
	)

	return &Result{Version: version, Size: catalog.Len()}, nil
}

// Replace persists catalog through the source and publishes it.
func (r *Reloader) Replace(ctx context.Context, catalog *domain.Catalog) (*Result, error) {
	writer, ok := r.loader.(domain.CatalogWriter)
	if !ok {
		return nil, domain.ErrCatalogReadOnly
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := writer.SaveCatalog(ctx, catalog); err != nil {
		r.record(ctx, "failure", 0)
		return nil, fmt.Errorf("failed to save catalog: %w", err)
	}

	version := r.snapshot.Publish(catalog)
	r.loaded = true
	r.record(ctx, "success", catalog.Len())

	slog.InfoContext(ctx, "catalog replaced",
		slog.String("event", "catalog.replace"),
		slog.String("source", r.source),
		slog.Uint64("version", version),
		slog.Int("advertisements", catalog.Len()),
	)

	return &Result{Version: version, Size: catalog.Len()}, nil
}

// Writable reports whether Replace is supported by the source.
func (r *Reloader) Writable() bool {
	_, ok := r.loader.(domain.CatalogWriter)
	return ok
}

func (r *Reloader) Source() string {
	return r.source
}

// Run reloads on every tick of interval until ctx is done.
func (r *Reloader) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = r.Reload(ctx)
		}
	}
}

func (r *Reloader) record(ctx context.Context, outcome string, size int) {
	if r.decisionMetrics != nil {
		r.decisionMetrics.RecordCatalogReload(ctx, r.source, outcome, size)
	}
}
