package decisionrecorder

import (
	"context"
	"log/slog"

	"github.com/KasumiMercury/primind-crowd-signage/internal/domain"
)

// NewRecorder picks the backend for cfg. Backends that cannot be reached
// degrade to the no-op recorder so decisions never block on analytics.
func NewRecorder(ctx context.Context, cfg *Config) (domain.DecisionRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "decision recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.SQLitePath != "" {
		return NewSQLiteRecorder(ctx, cfg.SQLitePath)
	}

	return newPlatformRecorder(ctx, cfg)
}
