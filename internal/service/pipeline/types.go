package pipeline

import (
	"context"

	"github.com/KasumiMercury/primind-crowd-signage/internal/domain"
)

// ContextProvider supplies the ordered context tags for a decision.
type ContextProvider interface {
	Tags(ctx context.Context) []domain.ContextTag
}

// Refresher is implemented by context providers that cache their tags.
type Refresher interface {
	Refresh()
}

// TickResult is everything decided for one observation batch.
type TickResult struct {
	DecisionID       string
	Dominant         domain.Observation
	Stats            domain.FrequencyTable
	BatchCount       int
	ObservationCount int
	Capacity         int
	ContextTags      []domain.ContextTag
	Selection        domain.Selection
	Transition       domain.Transition
	Dispatched       bool
}

// Stats is the window view served to dashboards.
type Stats struct {
	Dominant         domain.Observation
	Stats            domain.FrequencyTable
	BatchCount       int
	ObservationCount int
	Capacity         int
	Playing          string
}
