package domain

import (
	"context"
	"time"
)

//go:generate mockgen -source=decision_recorder.go -destination=decision_recorder_mock.go -package=domain

// DecisionRecord is one tick's outcome, kept for offline analysis.
type DecisionRecord struct {
	DecisionID       string
	RecordedAt       time.Time
	DominantGroup    string
	ObservationCount int
	WindowSize       int
	ContextTags      []string
	AdID             string
	DisplayRef       string
	Reason           string
	Tier             string
	Transition       string
}

type DecisionRecorder interface {
	RecordDecision(ctx context.Context, record DecisionRecord) error
	Flush(ctx context.Context) error
	Close() error
}
