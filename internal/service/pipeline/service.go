package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/KasumiMercury/primind-crowd-signage/internal/domain"
	"github.com/KasumiMercury/primind-crowd-signage/internal/infra/displayqueue"
	"github.com/KasumiMercury/primind-crowd-signage/internal/observability/metrics"
	"github.com/KasumiMercury/primind-crowd-signage/internal/observability/tracing"
	"github.com/KasumiMercury/primind-crowd-signage/internal/service/aggregation"
	"github.com/KasumiMercury/primind-crowd-signage/internal/service/display"
	"github.com/KasumiMercury/primind-crowd-signage/internal/service/selection"
)

// Service runs one decision per observation batch: aggregate, look up
// context, select, then tell the display what changed. Ticks are serialized.
type Service struct {
	tickMu sync.Mutex

	window          *aggregation.SyncWindow
	engine          *selection.Engine
	contextProvider ContextProvider
	tracker         *display.Tracker
	displayQueue    displayqueue.DisplayQueue
	recorder        domain.DecisionRecorder
	decisionMetrics *metrics.DecisionMetrics
	now             func() time.Time
}

func NewService(
	window *aggregation.SyncWindow,
	engine *selection.Engine,
	contextProvider ContextProvider,
	tracker *display.Tracker,
	displayQueue displayqueue.DisplayQueue,
	recorder domain.DecisionRecorder,
	decisionMetrics *metrics.DecisionMetrics,
) *Service {
	return &Service{
		window:          window,
		engine:          engine,
		contextProvider: contextProvider,
		tracker:         tracker,
		displayQueue:    displayQueue,
		recorder:        recorder,
		decisionMetrics: decisionMetrics,
		now:             time.Now,
	}
}

func (s *Service) Tick(ctx context.Context, batch domain.ObservationBatch) (*TickResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	start := s.now()
	decisionID := newDecisionID()

	ctx, span := tracing.StartTickSpan(ctx, decisionID, len(batch))
	defer span.End()

	snap := s.window.AddAndSnapshot(batch)
	contextTags := s.ContextTags(ctx)
	sel := s.selectAd(ctx, snap.Dominant, contextTags)
	transition := s.tracker.Apply(sel)

	result := &TickResult{
		DecisionID:       decisionID,
		Dominant:         snap.Dominant,
		Stats:            snap.Stats,
		BatchCount:       snap.BatchCount,
		ObservationCount: snap.ObservationCount,
		Capacity:         snap.Capacity,
		ContextTags:      contextTags,
		Selection:        sel,
		Transition:       transition,
	}

	if transition.RequiresDispatch() {
		result.Dispatched = s.dispatch(ctx, result, start)
	}

	s.record(ctx, result, start)

	if s.decisionMetrics != nil {
		s.decisionMetrics.RecordTick(ctx, len(batch), snap.ObservationCount, time.Since(start))
		s.decisionMetrics.RecordSelection(ctx, sel.Tier.String(), sel.AdID)
		s.decisionMetrics.RecordTransition(ctx, transition.String())
	}

	tracing.RecordTickResult(span, snap.BatchCount, snap.ObservationCount, transition.String())

	logLevel := slog.LevelDebug
	if transition.RequiresDispatch() {
		logLevel = slog.LevelInfo
	}
	slog.Log(ctx, logLevel, "decision made",
		slog.String("event", "signage.decision"),
		slog.String("decision_id", decisionID),
		slog.String("dominant_group", snap.Dominant.String()),
		slog.Int("observations", snap.ObservationCount),
		slog.String("ad_id", sel.AdID),
		slog.String("reason", sel.Reason.String()),
		slog.String("transition", transition.String()),
	)

	return result, nil
}

// Select runs a stateless selection without touching the window or display.
func (s *Service) Select(ctx context.Context, dominant domain.Observation, contextTags []domain.ContextTag) domain.Selection {
	return s.selectAd(ctx, dominant, contextTags)
}

func (s *Service) ContextTags(ctx context.Context) []domain.ContextTag {
	if s.contextProvider == nil {
		return nil
	}
	return s.contextProvider.Tags(ctx)
}

func (s *Service) Stats() Stats {
	snap := s.window.Snapshot()
	return Stats{
		Dominant:         snap.Dominant,
		Stats:            snap.Stats,
		BatchCount:       snap.BatchCount,
		ObservationCount: snap.ObservationCount,
		Capacity:         snap.Capacity,
		Playing:          s.tracker.Current(),
	}
}

// RefreshContext drops any cached context tags and returns a fresh set.
// Providers without a cache are simply queried again.
func (s *Service) RefreshContext(ctx context.Context) []domain.ContextTag {
	if r, ok := s.contextProvider.(Refresher); ok {
		r.Refresh()
		slog.InfoContext(ctx, "context tags refreshed",
			slog.String("event", "signage.context.refresh"),
		)
	}
	return s.ContextTags(ctx)
}

// Reset clears the window and forgets the playing advertisement, as when
// the source stream restarts. It waits for an in-flight tick to finish.
func (s *Service) Reset(ctx context.Context) {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	s.window.Reset()
	s.tracker.Reset()

	slog.InfoContext(ctx, "aggregation window reset",
		slog.String("event", "signage.reset"),
		slog.Int("capacity", s.window.Capacity()),
	)
}

func (s *Service) selectAd(ctx context.Context, dominant domain.Observation, contextTags []domain.ContextTag) domain.Selection {
	_, span := tracing.StartSelectionSpan(ctx, dominant.String(), domain.ContextTagsToStrings(contextTags))
	defer span.End()

	sel := s.engine.Select(dominant, contextTags)
	tracing.RecordSelectionResult(span, sel.Tier.String(), sel.AdID, sel.Reason.String())

	return sel
}

func (s *Service) dispatch(ctx context.Context, result *TickResult, issuedAt time.Time) bool {
	if s.displayQueue == nil {
		return false
	}

	task := &displayqueue.DisplayTask{
		DecisionID: result.DecisionID,
		Transition: result.Transition.String(),
		DisplayRef: result.Selection.DisplayRef,
		AdID:       result.Selection.AdID,
		Reason:     result.Selection.Reason.String(),
		IssuedAt:   issuedAt,
	}

	if _, err := s.displayQueue.Dispatch(ctx, task); err != nil {
		slog.ErrorContext(ctx, "failed to dispatch display change",
			slog.String("event", "signage.dispatch.fail"),
			slog.String("decision_id", result.DecisionID),
			slog.String("transition", task.Transition),
			slog.String("error", err.Error()),
		)
		if s.decisionMetrics != nil {
			s.decisionMetrics.RecordDispatchFailure(ctx, task.Transition)
		}
		return false
	}

	return true
}

func (s *Service) record(ctx context.Context, result *TickResult, recordedAt time.Time) {
	if s.recorder == nil {
		return
	}

	record := domain.DecisionRecord{
		DecisionID:       result.DecisionID,
		RecordedAt:       recordedAt,
		DominantGroup:    result.Dominant.String(),
		ObservationCount: result.ObservationCount,
		WindowSize:       result.BatchCount,
		ContextTags:      domain.ContextTagsToStrings(result.ContextTags),
		AdID:             result.Selection.AdID,
		DisplayRef:       result.Selection.DisplayRef,
		Reason:           result.Selection.Reason.String(),
		Tier:             result.Selection.Tier.String(),
		Transition:       result.Transition.String(),
	}

	if err := s.recorder.RecordDecision(ctx, record); err != nil {
		slog.WarnContext(ctx, "failed to record decision",
			slog.String("decision_id", result.DecisionID),
			slog.String("error", err.Error()),
		)
	}
}

func newDecisionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
