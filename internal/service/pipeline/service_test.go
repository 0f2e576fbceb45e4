package pipeline

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/primind-crowd-signage/internal/domain"
	"github.com/KasumiMercury/primind-crowd-signage/internal/infra/displayqueue"
	"github.com/KasumiMercury/primind-crowd-signage/internal/service/aggregation"
	"github.com/KasumiMercury/primind-crowd-signage/internal/service/display"
	"github.com/KasumiMercury/primind-crowd-signage/internal/service/selection"
)

type staticContext []domain.ContextTag

func (s staticContext) Tags(_ context.Context) []domain.ContextTag {
	return s
}

func testCatalog(t *testing.T) *domain.Catalog {
	t.Helper()
	c, err := domain.NewCatalog(
		domain.NewAdvertisement("ad_01", "ads/coffee.mp4", []string{"20s_female", "morning_rush"}),
		domain.NewAdvertisement("ad_02", "ads/umbrella.mp4", []string{"rainy_day"}),
		domain.NewAdvertisement("ad_03", "ads/default.mp4", []string{"all"}),
	)
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	return c
}

func createTestService(
	t *testing.T,
	capacity int,
	ctxTags staticContext,
	dq displayqueue.DisplayQueue,
	recorder domain.DecisionRecorder,
) *Service {
	t.Helper()
	engine := selection.NewEngine(selection.NewSnapshot(testCatalog(t)))
	return NewService(
		aggregation.NewSyncWindow(capacity),
		engine,
		ctxTags,
		display.NewTracker(),
		dq,
		recorder,
		nil,
	)
}

func batch(tags ...string) domain.ObservationBatch {
	return domain.NewObservationBatch(tags)
}

func TestTickSequence(t *testing.T) {
	ctrl := gomock.NewController(t)
	dq := displayqueue.NewMockDisplayQueue(ctrl)
	recorder := domain.NewMockDecisionRecorder(ctrl)

	var dispatched []string
	dq.EXPECT().Dispatch(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, task *displayqueue.DisplayTask) (*displayqueue.DispatchResponse, error) {
			dispatched = append(dispatched, task.Transition+":"+task.AdID)
			return &displayqueue.DispatchResponse{Name: task.DecisionID}, nil
		}).
		Times(2)
	recorder.EXPECT().RecordDecision(gomock.Any(), gomock.Any()).Return(nil).Times(3)

	svc := createTestService(t, 2, staticContext{domain.TagLunchTime, domain.TagSunnyDay}, dq, recorder)
	ctx := context.Background()

	tests := []struct {
		name           string
		batch          domain.ObservationBatch
		wantDominant   domain.Observation
		wantAdID       string
		wantReason     domain.Reason
		wantTransition domain.Transition
	}{
		{
			name:           "empty window falls back to default",
			batch:          batch(),
			wantDominant:   domain.NoObservation,
			wantAdID:       "ad_03",
			wantReason:     domain.ReasonDefault,
			wantTransition: domain.TransitionStart,
		},
		{
			name:           "crowd match switches ad",
			batch:          batch("20s_female", "30s_male"),
			wantDominant:   "20s_female",
			wantAdID:       "ad_01",
			wantReason:     domain.ReasonCrowd,
			wantTransition: domain.TransitionStart,
		},
		{
			name:           "same ad keeps playing",
			batch:          batch("20s_female"),
			wantDominant:   "20s_female",
			wantAdID:       "ad_01",
			wantReason:     domain.ReasonCrowd,
			wantTransition: domain.TransitionKeep,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Tick(ctx, tt.batch)
			if err != nil {
				t.Fatalf("Tick() error = %v", err)
			}
			if got.Dominant != tt.wantDominant {
				t.Errorf("Dominant = %q, want %q", got.Dominant, tt.wantDominant)
			}
			if got.Selection.AdID != tt.wantAdID {
				t.Errorf("AdID = %q, want %q", got.Selection.AdID, tt.wantAdID)
			}
			if got.Selection.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", got.Selection.Reason, tt.wantReason)
			}
			if got.Transition != tt.wantTransition {
				t.Errorf("Transition = %q, want %q", got.Transition, tt.wantTransition)
			}
			if got.DecisionID == "" {
				t.Error("DecisionID is empty")
			}
		})
	}

	if want := []string{"start:ad_03", "start:ad_01"}; !slices.Equal(dispatched, want) {
		t.Errorf("dispatched = %v, want %v", dispatched, want)
	}
}

func TestTickContextTier(t *testing.T) {
	svc := createTestService(t, 30, staticContext{domain.TagNightTime, domain.TagRainyDay}, nil, nil)

	got, err := svc.Tick(context.Background(), batch("10s_male"))
	if err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if got.Selection.AdID != "ad_02" {
		t.Errorf("AdID = %q, want ad_02", got.Selection.AdID)
	}
	if want := domain.Reason("Targeted (Context: rainy_day)"); got.Selection.Reason != want {
		t.Errorf("Reason = %q, want %q", got.Selection.Reason, want)
	}
	if got.Dispatched {
		t.Error("Dispatched = true without a display queue")
	}
}

func TestTickWindowEviction(t *testing.T) {
	svc := createTestService(t, 2, nil, nil, nil)
	ctx := context.Background()

	for _, b := range []domain.ObservationBatch{batch("a", "b"), batch("a"), batch("b", "b")} {
		if _, err := svc.Tick(ctx, b); err != nil {
			t.Fatalf("Tick() error = %v", err)
		}
	}

	stats := svc.Stats()
	if stats.BatchCount != 2 {
		t.Errorf("BatchCount = %d, want 2", stats.BatchCount)
	}
	if stats.Dominant != "b" {
		t.Errorf("Dominant = %q, want b", stats.Dominant)
	}
	if stats.Stats["a"] != 1 || stats.Stats["b"] != 2 {
		t.Errorf("Stats = %v, want map[a:1 b:2]", stats.Stats)
	}
}

func TestTickDispatchFailureIsNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	dq := displayqueue.NewMockDisplayQueue(ctrl)
	dq.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Return(nil, errors.New("sink down"))

	svc := createTestService(t, 30, nil, dq, nil)

	got, err := svc.Tick(context.Background(), batch("20s_female"))
	if err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if got.Dispatched {
		t.Error("Dispatched = true, want false")
	}
	if got.Transition != domain.TransitionStart {
		t.Errorf("Transition = %q, want start", got.Transition)
	}
}

func TestTickRecorderFailureIsNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	recorder := domain.NewMockDecisionRecorder(ctrl)
	recorder.EXPECT().RecordDecision(gomock.Any(), gomock.Any()).Return(errors.New("influx down"))

	svc := createTestService(t, 30, nil, nil, recorder)

	if _, err := svc.Tick(context.Background(), batch()); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
}

func TestTickRecordsDecision(t *testing.T) {
	ctrl := gomock.NewController(t)
	recorder := domain.NewMockDecisionRecorder(ctrl)

	var got domain.DecisionRecord
	recorder.EXPECT().RecordDecision(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rec domain.DecisionRecord) error {
			got = rec
			return nil
		})

	svc := createTestService(t, 30, staticContext{domain.TagMorningRush}, nil, recorder)

	result, err := svc.Tick(context.Background(), batch("40s_male", "40s_male"))
	if err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if got.DecisionID != result.DecisionID {
		t.Errorf("DecisionID = %q, want %q", got.DecisionID, result.DecisionID)
	}
	if got.DominantGroup != "40s_male" || got.ObservationCount != 2 || got.WindowSize != 1 {
		t.Errorf("record = %+v, want dominant 40s_male with 2 observations in 1 batch", got)
	}
	if got.Tier != "context" || got.AdID != "ad_01" {
		t.Errorf("record tier/ad = %s/%s, want context/ad_01", got.Tier, got.AdID)
	}
	if !slices.Equal(got.ContextTags, []string{"morning_rush"}) {
		t.Errorf("ContextTags = %v, want [morning_rush]", got.ContextTags)
	}
}

func TestTickClearsDisplay(t *testing.T) {
	ctrl := gomock.NewController(t)
	dq := displayqueue.NewMockDisplayQueue(ctrl)

	snapshot := selection.NewSnapshot(testCatalog(t))
	svc := NewService(
		aggregation.NewSyncWindow(30),
		selection.NewEngine(snapshot),
		nil,
		display.NewTracker(),
		dq,
		nil,
		nil,
	)
	ctx := context.Background()

	gomock.InOrder(
		dq.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Return(&displayqueue.DispatchResponse{}, nil),
		dq.EXPECT().Dispatch(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, task *displayqueue.DisplayTask) (*displayqueue.DispatchResponse, error) {
				if task.Transition != "clear" || task.DisplayRef != "" {
					t.Errorf("task = %+v, want clear without display ref", task)
				}
				return &displayqueue.DispatchResponse{}, nil
			}),
	)

	if _, err := svc.Tick(ctx, batch()); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}

	snapshot.Publish(domain.EmptyCatalog())

	got, err := svc.Tick(ctx, batch())
	if err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	if got.Selection.Reason != domain.ReasonNoAdFound {
		t.Errorf("Reason = %q, want %q", got.Selection.Reason, domain.ReasonNoAdFound)
	}
	if got.Transition != domain.TransitionClear {
		t.Errorf("Transition = %q, want clear", got.Transition)
	}
}

func TestTickCanceledContext(t *testing.T) {
	svc := createTestService(t, 30, nil, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Tick(ctx, batch("a")); !errors.Is(err, context.Canceled) {
		t.Errorf("Tick() error = %v, want context.Canceled", err)
	}
	if svc.Stats().BatchCount != 0 {
		t.Error("canceled tick modified the window")
	}
}

func TestReset(t *testing.T) {
	svc := createTestService(t, 5, nil, nil, nil)
	ctx := context.Background()

	if _, err := svc.Tick(ctx, batch("a", "a")); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	svc.Reset(ctx)

	stats := svc.Stats()
	if stats.BatchCount != 0 || stats.ObservationCount != 0 {
		t.Errorf("Stats() after Reset = %+v, want empty", stats)
	}
	if stats.Capacity != 5 {
		t.Errorf("Capacity = %d, want 5", stats.Capacity)
	}
	if stats.Playing != "" {
		t.Errorf("Playing = %q, want empty", stats.Playing)
	}
}

// gatedContext parks the first lookup until released, holding a tick
// between aggregation and display.
type gatedContext struct {
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (g *gatedContext) Tags(_ context.Context) []domain.ContextTag {
	g.once.Do(func() {
		close(g.entered)
		<-g.release
	})
	return nil
}

func TestResetWaitsForInFlightTick(t *testing.T) {
	gate := &gatedContext{entered: make(chan struct{}), release: make(chan struct{})}
	svc := NewService(
		aggregation.NewSyncWindow(5),
		selection.NewEngine(selection.NewSnapshot(testCatalog(t))),
		gate,
		display.NewTracker(),
		nil,
		nil,
		nil,
	)
	ctx := context.Background()

	tickDone := make(chan error, 1)
	go func() {
		_, err := svc.Tick(ctx, batch("20s_female"))
		tickDone <- err
	}()
	<-gate.entered

	resetDone := make(chan struct{})
	go func() {
		svc.Reset(ctx)
		close(resetDone)
	}()

	select {
	case <-resetDone:
		t.Fatal("Reset() returned while a tick was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(gate.release)
	if err := <-tickDone; err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
	<-resetDone

	stats := svc.Stats()
	if stats.BatchCount != 0 || stats.ObservationCount != 0 {
		t.Errorf("Stats() after Reset = %+v, want empty window", stats)
	}
	if stats.Playing != "" {
		t.Errorf("Playing = %q, want empty after Reset", stats.Playing)
	}
}

type refreshingContext struct {
	refreshed int
}

func (r *refreshingContext) Tags(_ context.Context) []domain.ContextTag {
	if r.refreshed > 0 {
		return []domain.ContextTag{domain.TagRainyDay}
	}
	return []domain.ContextTag{domain.TagSunnyDay}
}

func (r *refreshingContext) Refresh() {
	r.refreshed++
}

func TestRefreshContext(t *testing.T) {
	t.Run("cached provider is refreshed", func(t *testing.T) {
		provider := &refreshingContext{}
		svc := NewService(
			aggregation.NewSyncWindow(5),
			selection.NewEngine(selection.NewSnapshot(testCatalog(t))),
			provider,
			display.NewTracker(),
			nil,
			nil,
			nil,
		)

		got := svc.RefreshContext(context.Background())
		if provider.refreshed != 1 {
			t.Errorf("Refresh() called %d times, want 1", provider.refreshed)
		}
		if !slices.Equal(got, []domain.ContextTag{domain.TagRainyDay}) {
			t.Errorf("RefreshContext() = %v, want [rainy_day]", got)
		}
	})

	t.Run("plain provider is queried again", func(t *testing.T) {
		svc := createTestService(t, 5, staticContext{domain.TagNightTime}, nil, nil)

		got := svc.RefreshContext(context.Background())
		if !slices.Equal(got, []domain.ContextTag{domain.TagNightTime}) {
			t.Errorf("RefreshContext() = %v, want [night_time]", got)
		}
	})

	t.Run("no provider", func(t *testing.T) {
		svc := createTestService(t, 5, nil, nil, nil)

		if got := svc.RefreshContext(context.Background()); got != nil {
			t.Errorf("RefreshContext() = %v, want nil", got)
		}
	})
}

func TestSelectIsStateless(t *testing.T) {
	svc := createTestService(t, 30, nil, nil, nil)
	ctx := context.Background()

	first := svc.Select(ctx, "20s_female", nil)
	second := svc.Select(ctx, "20s_female", nil)
	if first != second {
		t.Errorf("Select() = %+v then %+v, want identical", first, second)
	}
	if svc.Stats().BatchCount != 0 || svc.Stats().Playing != "" {
		t.Error("Select() modified service state")
	}
}
