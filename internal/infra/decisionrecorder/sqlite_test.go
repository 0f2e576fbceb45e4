package decisionrecorder

import (
	"context"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/KasumiMercury/primind-crowd-signage/internal/domain"
)

func tempRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()

	r, err := NewSQLiteRecorder(context.Background(), filepath.Join(t.TempDir(), "decisions.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRecorder() error = %v", err)
	}
	t.Cleanup(func() { r.Close() })

	return r
}

func TestSQLiteRecorderRoundTrip(t *testing.T) {
	r := tempRecorder(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	records := []domain.DecisionRecord{
		{
			DecisionID:       "d-1",
			RecordedAt:       base,
			DominantGroup:    "20s_female",
			ObservationCount: 12,
			WindowSize:       30,
			ContextTags:      []string{"morning_rush", "rainy_day"},
			AdID:             "ad_01",
			DisplayRef:       "ads/coffee.mp4",
			Reason:           "Targeted (Crowd)",
			Tier:             "crowd",
			Transition:       "start",
		},
		{
			DecisionID:  "d-2",
			RecordedAt:  base.Add(time.Second),
			Reason:      "No Ad Found",
			Tier:        "none",
			Transition:  "clear",
			ContextTags: nil,
		},
	}

	for _, rec := range records {
		if err := r.RecordDecision(ctx, rec); err != nil {
			t.Fatalf("RecordDecision(%s) error = %v", rec.DecisionID, err)
		}
	}

	got, err := r.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Recent() returned %d records, want 2", len(got))
	}
	if got[0].DecisionID != "d-2" || got[1].DecisionID != "d-1" {
		t.Errorf("order = [%s %s], want [d-2 d-1]", got[0].DecisionID, got[1].DecisionID)
	}

	first := got[1]
	if !first.RecordedAt.Equal(base) {
		t.Errorf("RecordedAt = %v, want %v", first.RecordedAt, base)
	}
	if !slices.Equal(first.ContextTags, []string{"morning_rush", "rainy_day"}) {
		t.Errorf("ContextTags = %v, want [morning_rush rainy_day]", first.ContextTags)
	}
	if first.ObservationCount != 12 || first.WindowSize != 30 {
		t.Errorf("counts = (%d, %d), want (12, 30)", first.ObservationCount, first.WindowSize)
	}
	if len(got[0].ContextTags) != 0 {
		t.Errorf("ContextTags = %v, want empty", got[0].ContextTags)
	}
}

func TestSQLiteRecorderRejectsDuplicateID(t *testing.T) {
	r := tempRecorder(t)
	ctx := context.Background()
	rec := domain.DecisionRecord{DecisionID: "dup", RecordedAt: time.Now()}

	if err := r.RecordDecision(ctx, rec); err != nil {
		t.Fatalf("RecordDecision() error = %v", err)
	}
	if err := r.RecordDecision(ctx, rec); err == nil {
		t.Error("RecordDecision() duplicate error = nil, want error")
	}
}

func TestSQLiteRecorderRecentLimit(t *testing.T) {
	r := tempRecorder(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	for i := range 5 {
		rec := domain.DecisionRecord{
			DecisionID: string(rune('a' + i)),
			RecordedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := r.RecordDecision(ctx, rec); err != nil {
			t.Fatalf("RecordDecision() error = %v", err)
		}
	}

	got, err := r.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 2 || got[0].DecisionID != "e" || got[1].DecisionID != "d" {
		t.Errorf("Recent(2) = %v, want [e d]", got)
	}
}
