package selection

import (
	"sync"
	"testing"

	"github.com/KasumiMercury/primind-crowd-signage/internal/domain"
)

func mustCatalog(t *testing.T, ads ...domain.Advertisement) *domain.Catalog {
	t.Helper()
	catalog, err := domain.NewCatalog(ads...)
	if err != nil {
		t.Fatalf("failed to build catalog: %v", err)
	}
	return catalog
}

func tieredCatalog(t *testing.T) *domain.Catalog {
	return mustCatalog(t,
		domain.NewAdvertisement("olive_young", "assets/ads/olive_young.mp4", []string{"20s_female"}),
		domain.NewAdvertisement("umbrella", "assets/ads/umbrella.mp4", []string{"rainy_day"}),
		domain.NewAdvertisement("coffee", "assets/ads/coffee.mp4", []string{"morning_rush"}),
		domain.NewAdvertisement("brand", "assets/ads/brand.mp4", []string{"all"}),
	)
}

func TestSelect_TierPrecedence(t *testing.T) {
	catalog := tieredCatalog(t)

	tests := []struct {
		name        string
		catalog     *domain.Catalog
		dominant    domain.Observation
		contextTags []domain.ContextTag
		wantRef     string
		wantReason  domain.Reason
		wantTier    domain.Tier
	}{
		{
			name:        "crowd match wins over context",
			catalog:     catalog,
			dominant:    "20s_female",
			contextTags: []domain.ContextTag{domain.TagRainyDay},
			wantRef:     "assets/ads/olive_young.mp4",
			wantReason:  "Targeted (Crowd)",
			wantTier:    domain.TierCrowd,
		},
		{
			name:        "no dominant group uses context",
			catalog:     catalog,
			dominant:    domain.NoObservation,
			contextTags: []domain.ContextTag{domain.TagRainyDay},
			wantRef:     "assets/ads/umbrella.mp4",
			wantReason:  "Targeted (Context: rainy_day)",
			wantTier:    domain.TierContext,
		},
		{
			name:        "unmatched dominant group falls back to context",
			catalog:     catalog,
			dominant:    "60s_male",
			contextTags: []domain.ContextTag{domain.TagSunnyDay, domain.TagMorningRush},
			wantRef:     "assets/ads/coffee.mp4",
			wantReason:  "Targeted (Context: morning_rush)",
			wantTier:    domain.TierContext,
		},
		{
			name:        "no context falls back to default",
			catalog:     catalog,
			dominant:    domain.NoObservation,
			contextTags: nil,
			wantRef:     "assets/ads/brand.mp4",
			wantReason:  "Default (All)",
			wantTier:    domain.TierDefault,
		},
		{
			name:       "nothing matches",
			catalog:    mustCatalog(t, domain.NewAdvertisement("olive_young", "assets/ads/olive_young.mp4", []string{"20s_female"})),
			dominant:   domain.NoObservation,
			wantRef:    "",
			wantReason: "No Ad Found",
			wantTier:   domain.TierNone,
		},
		{
			name:        "empty catalog",
			catalog:     domain.EmptyCatalog(),
			dominant:    "20s_female",
			contextTags: []domain.ContextTag{domain.TagRainyDay},
			wantRef:     "",
			wantReason:  "No Ad Found",
			wantTier:    domain.TierNone,
		},
		{
			name:        "nil catalog",
			catalog:     nil,
			dominant:    "20s_female",
			contextTags: []domain.ContextTag{domain.TagRainyDay},
			wantRef:     "",
			wantReason:  "No Ad Found",
			wantTier:    domain.TierNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Select(tt.catalog, tt.dominant, tt.contextTags)

			if got.DisplayRef != tt.wantRef {
				t.Errorf("DisplayRef = %q, want %q", got.DisplayRef, tt.wantRef)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", got.Reason, tt.wantReason)
			}
			if got.Tier != tt.wantTier {
				t.Errorf("Tier = %q, want %q", got.Tier, tt.wantTier)
			}
			if got.Found() != (tt.wantRef != "") {
				t.Errorf("Found() = %v", got.Found())
			}
		})
	}
}

func TestSelect_ContextOrderSensitivity(t *testing.T) {
	catalog := tieredCatalog(t)

	got := Select(catalog, domain.NoObservation, []domain.ContextTag{domain.TagRainyDay, domain.TagMorningRush})
	if got.AdID != "umbrella" {
		t.Errorf("rainy first: AdID = %q, want umbrella", got.AdID)
	}

	got = Select(catalog, domain.NoObservation, []domain.ContextTag{domain.TagMorningRush, domain.TagRainyDay})
	if got.AdID != "coffee" {
		t.Errorf("morning first: AdID = %q, want coffee", got.AdID)
	}
	if got.MatchedTag != "morning_rush" {
		t.Errorf("MatchedTag = %q, want morning_rush", got.MatchedTag)
	}
}

func TestSelect_FirstInsertedAdWinsSharedTag(t *testing.T) {
	catalog := mustCatalog(t,
		domain.NewAdvertisement("zeta", "assets/ads/zeta.mp4", []string{"20s_female", "all"}),
		domain.NewAdvertisement("alpha", "assets/ads/alpha.mp4", []string{"20s_female", "all"}),
	)

	for i := 0; i < 20; i++ {
		got := Select(catalog, "20s_female", nil)
		if got.AdID != "zeta" {
			t.Fatalf("iteration %d: AdID = %q, want zeta", i, got.AdID)
		}
	}

	got := Select(catalog, domain.NoObservation, nil)
	if got.AdID != "zeta" || got.Reason != domain.ReasonDefault {
		t.Errorf("default: got %+v", got)
	}
}

func TestSelect_AdWithoutDisplayRefFallsThrough(t *testing.T) {
	catalog := mustCatalog(t,
		domain.NewAdvertisement("olive_young", "", []string{"20s_female"}),
		domain.NewAdvertisement("umbrella", "rain.mp4", []string{"rainy_day"}),
		domain.NewAdvertisement("brand", "", []string{"all"}),
	)

	tests := []struct {
		name        string
		dominant    domain.Observation
		contextTags []domain.ContextTag
		wantRef     string
		wantReason  domain.Reason
		wantTier    domain.Tier
	}{
		{
			name:        "crowd ad without ref yields to context",
			dominant:    "20s_female",
			contextTags: []domain.ContextTag{domain.TagRainyDay},
			wantRef:     "rain.mp4",
			wantReason:  "Targeted (Context: rainy_day)",
			wantTier:    domain.TierContext,
		},
		{
			name:       "default ad without ref yields no ad",
			dominant:   domain.NoObservation,
			wantReason: domain.ReasonNoAdFound,
			wantTier:   domain.TierNone,
		},
		{
			name:       "crowd and default without ref yield no ad",
			dominant:   "20s_female",
			wantReason: domain.ReasonNoAdFound,
			wantTier:   domain.TierNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Select(catalog, tt.dominant, tt.contextTags)

			if got.DisplayRef != tt.wantRef {
				t.Errorf("DisplayRef = %q, want %q", got.DisplayRef, tt.wantRef)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", got.Reason, tt.wantReason)
			}
			if got.Tier != tt.wantTier {
				t.Errorf("Tier = %q, want %q", got.Tier, tt.wantTier)
			}
			if got.Found() != (tt.wantRef != "") {
				t.Errorf("Found() = %v, want %v", got.Found(), tt.wantRef != "")
			}
		})
	}
}

func TestSelect_Idempotent(t *testing.T) {
	catalog := tieredCatalog(t)
	tags := []domain.ContextTag{domain.TagNightTime, domain.TagRainyDay}

	first := Select(catalog, "50s_male", tags)
	for i := 0; i < 20; i++ {
		if got := Select(catalog, "50s_male", tags); got != first {
			t.Fatalf("call %d: got %+v, want %+v", i, got, first)
		}
	}
}

func TestEngine_UsesPublishedSnapshot(t *testing.T) {
	snapshot := NewSnapshot(nil)
	engine := NewEngine(snapshot)

	if got := engine.Select("20s_female", nil); got.Found() {
		t.Fatalf("empty snapshot selected %+v", got)
	}

	version := snapshot.Publish(tieredCatalog(t))
	if version != 2 {
		t.Errorf("Publish() version = %d, want 2", version)
	}

	got := engine.Select("20s_female", nil)
	if got.AdID != "olive_young" {
		t.Errorf("AdID = %q, want olive_young", got.AdID)
	}
}

func TestEngine_NilSource(t *testing.T) {
	engine := NewEngine(nil)
	if got := engine.Select("20s_female", nil); got.Reason != domain.ReasonNoAdFound {
		t.Errorf("Reason = %q, want %q", got.Reason, domain.ReasonNoAdFound)
	}
}

func TestSnapshot_ConcurrentPublishAndSelect(t *testing.T) {
	first := mustCatalog(t, domain.NewAdvertisement("a", "a.mp4", []string{"all"}))
	second := mustCatalog(t, domain.NewAdvertisement("b", "b.mp4", []string{"all"}))

	snapshot := NewSnapshot(first)
	engine := NewEngine(snapshot)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			if i%2 == 0 {
				snapshot.Publish(second)
			} else {
				snapshot.Publish(first)
			}
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				got := engine.Select(domain.NoObservation, nil)
				if got.AdID != "a" && got.AdID != "b" {
					t.Errorf("unexpected AdID %q", got.AdID)
					return
				}
			}
		}()
	}
	wg.Wait()
}
