package handler

import (
	"github.com/KasumiMercury/primind-crowd-signage/internal/domain"
	"github.com/KasumiMercury/primind-crowd-signage/internal/service/pipeline"
)

type ObservationRequest struct {
	Tags []string `json:"tags"`
}

type SelectRequest struct {
	DominantGroup string   `json:"dominant_group"`
	ContextTags   []string `json:"context_tags"`
}

type SelectionResponse struct {
	DisplayRef *string `json:"display_ref"`
	AdID       string  `json:"ad_id,omitempty"`
	Reason     string  `json:"reason"`
	Tier       string  `json:"tier"`
	MatchedTag string  `json:"matched_tag,omitempty"`
}

type WindowResponse struct {
	Batches      int `json:"batches"`
	Observations int `json:"observations"`
	Capacity     int `json:"capacity"`
}

type DecisionResponse struct {
	DecisionID    string                  `json:"decision_id"`
	DominantGroup *string                 `json:"dominant_group"`
	Stats         []domain.FrequencyEntry `json:"stats"`
	Window        WindowResponse          `json:"window"`
	ContextTags   []string                `json:"context_tags"`
	Selection     SelectionResponse       `json:"selection"`
	Transition    string                  `json:"transition"`
	Dispatched    bool                    `json:"dispatched"`
}

type StatsResponse struct {
	DominantGroup *string                 `json:"dominant_group"`
	Stats         []domain.FrequencyEntry `json:"stats"`
	Window        WindowResponse          `json:"window"`
	Playing       *string                 `json:"playing"`
}

type ContextResponse struct {
	ContextTags []string `json:"context_tags"`
}

type AdvertisementResponse struct {
	ID       string   `json:"id"`
	FilePath string   `json:"file_path"`
	Tags     []string `json:"tags"`
}

type CatalogResponse struct {
	Source         string                  `json:"source"`
	Version        uint64                  `json:"version"`
	Writable       bool                    `json:"writable"`
	Advertisements []AdvertisementResponse `json:"advertisements"`
}

type CatalogUpdateResponse struct {
	Version        uint64 `json:"version"`
	Advertisements int    `json:"advertisements"`
}

// optional renders "" as JSON null.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toSelectionResponse(sel domain.Selection) SelectionResponse {
	return SelectionResponse{
		DisplayRef: optional(sel.DisplayRef),
		AdID:       sel.AdID,
		Reason:     sel.Reason.String(),
		Tier:       sel.Tier.String(),
		MatchedTag: sel.MatchedTag,
	}
}

func toDecisionResponse(r *pipeline.TickResult) DecisionResponse {
	return DecisionResponse{
		DecisionID:    r.DecisionID,
		DominantGroup: optional(r.Dominant.String()),
		Stats:         r.Stats.Entries(),
		Window: WindowResponse{
			Batches:      r.BatchCount,
			Observations: r.ObservationCount,
			Capacity:     r.Capacity,
		},
		ContextTags: contextStrings(r.ContextTags),
		Selection:   toSelectionResponse(r.Selection),
		Transition:  r.Transition.String(),
		Dispatched:  r.Dispatched,
	}
}

func toStatsResponse(s pipeline.Stats) StatsResponse {
	return StatsResponse{
		DominantGroup: optional(s.Dominant.String()),
		Stats:         s.Stats.Entries(),
		Window: WindowResponse{
			Batches:      s.BatchCount,
			Observations: s.ObservationCount,
			Capacity:     s.Capacity,
		},
		Playing: optional(s.Playing),
	}
}

func contextStrings(tags []domain.ContextTag) []string {
	return domain.ContextTagsToStrings(tags)
}
