package selection

import (
	"github.com/KasumiMercury/primind-crowd-signage/internal/domain"
)

// CatalogSource supplies the catalog snapshot a decision is evaluated against.
type CatalogSource interface {
	Current() *domain.Catalog
}

// Engine picks at most one advertisement per call using a fixed priority:
// crowd match, then context match in caller order, then the "all" default.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	source CatalogSource
}

func NewEngine(source CatalogSource) *Engine {
	return &Engine{source: source}
}

// Select evaluates the current catalog snapshot once for the whole call.
func (e *Engine) Select(dominant domain.Observation, contextTags []domain.ContextTag) domain.Selection {
	var catalog *domain.Catalog
	if e.source != nil {
		catalog = e.source.Current()
	}
	return Select(catalog, dominant, contextTags)
}

// Select runs the tiered selection against a fixed catalog.
// A nil or empty catalog always yields "No Ad Found". A tier whose first
// matching advertisement has no display reference falls through to the next tier.
func Select(catalog *domain.Catalog, dominant domain.Observation, contextTags []domain.ContextTag) domain.Selection {
	if !dominant.IsNone() {
		if ad, ok := playable(catalog, dominant.String()); ok {
			return matched(ad, domain.TierCrowd, domain.ReasonCrowd, dominant.String())
		}
	}

	for _, tag := range contextTags {
		if ad, ok := playable(catalog, tag.String()); ok {
			return matched(ad, domain.TierContext, domain.ContextReason(tag), tag.String())
		}
	}

	if ad, ok := playable(catalog, domain.DefaultTag); ok {
		return matched(ad, domain.TierDefault, domain.ReasonDefault, domain.DefaultTag)
	}

	return domain.NoSelection()
}

func playable(catalog *domain.Catalog, tag string) (domain.Advertisement, bool) {
	ad, ok := catalog.FindByTag(tag)
	if !ok || ad.DisplayRef == "" {
		return domain.Advertisement{}, false
	}
	return ad, true
}

func matched(ad domain.Advertisement, tier domain.Tier, reason domain.Reason, tag string) domain.Selection {
	return domain.Selection{
		DisplayRef: ad.DisplayRef,
		Reason:     reason,
		AdID:       ad.ID,
		Tier:       tier,
		MatchedTag: tag,
	}
}
