package domain

import "fmt"

// DefaultTag marks an advertisement as the catch-all fallback.
const DefaultTag = "all"

// Advertisement is a single catalog entry.
type Advertisement struct {
	ID         string
	DisplayRef string
	Tags       []string

	tagSet map[string]struct{}
}

func NewAdvertisement(id, displayRef string, tags []string) Advertisement {
	tagSet := make(map[string]struct{}, len(tags))
	copied := make([]string, 0, len(tags))
	for _, tag := range tags {
		if _, dup := tagSet[tag]; dup {
			continue
		}
		tagSet[tag] = struct{}{}
		copied = append(copied, tag)
	}

	return Advertisement{
		ID:         id,
		DisplayRef: displayRef,
		Tags:       copied,
		tagSet:     tagSet,
	}
}

func (a Advertisement) HasTag(tag string) bool {
	if a.tagSet == nil {
		for _, t := range a.Tags {
			if t == tag {
				return true
			}
		}
		return false
	}
	_, ok := a.tagSet[tag]
	return ok
}

// Catalog is an immutable, insertion-ordered set of advertisements keyed by ID.
// Lookups by tag walk the entries in insertion order, so the first matching
// advertisement always wins.
type Catalog struct {
	ads   []Advertisement
	index map[string]int
}

// NewCatalog builds a catalog from ads in the given order.
// Duplicate IDs are rejected.
func NewCatalog(ads ...Advertisement) (*Catalog, error) {
	c := &Catalog{
		ads:   make([]Advertisement, 0, len(ads)),
		index: make(map[string]int, len(ads)),
	}

	for _, ad := range ads {
		if ad.ID == "" {
			return nil, ErrAdvertisementIDMissing
		}
		if _, exists := c.index[ad.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAdvertisement, ad.ID)
		}
		if ad.tagSet == nil {
			ad = NewAdvertisement(ad.ID, ad.DisplayRef, ad.Tags)
		}
		c.index[ad.ID] = len(c.ads)
		c.ads = append(c.ads, ad)
	}

	return c, nil
}

// EmptyCatalog returns a catalog with no entries.
func EmptyCatalog() *Catalog {
	return &Catalog{index: map[string]int{}}
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.ads)
}

func (c *Catalog) Get(id string) (Advertisement, bool) {
	if c == nil {
		return Advertisement{}, false
	}
	i, ok := c.index[id]
	if !ok {
		return Advertisement{}, false
	}
	return c.ads[i], true
}

// FindByTag returns the first advertisement, in insertion order, carrying tag.
func (c *Catalog) FindByTag(tag string) (Advertisement, bool) {
	if c == nil {
		return Advertisement{}, false
	}
	for _, ad := range c.ads {
		if ad.HasTag(tag) {
			return ad, true
		}
	}
	return Advertisement{}, false
}

// Advertisements returns a copy of the entries in insertion order.
func (c *Catalog) Advertisements() []Advertisement {
	if c == nil {
		return nil
	}
	out := make([]Advertisement, len(c.ads))
	copy(out, c.ads)
	return out
}
