package domain

import (
	"cmp"
	"slices"
	"strings"
)

// Observation is an opaque demographic tag such as "20s_female".
// The zero value means "no observation".
type Observation string

const NoObservation Observation = ""

func (o Observation) String() string {
	return string(o)
}

func (o Observation) IsNone() bool {
	return o == NoObservation
}

// Valid reports whether the tag carries a printable, non-blank identifier.
func (o Observation) Valid() bool {
	return strings.TrimSpace(string(o)) != ""
}

// ObservationBatch holds the observations produced in a single tick.
type ObservationBatch []Observation

// NewObservationBatch converts raw tags into a batch, dropping blank tags.
func NewObservationBatch(tags []string) ObservationBatch {
	batch := make(ObservationBatch, 0, len(tags))
	for _, tag := range tags {
		o := Observation(tag)
		if !o.Valid() {
			continue
		}
		batch = append(batch, o)
	}
	return batch
}

// FrequencyTable maps each observation to its count across the window.
type FrequencyTable map[Observation]int

// FrequencyEntry is one row of a FrequencyTable.
type FrequencyEntry struct {
	Observation Observation `json:"observation"`
	Count       int         `json:"count"`
}

// Entries returns the table ordered by count descending, then tag ascending.
func (t FrequencyTable) Entries() []FrequencyEntry {
	entries := make([]FrequencyEntry, 0, len(t))
	for o, c := range t {
		entries = append(entries, FrequencyEntry{Observation: o, Count: c})
	}
	slices.SortFunc(entries, func(a, b FrequencyEntry) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Observation, b.Observation)
	})
	return entries
}

// Total returns the number of observations counted in the table.
func (t FrequencyTable) Total() int {
	total := 0
	for _, c := range t {
		total += c
	}
	return total
}

// AsStrings returns a copy keyed by plain strings, for JSON and metrics.
func (t FrequencyTable) AsStrings() map[string]int {
	out := make(map[string]int, len(t))
	for o, c := range t {
		out[string(o)] = c
	}
	return out
}
