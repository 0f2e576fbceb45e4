package aggregation

import (
	"github.com/KasumiMercury/primind-crowd-signage/internal/domain"
)

// DefaultCapacity is the number of batches kept when no capacity is configured.
const DefaultCapacity = 30

// Window keeps the most recent observation batches in a fixed-size ring.
// It is not safe for concurrent use; see SyncWindow.
type Window struct {
	batches []domain.ObservationBatch
	head    int // index of the oldest batch
	size    int
}

// NewWindow creates an empty window. A non-positive capacity falls back to DefaultCapacity.
func NewWindow(capacity int) *Window {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Window{
		batches: make([]domain.ObservationBatch, capacity),
	}
}

func (w *Window) Capacity() int {
	return len(w.batches)
}

// Len returns the number of retained batches.
func (w *Window) Len() int {
	return w.size
}

// Add appends a batch, evicting the oldest one when the window is full.
// Blank tags are dropped; the batch is copied so later caller mutation has no effect.
func (w *Window) Add(batch domain.ObservationBatch) {
	stored := make(domain.ObservationBatch, 0, len(batch))
	for _, o := range batch {
		if !o.Valid() {
			continue
		}
		stored = append(stored, o)
	}

	capacity := len(w.batches)
	if w.size < capacity {
		w.batches[(w.head+w.size)%capacity] = stored
		w.size++
		return
	}

	w.batches[w.head] = stored
	w.head = (w.head + 1) % capacity
}

// DominantGroupAndStats flattens all retained batches, oldest first, and counts
// each tag. The dominant group is the tag with the highest count; ties go to the
// tag seen first in that scan. An empty window yields NoObservation and an empty table.
func (w *Window) DominantGroupAndStats() (domain.Observation, domain.FrequencyTable) {
	stats := make(domain.FrequencyTable)
	var order []domain.Observation

	w.each(func(batch domain.ObservationBatch) {
		for _, o := range batch {
			if _, seen := stats[o]; !seen {
				order = append(order, o)
			}
			stats[o]++
		}
	})

	if len(order) == 0 {
		return domain.NoObservation, stats
	}

	dominant := order[0]
	for _, o := range order[1:] {
		if stats[o] > stats[dominant] {
			dominant = o
		}
	}

	return dominant, stats
}

// ObservationCount returns the number of observations across retained batches.
func (w *Window) ObservationCount() int {
	total := 0
	w.each(func(batch domain.ObservationBatch) {
		total += len(batch)
	})
	return total
}

// retained returns copies of the held batches, oldest first.
func (w *Window) retained() []domain.ObservationBatch {
	out := make([]domain.ObservationBatch, 0, w.size)
	w.each(func(batch domain.ObservationBatch) {
		copied := make(domain.ObservationBatch, len(batch))
		copy(copied, batch)
		out = append(out, copied)
	})
	return out
}

// Reset drops every batch and keeps the capacity.
func (w *Window) Reset() {
	for i := range w.batches {
		w.batches[i] = nil
	}
	w.head = 0
	w.size = 0
}

func (w *Window) each(fn func(domain.ObservationBatch)) {
	capacity := len(w.batches)
	for i := 0; i < w.size; i++ {
		fn(w.batches[(w.head+i)%capacity])
	}
}
