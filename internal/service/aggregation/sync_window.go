package aggregation

import (
	"sync"

	"github.com/KasumiMercury/primind-crowd-signage/internal/domain"
)

// Snapshot is a consistent view of the window taken under one lock acquisition.
type Snapshot struct {
	Dominant         domain.Observation
	Stats            domain.FrequencyTable
	BatchCount       int
	ObservationCount int
	Capacity         int
}

// SyncWindow guards a Window with a single mutex so a producer and readers
// on different goroutines can share it.
type SyncWindow struct {
	mu     sync.Mutex
	window *Window
}

func NewSyncWindow(capacity int) *SyncWindow {
	return &SyncWindow{window: NewWindow(capacity)}
}

func (s *SyncWindow) Add(batch domain.ObservationBatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.window.Add(batch)
}

// AddAndSnapshot appends a batch and reads the resulting state atomically.
func (s *SyncWindow) AddAndSnapshot(batch domain.ObservationBatch) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.window.Add(batch)
	return s.snapshotLocked()
}

func (s *SyncWindow) DominantGroupAndStats() (domain.Observation, domain.FrequencyTable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.window.DominantGroupAndStats()
}

func (s *SyncWindow) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *SyncWindow) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.window.Reset()
}

func (s *SyncWindow) Capacity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.window.Capacity()
}

func (s *SyncWindow) snapshotLocked() Snapshot {
	dominant, stats := s.window.DominantGroupAndStats()
	return Snapshot{
		Dominant:         dominant,
		Stats:            stats,
		BatchCount:       s.window.Len(),
		ObservationCount: stats.Total(),
		Capacity:         s.window.Capacity(),
	}
}
