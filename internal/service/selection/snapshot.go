package selection

import (
	"sync/atomic"

	"github.com/KasumiMercury/primind-crowd-signage/internal/domain"
)

var _ CatalogSource = (*Snapshot)(nil)

// Snapshot publishes catalog versions atomically. Readers always see either the
// previous or the next catalog, never a partially built one.
type Snapshot struct {
	current atomic.Pointer[domain.Catalog]
	version atomic.Uint64
}

// NewSnapshot starts with catalog, or an empty catalog when nil.
func NewSnapshot(catalog *domain.Catalog) *Snapshot {
	s := &Snapshot{}
	s.Publish(catalog)
	return s
}

func (s *Snapshot) Current() *domain.Catalog {
	return s.current.Load()
}

// Publish swaps in a new catalog and returns its version number.
func (s *Snapshot) Publish(catalog *domain.Catalog) uint64 {
	if catalog == nil {
		catalog = domain.EmptyCatalog()
	}
	s.current.Store(catalog)
	return s.version.Add(1)
}

func (s *Snapshot) Version() uint64 {
	return s.version.Load()
}
