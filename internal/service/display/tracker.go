package display

import (
	"sync"

	"github.com/KasumiMercury/primind-crowd-signage/internal/domain"
)

// Tracker remembers which advertisement is playing so the presentation layer
// restarts playback only when the selection changes.
type Tracker struct {
	mu      sync.Mutex
	current string
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Apply records the selection and returns the transition to perform.
func (t *Tracker) Apply(sel domain.Selection) domain.Transition {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !sel.Found() {
		if t.current == "" {
			return domain.TransitionIdle
		}
		t.current = ""
		return domain.TransitionClear
	}

	if sel.DisplayRef == t.current {
		return domain.TransitionKeep
	}

	t.current = sel.DisplayRef
	return domain.TransitionStart
}

// Current returns the display reference currently playing, or "".
func (t *Tracker) Current() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Reset forgets the playing advertisement.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = ""
}
