package domain

// Transition describes what the presentation layer should do after a decision.
type Transition string

const (
	// TransitionStart loads a new advertisement.
	TransitionStart Transition = "start"
	// TransitionKeep leaves the current advertisement playing.
	TransitionKeep Transition = "keep"
	// TransitionClear empties the display because nothing was selected.
	TransitionClear Transition = "clear"
	// TransitionIdle means nothing is selected and nothing was playing.
	TransitionIdle Transition = "idle"
)

func (t Transition) String() string {
	return string(t)
}

// RequiresDispatch reports whether the presentation layer must be notified.
func (t Transition) RequiresDispatch() bool {
	return t == TransitionStart || t == TransitionClear
}
