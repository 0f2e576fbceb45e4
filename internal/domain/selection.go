package domain

import "fmt"

// Tier identifies which priority level produced a selection.
type Tier string

const (
	TierCrowd   Tier = "crowd"
	TierContext Tier = "context"
	TierDefault Tier = "default"
	TierNone    Tier = "none"
)

func (t Tier) String() string {
	return string(t)
}

// Reason is the human-readable justification shown next to the advertisement.
type Reason string

const (
	ReasonCrowd     Reason = "Targeted (Crowd)"
	ReasonDefault   Reason = "Default (All)"
	ReasonNoAdFound Reason = "No Ad Found"
)

// ContextReason formats the reason for a context-tier match.
func ContextReason(tag ContextTag) Reason {
	return Reason(fmt.Sprintf("Targeted (Context: %s)", tag))
}

func (r Reason) String() string {
	return string(r)
}

// Selection is the result of one decision call.
// DisplayRef is empty when no advertisement was found.
type Selection struct {
	DisplayRef string
	Reason     Reason
	AdID       string
	Tier       Tier
	MatchedTag string
}

func (s Selection) Found() bool {
	return s.DisplayRef != ""
}

func NoSelection() Selection {
	return Selection{
		Reason: ReasonNoAdFound,
		Tier:   TierNone,
	}
}
