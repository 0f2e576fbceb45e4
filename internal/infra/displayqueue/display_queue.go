package displayqueue

import "context"

//go:generate mockgen -source=display_queue.go -destination=mock.go -package=displayqueue

// DisplayQueue hands display changes to the player that renders them.
type DisplayQueue interface {
	Dispatch(ctx context.Context, task *DisplayTask) (*DispatchResponse, error)
}
