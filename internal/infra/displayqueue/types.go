package displayqueue

import "time"

// DisplayTask asks the player to start or clear playback.
type DisplayTask struct {
	DecisionID string    `json:"decision_id"`
	Transition string    `json:"transition"`
	DisplayRef string    `json:"display_ref,omitempty"`
	AdID       string    `json:"ad_id,omitempty"`
	Reason     string    `json:"reason"`
	IssuedAt   time.Time `json:"issued_at"`
}

type DispatchResponse struct {
	Name       string    `json:"name"`
	CreateTime time.Time `json:"create_time"`
}

type sinkResponse struct {
	Name       string `json:"name"`
	CreateTime string `json:"createTime"`
}
