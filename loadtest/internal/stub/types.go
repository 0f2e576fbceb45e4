package stub

import "time"

// SeedRequest sets the weather each city reports for a run.
type SeedRequest struct {
	Cities []SeedCity `json:"cities"`
}

type SeedCity struct {
	Name        string  `json:"name" binding:"required"`
	Main        string  `json:"main" binding:"required"`
	Description string  `json:"description"`
	Temp        float64 `json:"temp"`
	// FailStatus makes lookups for the city answer with this HTTP status.
	FailStatus int `json:"fail_status"`
}

type WeatherEntry struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

type WeatherMain struct {
	Temp float64 `json:"temp"`
}

// WeatherResponse mirrors the OpenWeatherMap current-weather shape.
type WeatherResponse struct {
	Name    string         `json:"name"`
	Weather []WeatherEntry `json:"weather"`
	Main    WeatherMain    `json:"main"`
}

// DisplayTask is the body posted by the signage display sink client.
type DisplayTask struct {
	DecisionID string    `json:"decision_id"`
	Transition string    `json:"transition"`
	DisplayRef string    `json:"display_ref,omitempty"`
	AdID       string    `json:"ad_id,omitempty"`
	Reason     string    `json:"reason"`
	IssuedAt   time.Time `json:"issued_at"`
}

type DispatchResponse struct {
	Name       string `json:"name"`
	CreateTime string `json:"createTime"`
}

type DisplayLogResponse struct {
	RunID  string         `json:"run_id"`
	Count  int            `json:"count"`
	Counts map[string]int `json:"transitions"`
	Tasks  []DisplayTask  `json:"tasks"`
}
