package config

import "os"

const (
	displaySinkURLEnv    = "DISPLAY_SINK_URL"
	displayMaxRetriesEnv = "DISPLAY_MAX_RETRIES"

	defaultDisplayMaxRetries = 3
)

type DisplayConfig struct {
	SinkURL string

	GCloudProjectID  string
	GCloudLocationID string
	GCloudQueueID    string
	GCloudTargetURL  string

	MaxRetries int
}

func LoadDisplayConfig() DisplayConfig {
	return DisplayConfig{
		SinkURL: os.Getenv(displaySinkURLEnv),

		GCloudProjectID:  os.Getenv("GCLOUD_PROJECT_ID"),
		GCloudLocationID: os.Getenv("GCLOUD_LOCATION_ID"),
		GCloudQueueID:    os.Getenv("GCLOUD_QUEUE_ID"),
		GCloudTargetURL:  os.Getenv("GCLOUD_TARGET_URL"),

		MaxRetries: positiveIntEnv(displayMaxRetriesEnv, defaultDisplayMaxRetries),
	}
}
