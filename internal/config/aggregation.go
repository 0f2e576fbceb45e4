package config

const (
	aggregationWindowSizeEnv = "AGGREGATION_WINDOW_SIZE"

	defaultAggregationWindowSize = 30
)

type AggregationConfig struct {
	WindowSize int
}

func LoadAggregationConfig() *AggregationConfig {
	return &AggregationConfig{
		WindowSize: positiveIntEnv(aggregationWindowSizeEnv, defaultAggregationWindowSize),
	}
}
