package config

import (
	"fmt"
	"os"
	"time"
)

const (
	weatherAPIKeyEnv          = "WEATHER_API_KEY"
	weatherCityEnv            = "WEATHER_CITY"
	weatherAPIURLEnv          = "WEATHER_API_URL"
	weatherTimeoutEnv         = "WEATHER_TIMEOUT"
	contextRefreshIntervalEnv = "CONTEXT_REFRESH_INTERVAL"
	contextTimezoneEnv        = "CONTEXT_TIMEZONE"

	defaultWeatherCity            = "Seoul"
	defaultWeatherTimeout         = 5 * time.Second
	defaultContextRefreshInterval = 10 * time.Minute
)

type ContextConfig struct {
	WeatherAPIKey  string
	WeatherCity    string
	WeatherAPIURL  string
	WeatherTimeout time.Duration

	// RefreshInterval of zero keeps the first weather lookup for the process lifetime.
	RefreshInterval time.Duration
	Location        *time.Location
}

func LoadContextConfig() (*ContextConfig, error) {
	city := os.Getenv(weatherCityEnv)
	if city == "" {
		city = defaultWeatherCity
	}

	timeout := durationEnv(weatherTimeoutEnv, defaultWeatherTimeout)
	if timeout == 0 {
		timeout = defaultWeatherTimeout
	}

	location := time.Local
	if tz := os.Getenv(contextTimezoneEnv); tz != "" {
		loaded, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidTimezone, tz)
		}
		location = loaded
	}

	return &ContextConfig{
		WeatherAPIKey:   os.Getenv(weatherAPIKeyEnv),
		WeatherCity:     city,
		WeatherAPIURL:   os.Getenv(weatherAPIURLEnv),
		WeatherTimeout:  timeout,
		RefreshInterval: durationEnv(contextRefreshIntervalEnv, defaultContextRefreshInterval),
		Location:        location,
	}, nil
}

// WeatherEnabled reports whether a weather API key is configured.
func (c *ContextConfig) WeatherEnabled() bool {
	return c.WeatherAPIKey != ""
}
