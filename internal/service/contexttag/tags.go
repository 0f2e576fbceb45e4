package contexttag

import (
	"time"

	"github.com/KasumiMercury/primind-crowd-signage/internal/domain"
)

// TimeOfDay buckets the local hour of t.
func TimeOfDay(t time.Time) domain.ContextTag {
	hour := t.Hour()

	switch {
	case hour >= 7 && hour < 10:
		return domain.TagMorningRush
	case hour >= 11 && hour < 14:
		return domain.TagLunchTime
	case hour >= 18 && hour < 20:
		return domain.TagEveningRush
	case hour >= 20:
		return domain.TagNightTime
	default:
		return domain.TagDayTime
	}
}

// WeatherTag maps a weather condition group to its context tag.
func WeatherTag(main string) domain.ContextTag {
	switch main {
	case "Rain":
		return domain.TagRainyDay
	case "Snow":
		return domain.TagSnowyDay
	case "Clear":
		return domain.TagSunnyDay
	case "Clouds":
		return domain.TagCloudyDay
	default:
		return domain.TagDefaultWeather
	}
}
