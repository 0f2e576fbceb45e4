package domain

// ContextTag describes ambient state such as a time-of-day or weather bucket.
type ContextTag string

func (t ContextTag) String() string {
	return string(t)
}

// Time-of-day buckets.
const (
	TagMorningRush ContextTag = "morning_rush"
	TagLunchTime   ContextTag = "lunch_time"
	TagEveningRush ContextTag = "evening_rush"
	TagNightTime   ContextTag = "night_time"
	TagDayTime     ContextTag = "day_time"
)

// Weather buckets.
const (
	TagRainyDay       ContextTag = "rainy_day"
	TagSnowyDay       ContextTag = "snowy_day"
	TagSunnyDay       ContextTag = "sunny_day"
	TagCloudyDay      ContextTag = "cloudy_day"
	TagDefaultWeather ContextTag = "default_weather"
	TagWeatherError   ContextTag = "api_error"
)

// ContextTagsFromStrings converts raw strings, dropping blanks.
func ContextTagsFromStrings(raw []string) []ContextTag {
	tags := make([]ContextTag, 0, len(raw))
	for _, r := range raw {
		if !Observation(r).Valid() {
			continue
		}
		tags = append(tags, ContextTag(r))
	}
	return tags
}

func ContextTagsToStrings(tags []ContextTag) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, string(t))
	}
	return out
}
