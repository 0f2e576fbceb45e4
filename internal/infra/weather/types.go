package weather

// Conditions is the subset of a current-weather response the service uses.
type Conditions struct {
	City        string
	Main        string
	Description string
	TempCelsius float64
}

// UnknownCondition is reported when the response carries no weather entry.
const UnknownCondition = "Unknown"

type currentWeatherResponse struct {
	Name    string `json:"name"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
}

func (r *currentWeatherResponse) toConditions(city string) *Conditions {
	c := &Conditions{
		City:        city,
		Main:        UnknownCondition,
		TempCelsius: r.Main.Temp,
	}
	if r.Name != "" {
		c.City = r.Name
	}
	if len(r.Weather) > 0 && r.Weather[0].Main != "" {
		c.Main = r.Weather[0].Main
		c.Description = r.Weather[0].Description
	}

	return c
}
