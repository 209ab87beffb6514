// Package weather proxies the Visual Crossing timeline API and reshapes its
// response into the structure the frontend consumes. Responses are cached in
// Redis keyed by normalized location.
package weather

// Condition is a textual weather state with its icon identifier.
type Condition struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
}

// Current describes conditions at the time of the request.
type Current struct {
	LastUpdated      string    `json:"last_updated"`
	LastUpdatedEpoch int64     `json:"last_updated_epoch"`
	TempC            float64   `json:"temp_c"`
	TempF            float64   `json:"temp_f"`
	FeelslikeC       float64   `json:"feelslike_c"`
	FeelslikeF       float64   `json:"feelslike_f"`
	Condition        Condition `json:"condition"`
	WindKph          float64   `json:"wind_kph"`
	WindDir          float64   `json:"wind_dir"`
	Humidity         float64   `json:"humidity"`
	PrecipMm         float64   `json:"precip_mm"`
	UV               float64   `json:"uv"`
}

// Hour is one hourly forecast slot.
type Hour struct {
	TimeEpoch  int64     `json:"time_epoch"`
	Time       string    `json:"time"`
	TempC      float64   `json:"temp_c"`
	IsDay      int       `json:"is_day"`
	Condition  Condition `json:"condition"`
	WindKph    float64   `json:"wind_kph"`
	Humidity   float64   `json:"humidity"`
	PrecipMm   float64   `json:"precip_mm"`
	FeelslikeC float64   `json:"feelslike_c"`
	UV         float64   `json:"uv"`
}

// Day aggregates a forecast day.
type Day struct {
	MaxtempC          float64   `json:"maxtemp_c"`
	MintempC          float64   `json:"mintemp_c"`
	AvgtempC          float64   `json:"avgtemp_c"`
	Condition         Condition `json:"condition"`
	DailyChanceOfRain float64   `json:"daily_chance_of_rain"`
	TotalprecipMm     float64   `json:"totalprecip_mm"`
	MaxwindKph        float64   `json:"maxwind_kph"`
	Avghumidity       float64   `json:"avghumidity"`
	UV                float64   `json:"uv"`
}

// Astro carries sunrise/sunset times for a day.
type Astro struct {
	Sunrise string `json:"sunrise"`
	Sunset  string `json:"sunset"`
}

// ForecastDay is one day of forecast with its hourly breakdown.
type ForecastDay struct {
	Date      string `json:"date"`
	DateEpoch int64  `json:"date_epoch"`
	Day       Day    `json:"day"`
	Astro     Astro  `json:"astro"`
	Hour      []Hour `json:"hour"`
}

// Forecast wraps the forecast days.
type Forecast struct {
	Forecastday []ForecastDay `json:"forecastday"`
}

// Response is the reshaped weather payload returned to clients.
type Response struct {
	ResolvedAddress string   `json:"resolvedAddress"`
	Current         Current  `json:"current"`
	Forecast        Forecast `json:"forecast"`
}

// Raw Visual Crossing timeline payload, decoded as-is before reshaping.

type vcConditions struct {
	Datetime      string  `json:"datetime"`
	DatetimeEpoch int64   `json:"datetimeEpoch"`
	Temp          float64 `json:"temp"`
	Feelslike     float64 `json:"feelslike"`
	Conditions    string  `json:"conditions"`
	Icon          string  `json:"icon"`
	Windspeed     float64 `json:"windspeed"`
	Winddir       float64 `json:"winddir"`
	Humidity      float64 `json:"humidity"`
	Precip        float64 `json:"precip"`
	Uvindex       float64 `json:"uvindex"`
}

type vcDay struct {
	vcConditions
	Tempmax    float64        `json:"tempmax"`
	Tempmin    float64        `json:"tempmin"`
	Precipprob float64        `json:"precipprob"`
	Sunrise    string         `json:"sunrise"`
	Sunset     string         `json:"sunset"`
	Hours      []vcConditions `json:"hours"`
}

type vcResponse struct {
	ResolvedAddress   string       `json:"resolvedAddress"`
	CurrentConditions vcConditions `json:"currentConditions"`
	Days              []vcDay      `json:"days"`
}
