package entity

import "time"

// DefaultHumidity is used when the observed humidity cannot be determined.
const DefaultHumidity = 50

// WeatherRecord is the normalized observation published for downstream consumers.
// Values are built once by NewWeatherRecord and handed around by value.
type WeatherRecord struct {
	City        string  `json:"city"`
	Temperature float64 `json:"temperature"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"windSpeed"`
	Condition   string  `json:"condition"`
	Timestamp   string  `json:"timestamp"`
}

// NewWeatherRecord assembles a record, deriving the condition from the weather code and
// stamping it with assembledAt.
func NewWeatherRecord(city string, temperature float64, humidity int, windSpeed float64, weatherCode int, assembledAt time.Time) WeatherRecord {
	return WeatherRecord{
		City:        city,
		Temperature: temperature,
		Humidity:    humidity,
		WindSpeed:   windSpeed,
		Condition:   ConditionFromCode(weatherCode),
		Timestamp:   assembledAt.Format(time.RFC3339),
	}
}
