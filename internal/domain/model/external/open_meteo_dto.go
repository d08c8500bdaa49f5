package external

import (
	"errors"
	"fmt"
)

// ForecastResponse represents the subset of the Open-Meteo forecast response the collector reads
type ForecastResponse struct {
	Latitude       float64            `json:"latitude"`
	Longitude      float64            `json:"longitude"`
	CurrentWeather *CurrentWeatherDTO `json:"current_weather"`
	Hourly         *HourlyDTO         `json:"hourly"`
}

// CurrentWeatherDTO represents the current_weather block. Pointers distinguish absent fields from zero values.
type CurrentWeatherDTO struct {
	Temperature *float64 `json:"temperature"`
	WindSpeed   *float64 `json:"windspeed"`
	WeatherCode *int     `json:"weathercode"`
	Time        *string  `json:"time"`
}

// HourlyDTO represents the hourly block; entries of the humidity series may be null
type HourlyDTO struct {
	Time               []string   `json:"time"`
	RelativeHumidity2m []*float64 `json:"relativehumidity_2m"`
}

// APIErrorResponse represents the error body returned by Open-Meteo
type APIErrorResponse struct {
	Error  bool   `json:"error"`
	Reason string `json:"reason"`
}

// ErrMalformedPayload is returned by Validate when the current weather block is incomplete
var ErrMalformedPayload = errors.New("malformed weather payload")

// Validate checks the fields the collector cannot default are present
func (r *ForecastResponse) Validate() error {
	if r == nil || r.CurrentWeather == nil {
		return fmt.Errorf("%w: current_weather is missing", ErrMalformedPayload)
	}
	current := r.CurrentWeather
	if current.Temperature == nil || current.WindSpeed == nil || current.WeatherCode == nil || current.Time == nil {
		return fmt.Errorf("%w: current_weather requires temperature, windspeed, weathercode and time", ErrMalformedPayload)
	}
	return nil
}
