package api

import (
	"context"

	"weather-collector/internal/domain/model/external"
)

// WeatherGateway defines the interface for weather-related external API calls
type WeatherGateway interface {
	// GetCurrentWeather issues one forecast request for the configured coordinates,
	// asking for the current weather block and the hourly relative humidity series.
	GetCurrentWeather(ctx context.Context) (*external.ForecastResponse, error)
}
