package api

import (
	"context"
	"fmt"
	"strconv"

	"weather-collector/internal/config"
	"weather-collector/internal/domain/model/external"
	"weather-collector/pkg/http"
)

// weatherGatewayImpl implements the WeatherGateway interface over the Open-Meteo forecast API
type weatherGatewayImpl struct {
	httpClient *http.Client
	path       string
	latitude   float64
	longitude  float64
}

// NewWeatherGateway creates a new instance of WeatherGateway with HTTP client
func NewWeatherGateway(cfg config.WeatherConfig, clientOptions http.ClientOptions) WeatherGateway {
	if clientOptions.ReadTimeout == 0 {
		clientOptions.ReadTimeout = cfg.Timeout
	}
	if clientOptions.ConnectionTimeout == 0 {
		clientOptions.ConnectionTimeout = cfg.Timeout
	}

	return &weatherGatewayImpl{
		httpClient: http.NewHttpClient(cfg.BaseURL, clientOptions),
		path:       cfg.Path,
		latitude:   cfg.Latitude,
		longitude:  cfg.Longitude,
	}
}

// GetCurrentWeather gets the current weather and the hourly humidity series
func (w *weatherGatewayImpl) GetCurrentWeather(ctx context.Context) (*external.ForecastResponse, error) {
	successResponse, errResp, status, err := w.httpClient.Request().
		WithMethod(http.GET).
		WithPath(w.path).
		WithQueryParams(map[string]string{
			"latitude":        strconv.FormatFloat(w.latitude, 'f', -1, 64),
			"longitude":       strconv.FormatFloat(w.longitude, 'f', -1, 64),
			"current_weather": "true",
			"hourly":          "relativehumidity_2m",
		}).
		WithSuccessResp(&external.ForecastResponse{}).
		WithErrorResp(&external.APIErrorResponse{}).
		Execute(ctx)

	if err != nil {
		if errResp != nil {
			errorResponse := errResp.(*external.APIErrorResponse)
			return nil, fmt.Errorf("weather api returned status %d: %s", status, errorResponse.Reason)
		}
		return nil, err
	}

	forecast, ok := successResponse.(*external.ForecastResponse)
	if !ok || forecast == nil {
		return nil, fmt.Errorf("weather api returned status %d without a forecast", status)
	}
	return forecast, nil
}
