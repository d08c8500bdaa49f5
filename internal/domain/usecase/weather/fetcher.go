package weather

import (
	"context"
	"math"
	"time"

	"weather-collector/internal/domain/entity"
	"weather-collector/internal/domain/gateway/api"
	"weather-collector/internal/domain/model/external"
	"weather-collector/pkg/log"
	"weather-collector/pkg/msg"

	"go.uber.org/zap"
)

type weatherFetcher struct {
	gateway api.WeatherGateway
	city    string
	clock   func() time.Time
}

// NewWeatherFetcher builds a Fetcher labelling records with city. A nil clock uses UTC wall time.
func NewWeatherFetcher(gateway api.WeatherGateway, city string, clock func() time.Time) Fetcher {
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &weatherFetcher{
		gateway: gateway,
		city:    city,
		clock:   clock,
	}
}

func (f *weatherFetcher) Fetch(ctx context.Context) (entity.WeatherRecord, bool) {
	log.Info(msg.GetMessage("weather.fetch.start", f.city), zap.String("city", f.city))

	response, err := f.gateway.GetCurrentWeather(ctx)
	if err == nil {
		err = response.Validate()
	}
	if err != nil {
		log.Error(msg.GetMessage("weather.fetch.failed", f.city, err), zap.String("city", f.city), zap.Error(err))
		return entity.WeatherRecord{}, false
	}

	current := response.CurrentWeather
	humidity, found := humidityAt(response.Hourly, *current.Time)
	if !found {
		log.Warn(msg.GetMessage("weather.fetch.humidity-fallback", *current.Time, entity.DefaultHumidity))
		humidity = entity.DefaultHumidity
	}

	record := entity.NewWeatherRecord(f.city, *current.Temperature, humidity, *current.WindSpeed, *current.WeatherCode, f.clock())

	log.Info(msg.GetMessage("weather.fetch.success", f.city, record.Condition),
		zap.String("city", f.city),
		zap.Float64("temperature", record.Temperature),
		zap.Int("humidity", record.Humidity))
	return record, true
}

// humidityAt looks up the hourly humidity observed at observedAt.
// Only positions present in both hourly series are considered.
func humidityAt(hourly *external.HourlyDTO, observedAt string) (int, bool) {
	if hourly == nil {
		return 0, false
	}

	pairs := min(len(hourly.Time), len(hourly.RelativeHumidity2m))
	byTime := make(map[string]*float64, pairs)
	for i := 0; i < pairs; i++ {
		if _, seen := byTime[hourly.Time[i]]; !seen {
			byTime[hourly.Time[i]] = hourly.RelativeHumidity2m[i]
		}
	}

	value, ok := byTime[observedAt]
	if !ok || value == nil || math.IsNaN(*value) {
		return 0, false
	}

	humidity := int(math.Round(*value))
	return max(0, min(100, humidity)), true
}
